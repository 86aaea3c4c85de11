package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Skotchmaster/skz_roster/internal/events"
	"github.com/Skotchmaster/skz_roster/internal/models"
	"github.com/Skotchmaster/skz_roster/internal/repo"
	"github.com/Skotchmaster/skz_roster/internal/transport"
	"github.com/Skotchmaster/skz_roster/pkg/logging"
)

const searchLimit = 50

type RosterRepo interface {
	ListMembers(ctx context.Context) ([]models.Member, error)
	FindMember(ctx context.Context, id uint) (*models.Member, error)
	CreateMember(ctx context.Context, m *models.Member) error
	SaveMember(ctx context.Context, m *models.Member) error
	DeleteMember(ctx context.Context, id uint) error
	SearchMembers(ctx context.Context, q string) ([]models.Member, error)
	MemberPositions(ctx context.Context, memberID uint) ([]models.Position, error)
	MemberSubUnits(ctx context.Context, memberID uint) ([]models.SubUnit, error)

	ListPets(ctx context.Context) ([]models.Pet, error)
	FindPet(ctx context.Context, id uint) (*models.Pet, error)
	PetsByOwner(ctx context.Context, ownerID uint) ([]models.Pet, error)
	CountPetsByOwner(ctx context.Context, ownerID uint) (int64, error)
	CreatePet(ctx context.Context, p *models.Pet) error
	SavePet(ctx context.Context, p *models.Pet) error
	DeletePet(ctx context.Context, id uint) error

	ListPositions(ctx context.Context) ([]models.Position, error)
	FindPosition(ctx context.Context, id uint) (*models.Position, error)
	CreatePosition(ctx context.Context, p *models.Position) error
	SavePosition(ctx context.Context, p *models.Position) error
	DeletePosition(ctx context.Context, id uint) error
	AddMemberToPosition(ctx context.Context, positionID, memberID uint) error
	RemoveMemberFromPosition(ctx context.Context, positionID, memberID uint) error
	PositionMemberIDs(ctx context.Context, positionID uint) ([]uint, error)

	ListSubUnits(ctx context.Context) ([]models.SubUnit, error)
	FindSubUnit(ctx context.Context, id uint) (*models.SubUnit, error)
	CreateSubUnit(ctx context.Context, s *models.SubUnit) error
	SaveSubUnit(ctx context.Context, s *models.SubUnit) error
	DeleteSubUnit(ctx context.Context, id uint) error
	AddMemberToSubUnit(ctx context.Context, subUnitID, memberID uint) error
	RemoveMemberFromSubUnit(ctx context.Context, subUnitID, memberID uint) error
	SubUnitMemberIDs(ctx context.Context, subUnitID uint) ([]uint, error)
}

type MemberIndex interface {
	Index(ctx context.Context, m models.Member) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, q string, from, size int) (int64, []models.Member, error)
}

// RosterService owns members, pets, positions and sub-units. Index is
// optional; without it search runs on the database.
type RosterService struct {
	Repo   RosterRepo
	Index  MemberIndex
	Events events.Publisher
}

func (s *RosterService) ListMembers(ctx context.Context) ([]models.Member, error) {
	return orInternal(s.Repo.ListMembers(ctx))
}

func (s *RosterService) GetMember(ctx context.Context, id uint) (*models.Member, error) {
	m, err := s.Repo.FindMember(ctx, id)
	if err != nil {
		return nil, missing(err, "Member not found")
	}
	return m, nil
}

func (s *RosterService) CreateMember(ctx context.Context, req transport.MemberRequest) (*models.Member, error) {
	if trimmed(req.StageName) == "" {
		return nil, invalid("Stage name is required")
	}
	var m models.Member
	applyMember(&m, req)
	if err := s.Repo.CreateMember(ctx, &m); err != nil {
		return nil, internal(err)
	}
	s.memberChanged(ctx, events.MemberCreated, m)
	return &m, nil
}

func (s *RosterService) UpdateMember(ctx context.Context, id uint, req transport.MemberRequest) (*models.Member, error) {
	m, err := s.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.StageName != nil && trimmed(req.StageName) == "" {
		return nil, invalid("Stage name cannot be empty")
	}
	applyMember(m, req)
	if err := s.Repo.SaveMember(ctx, m); err != nil {
		return nil, missing(err, "Member not found")
	}
	s.memberChanged(ctx, events.MemberUpdated, *m)
	return m, nil
}

// DeleteMember refuses while the member still owns pets.
func (s *RosterService) DeleteMember(ctx context.Context, id uint) error {
	l := logging.FromContext(ctx).With("svc", "roster.delete_member", "member_id", id)

	if _, err := s.GetMember(ctx, id); err != nil {
		return err
	}
	n, err := s.Repo.CountPetsByOwner(ctx, id)
	if err != nil {
		return internal(err)
	}
	if n > 0 {
		return conflict("Member still owns pets")
	}
	if err := s.Repo.DeleteMember(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("Member not found")
		}
		return internal(err)
	}

	if s.Index != nil {
		if err := s.Index.Delete(ctx, id); err != nil {
			l.Warn("index_delete_failed", "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicRoster, id, events.New(events.MemberDeleted, id, nil))
	return nil
}

func (s *RosterService) SearchMembers(ctx context.Context, q string) ([]models.Member, error) {
	l := logging.FromContext(ctx).With("svc", "roster.search_members")

	q = strings.TrimSpace(q)
	if q == "" {
		return nil, invalid("Search query is required")
	}
	if s.Index != nil {
		_, found, err := s.Index.Search(ctx, q, 0, searchLimit)
		if err == nil {
			return found, nil
		}
		l.Warn("index_search_failed", "reason", "falling back to database", "error", err)
	}
	return orInternal(s.Repo.SearchMembers(ctx, q))
}

func (s *RosterService) MemberPositions(ctx context.Context, id uint) ([]models.Position, error) {
	if _, err := s.GetMember(ctx, id); err != nil {
		return nil, err
	}
	return orInternal(s.Repo.MemberPositions(ctx, id))
}

func (s *RosterService) MemberSubUnits(ctx context.Context, id uint) ([]models.SubUnit, error) {
	if _, err := s.GetMember(ctx, id); err != nil {
		return nil, err
	}
	return orInternal(s.Repo.MemberSubUnits(ctx, id))
}

func (s *RosterService) memberChanged(ctx context.Context, typ string, m models.Member) {
	if s.Index != nil {
		if err := s.Index.Index(ctx, m); err != nil {
			logging.FromContext(ctx).Warn("index_member_failed", "member_id", m.ID, "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicRoster, m.ID, events.New(typ, m.ID, m))
}

func applyMember(m *models.Member, req transport.MemberRequest) {
	if req.StageName != nil {
		m.StageName = strings.TrimSpace(*req.StageName)
	}
	if req.FirstName != nil {
		m.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		m.LastName = *req.LastName
	}
	if req.Birthday != nil {
		m.Birthday = *req.Birthday
	}
	if req.Skzoo != nil {
		m.Skzoo = *req.Skzoo
	}
}

func (s *RosterService) ListPets(ctx context.Context) ([]models.Pet, error) {
	return orInternal(s.Repo.ListPets(ctx))
}

func (s *RosterService) GetPet(ctx context.Context, id uint) (*models.Pet, error) {
	p, err := s.Repo.FindPet(ctx, id)
	if err != nil {
		return nil, missing(err, "Pet not found")
	}
	return p, nil
}

func (s *RosterService) PetsByOwner(ctx context.Context, ownerID uint) ([]models.Pet, error) {
	if _, err := s.GetMember(ctx, ownerID); err != nil {
		return nil, err
	}
	return orInternal(s.Repo.PetsByOwner(ctx, ownerID))
}

func (s *RosterService) CreatePet(ctx context.Context, req transport.PetRequest) (*models.Pet, error) {
	if trimmed(req.Name) == "" {
		return nil, invalid("Name is required")
	}
	if err := s.checkOwner(ctx, req.Owner); err != nil {
		return nil, err
	}
	var p models.Pet
	applyPet(&p, req)
	if err := s.Repo.CreatePet(ctx, &p); err != nil {
		return nil, internal(err)
	}
	return &p, nil
}

func (s *RosterService) UpdatePet(ctx context.Context, id uint, req transport.PetRequest) (*models.Pet, error) {
	p, err := s.GetPet(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil && trimmed(req.Name) == "" {
		return nil, invalid("Name cannot be empty")
	}
	if err := s.checkOwner(ctx, req.Owner); err != nil {
		return nil, err
	}
	applyPet(p, req)
	if err := s.Repo.SavePet(ctx, p); err != nil {
		return nil, missing(err, "Pet not found")
	}
	return p, nil
}

func (s *RosterService) DeletePet(ctx context.Context, id uint) error {
	if err := s.Repo.DeletePet(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("Pet not found")
		}
		return internal(err)
	}
	return nil
}

func (s *RosterService) checkOwner(ctx context.Context, owner *uint) error {
	if owner == nil {
		return nil
	}
	if _, err := s.Repo.FindMember(ctx, *owner); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return invalid("Owner not found")
		}
		return internal(err)
	}
	return nil
}

func applyPet(p *models.Pet, req transport.PetRequest) {
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		p.Type = *req.Type
	}
	if req.Birthday != nil {
		p.Birthday = *req.Birthday
	}
	if req.Owner != nil {
		owner := *req.Owner
		p.OwnerID = &owner
	}
}

func (s *RosterService) ListPositions(ctx context.Context) ([]models.Position, error) {
	return orInternal(s.Repo.ListPositions(ctx))
}

func (s *RosterService) GetPosition(ctx context.Context, id uint) (*models.Position, error) {
	p, err := s.Repo.FindPosition(ctx, id)
	if err != nil {
		return nil, missing(err, "Position not found")
	}
	return p, nil
}

func (s *RosterService) CreatePosition(ctx context.Context, req transport.NameRequest) (*models.Position, error) {
	name := trimmed(req.Name)
	if name == "" {
		return nil, invalid("Name is required")
	}
	p := models.Position{Name: name}
	if err := s.Repo.CreatePosition(ctx, &p); err != nil {
		return nil, internal(err)
	}
	return &p, nil
}

func (s *RosterService) UpdatePosition(ctx context.Context, id uint, req transport.NameRequest) (*models.Position, error) {
	p, err := s.GetPosition(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := trimmed(req.Name)
		if name == "" {
			return nil, invalid("Name cannot be empty")
		}
		p.Name = name
	}
	if err := s.Repo.SavePosition(ctx, p); err != nil {
		return nil, missing(err, "Position not found")
	}
	return p, nil
}

func (s *RosterService) DeletePosition(ctx context.Context, id uint) error {
	if err := s.Repo.DeletePosition(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("Position not found")
		}
		return internal(err)
	}
	return nil
}

func (s *RosterService) AddMemberToPosition(ctx context.Context, positionID, memberID uint) error {
	if _, err := s.GetPosition(ctx, positionID); err != nil {
		return err
	}
	if _, err := s.GetMember(ctx, memberID); err != nil {
		return err
	}
	if err := s.Repo.AddMemberToPosition(ctx, positionID, memberID); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return conflict("Member already in this position")
		}
		return internal(err)
	}
	return nil
}

func (s *RosterService) RemoveMemberFromPosition(ctx context.Context, positionID, memberID uint) error {
	if err := s.Repo.RemoveMemberFromPosition(ctx, positionID, memberID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("Member not in this position")
		}
		return internal(err)
	}
	return nil
}

func (s *RosterService) PositionMembers(ctx context.Context, positionID uint) ([]uint, error) {
	if _, err := s.GetPosition(ctx, positionID); err != nil {
		return nil, err
	}
	return orInternal(s.Repo.PositionMemberIDs(ctx, positionID))
}

func (s *RosterService) ListSubUnits(ctx context.Context) ([]models.SubUnit, error) {
	return orInternal(s.Repo.ListSubUnits(ctx))
}

func (s *RosterService) GetSubUnit(ctx context.Context, id uint) (*models.SubUnit, error) {
	u, err := s.Repo.FindSubUnit(ctx, id)
	if err != nil {
		return nil, missing(err, "Sub-unit not found")
	}
	return u, nil
}

func (s *RosterService) CreateSubUnit(ctx context.Context, req transport.NameRequest) (*models.SubUnit, error) {
	name := trimmed(req.Name)
	if name == "" {
		return nil, invalid("Name is required")
	}
	u := models.SubUnit{Name: name}
	if err := s.Repo.CreateSubUnit(ctx, &u); err != nil {
		return nil, internal(err)
	}
	return &u, nil
}

func (s *RosterService) UpdateSubUnit(ctx context.Context, id uint, req transport.NameRequest) (*models.SubUnit, error) {
	u, err := s.GetSubUnit(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := trimmed(req.Name)
		if name == "" {
			return nil, invalid("Name cannot be empty")
		}
		u.Name = name
	}
	if err := s.Repo.SaveSubUnit(ctx, u); err != nil {
		return nil, missing(err, "Sub-unit not found")
	}
	return u, nil
}

func (s *RosterService) DeleteSubUnit(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteSubUnit(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("Sub-unit not found")
		}
		return internal(err)
	}
	return nil
}

func (s *RosterService) AddMemberToSubUnit(ctx context.Context, subUnitID, memberID uint) error {
	if _, err := s.GetSubUnit(ctx, subUnitID); err != nil {
		return err
	}
	if _, err := s.GetMember(ctx, memberID); err != nil {
		return err
	}
	if err := s.Repo.AddMemberToSubUnit(ctx, subUnitID, memberID); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return conflict("Member already in this sub-unit")
		}
		return internal(err)
	}
	return nil
}

func (s *RosterService) RemoveMemberFromSubUnit(ctx context.Context, subUnitID, memberID uint) error {
	if err := s.Repo.RemoveMemberFromSubUnit(ctx, subUnitID, memberID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("Member not in this sub-unit")
		}
		return internal(err)
	}
	return nil
}

func (s *RosterService) SubUnitMembers(ctx context.Context, subUnitID uint) ([]uint, error) {
	if _, err := s.GetSubUnit(ctx, subUnitID); err != nil {
		return nil, err
	}
	return orInternal(s.Repo.SubUnitMemberIDs(ctx, subUnitID))
}

func orInternal[T any](v []T, err error) ([]T, error) {
	if err != nil {
		return nil, internal(err)
	}
	if v == nil {
		v = []T{}
	}
	return v, nil
}

func missing(err error, msg string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return notFound(msg)
	}
	return internal(err)
}
