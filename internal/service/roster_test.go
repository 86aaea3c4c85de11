package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/skz_roster/internal/events"
	"github.com/Skotchmaster/skz_roster/internal/models"
	"github.com/Skotchmaster/skz_roster/internal/testdb"
	"github.com/Skotchmaster/skz_roster/internal/transport"
)

type fakeIndex struct {
	indexed map[uint]models.Member
	deleted []uint
	fail    bool
}

func (f *fakeIndex) Index(_ context.Context, m models.Member) error {
	if f.indexed == nil {
		f.indexed = map[uint]models.Member{}
	}
	f.indexed[m.ID] = m
	return nil
}

func (f *fakeIndex) Delete(_ context.Context, id uint) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, q string, _, _ int) (int64, []models.Member, error) {
	if f.fail {
		return 0, nil, errors.New("cluster unavailable")
	}
	var out []models.Member
	for _, m := range f.indexed {
		if m.StageName == q {
			out = append(out, m)
		}
	}
	return int64(len(out)), out, nil
}

func newRoster(t *testing.T) (*RosterService, *fakeIndex, *events.Recorder) {
	t.Helper()
	idx := &fakeIndex{}
	rec := &events.Recorder{}
	return &RosterService{Repo: testdb.New(t), Index: idx, Events: rec}, idx, rec
}

func TestRoster_MemberLifecycle(t *testing.T) {
	svc, idx, rec := newRoster(t)
	ctx := context.Background()

	_, err := svc.CreateMember(ctx, transport.MemberRequest{FirstName: ptr("Christopher")})
	require.ErrorIs(t, err, ErrValidation)

	m, err := svc.CreateMember(ctx, transport.MemberRequest{StageName: ptr("Bang Chan"), Skzoo: ptr("Wolf Chan")})
	require.NoError(t, err)
	assert.Equal(t, uint(1), m.ID)
	assert.Contains(t, idx.indexed, m.ID)

	m, err = svc.UpdateMember(ctx, m.ID, transport.MemberRequest{LastName: ptr("Bang")})
	require.NoError(t, err)
	assert.Equal(t, "Bang Chan", m.StageName)
	assert.Equal(t, "Bang", m.LastName)

	_, err = svc.GetMember(ctx, 99)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Member not found", MessageOf(err))

	require.NoError(t, svc.DeleteMember(ctx, m.ID))
	assert.Equal(t, []uint{m.ID}, idx.deleted)
	assert.Equal(t, []string{events.MemberCreated, events.MemberUpdated, events.MemberDeleted}, rec.Types())
}

func TestRoster_DeleteMemberWithPets(t *testing.T) {
	svc, _, _ := newRoster(t)
	ctx := context.Background()

	m, err := svc.CreateMember(ctx, transport.MemberRequest{StageName: ptr("Lee Know")})
	require.NoError(t, err)

	_, err = svc.CreatePet(ctx, transport.PetRequest{Name: ptr("Dori"), Owner: ptr(uint(42))})
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Owner not found", MessageOf(err))

	pet, err := svc.CreatePet(ctx, transport.PetRequest{Name: ptr("Dori"), Type: ptr("cat"), Owner: ptr(m.ID)})
	require.NoError(t, err)

	pets, err := svc.PetsByOwner(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, pets, 1)

	err = svc.DeleteMember(ctx, m.ID)
	require.ErrorIs(t, err, ErrConflict)

	require.NoError(t, svc.DeletePet(ctx, pet.ID))
	require.NoError(t, svc.DeleteMember(ctx, m.ID))
	require.ErrorIs(t, svc.DeletePet(ctx, pet.ID), ErrNotFound)
}

func TestRoster_SearchFallsBackToDatabase(t *testing.T) {
	svc, idx, _ := newRoster(t)
	ctx := context.Background()

	_, err := svc.CreateMember(ctx, transport.MemberRequest{StageName: ptr("Felix")})
	require.NoError(t, err)

	got, err := svc.SearchMembers(ctx, "Felix")
	require.NoError(t, err)
	require.Len(t, got, 1)

	idx.fail = true
	got, err = svc.SearchMembers(ctx, "feli")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Felix", got[0].StageName)

	_, err = svc.SearchMembers(ctx, "  ")
	require.ErrorIs(t, err, ErrValidation)
}

func TestRoster_PositionMembership(t *testing.T) {
	svc, _, _ := newRoster(t)
	ctx := context.Background()

	_, err := svc.CreatePosition(ctx, transport.NameRequest{})
	require.ErrorIs(t, err, ErrValidation)

	pos, err := svc.CreatePosition(ctx, transport.NameRequest{Name: ptr("Leader")})
	require.NoError(t, err)
	m, err := svc.CreateMember(ctx, transport.MemberRequest{StageName: ptr("Bang Chan")})
	require.NoError(t, err)

	require.ErrorIs(t, svc.AddMemberToPosition(ctx, pos.ID, 99), ErrNotFound)
	require.ErrorIs(t, svc.AddMemberToPosition(ctx, 99, m.ID), ErrNotFound)
	require.NoError(t, svc.AddMemberToPosition(ctx, pos.ID, m.ID))
	require.ErrorIs(t, svc.AddMemberToPosition(ctx, pos.ID, m.ID), ErrConflict)

	ids, err := svc.PositionMembers(ctx, pos.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{m.ID}, ids)

	positions, err := svc.MemberPositions(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, positions, 1)

	require.NoError(t, svc.RemoveMemberFromPosition(ctx, pos.ID, m.ID))
	err = svc.RemoveMemberFromPosition(ctx, pos.ID, m.ID)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Member not in this position", MessageOf(err))

	ids, err = svc.PositionMembers(ctx, pos.ID)
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)

	renamed, err := svc.UpdatePosition(ctx, pos.ID, transport.NameRequest{Name: ptr("Main Dancer")})
	require.NoError(t, err)
	assert.Equal(t, "Main Dancer", renamed.Name)

	require.NoError(t, svc.DeletePosition(ctx, pos.ID))
	require.ErrorIs(t, svc.DeletePosition(ctx, pos.ID), ErrNotFound)
}

func TestRoster_SubUnitMembership(t *testing.T) {
	svc, _, _ := newRoster(t)
	ctx := context.Background()

	unit, err := svc.CreateSubUnit(ctx, transport.NameRequest{Name: ptr("3RACHA")})
	require.NoError(t, err)
	han, err := svc.CreateMember(ctx, transport.MemberRequest{StageName: ptr("Han")})
	require.NoError(t, err)
	changbin, err := svc.CreateMember(ctx, transport.MemberRequest{StageName: ptr("Changbin")})
	require.NoError(t, err)

	require.NoError(t, svc.AddMemberToSubUnit(ctx, unit.ID, changbin.ID))
	require.NoError(t, svc.AddMemberToSubUnit(ctx, unit.ID, han.ID))
	require.ErrorIs(t, svc.AddMemberToSubUnit(ctx, unit.ID, han.ID), ErrConflict)

	ids, err := svc.SubUnitMembers(ctx, unit.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{han.ID, changbin.ID}, ids)

	units, err := svc.MemberSubUnits(ctx, han.ID)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "3RACHA", units[0].Name)

	_, err = svc.SubUnitMembers(ctx, 99)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Sub-unit not found", MessageOf(err))

	require.NoError(t, svc.DeleteSubUnit(ctx, unit.ID))
	units, err = svc.MemberSubUnits(ctx, han.ID)
	require.NoError(t, err)
	assert.Empty(t, units)
}
