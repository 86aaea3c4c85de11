package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/skz_roster/internal/models"
)

func (r *GormRepo) ListMembers(ctx context.Context) ([]models.Member, error) {
	return listAll[models.Member](ctx, r.DB)
}

func (r *GormRepo) FindMember(ctx context.Context, id uint) (*models.Member, error) {
	return findByID[models.Member](ctx, r.DB, id)
}

func (r *GormRepo) CreateMember(ctx context.Context, m *models.Member) error {
	return translate(r.DB.WithContext(ctx).Create(m).Error)
}

func (r *GormRepo) SaveMember(ctx context.Context, m *models.Member) error {
	return updateByID(ctx, r.DB, m)
}

// DeleteMember removes the member together with its position and sub-unit
// links. Pets are not touched; callers refuse the delete while pets remain.
func (r *GormRepo) DeleteMember(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("member_id = ?", id).Delete(&models.MemberPosition{}).Error; err != nil {
			return err
		}
		if err := tx.Where("member_id = ?", id).Delete(&models.MemberSubUnit{}).Error; err != nil {
			return err
		}
		return deleteByID[models.Member](ctx, tx, id)
	})
}

func (r *GormRepo) SearchMembers(ctx context.Context, q string) ([]models.Member, error) {
	pattern := "%" + strings.ToLower(q) + "%"
	var out []models.Member
	err := r.DB.WithContext(ctx).
		Where("LOWER(stage_name) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(skzoo) LIKE ?",
			pattern, pattern, pattern, pattern).
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) ListPets(ctx context.Context) ([]models.Pet, error) {
	return listAll[models.Pet](ctx, r.DB)
}

func (r *GormRepo) FindPet(ctx context.Context, id uint) (*models.Pet, error) {
	return findByID[models.Pet](ctx, r.DB, id)
}

func (r *GormRepo) PetsByOwner(ctx context.Context, ownerID uint) ([]models.Pet, error) {
	var out []models.Pet
	if err := r.DB.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) CountPetsByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Pet{}).Where("owner_id = ?", ownerID).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *GormRepo) CreatePet(ctx context.Context, p *models.Pet) error {
	return translate(r.DB.WithContext(ctx).Create(p).Error)
}

func (r *GormRepo) SavePet(ctx context.Context, p *models.Pet) error {
	return updateByID(ctx, r.DB, p)
}

func (r *GormRepo) DeletePet(ctx context.Context, id uint) error {
	return deleteByID[models.Pet](ctx, r.DB, id)
}

func (r *GormRepo) ListPositions(ctx context.Context) ([]models.Position, error) {
	return listAll[models.Position](ctx, r.DB)
}

func (r *GormRepo) FindPosition(ctx context.Context, id uint) (*models.Position, error) {
	return findByID[models.Position](ctx, r.DB, id)
}

func (r *GormRepo) CreatePosition(ctx context.Context, p *models.Position) error {
	return translate(r.DB.WithContext(ctx).Create(p).Error)
}

func (r *GormRepo) SavePosition(ctx context.Context, p *models.Position) error {
	return updateByID(ctx, r.DB, p)
}

func (r *GormRepo) DeletePosition(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("position_id = ?", id).Delete(&models.MemberPosition{}).Error; err != nil {
			return err
		}
		return deleteByID[models.Position](ctx, tx, id)
	})
}

func (r *GormRepo) AddMemberToPosition(ctx context.Context, positionID, memberID uint) error {
	link := models.MemberPosition{MemberID: memberID, PositionID: positionID}
	return translate(r.DB.WithContext(ctx).Create(&link).Error)
}

func (r *GormRepo) RemoveMemberFromPosition(ctx context.Context, positionID, memberID uint) error {
	res := r.DB.WithContext(ctx).
		Where("position_id = ? AND member_id = ?", positionID, memberID).
		Delete(&models.MemberPosition{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) PositionMemberIDs(ctx context.Context, positionID uint) ([]uint, error) {
	ids := []uint{}
	err := r.DB.WithContext(ctx).Model(&models.MemberPosition{}).
		Where("position_id = ?", positionID).
		Order("member_id ASC").
		Pluck("member_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *GormRepo) MemberPositions(ctx context.Context, memberID uint) ([]models.Position, error) {
	out := []models.Position{}
	err := r.DB.WithContext(ctx).
		Joins("JOIN member_positions ON member_positions.position_id = positions.id").
		Where("member_positions.member_id = ?", memberID).
		Order("positions.id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) ListSubUnits(ctx context.Context) ([]models.SubUnit, error) {
	return listAll[models.SubUnit](ctx, r.DB)
}

func (r *GormRepo) FindSubUnit(ctx context.Context, id uint) (*models.SubUnit, error) {
	return findByID[models.SubUnit](ctx, r.DB, id)
}

func (r *GormRepo) CreateSubUnit(ctx context.Context, s *models.SubUnit) error {
	return translate(r.DB.WithContext(ctx).Create(s).Error)
}

func (r *GormRepo) SaveSubUnit(ctx context.Context, s *models.SubUnit) error {
	return updateByID(ctx, r.DB, s)
}

func (r *GormRepo) DeleteSubUnit(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sub_unit_id = ?", id).Delete(&models.MemberSubUnit{}).Error; err != nil {
			return err
		}
		return deleteByID[models.SubUnit](ctx, tx, id)
	})
}

func (r *GormRepo) AddMemberToSubUnit(ctx context.Context, subUnitID, memberID uint) error {
	link := models.MemberSubUnit{MemberID: memberID, SubUnitID: subUnitID}
	return translate(r.DB.WithContext(ctx).Create(&link).Error)
}

func (r *GormRepo) RemoveMemberFromSubUnit(ctx context.Context, subUnitID, memberID uint) error {
	res := r.DB.WithContext(ctx).
		Where("sub_unit_id = ? AND member_id = ?", subUnitID, memberID).
		Delete(&models.MemberSubUnit{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) SubUnitMemberIDs(ctx context.Context, subUnitID uint) ([]uint, error) {
	ids := []uint{}
	err := r.DB.WithContext(ctx).Model(&models.MemberSubUnit{}).
		Where("sub_unit_id = ?", subUnitID).
		Order("member_id ASC").
		Pluck("member_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *GormRepo) MemberSubUnits(ctx context.Context, memberID uint) ([]models.SubUnit, error) {
	out := []models.SubUnit{}
	err := r.DB.WithContext(ctx).
		Joins("JOIN member_sub_units ON member_sub_units.sub_unit_id = sub_units.id").
		Where("member_sub_units.member_id = ?", memberID).
		Order("sub_units.id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
