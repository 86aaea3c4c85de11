package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/Skotchmaster/skz_roster/internal/models"
	"github.com/Skotchmaster/skz_roster/pkg/db"
)

var (
	ErrDuplicate = errors.New("duplicate key")
	ErrNotFound  = gorm.ErrRecordNotFound
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) Migrate(ctx context.Context) error {
	return r.DB.WithContext(ctx).AutoMigrate(models.All()...)
}

func (r *GormRepo) Ping(ctx context.Context) error {
	return db.Ping(ctx, r.DB)
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if isDuplicate(err) {
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	}
	return err
}

// isDuplicate covers gorm's translated error, raw pgx errors and the
// sqlite driver, which only reports the violation in its message.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}

func deleteByID[T any](ctx context.Context, conn *gorm.DB, id uint) error {
	res := conn.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// updateByID writes every column of v. Unlike gorm's Save it never falls
// back to an insert, so a row deleted in the meantime stays deleted.
func updateByID[T any](ctx context.Context, conn *gorm.DB, v *T) error {
	res := conn.WithContext(ctx).Model(v).Select("*").Updates(v)
	if err := translate(res.Error); err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func findByID[T any](ctx context.Context, conn *gorm.DB, id uint) (*T, error) {
	out := new(T)
	if err := conn.WithContext(ctx).Where("id = ?", id).First(out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func listAll[T any](ctx context.Context, conn *gorm.DB) ([]T, error) {
	var out []T
	if err := conn.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
