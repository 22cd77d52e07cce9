package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"englishku_backend/internals/features/users/user/model"
)

var ErrUserNotFound = errors.New("user not found")

// Repository is the only write path for XP, streak, minutes and plan
// fields: every change goes through Mutate so concurrent sessions never
// lose an update.
type Repository interface {
	Get(ctx context.Context, userID uuid.UUID) (*model.UserModel, error)
	// Mutate loads the row under a lock, applies fn and saves the result.
	// If fn returns an error nothing is written.
	Mutate(ctx context.Context, userID uuid.UUID, fn func(u *model.UserModel) error) (*model.UserModel, error)
}

type GormRepository struct {
	DB *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{DB: db}
}

func (r *GormRepository) Get(ctx context.Context, userID uuid.UUID) (*model.UserModel, error) {
	var u model.UserModel
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormRepository) Mutate(ctx context.Context, userID uuid.UUID, fn func(u *model.UserModel) error) (*model.UserModel, error) {
	var out model.UserModel
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := LockedTx(tx, userID, &out); err != nil {
			return err
		}
		if err := fn(&out); err != nil {
			return err
		}
		return tx.Save(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// LockedTx loads the user row with SELECT ... FOR UPDATE inside tx. Other
// repositories use it to update the user in their own transaction.
func LockedTx(tx *gorm.DB, userID uuid.UUID, dst *model.UserModel) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Take(dst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return err
}

// FindByGoogleID returns ErrUserNotFound when no user is linked to googleID.
func (r *GormRepository) FindByGoogleID(ctx context.Context, googleID string) (*model.UserModel, error) {
	var u model.UserModel
	err := r.DB.WithContext(ctx).Where("user_google_id = ?", googleID).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormRepository) Create(ctx context.Context, u *model.UserModel) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *GormRepository) DisplayNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	var rows []struct {
		UserID          uuid.UUID
		UserDisplayName string
	}
	err := r.DB.WithContext(ctx).Model(&model.UserModel{}).
		Select("user_id, user_display_name").
		Where("user_id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]string, len(rows))
	for _, row := range rows {
		out[row.UserID] = row.UserDisplayName
	}
	return out, nil
}

// FindByEmail returns ErrUserNotFound when no user has the address.
func (r *GormRepository) FindByEmail(ctx context.Context, email string) (*model.UserModel, error) {
	var u model.UserModel
	err := r.DB.WithContext(ctx).Where("LOWER(user_email) = LOWER(?)", email).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
