package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"englishku_backend/internals/constants"
	"englishku_backend/internals/features/subscriptions/subscription/model"
	usermodel "englishku_backend/internals/features/users/user/model"
	userrepo "englishku_backend/internals/features/users/user/repository"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderAlreadyPaid     = errors.New("order already paid")
)

// ReplaceFunc receives the current subscription (nil when there is none)
// and the locked user row. The returned subscription replaces the stored
// one whole; changes made to u are saved in the same transaction.
type ReplaceFunc func(cur *model.SubscriptionModel, u *usermodel.UserModel) (*model.SubscriptionModel, error)

type Repository interface {
	Get(ctx context.Context, userID uuid.UUID) (*model.SubscriptionModel, error)
	Replace(ctx context.Context, userID uuid.UUID, fn ReplaceFunc) (*model.SubscriptionModel, error)

	CreateOrder(ctx context.Context, o *model.SubscriptionOrderModel) error
	GetOrder(ctx context.Context, orderID string) (*model.SubscriptionOrderModel, error)
	// ReplaceForOrder runs Replace for the order's user and marks the order
	// paid in the same transaction. A paid order yields ErrOrderAlreadyPaid
	// and fn is not called.
	ReplaceForOrder(ctx context.Context, orderID string, paidAt time.Time, fn ReplaceFunc) (*model.SubscriptionModel, error)

	// ExpireDue flips active subscriptions that ended before now and
	// returns the affected users.
	ExpireDue(ctx context.Context, now time.Time) ([]uuid.UUID, error)
}

type GormRepository struct {
	DB *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{DB: db}
}

func (r *GormRepository) Get(ctx context.Context, userID uuid.UUID) (*model.SubscriptionModel, error) {
	var s model.SubscriptionModel
	err := r.DB.WithContext(ctx).Where("subscription_user_id = ?", userID).Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormRepository) Replace(ctx context.Context, userID uuid.UUID, fn ReplaceFunc) (*model.SubscriptionModel, error) {
	var out *model.SubscriptionModel
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		next, err := replaceTx(tx, userID, fn)
		out = next
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepository) ReplaceForOrder(ctx context.Context, orderID string, paidAt time.Time, fn ReplaceFunc) (*model.SubscriptionModel, error) {
	var out *model.SubscriptionModel
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o model.SubscriptionOrderModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("subscription_order_id = ?", orderID).Take(&o).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}
		if o.SubscriptionOrderStatus == model.OrderPaid {
			return ErrOrderAlreadyPaid
		}

		next, err := replaceTx(tx, o.SubscriptionOrderUserID, fn)
		if err != nil {
			return err
		}
		if err := tx.Model(&model.SubscriptionOrderModel{}).
			Where("subscription_order_id = ?", orderID).
			Updates(map[string]any{
				"subscription_order_status":  model.OrderPaid,
				"subscription_order_paid_at": paidAt,
			}).Error; err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// replaceTx locks the user row, applies fn and upserts the result.
func replaceTx(tx *gorm.DB, userID uuid.UUID, fn ReplaceFunc) (*model.SubscriptionModel, error) {
	var u usermodel.UserModel
	if err := userrepo.LockedTx(tx, userID, &u); err != nil {
		return nil, err
	}

	var cur *model.SubscriptionModel
	var existing model.SubscriptionModel
	err := tx.Where("subscription_user_id = ?", userID).Take(&existing).Error
	switch {
	case err == nil:
		cur = &existing
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	next, err := fn(cur, &u)
	if err != nil {
		return nil, err
	}
	next.SubscriptionUserID = userID
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "subscription_user_id"}},
		UpdateAll: true,
	}).Create(next).Error; err != nil {
		return nil, err
	}
	if err := tx.Save(&u).Error; err != nil {
		return nil, err
	}
	return next, nil
}

func (r *GormRepository) CreateOrder(ctx context.Context, o *model.SubscriptionOrderModel) error {
	return r.DB.WithContext(ctx).Create(o).Error
}

func (r *GormRepository) GetOrder(ctx context.Context, orderID string) (*model.SubscriptionOrderModel, error) {
	var o model.SubscriptionOrderModel
	err := r.DB.WithContext(ctx).Where("subscription_order_id = ?", orderID).Take(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepository) ExpireDue(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.SubscriptionModel{}).
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("subscription_status = ? AND subscription_end_date < ?", constants.SubscriptionActive, now).
			Pluck("subscription_user_id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Model(&model.SubscriptionModel{}).
			Where("subscription_user_id IN ?", ids).
			Update("subscription_status", constants.SubscriptionExpired).Error; err != nil {
			return err
		}
		return tx.Model(&usermodel.UserModel{}).
			Where("user_id IN ?", ids).
			Update("user_subscription_status", constants.SubscriptionExpired).Error
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// MemoryRepository keeps subscriptions in memory and writes the user side
// through a user repository, so service tests see both halves.
type MemoryRepository struct {
	Users userrepo.Repository

	mu     sync.Mutex
	subs   map[uuid.UUID]model.SubscriptionModel
	orders map[string]model.SubscriptionOrderModel
}

func NewMemoryRepository(users userrepo.Repository) *MemoryRepository {
	return &MemoryRepository{
		Users:  users,
		subs:   map[uuid.UUID]model.SubscriptionModel{},
		orders: map[string]model.SubscriptionOrderModel{},
	}
}

func (m *MemoryRepository) Get(_ context.Context, userID uuid.UUID) (*model.SubscriptionModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[userID]
	if !ok {
		return nil, ErrSubscriptionNotFound
	}
	return &s, nil
}

func (m *MemoryRepository) Replace(ctx context.Context, userID uuid.UUID, fn ReplaceFunc) (*model.SubscriptionModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.replace(ctx, userID, fn)
}

func (m *MemoryRepository) ReplaceForOrder(ctx context.Context, orderID string, paidAt time.Time, fn ReplaceFunc) (*model.SubscriptionModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	if o.SubscriptionOrderStatus == model.OrderPaid {
		return nil, ErrOrderAlreadyPaid
	}
	sub, err := m.replace(ctx, o.SubscriptionOrderUserID, fn)
	if err != nil {
		return nil, err
	}
	o.SubscriptionOrderStatus = model.OrderPaid
	o.SubscriptionOrderPaidAt = &paidAt
	m.orders[orderID] = o
	return sub, nil
}

func (m *MemoryRepository) replace(ctx context.Context, userID uuid.UUID, fn ReplaceFunc) (*model.SubscriptionModel, error) {
	var next *model.SubscriptionModel
	_, err := m.Users.Mutate(ctx, userID, func(u *usermodel.UserModel) error {
		var cur *model.SubscriptionModel
		if s, ok := m.subs[userID]; ok {
			cur = &s
		}
		out, err := fn(cur, u)
		if err != nil {
			return err
		}
		out.SubscriptionUserID = userID
		next = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.subs[userID] = *next
	cp := *next
	return &cp, nil
}

func (m *MemoryRepository) CreateOrder(_ context.Context, o *model.SubscriptionOrderModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.SubscriptionOrderID] = *o
	return nil
}

func (m *MemoryRepository) GetOrder(_ context.Context, orderID string) (*model.SubscriptionOrderModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return &o, nil
}

func (m *MemoryRepository) ExpireDue(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []uuid.UUID
	for id, s := range m.subs {
		if s.SubscriptionStatus != constants.SubscriptionActive || !s.SubscriptionEndDate.Before(now) {
			continue
		}
		s.SubscriptionStatus = constants.SubscriptionExpired
		m.subs[id] = s
		ids = append(ids, id)
		_, err := m.Users.Mutate(ctx, id, func(u *usermodel.UserModel) error {
			expired := constants.SubscriptionExpired
			u.UserSubscriptionStatus = &expired
			return nil
		})
		if err != nil && !errors.Is(err, userrepo.ErrUserNotFound) {
			return ids, err
		}
	}
	return ids, nil
}
