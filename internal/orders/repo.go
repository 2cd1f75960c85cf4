package orders

import (
	"context"

	"github.com/exactmatch/storefront/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists archived orders.
type Repository interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindLatest(ctx context.Context) (*models.Order, error)
	List(ctx context.Context, limit int) ([]models.Order, error)
	Migrate(ctx context.Context) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an order archive repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&models.Order{})
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindLatest(ctx context.Context) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
