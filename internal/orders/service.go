package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/exactmatch/storefront/pkg/db/models"
	pkgerrors "github.com/exactmatch/storefront/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes the local order archive: the storefront's record of what
// was bought, independent of any upstream system.
type Service interface {
	Archive(ctx context.Context, order *models.Order) (*models.Order, error)
	Latest(ctx context.Context) (*models.Order, error)
	List(ctx context.Context, limit int) ([]models.Order, error)
}

type service struct {
	repo Repository
}

// NewService builds the archive service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Archive(ctx context.Context, order *models.Order) (*models.Order, error) {
	saved, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "archive order")
	}
	return saved, nil
}

func (s *service) Latest(ctx context.Context) (*models.Order, error) {
	order, err := s.repo.FindLatest(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no orders placed yet")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load latest order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, limit int) ([]models.Order, error) {
	orders, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orders, nil
}
