package repository

import (
	"context"

	"github.com/jhoicas/TallerPos-api/internal/domain/entity"
)

// CustomerRepository puerto de persistencia de clientes.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	List(ctx context.Context, limit, offset int) ([]*entity.Customer, error)
}
