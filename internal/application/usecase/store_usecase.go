package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/TallerPos-api/internal/application/dto"
	"github.com/jhoicas/TallerPos-api/internal/domain"
	"github.com/jhoicas/TallerPos-api/internal/domain/entity"
	"github.com/jhoicas/TallerPos-api/internal/domain/repository"
)

// StoreUseCase administración de sucursales.
type StoreUseCase struct {
	storeRepo repository.StoreRepository
}

// NewStoreUseCase construye el caso de uso de sucursales.
func NewStoreUseCase(storeRepo repository.StoreRepository) *StoreUseCase {
	return &StoreUseCase{storeRepo: storeRepo}
}

// Create da de alta una sucursal.
func (uc *StoreUseCase) Create(ctx context.Context, in dto.CreateStoreRequest) (*entity.Store, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	store := &entity.Store{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Address:   in.Address,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.storeRepo.Create(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

// GetByID devuelve una sucursal.
func (uc *StoreUseCase) GetByID(ctx context.Context, id string) (*entity.Store, error) {
	store, err := uc.storeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}
	return store, nil
}

// List lista las sucursales.
func (uc *StoreUseCase) List(ctx context.Context, limit, offset int) ([]*entity.Store, error) {
	return uc.storeRepo.List(ctx, limit, offset)
}
