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

// PartUseCase catálogo de repuestos. Sin eliminación física: el historial de
// transacciones referencia cada SKU para siempre.
type PartUseCase struct {
	partRepo repository.PartRepository
}

// NewPartUseCase construye el caso de uso de catálogo.
func NewPartUseCase(partRepo repository.PartRepository) *PartUseCase {
	return &PartUseCase{partRepo: partRepo}
}

// Create da de alta un repuesto; el SKU debe ser único.
func (uc *PartUseCase) Create(ctx context.Context, in dto.CreatePartRequest) (*entity.Part, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.partRepo.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	part := &entity.Part{
		ID:               uuid.New().String(),
		SKU:              in.SKU,
		Name:             in.Name,
		Brand:            in.Brand,
		Category:         in.Category,
		Series:           in.Series,
		Cost:             in.Cost,
		Price:            in.Price,
		ReorderThreshold: in.ReorderThreshold,
		Serialized:       in.Serialized,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.partRepo.Create(ctx, part); err != nil {
		return nil, err
	}
	return part, nil
}

// Update ajusta los campos mutables (precio, costo, umbral, descripción de
// catálogo). El SKU es identidad inmutable y no se toca.
func (uc *PartUseCase) Update(ctx context.Context, id string, in dto.UpdatePartRequest) (*entity.Part, error) {
	part, err := uc.partRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != "" {
		part.Name = in.Name
	}
	if in.Brand != "" {
		part.Brand = in.Brand
	}
	if in.Category != "" {
		part.Category = in.Category
	}
	if in.Series != "" {
		part.Series = in.Series
	}
	if in.Cost != nil {
		part.Cost = *in.Cost
	}
	if in.Price != nil {
		part.Price = *in.Price
	}
	if in.ReorderThreshold != nil {
		part.ReorderThreshold = *in.ReorderThreshold
	}
	part.UpdatedAt = time.Now()
	if err := uc.partRepo.Update(ctx, part); err != nil {
		return nil, err
	}
	return part, nil
}

// GetByID devuelve un repuesto.
func (uc *PartUseCase) GetByID(ctx context.Context, id string) (*entity.Part, error) {
	part, err := uc.partRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, domain.ErrNotFound
	}
	return part, nil
}

// List lista el catálogo paginado.
func (uc *PartUseCase) List(ctx context.Context, limit, offset int) ([]*entity.Part, error) {
	return uc.partRepo.List(ctx, limit, offset)
}
