package property

import (
	"context"
	"errors"

	propertyerrors "github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/property/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -destination=mock/property_service_mock.go -package=mock . Service
type Service interface {
	GetByID(ctx context.Context, id string) (*PropertyResponse, error)
	GetByCode(ctx context.Context, code string) (*PropertyResponse, error)
	Update(ctx context.Context, id string, req UpdatePropertyRequest) (*PropertyResponse, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetByID(ctx context.Context, id string) (*PropertyResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, propertyerrors.ErrInvalidPropertyID
	}

	prop, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, propertyerrors.ErrPropertyNotFound
		}
		return nil, err
	}

	return s.mapToResponse(prop), nil
}

func (s *service) GetByCode(ctx context.Context, code string) (*PropertyResponse, error) {
	prop, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, propertyerrors.ErrPropertyNotFound
		}
		return nil, err
	}

	return s.mapToResponse(prop), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdatePropertyRequest) (*PropertyResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, propertyerrors.ErrInvalidPropertyID
	}

	prop, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, propertyerrors.ErrPropertyNotFound
		}
		return nil, err
	}

	if req.Name != "" {
		prop.Name = req.Name
	}
	if req.Email != "" {
		prop.Email = req.Email
	}
	if req.Timezone != "" {
		prop.Timezone = req.Timezone
	}
	if req.IsActive != nil {
		prop.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, prop); err != nil {
		return nil, err
	}

	return s.mapToResponse(prop), nil
}

func (s *service) mapToResponse(prop *Property) *PropertyResponse {
	return &PropertyResponse{
		ID:       prop.ID.String(),
		Name:     prop.Name,
		Code:     prop.Code,
		Email:    prop.Email,
		Timezone: prop.Timezone,
		IsActive: prop.IsActive,
	}
}
