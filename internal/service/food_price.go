package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/types"
)

// FoodPriceFilter narrows a food price listing. Empty fields match everything.
type FoodPriceFilter struct {
	Name     string
	Location string
}

type FoodPriceService struct {
	db *gorm.DB
}

var _ IFoodPriceService = (*FoodPriceService)(nil)

func NewFoodPriceService(db *gorm.DB) *FoodPriceService {
	return &FoodPriceService{db: db}
}

func (s *FoodPriceService) List(ctx context.Context, filter FoodPriceFilter) ([]*models.FoodPrice, error) {
	query := s.db.WithContext(ctx).Model(&models.FoodPrice{})
	if name := strings.TrimSpace(filter.Name); name != "" {
		query = query.Where("LOWER(food_name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if loc := strings.TrimSpace(filter.Location); loc != "" {
		query = query.Where("LOWER(location) = ?", strings.ToLower(loc))
	}

	var prices []*models.FoodPrice
	if err := query.Order("food_name ASC").Find(&prices).Error; err != nil {
		return nil, fmt.Errorf("failed to list food prices: %w", err)
	}
	return prices, nil
}

func (s *FoodPriceService) Get(ctx context.Context, id uuid.UUID) (*models.FoodPrice, error) {
	var price models.FoodPrice
	if err := s.db.WithContext(ctx).First(&price, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get food price: %w", err)
	}
	return &price, nil
}

func (s *FoodPriceService) Create(ctx context.Context, req *types.FoodPriceRequest) (*models.FoodPrice, error) {
	if err := validateFoodPrice(req); err != nil {
		return nil, err
	}
	price := &models.FoodPrice{}
	applyFoodPrice(price, req)

	if err := s.db.WithContext(ctx).Create(price).Error; err != nil {
		return nil, fmt.Errorf("failed to create food price: %w", err)
	}
	return price, nil
}

func (s *FoodPriceService) Update(ctx context.Context, id uuid.UUID, req *types.FoodPriceRequest) (*models.FoodPrice, error) {
	if err := validateFoodPrice(req); err != nil {
		return nil, err
	}

	var price models.FoodPrice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&price, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to get food price: %w", err)
		}
		applyFoodPrice(&price, req)
		if err := tx.Save(&price).Error; err != nil {
			return fmt.Errorf("failed to update food price: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &price, nil
}

func (s *FoodPriceService) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.FoodPrice{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete food price: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func validateFoodPrice(req *types.FoodPriceRequest) error {
	if strings.TrimSpace(req.FoodName) == "" {
		return fmt.Errorf("%w: field food_name is required", ErrValidation)
	}
	if strings.TrimSpace(req.Unit) == "" {
		return fmt.Errorf("%w: field unit is required", ErrValidation)
	}
	if req.PricePerUnit <= 0 {
		return fmt.Errorf("%w: price_per_unit must be positive", ErrValidation)
	}
	return nil
}

func applyFoodPrice(p *models.FoodPrice, req *types.FoodPriceRequest) {
	p.FoodName = strings.TrimSpace(req.FoodName)
	p.PricePerUnit = req.PricePerUnit
	p.Unit = strings.TrimSpace(req.Unit)
	p.Supermarket = strings.TrimSpace(req.Supermarket)
	p.Location = strings.TrimSpace(req.Location)
}
