package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/types"
)

type SubscriptionService struct {
	db  *gorm.DB
	now func() time.Time
}

var _ ISubscriptionService = (*SubscriptionService)(nil)

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db, now: time.Now}
}

func (s *SubscriptionService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Subscription, error) {
	var subs []*models.Subscription
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, nil
}

// Create starts a subscription. An account holds at most one active
// subscription; the previous one is cancelled in the same transaction.
func (s *SubscriptionService) Create(ctx context.Context, userID uuid.UUID, req *types.CreateSubscriptionRequest) (*models.Subscription, error) {
	tier := models.SubscriptionTier(req.PlanType)
	if tier != models.TierSmart && tier != models.TierPlus {
		return nil, fmt.Errorf("%w: plan_type must be smart or plus", ErrValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	start := s.now().UTC()
	if req.EndDate != nil && !req.EndDate.After(start) {
		return nil, fmt.Errorf("%w: end_date must be in the future", ErrValidation)
	}

	var sub *models.Subscription
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var previous []models.Subscription
		if err := tx.Where("user_id = ? AND status = ?", userID, models.SubscriptionActive).
			Find(&previous).Error; err != nil {
			return fmt.Errorf("failed to load subscriptions: %w", err)
		}

		var replaced []string
		for _, p := range previous {
			replaced = append(replaced, p.ID.String())
		}
		if len(replaced) > 0 {
			if err := tx.Model(&models.Subscription{}).
				Where("user_id = ? AND status = ?", userID, models.SubscriptionActive).
				Update("status", models.SubscriptionCancelled).Error; err != nil {
				return fmt.Errorf("failed to cancel previous subscription: %w", err)
			}
		}

		meta, err := json.Marshal(map[string]any{"replaces": replaced})
		if err != nil {
			return err
		}

		sub = &models.Subscription{
			UserID:    userID,
			PlanType:  tier,
			Status:    models.SubscriptionActive,
			Price:     req.Price,
			StartDate: start,
			EndDate:   req.EndDate,
			Metadata:  datatypes.JSON(meta),
		}
		if err := tx.Create(sub).Error; err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// Cancel ends one of the caller's subscriptions. Cancelling someone else's
// subscription reports not found.
func (s *SubscriptionService) Cancel(ctx context.Context, userID, subscriptionID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&sub, "id = ? AND user_id = ?", subscriptionID, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load subscription: %w", err)
		}
		if sub.Status != models.SubscriptionActive {
			return fmt.Errorf("%w: subscription is %s", ErrValidation, sub.Status)
		}

		end := s.now().UTC()
		if err := tx.Model(&sub).Updates(map[string]interface{}{
			"status":   models.SubscriptionCancelled,
			"end_date": end,
		}).Error; err != nil {
			return fmt.Errorf("failed to cancel subscription: %w", err)
		}
		sub.Status = models.SubscriptionCancelled
		sub.EndDate = &end
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
