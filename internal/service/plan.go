package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/types"
)

const (
	EventPlanCreated  = "plan.created"
	EventPlanReviewed = "plan.reviewed"
)

// PlanEvent is the payload published on plan lifecycle changes
type PlanEvent struct {
	Event          string            `json:"event"`
	PlanID         uuid.UUID         `json:"plan_id"`
	UserID         uuid.UUID         `json:"user_id"`
	NutritionistID *uuid.UUID        `json:"nutritionist_id,omitempty"`
	Status         models.PlanStatus `json:"status"`
	OccurredAt     time.Time         `json:"occurred_at"`
}

// PlanService owns the diet plan lifecycle and its visibility rules
type PlanService struct {
	db     *gorm.DB
	events IEventPublisher
	email  IEmailService
}

var _ IPlanService = (*PlanService)(nil)

// NewPlanService creates a plan service. events and email may be nil.
func NewPlanService(db *gorm.DB, events IEventPublisher, email IEmailService) *PlanService {
	if events == nil {
		events = NoopPublisher{}
	}
	return &PlanService{db: db, events: events, email: email}
}

func (s *PlanService) Create(ctx context.Context, ownerID uuid.UUID, req PlanRequest, doc models.PlanDocument) (*models.DietPlan, error) {
	plan := &models.DietPlan{
		ID:                  uuid.New(),
		UserID:              ownerID,
		Goal:                req.Goal,
		BudgetPerMeal:       req.BudgetPerMeal,
		DietaryRestrictions: req.DietaryRestrictions,
		Plan:                doc,
		Status:              models.PlanPending,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(plan).Error; err != nil {
			return fmt.Errorf("failed to create plan: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created, err := s.load(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, EventPlanCreated, created)
	return created, nil
}

func (s *PlanService) ListVisibleTo(ctx context.Context, account *models.Account) ([]*models.DietPlan, error) {
	query := s.withAccounts(ctx)
	switch account.Role {
	case models.RoleEndUser:
		query = query.Where("user_id = ?", account.ID)
	case models.RoleProfessional:
		query = query.Where("status = ?", models.PlanPending)
	default:
		return nil, ErrForbidden
	}

	var plans []*models.DietPlan
	if err := query.Order("created_at DESC").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

// Get returns a plan if the account may see it. Professionals may open any
// pending plan, and non-pending plans only when they reviewed them.
func (s *PlanService) Get(ctx context.Context, planID uuid.UUID, account *models.Account) (*models.DietPlan, error) {
	plan, err := s.load(ctx, planID)
	if err != nil {
		return nil, err
	}

	switch account.Role {
	case models.RoleEndUser:
		if !plan.OwnedBy(account.ID) {
			return nil, ErrForbidden
		}
	case models.RoleProfessional:
		if plan.Status != models.PlanPending && !plan.ReviewedBy(account.ID) {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}
	return plan, nil
}

// Review moves a pending plan to approved or rejected. The status check is
// part of the UPDATE so concurrent reviewers cannot both succeed.
func (s *PlanService) Review(ctx context.Context, planID, reviewerID uuid.UUID, decision models.ReviewDecision, feedback string) (*models.DietPlan, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reviewer models.Account
		if err := tx.First(&reviewer, "id = ?", reviewerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrForbidden
			}
			return fmt.Errorf("failed to load reviewer: %w", err)
		}
		if reviewer.Role != models.RoleProfessional {
			return ErrForbidden
		}

		var plan models.DietPlan
		if err := tx.Select("id", "status").First(&plan, "id = ?", planID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load plan: %w", err)
		}
		if plan.Status != models.PlanPending {
			return ErrInvalidTransition
		}

		status, ok := decision.Status()
		if !ok {
			return fmt.Errorf("%w: action must be approve or reject", ErrValidation)
		}

		result := tx.Model(&models.DietPlan{}).
			Where("id = ? AND status = ?", planID, models.PlanPending).
			Updates(map[string]interface{}{
				"status":                status,
				"nutritionist_id":       reviewerID,
				"nutritionist_feedback": feedback,
				"validated_at":          time.Now().UTC(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to review plan: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	reviewed, err := s.load(ctx, planID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, EventPlanReviewed, reviewed)
	s.notifyOwner(reviewed)
	return reviewed, nil
}

func (s *PlanService) Pending(ctx context.Context) ([]*models.DietPlan, error) {
	var plans []*models.DietPlan
	if err := s.withAccounts(ctx).
		Where("status = ?", models.PlanPending).
		Order("created_at DESC").
		Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending plans: %w", err)
	}
	return plans, nil
}

// StatsFor counts the reviewer's own decisions. Pending is system wide.
func (s *PlanService) StatsFor(ctx context.Context, reviewerID uuid.UUID) (*types.ReviewerStats, error) {
	db := s.db.WithContext(ctx)
	stats := &types.ReviewerStats{}

	reviewed := func() *gorm.DB {
		return db.Model(&models.DietPlan{}).Where("nutritionist_id = ?", reviewerID)
	}

	if err := reviewed().Count(&stats.TotalValidated).Error; err != nil {
		return nil, fmt.Errorf("failed to count reviewed plans: %w", err)
	}
	if err := reviewed().Where("status = ?", models.PlanApproved).Count(&stats.Approved).Error; err != nil {
		return nil, fmt.Errorf("failed to count approved plans: %w", err)
	}
	if err := reviewed().Where("status = ?", models.PlanRejected).Count(&stats.Rejected).Error; err != nil {
		return nil, fmt.Errorf("failed to count rejected plans: %w", err)
	}
	if err := db.Model(&models.DietPlan{}).Where("status = ?", models.PlanPending).Count(&stats.Pending).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending plans: %w", err)
	}
	if err := reviewed().Distinct("user_id").Count(&stats.UniquePatients).Error; err != nil {
		return nil, fmt.Errorf("failed to count patients: %w", err)
	}

	stats.ApprovalRate = approvalRate(stats.Approved, stats.TotalValidated)
	return stats, nil
}

func approvalRate(approved, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(approved)/float64(total)*1000) / 10
}

func (s *PlanService) withAccounts(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Owner").Preload("Reviewer")
}

func (s *PlanService) load(ctx context.Context, planID uuid.UUID) (*models.DietPlan, error) {
	var plan models.DietPlan
	if err := s.withAccounts(ctx).First(&plan, "id = ?", planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	return &plan, nil
}

func (s *PlanService) publish(ctx context.Context, event string, plan *models.DietPlan) {
	err := s.events.PublishJSON(ctx, event, PlanEvent{
		Event:          event,
		PlanID:         plan.ID,
		UserID:         plan.UserID,
		NutritionistID: plan.NutritionistID,
		Status:         plan.Status,
		OccurredAt:     time.Now().UTC(),
	})
	if err != nil {
		log.Printf("Warning: failed to publish %s for plan %s: %v", event, plan.ID, err)
	}
}

func (s *PlanService) notifyOwner(plan *models.DietPlan) {
	if s.email == nil || plan.Owner == nil {
		return
	}
	go func() {
		if err := s.email.SendPlanReviewed(plan, plan.Owner, plan.Reviewer); err != nil {
			log.Printf("Error sending review notification for plan %s: %v", plan.ID, err)
		}
	}()
}
