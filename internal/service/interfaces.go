package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/types"
)

// IAuthService defines the interface for account and token operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.Account, error)
	Authenticate(ctx context.Context, email, password string) (*models.Account, error)
	UpdateProfile(ctx context.Context, accountID uuid.UUID, req *types.UpdateProfileRequest) (*models.Account, error)
	GetAccount(ctx context.Context, accountID uuid.UUID) (*models.Account, error)
	GenerateToken(account *models.Account) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IPlanGenerator turns a profile snapshot into a plan document. It never fails.
type IPlanGenerator interface {
	Generate(ctx context.Context, snapshot ProfileSnapshot) models.PlanDocument
	ProviderName() string
}

// IPlanService defines the interface for plan lifecycle operations
type IPlanService interface {
	Create(ctx context.Context, ownerID uuid.UUID, req PlanRequest, doc models.PlanDocument) (*models.DietPlan, error)
	ListVisibleTo(ctx context.Context, account *models.Account) ([]*models.DietPlan, error)
	Get(ctx context.Context, planID uuid.UUID, account *models.Account) (*models.DietPlan, error)
	Review(ctx context.Context, planID, reviewerID uuid.UUID, decision models.ReviewDecision, feedback string) (*models.DietPlan, error)
	Pending(ctx context.Context) ([]*models.DietPlan, error)
	StatsFor(ctx context.Context, reviewerID uuid.UUID) (*types.ReviewerStats, error)
}

// IFoodPriceService defines the interface for food price reference data
type IFoodPriceService interface {
	List(ctx context.Context, filter FoodPriceFilter) ([]*models.FoodPrice, error)
	Get(ctx context.Context, id uuid.UUID) (*models.FoodPrice, error)
	Create(ctx context.Context, req *types.FoodPriceRequest) (*models.FoodPrice, error)
	Update(ctx context.Context, id uuid.UUID, req *types.FoodPriceRequest) (*models.FoodPrice, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ISubscriptionService defines the interface for subscription billing records
type ISubscriptionService interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Subscription, error)
	Create(ctx context.Context, userID uuid.UUID, req *types.CreateSubscriptionRequest) (*models.Subscription, error)
	Cancel(ctx context.Context, userID, subscriptionID uuid.UUID) (*models.Subscription, error)
}

// IEmailService defines the interface for outgoing e-mail
type IEmailService interface {
	SendEmail(to, subject, body string) error
	SendPlanReviewed(plan *models.DietPlan, owner, reviewer *models.Account) error
}

// IEventPublisher publishes plan lifecycle events
type IEventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
	Close() error
}

// IPlanExporter uploads approved plans for download
type IPlanExporter interface {
	Export(ctx context.Context, plan *models.DietPlan) (*types.PlanExport, error)
}
