package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/types"
)

// ExportURLTTL is how long a presigned export link stays valid
const ExportURLTTL = 15 * time.Minute

// ObjectStore is the subset of the S3 client used for exports
type ObjectStore interface {
	PutJSON(ctx context.Context, objectKey string, body []byte) error
	GeneratePresignedURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error)
}

// PlanExporter uploads approved plans as JSON and hands out presigned links
type PlanExporter struct {
	store ObjectStore
	now   func() time.Time
}

var _ IPlanExporter = (*PlanExporter)(nil)

func NewPlanExporter(store ObjectStore) *PlanExporter {
	return &PlanExporter{store: store, now: time.Now}
}

func (e *PlanExporter) Export(ctx context.Context, plan *models.DietPlan) (*types.PlanExport, error) {
	if plan.Status != models.PlanApproved {
		return nil, ErrNotExportable
	}

	body, err := json.Marshal(types.NewPlanResponse(plan))
	if err != nil {
		return nil, fmt.Errorf("failed to encode plan: %w", err)
	}

	key := fmt.Sprintf("plans/%s.json", plan.ID)
	if err := e.store.PutJSON(ctx, key, body); err != nil {
		return nil, fmt.Errorf("failed to upload plan: %w", err)
	}

	url, err := e.store.GeneratePresignedURL(ctx, key, ExportURLTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to presign plan export: %w", err)
	}

	return &types.PlanExport{
		URL:       url,
		ObjectKey: key,
		ExpiresAt: e.now().UTC().Add(ExportURLTTL),
	}, nil
}
