package testhelpers

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/nutriplan/backend/internal/models"
)

// MockCompletionProvider is a mock completion provider
type MockCompletionProvider struct {
	mock.Mock
}

func (m *MockCompletionProvider) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockCompletionProvider) Name() string {
	return "mock"
}

// MockEventPublisher is a mock event publisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishJSON(ctx context.Context, key string, v any) error {
	args := m.Called(ctx, key, v)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	return nil
}

// MockEmailService is a mock e-mail sender
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendEmail(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

func (m *MockEmailService) SendPlanReviewed(plan *models.DietPlan, owner, reviewer *models.Account) error {
	args := m.Called(plan, owner, reviewer)
	return args.Error(0)
}

// MockObjectStore is a mock of the S3 export bucket
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) PutJSON(ctx context.Context, objectKey string, body []byte) error {
	args := m.Called(ctx, objectKey, body)
	return args.Error(0)
}

func (m *MockObjectStore) GeneratePresignedURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error) {
	args := m.Called(ctx, objectKey, expiration)
	return args.String(0), args.Error(1)
}
