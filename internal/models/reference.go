package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FoodPrice is a reference price for one food item at one market
type FoodPrice struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	FoodName     string    `gorm:"size:100;not null;index" json:"food_name"`
	PricePerUnit float64   `gorm:"not null" json:"price_per_unit"`
	Unit         string    `gorm:"size:20;not null" json:"unit"`
	Supermarket  string    `gorm:"size:50" json:"supermarket"`
	Location     string    `gorm:"size:100" json:"location"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (f *FoodPrice) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// SubscriptionTier is the paid plan a subscription grants
type SubscriptionTier string

const (
	TierSmart SubscriptionTier = "smart"
	TierPlus  SubscriptionTier = "plus"
)

// SubscriptionStatus is the billing state of a subscription
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
)

// Subscription is a billing record for an account
type Subscription struct {
	ID        uuid.UUID          `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID          `gorm:"type:varchar(36);not null;index" json:"user_id"`
	PlanType  SubscriptionTier   `gorm:"type:varchar(20);not null" json:"plan_type"`
	Status    SubscriptionStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Price     float64            `gorm:"not null" json:"price"`
	StartDate time.Time          `json:"start_date"`
	EndDate   *time.Time         `json:"end_date"`
	Metadata  datatypes.JSON     `json:"metadata"`
	CreatedAt time.Time          `json:"created_at"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
