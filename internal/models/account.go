package models

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role identifies which profile variant an account carries
type Role string

const (
	RoleEndUser      Role = "end_user"
	RoleProfessional Role = "nutrition_professional"
)

// DefaultBudgetPerMeal is applied to end users that register without a budget
const DefaultBudgetPerMeal = 25.00

// ErrWrongRole is returned when a profile variant is read or written on an
// account whose role does not own it
var ErrWrongRole = errors.New("profile does not belong to account role")

// ParseRole accepts the canonical role names and the short aliases used by
// older clients
func ParseRole(v string) (Role, bool) {
	switch v {
	case string(RoleEndUser), "user":
		return RoleEndUser, true
	case string(RoleProfessional), "nutritionist":
		return RoleProfessional, true
	}
	return "", false
}

// EndUserProfile holds the attributes only end users carry
type EndUserProfile struct {
	Age                 *int     `gorm:"column:age" json:"age"`
	Weight              *float64 `gorm:"column:weight" json:"weight"`
	Height              *float64 `gorm:"column:height" json:"height"`
	Goal                *string  `gorm:"column:goal;type:text" json:"goal"`
	BudgetPerMeal       *float64 `gorm:"column:budget_per_meal" json:"budget_per_meal"`
	DietaryRestrictions *string  `gorm:"column:dietary_restrictions;type:text" json:"dietary_restrictions"`
}

func (p EndUserProfile) empty() bool {
	return p == EndUserProfile{}
}

// ProfessionalProfile holds the attributes only nutrition professionals carry
type ProfessionalProfile struct {
	LicenseNumber  *string `gorm:"column:license_number;size:50" json:"crn_number"`
	Specialization *string `gorm:"column:specialization;size:100" json:"specialization"`
}

func (p ProfessionalProfile) empty() bool {
	return p == ProfessionalProfile{}
}

// Account is a person using the system. Both profile variants are embedded
// in the users row; only the one selected by Role may hold values.
type Account struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primarykey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
	Email        string         `gorm:"uniqueIndex;not null"`
	PasswordHash string         `gorm:"not null"`
	Name         string         `gorm:"not null"`
	Role         Role           `gorm:"type:varchar(32);not null;index"`

	EndUserFields      EndUserProfile      `gorm:"embedded"`
	ProfessionalFields ProfessionalProfile `gorm:"embedded"`
}

func (Account) TableName() string { return "users" }

// NewAccount builds an account with the given role and an empty profile
func NewAccount(email, passwordHash, name string, role Role) *Account {
	return &Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         role,
	}
}

// BeforeCreate assigns an id when the caller did not
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// BeforeSave refuses to persist values of the inactive profile variant
func (a *Account) BeforeSave(tx *gorm.DB) error {
	switch a.Role {
	case RoleEndUser:
		if !a.ProfessionalFields.empty() {
			return ErrWrongRole
		}
	case RoleProfessional:
		if !a.EndUserFields.empty() {
			return ErrWrongRole
		}
	default:
		return errors.New("unknown account role")
	}
	return nil
}

// EndUser returns the end user profile, or ErrWrongRole for professionals
func (a *Account) EndUser() (EndUserProfile, error) {
	if a.Role != RoleEndUser {
		return EndUserProfile{}, ErrWrongRole
	}
	return a.EndUserFields, nil
}

// SetEndUser replaces the end user profile
func (a *Account) SetEndUser(p EndUserProfile) error {
	if a.Role != RoleEndUser {
		return ErrWrongRole
	}
	a.EndUserFields = p
	return nil
}

// Professional returns the professional profile, or ErrWrongRole for end users
func (a *Account) Professional() (ProfessionalProfile, error) {
	if a.Role != RoleProfessional {
		return ProfessionalProfile{}, ErrWrongRole
	}
	return a.ProfessionalFields, nil
}

// SetProfessional replaces the professional profile
func (a *Account) SetProfessional(p ProfessionalProfile) error {
	if a.Role != RoleProfessional {
		return ErrWrongRole
	}
	a.ProfessionalFields = p
	return nil
}

// Budget returns the per-meal budget, falling back to the default
func (a *Account) Budget() float64 {
	if a.EndUserFields.BudgetPerMeal != nil {
		return *a.EndUserFields.BudgetPerMeal
	}
	return DefaultBudgetPerMeal
}

// MarshalJSON emits the identity fields plus the active profile variant only
func (a Account) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{
		"id":         a.ID,
		"email":      a.Email,
		"name":       a.Name,
		"user_type":  a.Role,
		"created_at": a.CreatedAt,
	}

	var profile interface{}
	switch a.Role {
	case RoleEndUser:
		profile = a.EndUserFields
	case RoleProfessional:
		profile = a.ProfessionalFields
	}
	if profile != nil {
		raw, err := json.Marshal(profile)
		if err != nil {
			return nil, err
		}
		fields := map[string]interface{}{}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, err
		}
		for k, v := range fields {
			out[k] = v
		}
	}

	return json.Marshal(out)
}
