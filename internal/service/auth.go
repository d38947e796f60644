package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/types"
)

// TokenTTL is how long an access token stays valid
const TokenTTL = 7 * 24 * time.Hour

// AuthService owns accounts, credentials and access tokens
type AuthService struct {
	db        *gorm.DB
	jwtSecret string
}

var _ IAuthService = (*AuthService)(nil)

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
	}
}

func (s *AuthService) Register(ctx context.Context, req *types.RegisterRequest) (*models.Account, error) {
	required := []struct{ name, value string }{
		{"email", req.Email},
		{"password", req.Password},
		{"name", req.Name},
		{"user_type", req.UserType},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return nil, fmt.Errorf("%w: field %s is required", ErrValidation, f.name)
		}
	}

	role, ok := models.ParseRole(req.UserType)
	if !ok {
		return nil, fmt.Errorf("%w: unknown user_type %q", ErrValidation, req.UserType)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := models.NewAccount(req.Email, string(hashedPassword), strings.TrimSpace(req.Name), role)
	switch role {
	case models.RoleEndUser:
		budget := models.DefaultBudgetPerMeal
		if req.BudgetPerMeal != nil {
			if err := validateBudget(*req.BudgetPerMeal); err != nil {
				return nil, err
			}
			budget = *req.BudgetPerMeal
		}
		err = account.SetEndUser(models.EndUserProfile{
			Age:                 req.Age,
			Weight:              req.Weight,
			Height:              req.Height,
			Goal:                req.Goal,
			BudgetPerMeal:       &budget,
			DietaryRestrictions: req.DietaryRestrictions,
		})
	case models.RoleProfessional:
		err = account.SetProfessional(models.ProfessionalProfile{
			LicenseNumber:  req.CRNNumber,
			Specialization: req.Specialization,
		})
	}
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Unscoped().Model(&models.Account{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if count > 0 {
			return ErrDuplicateEmail
		}
		if err := tx.Create(account).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateEmail
			}
			return fmt.Errorf("failed to create account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	var account models.Account
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &account, nil
}

func (s *AuthService) GetAccount(ctx context.Context, accountID uuid.UUID) (*models.Account, error) {
	var account models.Account
	if err := s.db.WithContext(ctx).First(&account, "id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return &account, nil
}

// UpdateProfile applies the name and the fields of the account's own role.
// Fields of the other role are dropped without error.
func (s *AuthService) UpdateProfile(ctx context.Context, accountID uuid.UUID, req *types.UpdateProfileRequest) (*models.Account, error) {
	var account models.Account
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&account, "id = ?", accountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load account: %w", err)
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return fmt.Errorf("%w: name must not be empty", ErrValidation)
			}
			account.Name = name
		}

		switch account.Role {
		case models.RoleEndUser:
			p, _ := account.EndUser()
			setIfPresent(&p.Age, req.Age)
			setIfPresent(&p.Weight, req.Weight)
			setIfPresent(&p.Height, req.Height)
			setIfPresent(&p.Goal, req.Goal)
			if req.BudgetPerMeal != nil {
				if err := validateBudget(*req.BudgetPerMeal); err != nil {
					return err
				}
			}
			setIfPresent(&p.BudgetPerMeal, req.BudgetPerMeal)
			setIfPresent(&p.DietaryRestrictions, req.DietaryRestrictions)
			if err := account.SetEndUser(p); err != nil {
				return err
			}
		case models.RoleProfessional:
			p, _ := account.Professional()
			setIfPresent(&p.LicenseNumber, req.CRNNumber)
			setIfPresent(&p.Specialization, req.Specialization)
			if err := account.SetProfessional(p); err != nil {
				return err
			}
		}

		if err := tx.Save(&account).Error; err != nil {
			return fmt.Errorf("failed to update account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func validateBudget(budget float64) error {
	if budget <= 0 {
		return fmt.Errorf("%w: budget_per_meal must be positive", ErrValidation)
	}
	return nil
}

func setIfPresent[T any](dst **T, v *T) {
	if v != nil {
		*dst = v
	}
}

func (s *AuthService) GenerateToken(account *models.Account) (string, error) {
	now := time.Now()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
		UserID: account.ID,
		Role:   account.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
