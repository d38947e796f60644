package database

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/types"
)

// DemoPassword is shared by all demo accounts
const DemoPassword = "123456"

// DemoAccounts returns the end user and professional created for local development
func DemoAccounts() []*types.RegisterRequest {
	age := 34
	weight := 70.0
	height := 165.0
	goal := "Perder peso e controlar hipertensão"
	budget := 25.00
	restrictions := "Sem lactose"
	crn := "CRN-3 12345"
	specialization := "Nutrição Clínica"

	return []*types.RegisterRequest{
		{
			Email:               "ana@email.com",
			Password:            DemoPassword,
			Name:                "Ana Silva",
			UserType:            "end_user",
			Age:                 &age,
			Weight:              &weight,
			Height:              &height,
			Goal:                &goal,
			BudgetPerMeal:       &budget,
			DietaryRestrictions: &restrictions,
		},
		{
			Email:          "maria@nutricionista.com",
			Password:       DemoPassword,
			Name:           "Dr. Maria Oliveira",
			UserType:       "nutrition_professional",
			CRNNumber:      &crn,
			Specialization: &specialization,
		},
	}
}

// SeedDemoAccounts registers the demo accounts, skipping those that exist.
// It returns the number of accounts created.
func SeedDemoAccounts(ctx context.Context, auth service.IAuthService) (int, error) {
	created := 0
	for _, req := range DemoAccounts() {
		_, err := auth.Register(ctx, req)
		switch {
		case errors.Is(err, service.ErrDuplicateEmail):
			log.Printf("Demo account %s already exists, skipping", req.Email)
		case err != nil:
			return created, fmt.Errorf("failed to seed %s: %w", req.Email, err)
		default:
			log.Printf("Created demo account %s", req.Email)
			created++
		}
	}
	return created, nil
}
