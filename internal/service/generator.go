package service

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/types"
)

//go:embed prompts/diet_plan.tmpl
var dietPlanPrompt string

var dietPlanTemplate = template.Must(template.New("diet_plan").Parse(dietPlanPrompt))

// DefaultGoal is used when neither the request nor the profile has a goal
const DefaultGoal = "Melhorar saúde"

// ProfileSnapshot is the account data a plan is generated from
type ProfileSnapshot struct {
	Name                string
	Age                 *int
	Weight              *float64
	Height              *float64
	Goal                string
	BudgetPerMeal       float64
	DietaryRestrictions string
}

// PlanRequest is the set of parameters recorded with a plan
type PlanRequest struct {
	Goal                string
	BudgetPerMeal       float64
	DietaryRestrictions string
}

// NewProfileSnapshot merges an end user's profile with the request
// overrides. Overrides win; missing values fall back to the profile.
func NewProfileSnapshot(account *models.Account, overrides *types.GeneratePlanRequest) (ProfileSnapshot, PlanRequest, error) {
	profile, err := account.EndUser()
	if err != nil {
		return ProfileSnapshot{}, PlanRequest{}, ErrForbidden
	}

	req := PlanRequest{
		Goal:                DefaultGoal,
		BudgetPerMeal:       account.Budget(),
		DietaryRestrictions: deref(profile.DietaryRestrictions),
	}
	if g := deref(profile.Goal); g != "" {
		req.Goal = g
	}
	if overrides != nil {
		if overrides.Goal != nil && strings.TrimSpace(*overrides.Goal) != "" {
			req.Goal = *overrides.Goal
		}
		if overrides.BudgetPerMeal != nil {
			if err := validateBudget(*overrides.BudgetPerMeal); err != nil {
				return ProfileSnapshot{}, PlanRequest{}, err
			}
			req.BudgetPerMeal = *overrides.BudgetPerMeal
		}
		if overrides.DietaryRestrictions != nil {
			req.DietaryRestrictions = *overrides.DietaryRestrictions
		}
	}

	snap := ProfileSnapshot{
		Name:                account.Name,
		Age:                 profile.Age,
		Weight:              profile.Weight,
		Height:              profile.Height,
		Goal:                req.Goal,
		BudgetPerMeal:       req.BudgetPerMeal,
		DietaryRestrictions: req.DietaryRestrictions,
	}
	return snap, req, nil
}

// PlanGenerator produces plan documents. A configured completion provider is
// tried first; any failure degrades to the deterministic fallback.
type PlanGenerator struct {
	provider CompletionProvider
	timeout  time.Duration
}

var _ IPlanGenerator = (*PlanGenerator)(nil)

// NewPlanGenerator creates a generator. provider may be nil.
func NewPlanGenerator(provider CompletionProvider, timeout time.Duration) *PlanGenerator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PlanGenerator{provider: provider, timeout: timeout}
}

// Generate never fails: it returns either the parsed completion or a fallback plan
func (g *PlanGenerator) Generate(ctx context.Context, snap ProfileSnapshot) models.PlanDocument {
	if g.provider != nil {
		doc, err := g.complete(ctx, snap)
		if err == nil {
			return doc
		}
		log.Printf("Plan generation via %s failed, using fallback: %v", g.provider.Name(), err)
	}
	return FallbackPlan(snap.Goal, snap.BudgetPerMeal)
}

// ProviderName reports the active completion provider, or "fallback"
func (g *PlanGenerator) ProviderName() string {
	if g.provider == nil {
		return "fallback"
	}
	return g.provider.Name()
}

func (g *PlanGenerator) complete(ctx context.Context, snap ProfileSnapshot) (doc models.PlanDocument, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("completion provider panicked: %v", r)
		}
	}()

	prompt, err := BuildPrompt(snap)
	if err != nil {
		return models.PlanDocument{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.provider.Complete(ctx, prompt)
	if err != nil {
		return models.PlanDocument{}, err
	}

	return ParseCompletion(text)
}

type promptMeal struct {
	Key  string
	Hint string
}

type promptData struct {
	Name         string
	Age          string
	Weight       string
	Height       string
	Goal         string
	Budget       string
	Restrictions string
	Meals        []promptMeal
}

// BuildPrompt renders the generation instruction for a profile snapshot
func BuildPrompt(snap ProfileSnapshot) (string, error) {
	data := promptData{
		Name:         orDefault(snap.Name, "Usuário"),
		Age:          "Não informado",
		Weight:       "Não informado",
		Height:       "Não informado",
		Goal:         orDefault(snap.Goal, DefaultGoal),
		Budget:       strconv.FormatFloat(snap.BudgetPerMeal, 'f', 2, 64),
		Restrictions: orDefault(snap.DietaryRestrictions, "Nenhuma"),
		Meals: []promptMeal{
			{"breakfast", "Descrição detalhada da refeição"},
			{"lunch", "Descrição detalhada da refeição"},
			{"dinner", "Descrição detalhada da refeição"},
			{"snack", "Descrição detalhada do lanche"},
		},
	}
	if snap.Age != nil {
		data.Age = strconv.Itoa(*snap.Age)
	}
	if snap.Weight != nil {
		data.Weight = strconv.FormatFloat(*snap.Weight, 'f', -1, 64)
	}
	if snap.Height != nil {
		data.Height = strconv.FormatFloat(*snap.Height, 'f', -1, 64)
	}

	var buf bytes.Buffer
	if err := dietPlanTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return buf.String(), nil
}

// ParseCompletion strips code fences from a completion and decodes the plan
func ParseCompletion(text string) (models.PlanDocument, error) {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return models.PlanDocument{}, errors.New("empty completion")
	}
	switch {
	case strings.HasPrefix(clean, "```json"):
		clean = strings.TrimPrefix(clean, "```json")
	case strings.HasPrefix(clean, "```"):
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")

	return models.DecodePlanDocument([]byte(strings.TrimSpace(clean)))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
