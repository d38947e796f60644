package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// MealKeys are the meal entries every plan document must contain
var MealKeys = []string{"breakfast", "lunch", "dinner", "snack"}

// ErrIncompletePlan is returned when a decoded document is missing a meal
var ErrIncompletePlan = errors.New("plan document is missing a required meal")

// Macros is a protein/carbohydrate/fat breakdown in grams
type Macros struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// Add returns the element-wise sum of two breakdowns
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Protein: m.Protein + o.Protein,
		Carbs:   m.Carbs + o.Carbs,
		Fat:     m.Fat + o.Fat,
	}
}

// Meal is one entry of a plan document
type Meal struct {
	Description   string   `json:"description"`
	Foods         []string `json:"foods"`
	Preparation   string   `json:"preparation"`
	EstimatedCost float64  `json:"estimated_cost"`
	Calories      float64  `json:"calories"`
	Macros        Macros   `json:"macros"`
}

// PlanDocument is the structured one-day meal plan stored with each plan
type PlanDocument struct {
	Breakfast         *Meal   `json:"breakfast"`
	Lunch             *Meal   `json:"lunch"`
	Dinner            *Meal   `json:"dinner"`
	Snack             *Meal   `json:"snack"`
	TotalCost         float64 `json:"total_cost"`
	TotalCalories     float64 `json:"total_calories"`
	TotalMacros       Macros  `json:"total_macros"`
	NutritionistNotes string  `json:"nutritionist_notes"`
}

// Meals returns the four meals in serving order
func (d PlanDocument) Meals() []*Meal {
	return []*Meal{d.Breakfast, d.Lunch, d.Dinner, d.Snack}
}

// Complete reports whether all four meals are present
func (d PlanDocument) Complete() bool {
	for _, m := range d.Meals() {
		if m == nil {
			return false
		}
	}
	return true
}

// DecodePlanDocument parses a serialized document and checks it carries every meal
func DecodePlanDocument(data []byte) (PlanDocument, error) {
	var doc PlanDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return PlanDocument{}, fmt.Errorf("failed to decode plan document: %w", err)
	}
	if !doc.Complete() {
		return PlanDocument{}, ErrIncompletePlan
	}
	return doc, nil
}

// Value implements the driver.Valuer interface
func (d PlanDocument) Value() (driver.Value, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (d *PlanDocument) Scan(value interface{}) error {
	if value == nil {
		*d = PlanDocument{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported plan document type %T", value)
	}

	return json.Unmarshal(bytes, d)
}
