package service

import (
	"math"
	"strings"

	"github.com/pageza/nutriplan/backend/internal/models"
)

// weightLossKeyword selects the weight loss template when found in the goal
const weightLossKeyword = "perder peso"

// mealTemplate describes one fixed meal. The estimated cost is
// budget*costFactor, capped at costCap unless costCap is zero.
type mealTemplate struct {
	description string
	foods       []string
	preparation string
	costFactor  float64
	costCap     float64
	calories    float64
	macros      models.Macros
}

type planTemplate struct {
	breakfast, lunch, dinner, snack mealTemplate
	totalCostFactor                 float64
	notes                           string
}

var weightLossTemplate = planTemplate{
	breakfast: mealTemplate{
		description: "Smoothie verde com proteína",
		foods:       []string{"Espinafre (50g)", "Banana (1 unidade)", "Whey protein (30g)", "Água de coco (200ml)"},
		preparation: "Bater tudo no liquidificador até ficar homogêneo",
		costFactor:  0.8,
		costCap:     20,
		calories:    280,
		macros:      models.Macros{Protein: 25, Carbs: 35, Fat: 3},
	},
	lunch: mealTemplate{
		description: "Salmão grelhado com quinoa e vegetais",
		foods:       []string{"Salmão (120g)", "Quinoa cozida (80g)", "Brócolis (100g)", "Cenoura (50g)"},
		preparation: "Grelhar o salmão, cozinhar quinoa e refogar vegetais",
		costFactor:  1,
		calories:    450,
		macros:      models.Macros{Protein: 35, Carbs: 40, Fat: 15},
	},
	dinner: mealTemplate{
		description: "Frango grelhado com batata doce",
		foods:       []string{"Peito de frango (100g)", "Batata doce assada (150g)", "Salada verde (100g)"},
		preparation: "Grelhar frango, assar batata doce, temperar salada",
		costFactor:  0.9,
		costCap:     22,
		calories:    380,
		macros:      models.Macros{Protein: 30, Carbs: 45, Fat: 8},
	},
	snack: mealTemplate{
		description: "Mix de castanhas e frutas",
		foods:       []string{"Castanha do Pará (15g)", "Amêndoas (10g)", "Maçã (1 unidade)"},
		preparation: "Consumir as castanhas com a maçã",
		costFactor:  0.6,
		costCap:     15,
		calories:    200,
		macros:      models.Macros{Protein: 6, Carbs: 25, Fat: 12},
	},
	totalCostFactor: 3.2,
	notes:           "Plano focado em perda de peso com déficit calórico controlado. Rico em proteínas para preservar massa muscular.",
}

var maintenanceTemplate = planTemplate{
	breakfast: mealTemplate{
		description: "Ovos mexidos com aveia e frutas",
		foods:       []string{"Ovos (2 unidades)", "Aveia (40g)", "Banana (1 unidade)", "Leite (200ml)"},
		preparation: "Mexer ovos, preparar mingau de aveia com leite e banana",
		costFactor:  0.7,
		costCap:     18,
		calories:    420,
		macros:      models.Macros{Protein: 22, Carbs: 45, Fat: 15},
	},
	lunch: mealTemplate{
		description: "Peito de frango com arroz integral",
		foods:       []string{"Peito de frango (150g)", "Arroz integral (100g)", "Feijão (80g)", "Salada mista (100g)"},
		preparation: "Grelhar frango, cozinhar arroz e feijão, preparar salada",
		costFactor:  1,
		calories:    520,
		macros:      models.Macros{Protein: 40, Carbs: 55, Fat: 12},
	},
	dinner: mealTemplate{
		description: "Carne magra com legumes",
		foods:       []string{"Carne magra (120g)", "Batata (150g)", "Abobrinha (100g)", "Tomate (80g)"},
		preparation: "Grelhar carne, cozinhar batata, refogar legumes",
		costFactor:  1.1,
		costCap:     28,
		calories:    480,
		macros:      models.Macros{Protein: 35, Carbs: 40, Fat: 18},
	},
	snack: mealTemplate{
		description: "Iogurte com granola",
		foods:       []string{"Iogurte natural (150g)", "Granola (30g)", "Mel (1 colher)"},
		preparation: "Misturar iogurte com granola e mel",
		costFactor:  0.8,
		costCap:     20,
		calories:    280,
		macros:      models.Macros{Protein: 12, Carbs: 35, Fat: 8},
	},
	totalCostFactor: 3.6,
	notes:           "Plano equilibrado para manutenção ou ganho de peso saudável. Boa distribuição de macronutrientes.",
}

// FallbackPlan builds the deterministic plan for a goal and per-meal budget
func FallbackPlan(goal string, budget float64) models.PlanDocument {
	tpl := maintenanceTemplate
	if strings.Contains(strings.ToLower(goal), weightLossKeyword) {
		tpl = weightLossTemplate
	}

	doc := models.PlanDocument{
		Breakfast:         tpl.breakfast.build(budget),
		Lunch:             tpl.lunch.build(budget),
		Dinner:            tpl.dinner.build(budget),
		Snack:             tpl.snack.build(budget),
		TotalCost:         roundCents(budget * tpl.totalCostFactor),
		NutritionistNotes: tpl.notes,
	}
	for _, m := range doc.Meals() {
		doc.TotalCalories += m.Calories
		doc.TotalMacros = doc.TotalMacros.Add(m.Macros)
	}
	return doc
}

func (t mealTemplate) build(budget float64) *models.Meal {
	cost := budget * t.costFactor
	if t.costCap > 0 {
		cost = math.Min(cost, t.costCap)
	}
	foods := make([]string, len(t.foods))
	copy(foods, t.foods)
	return &models.Meal{
		Description:   t.description,
		Foods:         foods,
		Preparation:   t.preparation,
		EstimatedCost: roundCents(cost),
		Calories:      t.calories,
		Macros:        t.macros,
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
