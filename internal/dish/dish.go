package dish

import (
	"fmt"
	"math"
	"strings"
)

// KgPerUnit is the prepared weight assumed for one forecast unit.
const KgPerUnit = 0.5

// IngredientTemplate is one line of a base recipe
type IngredientTemplate struct {
	Name         string  `json:"name"`
	BaseWeightKg float64 `json:"baseWeightKg"`
	Proportion   string  `json:"proportion"`
}

// Template is a base recipe for an event type
type Template struct {
	DishName     string               `json:"dishName"`
	Description  string               `json:"description"`
	BaseServings int                  `json:"baseServings"`
	Ingredients  []IngredientTemplate `json:"ingredients"`
}

// ScaledIngredient is an ingredient quantity scaled to a forecast
type ScaledIngredient struct {
	Name       string  `json:"name"`
	QuantityKg float64 `json:"quantityKg"`
	Display    string  `json:"quantity"`
	Unit       string  `json:"unit"`
	Proportion string  `json:"proportion"`
}

// Recommendation is the dish breakdown shown next to a forecast
type Recommendation struct {
	EventType     string             `json:"eventType"`
	DishName      string             `json:"dishName"`
	Description   string             `json:"description"`
	BaseServings  int                `json:"baseServings"`
	TotalWeightKg float64            `json:"totalWeightKg"`
	ScalingFactor float64            `json:"scalingFactor"`
	Ingredients   []ScaledIngredient `json:"adjustedIngredients"`
	Insights      []string           `json:"problemSolvingInsights"`
	Summary       string             `json:"summary"`

	// EstimatedServings is numerically the predicted quantity. The kg
	// conversion applied and then undone cancels out.
	EstimatedServings float64 `json:"estimatedServings"`
}

// DefaultEventType keys the template used for unknown event types.
const DefaultEventType = ""

var templates = map[string]Template{
	"Holiday Party": {
		DishName:     "Festive Roast Chicken with Root Vegetables",
		Description:  "A hearty and crowd-pleasing dish, perfect for holiday gatherings. Focuses on balanced nutrition and easy scaling.",
		BaseServings: 8,
		Ingredients: []IngredientTemplate{
			{"Whole Chicken", 1.2, "45%"},
			{"Potatoes", 0.7, "25%"},
			{"Carrots & Parsnips", 0.4, "15%"},
			{"Herbs & Spices", 0.1, "5%"},
			{"Broth/Stock", 0.2, "10%"},
		},
	},
	"Corporate Lunch": {
		DishName:     "Chicken and Vegetable Stir-fry with Noodles",
		Description:  "A quick, customizable, and efficient meal for a professional setting, minimizing prep time and maximizing flavor.",
		BaseServings: 5,
		Ingredients: []IngredientTemplate{
			{"Chicken Breast (sliced)", 0.7, "35%"},
			{"Mixed Stir-fry Vegetables", 0.8, "40%"},
			{"Egg Noodles", 0.4, "20%"},
			{"Stir-fry Sauce", 0.1, "5%"},
		},
	},
	"Weekend Brunch": {
		DishName:     "Hearty Breakfast Burrito Bar",
		Description:  "An interactive and satisfying option for a brunch crowd, allowing guests to customize their plates and reducing individual portioning effort.",
		BaseServings: 6,
		Ingredients: []IngredientTemplate{
			{"Scrambled Eggs", 0.6, "30%"},
			{"Breakfast Sausage/Bacon", 0.4, "20%"},
			{"Potatoes (diced & roasted)", 0.5, "25%"},
			{"Tortillas", 0.3, "15%"},
			{"Salsa & Cheese", 0.2, "10%"},
		},
	},
	"Birthday Celebration": {
		DishName:     "Mini Sliders and Fries",
		Description:  "A fun and easy-to-eat option for a celebration, perfect for casual mingling and catering to diverse tastes with simple ingredients.",
		BaseServings: 10,
		Ingredients: []IngredientTemplate{
			{"Ground Beef (for patties)", 0.8, "40%"},
			{"Slider Buns", 0.4, "20%"},
			{"Cheese Slices", 0.2, "10%"},
			{"Lettuce, Tomato, Onion", 0.2, "10%"},
			{"Fries (frozen)", 0.4, "20%"},
		},
	},
	DefaultEventType: {
		DishName:     "Custom Meal",
		Description:  "A versatile meal suitable for various events.",
		BaseServings: 10,
		Ingredients: []IngredientTemplate{
			{"Protein (e.g., Chicken Breast)", 1.0, "40%"},
			{"Staple (e.g., Rice)", 0.8, "30%"},
			{"Vegetables (mixed)", 0.5, "20%"},
			{"Sauce/Flavorings", 0.2, "10%"},
		},
	},
}

var insights = []string{
	"Prevent Over-preparation: By knowing exact quantities for each ingredient, you avoid buying or preparing too much, directly reducing food waste.",
	"Optimize Ingredient Use: The proportions guide you in balancing flavors and textures, ensuring a delicious outcome without excess.",
	"Streamline Shopping: With weights in kilograms, you can easily purchase the precise amount needed, saving time and money.",
	"Simplify Scaling: This structure makes it easy to scale the recipe up or down for future events by simply adjusting the total food quantity.",
}

// EventTypes lists the event types with a dedicated template
func EventTypes() []string {
	return []string{"Holiday Party", "Corporate Lunch", "Weekend Brunch", "Birthday Celebration"}
}

// Lookup returns the template for eventType, falling back to the default
func Lookup(eventType string) Template {
	if t, ok := templates[eventType]; ok {
		return t
	}
	return templates[DefaultEventType]
}

// Scale turns a predicted quantity into per-ingredient weights for the
// event's dish. Zero and negative quantities are scaled as given.
func Scale(predictedQuantity float64, eventType string) Recommendation {
	t := Lookup(eventType)
	total := predictedQuantity * KgPerUnit
	factor := total / float64(t.BaseServings)

	scaled := make([]ScaledIngredient, len(t.Ingredients))
	for i, ing := range t.Ingredients {
		qty := round2(ing.BaseWeightKg * factor)
		scaled[i] = ScaledIngredient{
			Name:       ing.Name,
			QuantityKg: qty,
			Display:    fmt.Sprintf("%.2f", qty),
			Unit:       "kg",
			Proportion: ing.Proportion,
		}
	}

	rec := Recommendation{
		EventType:         eventType,
		DishName:          t.DishName,
		Description:       t.Description,
		BaseServings:      t.BaseServings,
		TotalWeightKg:     total,
		ScalingFactor:     factor,
		Ingredients:       scaled,
		Insights:          append([]string(nil), insights...),
		EstimatedServings: math.Round(predictedQuantity),
	}
	rec.Summary = rec.Text()
	return rec
}

// Text renders the recommendation as plain text for copying
func (r Recommendation) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dish: %s\n\nIngredients:\n", r.DishName)
	for _, ing := range r.Ingredients {
		fmt.Fprintf(&b, "%s: %s %s (%s)\n", ing.Name, ing.Display, ing.Unit, ing.Proportion)
	}
	b.WriteString("\nProblem-Solving Insights:\nThis detailed breakdown helps you:\n")
	for i, line := range r.Insights {
		fmt.Fprintf(&b, "%d. %s\n", i+1, line)
	}
	return b.String()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
