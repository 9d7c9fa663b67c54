package dish

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleCorporateLunch(t *testing.T) {
	r := Scale(100, "Corporate Lunch")

	assert.Equal(t, "Chicken and Vegetable Stir-fry with Noodles", r.DishName)
	assert.Equal(t, 5, r.BaseServings)
	assert.Equal(t, 50.0, r.TotalWeightKg)
	assert.Equal(t, 10.0, r.ScalingFactor)
	assert.Equal(t, 100.0, r.EstimatedServings)

	require.Len(t, r.Ingredients, 4)
	chicken := r.Ingredients[0]
	assert.Equal(t, "Chicken Breast (sliced)", chicken.Name)
	assert.Equal(t, 7.0, chicken.QuantityKg)
	assert.Equal(t, "7.00", chicken.Display)
	assert.Equal(t, "kg", chicken.Unit)
	assert.Equal(t, "35%", chicken.Proportion)
}

func TestScaleUnknownEventUsesDefault(t *testing.T) {
	r := Scale(100, "Unknown Type")

	assert.Equal(t, "Custom Meal", r.DishName)
	assert.Equal(t, 10, r.BaseServings)
	assert.Equal(t, 5.0, r.ScalingFactor)
	require.Len(t, r.Ingredients, 4)
	assert.Equal(t, "5.00", r.Ingredients[0].Display)
	assert.Equal(t, "4.00", r.Ingredients[1].Display)
}

func TestEveryEventTypeHasTemplate(t *testing.T) {
	for _, et := range EventTypes() {
		tmpl := Lookup(et)
		assert.NotEqual(t, "Custom Meal", tmpl.DishName, et)
		assert.NotEmpty(t, tmpl.Ingredients, et)
	}
}

func TestScaleZeroAndNegative(t *testing.T) {
	zero := Scale(0, "Holiday Party")
	assert.Equal(t, 0.0, zero.EstimatedServings)
	for _, ing := range zero.Ingredients {
		assert.Equal(t, 0.0, ing.QuantityKg)
	}

	neg := Scale(-16, "Holiday Party")
	assert.Equal(t, -16.0, neg.EstimatedServings)
	assert.Equal(t, -1.2, neg.Ingredients[0].QuantityKg)
}

func TestEstimatedServingsTracksQuantity(t *testing.T) {
	for _, q := range []float64{1, 37, 150, 1234} {
		assert.Equal(t, q, Scale(q, "Weekend Brunch").EstimatedServings)
	}
}

func TestSummary(t *testing.T) {
	rec := Scale(100, "Corporate Lunch")
	assert.Equal(t, rec.Text(), rec.Summary)
	s := rec.Summary
	assert.Contains(t, s, "Dish: Chicken and Vegetable Stir-fry with Noodles")
	assert.Contains(t, s, "Chicken Breast (sliced): 7.00 kg (35%)")
	assert.Contains(t, s, "4. Simplify Scaling")
}
