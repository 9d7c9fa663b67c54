package suggest

import (
	"errors"
	"fmt"

	"smartserve/internal/forecast"
)

// Kind identifies one of the suggestion features
type Kind string

const (
	KindRecipes       Kind = "recipes"
	KindSubstitutions Kind = "substitutions"
	KindLeftovers     Kind = "leftovers"
)

// Kinds lists every suggestion kind
func Kinds() []Kind {
	return []Kind{KindRecipes, KindSubstitutions, KindLeftovers}
}

// Prerequisite failures. Their text is shown to the user as-is.
var (
	ErrNoForecast   = errors.New("Please get a forecast first.")
	ErrNoContext    = errors.New("Please get a forecast first to provide context for substitution.")
	ErrNoIngredient = errors.New("Please enter an ingredient to substitute.")
)

// FailureMessage is shown when the provider answered without usable text
func (k Kind) FailureMessage() string {
	switch k {
	case KindRecipes:
		return "Failed to generate recipes. Please try again."
	case KindSubstitutions:
		return "Failed to get substitutions. Please try again."
	case KindLeftovers:
		return "Failed to generate leftover suggestions. Please try again."
	}
	return "Failed to generate suggestions. Please try again."
}

// ErrorMessage is shown when the provider call itself failed
func (k Kind) ErrorMessage() string {
	switch k {
	case KindRecipes:
		return "An error occurred while generating recipes."
	case KindSubstitutions:
		return "An error occurred while generating substitutions."
	case KindLeftovers:
		return "An error occurred while generating leftover suggestions."
	}
	return "An error occurred while generating suggestions."
}

// UserMessage maps a completion error for kind k to the text shown to users
func UserMessage(k Kind, err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoForecast), errors.Is(err, ErrNoContext), errors.Is(err, ErrNoIngredient):
		return err.Error()
	case errors.Is(err, ErrUnexpectedResponse):
		return k.FailureMessage()
	default:
		return k.ErrorMessage()
	}
}

// RecipePrompt asks for recipe ideas sized to the forecast
func RecipePrompt(ev forecast.EventDetails, predicted int) string {
	return fmt.Sprintf("Given an event type of '%s', an audience profile of '%s', an expected footfall of '%d', "+
		"and a forecasted food quantity of '%d' units, suggest 3-5 distinct recipe ideas or meal components that would be suitable. "+
		"For each suggestion, provide a brief description and mention key ingredients. "+
		"Focus on minimizing waste and catering to the specified audience. Format the output as a simple numbered list.",
		ev.EventType, ev.AudienceProfile, ev.Footfall, predicted)
}

// SubstitutionPrompt asks for alternatives to one ingredient
func SubstitutionPrompt(ev forecast.EventDetails, ingredient string) string {
	return fmt.Sprintf("Given an event type of '%s' and an audience profile of '%s', "+
		"suggest 3-5 suitable ingredient substitutions for '%s'. "+
		"Consider common dietary restrictions (e.g., dairy-free, gluten-free, nut-free) and general culinary alternatives. "+
		"For each substitution, briefly explain why it's a good alternative. Format the output as a simple numbered list.",
		ev.EventType, ev.AudienceProfile, ingredient)
}

// LeftoverPrompt asks for ways to use what is left after the event
func LeftoverPrompt(ev forecast.EventDetails, predicted int) string {
	return fmt.Sprintf("Given an event type of '%s', an audience profile of '%s', "+
		"and a forecasted food quantity of '%d' units (implying potential leftovers if not fully consumed), "+
		"suggest 3-5 creative and practical ways to utilize potential leftovers from this event. "+
		"Focus on minimizing food waste. For each idea, briefly describe how it can be implemented. "+
		"Format the output as a simple numbered list.",
		ev.EventType, ev.AudienceProfile, predicted)
}
