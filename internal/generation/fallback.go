package generation

import (
	"strings"

	"github.com/storeshot/storeshot-api/internal/models"
)

// fallbackCategory groups the keyword table with the canned response it
// selects. The first category whose keywords hit the prompt wins, in the
// declared order, so the table order is part of the behavior.
type fallbackCategory struct {
	name     string
	keywords []string
	response models.AIResponse
}

var fallbackCategories = []fallbackCategory{
	{
		name:     "finance",
		keywords: []string{"finance", "bank", "budget", "money", "invest", "expense", "saving", "wallet", "crypto"},
		response: models.AIResponse{
			Theme:          "Finance app",
			Tone:           "professional",
			TargetAudience: "People managing their money",
			Screens: []models.ScreenLayout{
				{ID: "1", Headline: "Take control of your money", Subheadline: "See every account in one clear dashboard", Layout: "iphone_centered", Background: "soft_gradient", Emphasis: "benefit"},
				{ID: "2", Headline: "Budgets that build themselves", Subheadline: "Smart categories sort your spending automatically", Layout: "feature_list", Background: "solid_light", Emphasis: "feature"},
				{ID: "3", Headline: "Grow your savings", Subheadline: "Set goals and watch your progress every week", Layout: "hero", Background: "bold_gradient", Emphasis: "cta"},
			},
		},
	},
	{
		name:     "fitness",
		keywords: []string{"fitness", "workout", "exercise", "gym", "run", "training", "health", "calorie", "step"},
		response: models.AIResponse{
			Theme:          "Fitness app",
			Tone:           "bold",
			TargetAudience: "People building an exercise habit",
			Screens: []models.ScreenLayout{
				{ID: "1", Headline: "Your strongest self starts here", Subheadline: "Personalized workouts that fit your schedule", Layout: "hero", Background: "bold_gradient", Emphasis: "benefit"},
				{ID: "2", Headline: "Track every rep", Subheadline: "Detailed stats for every session you complete", Layout: "iphone_offset", Background: "solid_dark", Emphasis: "stat"},
				{ID: "3", Headline: "Stay on streak", Subheadline: "Daily reminders keep your momentum going", Layout: "iphone_centered", Background: "soft_gradient", Emphasis: "cta"},
			},
		},
	},
	{
		name:     "social",
		keywords: []string{"social", "chat", "message", "friend", "share", "community", "photo", "video", "follow"},
		response: models.AIResponse{
			Theme:          "Social app",
			Tone:           "playful",
			TargetAudience: "People staying close to their friends",
			Screens: []models.ScreenLayout{
				{ID: "1", Headline: "Where your people are", Subheadline: "Share moments with the friends who matter", Layout: "hero", Background: "bold_gradient", Emphasis: "benefit"},
				{ID: "2", Headline: "Chats that feel alive", Subheadline: "Reactions, voice notes and more in every thread", Layout: "iphone_centered", Background: "soft_gradient", Emphasis: "feature"},
				{ID: "3", Headline: "Loved by millions", Subheadline: "Join a community that keeps growing every day", Layout: "iphone_offset", Background: "solid_light", Emphasis: "social_proof"},
			},
		},
	},
	{
		name:     "wellness",
		keywords: []string{"wellness", "meditat", "sleep", "mindful", "calm", "relax", "breath", "journal", "habit"},
		response: models.AIResponse{
			Theme:          "Wellness app",
			Tone:           "minimal",
			TargetAudience: "People making space for themselves",
			Screens: []models.ScreenLayout{
				{ID: "1", Headline: "Find your calm", Subheadline: "Guided sessions for every kind of day", Layout: "iphone_centered", Background: "soft_gradient", Emphasis: "benefit"},
				{ID: "2", Headline: "Sleep better tonight", Subheadline: "Stories and soundscapes that ease you to rest", Layout: "hero", Background: "solid_dark", Emphasis: "feature"},
				{ID: "3", Headline: "Small steps, every day", Subheadline: "Build a practice that actually sticks", Layout: "feature_list", Background: "solid_light", Emphasis: "cta"},
			},
		},
	},
}

var genericFallback = models.AIResponse{
	Theme:          "Mobile app",
	Tone:           "professional",
	TargetAudience: "People who want a simpler way to get things done",
	Screens: []models.ScreenLayout{
		{ID: "1", Headline: "Everything in one place", Subheadline: "The tools you need, right where you need them", Layout: "iphone_centered", Background: "soft_gradient", Emphasis: "benefit"},
		{ID: "2", Headline: "Built for how you work", Subheadline: "Fast, focused and easy to pick up", Layout: "iphone_offset", Background: "solid_light", Emphasis: "feature"},
		{ID: "3", Headline: "Get started in seconds", Subheadline: "Download now and see the difference today", Layout: "hero", Background: "bold_gradient", Emphasis: "cta"},
	},
}

// FallbackResponse returns a deterministic layout response keyed off the
// prompt text. Used when every model attempt has failed; the result always
// passes validation.
func FallbackResponse(prompt string) models.AIResponse {
	lowered := strings.ToLower(prompt)
	for _, category := range fallbackCategories {
		for _, keyword := range category.keywords {
			if strings.Contains(lowered, keyword) {
				return category.response
			}
		}
	}
	return genericFallback
}

// FallbackCategory reports which keyword category a prompt maps to, for
// metrics.
func FallbackCategory(prompt string) string {
	lowered := strings.ToLower(prompt)
	for _, category := range fallbackCategories {
		for _, keyword := range category.keywords {
			if strings.Contains(lowered, keyword) {
				return category.name
			}
		}
	}
	return "generic"
}
