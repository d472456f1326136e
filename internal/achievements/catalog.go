package achievements

import "github.com/fullstackacademy/academy/internal/registry"

// Achievement is a static catalog entry. Unlock predicates read only the
// Stats snapshot, so evaluation stays a pure function of current state.
type Achievement struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Icon        string           `json:"icon"`
	Description string           `json:"description"`
	Category    Category         `json:"category"`
	Rarity      Rarity           `json:"rarity"`
	Tier        registry.TierKey `json:"tier,omitempty"`

	Unlocked func(*Stats) bool `json:"-"`
}

// Catalog returns the canonical achievement catalog. This is the single
// source of truth; consumers render it read-only.
func Catalog() []Achievement {
	return []Achievement{
		{
			ID:          "first-steps",
			Title:       "First Steps",
			Icon:        "🎯",
			Description: "Complete your first module",
			Category:    CategoryCompletion,
			Rarity:      RarityCommon,
			Unlocked:    func(s *Stats) bool { return s.CompletedModules >= 1 },
		},
		{
			ID:          "foundation-builder",
			Title:       "Foundation Builder",
			Icon:        "🏗️",
			Description: "Complete every foundational module",
			Category:    CategoryCompletion,
			Rarity:      RarityUncommon,
			Tier:        registry.TierFoundational,
			Unlocked:    func(s *Stats) bool { return s.tierComplete(registry.TierFoundational) },
		},
		{
			ID:          "core-graduate",
			Title:       "Core Graduate",
			Icon:        "🎓",
			Description: "Complete every core module",
			Category:    CategoryCompletion,
			Rarity:      RarityRare,
			Tier:        registry.TierCore,
			Unlocked:    func(s *Stats) bool { return s.tierComplete(registry.TierCore) },
		},
		{
			ID:          "halfway-there",
			Title:       "Halfway There",
			Icon:        "⛰️",
			Description: "Reach 50% overall completion",
			Category:    CategoryCompletion,
			Rarity:      RarityRare,
			Unlocked:    func(s *Stats) bool { return s.OverallProgress >= 50 },
		},
		{
			ID:          "full-stack",
			Title:       "Full Stack",
			Icon:        "🏆",
			Description: "Complete every active module in the catalog",
			Category:    CategoryCompletion,
			Rarity:      RarityLegendary,
			Unlocked: func(s *Stats) bool {
				return s.TotalActiveModules > 0 && s.CompletedModules >= s.TotalActiveModules
			},
		},
		{
			ID:          "streak-starter",
			Title:       "Streak Starter",
			Icon:        "✨",
			Description: "Learn 3 days in a row",
			Category:    CategoryStreak,
			Rarity:      RarityCommon,
			Unlocked:    func(s *Stats) bool { return s.CurrentStreak >= 3 },
		},
		{
			ID:          "streak-warrior",
			Title:       "Streak Warrior",
			Icon:        "🔥",
			Description: "Learn 7 days in a row",
			Category:    CategoryStreak,
			Rarity:      RarityUncommon,
			Unlocked:    func(s *Stats) bool { return s.CurrentStreak >= 7 },
		},
		{
			ID:          "unstoppable",
			Title:       "Unstoppable",
			Icon:        "⚡",
			Description: "Learn 30 days in a row",
			Category:    CategoryStreak,
			Rarity:      RarityEpic,
			Unlocked:    func(s *Stats) bool { return s.CurrentStreak >= 30 },
		},
		{
			ID:          "comeback-kid",
			Title:       "Comeback Kid",
			Icon:        "💪",
			Description: "Build a 14-day streak at any point",
			Category:    CategoryStreak,
			Rarity:      RarityRare,
			Unlocked:    func(s *Stats) bool { return s.LongestStreak >= 14 },
		},
		{
			ID:          "perfectionist",
			Title:       "Perfectionist",
			Icon:        "💯",
			Description: "Score 100% on 10 quizzes",
			Category:    CategorySkill,
			Rarity:      RarityEpic,
			Unlocked:    func(s *Stats) bool { return s.PerfectQuizzes >= 10 },
		},
		{
			ID:          "quiz-ace",
			Title:       "Quiz Ace",
			Icon:        "🧠",
			Description: "Score 90% or better on 20 quizzes",
			Category:    CategorySkill,
			Rarity:      RarityEpic,
			Unlocked:    func(s *Stats) bool { return s.HighScoreQuizzes >= 20 },
		},
		{
			ID:          "sharp-shooter",
			Title:       "Sharp Shooter",
			Icon:        "🎯",
			Description: "Hold a 90+ average across at least 5 quizzes",
			Category:    CategorySkill,
			Rarity:      RarityRare,
			Unlocked: func(s *Stats) bool {
				return s.QuizzesTaken >= 5 && s.AverageQuizScore >= 90
			},
		},
		{
			ID:          "marathon-learner",
			Title:       "Marathon Learner",
			Icon:        "🏃",
			Description: "Complete 5 lessons in a single day",
			Category:    CategoryVelocity,
			Rarity:      RarityUncommon,
			Unlocked:    func(s *Stats) bool { return s.MaxLessonsOneDay >= 5 },
		},
		{
			ID:          "dedicated",
			Title:       "Dedicated",
			Icon:        "⏳",
			Description: "Spend 10 hours learning",
			Category:    CategoryVelocity,
			Rarity:      RarityRare,
			Unlocked:    func(s *Stats) bool { return s.TotalTimeMinutes >= 600 },
		},
	}
}

// CatalogByID indexes the canonical catalog by achievement id.
func CatalogByID() map[string]Achievement {
	catalog := Catalog()
	out := make(map[string]Achievement, len(catalog))
	for _, a := range catalog {
		out[a.ID] = a
	}
	return out
}
