package achievements

// Rarity represents how hard an achievement is to earn.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// AllRarities returns all rarities in order from lowest to highest.
func AllRarities() []Rarity {
	return []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary}
}

// DisplayName returns a human-readable label for the rarity.
func (r Rarity) DisplayName() string {
	switch r {
	case RarityCommon:
		return "Common"
	case RarityUncommon:
		return "Uncommon"
	case RarityRare:
		return "Rare"
	case RarityEpic:
		return "Epic"
	case RarityLegendary:
		return "Legendary"
	default:
		return string(r)
	}
}

// Category identifies what kind of accomplishment an achievement rewards.
type Category string

const (
	CategoryCompletion Category = "completion"
	CategoryStreak     Category = "streak"
	CategorySkill      Category = "skill"
	CategoryVelocity   Category = "velocity"
)

// AllCategories returns all categories in display order.
func AllCategories() []Category {
	return []Category{CategoryCompletion, CategoryStreak, CategorySkill, CategoryVelocity}
}

// DisplayName returns a human-readable label for the category.
func (c Category) DisplayName() string {
	switch c {
	case CategoryCompletion:
		return "Completion"
	case CategoryStreak:
		return "Streak"
	case CategorySkill:
		return "Skill"
	case CategoryVelocity:
		return "Velocity"
	default:
		return string(c)
	}
}
