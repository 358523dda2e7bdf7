package engagement

// BadgeType is a closed enum of achievements.
type BadgeType string

const (
	BadgeFirstSteps     BadgeType = "first_steps"
	BadgeBreathMaster   BadgeType = "breath_master"
	BadgeBodyExplorer   BadgeType = "body_explorer"
	BadgeMovementMaven  BadgeType = "movement_maven"
	BadgeGrounded       BadgeType = "grounded"
	BadgeProgress       BadgeType = "practice_makes_progress"
	BadgeSilverPractice BadgeType = "silver_practice"
	BadgeGoldenPractice BadgeType = "golden_practice"
	BadgeWeekWarrior    BadgeType = "week_warrior"
	BadgeTwoWeekWonder  BadgeType = "two_week_wonder"
	BadgeComplete       BadgeType = "complete_collection"
)

// RuleStats is the aggregated view a badge predicate sees.
type RuleStats struct {
	TotalCompletions int
	ByCategory       map[Category]int
	UniqueTried      int
	CurrentStreak    int
	CatalogSize      int
}

type badgeRule struct {
	Type      BadgeType
	Qualifies func(s RuleStats) bool
}

func categoryAtLeast(cat Category, n int) func(RuleStats) bool {
	return func(s RuleStats) bool { return s.ByCategory[cat] >= n }
}

// badgeRules is the fixed rule table. Rules are independent; all qualifying,
// not-yet-earned badges are awarded in one pass, in table order.
var badgeRules = []badgeRule{
	{BadgeFirstSteps, func(s RuleStats) bool { return s.TotalCompletions >= 1 }},
	{BadgeBreathMaster, categoryAtLeast(CategoryBreathing, 3)},
	{BadgeBodyExplorer, categoryAtLeast(CategoryBodyScan, 3)},
	{BadgeMovementMaven, categoryAtLeast(CategoryMovement, 3)},
	{BadgeGrounded, categoryAtLeast(CategoryGrounding, 3)},
	{BadgeProgress, func(s RuleStats) bool { return s.TotalCompletions >= 10 }},
	{BadgeSilverPractice, func(s RuleStats) bool { return s.TotalCompletions >= 25 }},
	{BadgeGoldenPractice, func(s RuleStats) bool { return s.TotalCompletions >= 50 }},
	{BadgeWeekWarrior, func(s RuleStats) bool { return s.CurrentStreak >= 7 }},
	{BadgeTwoWeekWonder, func(s RuleStats) bool { return s.CurrentStreak >= 14 }},
	{BadgeComplete, func(s RuleStats) bool { return s.CatalogSize > 0 && s.UniqueTried == s.CatalogSize }},
}
