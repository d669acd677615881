package salesbudget

import "context"

// DistributionService handles seasonal spreading of yearly budget quantities.
type DistributionService interface {
	// Apply distributes totalQuantity across the twelve months using the
	// named pattern. An unknown or empty pattern name falls back to the
	// first catalog pattern; the returned values always sum to totalQuantity.
	Apply(totalQuantity int, patternName string) []SeasonalDistribution

	// ConvertToMonthlyBudget maps a distribution into budget grid lines.
	// Stock and GIT quantities are divided evenly across the months,
	// dropping any remainder.
	ConvertToMonthlyBudget(distributions []SeasonalDistribution, rate float64, stock, git int) []MonthlyBudget

	// SeasonalFactor returns the month's weight scaled so that an average
	// month is 1.0. Unknown months return 0.
	SeasonalFactor(month, patternName string) float64

	// Patterns returns the pattern catalog in order.
	Patterns() []*DistributionPattern

	// PatternByName resolves a pattern, falling back to the first catalog
	// entry when the name does not match.
	PatternByName(name string) *DistributionPattern

	// CustomPattern builds a caller-defined pattern from monthly weights.
	CustomPattern(name, description string, weights map[string]float64) *DistributionPattern

	// Validate checks that a pattern's weights sum to 1.0 within tolerance.
	// Diagnostic only; Apply never rejects a pattern.
	Validate(pattern *DistributionPattern) ValidationResult

	// HolidayInfo reports the holiday load for a month.
	HolidayInfo(month string) HolidayInfo
}

// DiscountService handles category and brand based discount rules.
type DiscountService interface {
	// CategoryDiscount returns the multiplier to apply to an amount,
	// 1 - pct/100 when a rule matches and 1 otherwise.
	CategoryDiscount(category, brand string) float64

	// Calculate applies the matching rule to an amount.
	Calculate(amount float64, category, brand string) *DiscountCalculationResult

	// FindRule looks up a rule by case-insensitive category and brand.
	// A category-wide rule is only consulted when brand is empty; a miss
	// on a specific brand returns nil rather than falling back.
	FindRule(category, brand string) *DiscountRule

	// AllRules returns every rule in catalog order.
	AllRules() []*DiscountRule

	// RulesByCategory returns the rules for a category.
	RulesByCategory(category string) []*DiscountRule

	// Categories returns the distinct categories in catalog order.
	Categories() []string

	// BrandsForCategory returns the distinct non-empty brands for a category.
	BrandsForCategory(category string) []string

	// UpdateRule changes a rule's percentage and persists the table.
	// Fails with ErrRuleNotFound, ErrRuleNotEditable or
	// ErrPercentageOutOfRange without mutating state. A persistence failure
	// after a successful mutation is logged, not returned.
	UpdateRule(ctx context.Context, ruleID string, percentage float64, modifiedBy string) error

	// ResetToDefaults clears the persisted overrides and the modification
	// metadata. Percentages already in memory are kept until the process
	// restarts and reseeds from the catalog.
	ResetToDefaults(ctx context.Context) error
}

// RuleStore persists discount rule overrides.
type RuleStore interface {
	// Load returns the persisted overrides, or nil when nothing is stored.
	Load(ctx context.Context) ([]RuleOverride, error)

	// Save replaces the persisted overrides.
	Save(ctx context.Context, overrides []RuleOverride) error

	// Clear removes the persisted overrides. Clearing an empty store is
	// not an error.
	Clear(ctx context.Context) error
}
