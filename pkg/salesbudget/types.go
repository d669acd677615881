package salesbudget

import "time"

// SeasonalDistribution is one month's share of a distributed yearly quantity.
type SeasonalDistribution struct {
	Month      string  `json:"month"`
	Percentage float64 `json:"percentage"`
	Value      int     `json:"value"`
}

// DistributionPattern is a named set of monthly weight fractions describing
// how a yearly total is spread across the twelve months.
type DistributionPattern struct {
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	Distribution map[string]float64 `json:"distribution"`
}

// ValidationResult is the outcome of checking a pattern's weight sum.
type ValidationResult struct {
	Valid bool    `json:"valid"`
	Total float64 `json:"total"`
}

// MonthlyBudget is a single month's line in a budget grid.
type MonthlyBudget struct {
	Month       string  `json:"month"`
	BudgetValue int     `json:"budgetValue"`
	ActualValue int     `json:"actualValue"`
	Rate        float64 `json:"rate"`
	Stock       int     `json:"stock"`
	Git         int     `json:"git"`
	Discount    float64 `json:"discount"`
}

// HolidayInfo describes the holiday load and business impact of a month.
type HolidayInfo struct {
	HasHolidays    bool   `json:"hasHolidays"`
	Description    string `json:"description"`
	BusinessImpact string `json:"businessImpact"`
}

// DiscountRule is a category(+brand) keyed percentage markdown.
// An empty brand means the rule applies to the whole category.
type DiscountRule struct {
	ID                 string    `json:"id"`
	Category           string    `json:"category"`
	Brand              string    `json:"brand"`
	DiscountPercentage float64   `json:"discountPercentage"`
	IsEditable         bool      `json:"isEditable"`
	LastModified       time.Time `json:"lastModified"`
	ModifiedBy         string    `json:"modifiedBy,omitempty"`
}

// DiscountCalculationResult is the outcome of applying a discount rule to an amount.
type DiscountCalculationResult struct {
	OriginalAmount     float64       `json:"originalAmount"`
	DiscountPercentage float64       `json:"discountPercentage"`
	DiscountAmount     float64       `json:"discountAmount"`
	FinalAmount        float64       `json:"finalAmount"`
	AppliedRule        *DiscountRule `json:"appliedRule,omitempty"`
}

// RuleOverride is the persisted shape of a discount rule mutation.
// Only the percentage and the modification metadata are stored; structural
// fields always come from the built-in catalog.
type RuleOverride struct {
	ID                 string    `json:"id"`
	DiscountPercentage float64   `json:"discountPercentage"`
	LastModified       time.Time `json:"lastModified"`
	ModifiedBy         string    `json:"modifiedBy,omitempty"`
}
