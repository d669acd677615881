package salesbudget

import "math"

// distributionService implements the DistributionService interface
type distributionService struct {
	patterns []*DistributionPattern
}

// newDistributionService builds the service with the given pattern catalog.
// The first pattern is the fallback for unknown names.
func newDistributionService(patterns []*DistributionPattern) *distributionService {
	return &distributionService{patterns: patterns}
}

// Apply distributes totalQuantity across the twelve months.
func (s *distributionService) Apply(totalQuantity int, patternName string) []SeasonalDistribution {
	pattern := s.PatternByName(patternName)

	distributions := make([]SeasonalDistribution, 0, len(monthOrder))
	distributedTotal := 0

	for _, month := range monthOrder {
		percentage := pattern.Distribution[month]
		value := int(math.Round(float64(totalQuantity) * percentage))
		distributedTotal += value

		distributions = append(distributions, SeasonalDistribution{
			Month:      month,
			Percentage: percentage,
			Value:      value,
		})
	}

	// Rounding drift goes entirely to January so the total is exact.
	if difference := totalQuantity - distributedTotal; difference != 0 {
		distributions[0].Value += difference
	}

	return distributions
}

// ConvertToMonthlyBudget maps a distribution into budget grid lines.
func (s *distributionService) ConvertToMonthlyBudget(distributions []SeasonalDistribution, rate float64, stock, git int) []MonthlyBudget {
	budgets := make([]MonthlyBudget, 0, len(distributions))
	for _, dist := range distributions {
		budgets = append(budgets, MonthlyBudget{
			Month:       dist.Month,
			BudgetValue: dist.Value,
			ActualValue: 0,
			Rate:        rate,
			Stock:       stock / 12,
			Git:         git / 12,
			Discount:    0,
		})
	}
	return budgets
}

// SeasonalFactor returns the month's weight scaled to an average of 1.0.
func (s *distributionService) SeasonalFactor(month, patternName string) float64 {
	pattern := s.PatternByName(patternName)
	return pattern.Distribution[normalizeMonth(month)] * 12
}

// Patterns returns the pattern catalog in order.
func (s *distributionService) Patterns() []*DistributionPattern {
	patterns := make([]*DistributionPattern, len(s.patterns))
	copy(patterns, s.patterns)
	return patterns
}

// PatternByName resolves a pattern by exact name, falling back to the first
// catalog entry. The fallback is deliberate: callers rely on graceful
// degradation rather than an error.
func (s *distributionService) PatternByName(name string) *DistributionPattern {
	for _, pattern := range s.patterns {
		if pattern.Name == name {
			return pattern
		}
	}
	return s.patterns[0]
}

// CustomPattern builds a caller-defined pattern.
func (s *distributionService) CustomPattern(name, description string, weights map[string]float64) *DistributionPattern {
	distribution := make(map[string]float64, len(weights))
	for month, weight := range weights {
		distribution[normalizeMonth(month)] = weight
	}
	return &DistributionPattern{
		Name:         name,
		Description:  description,
		Distribution: distribution,
	}
}

// Validate sums a pattern's weights and checks them against 1.0.
func (s *distributionService) Validate(pattern *DistributionPattern) ValidationResult {
	var total float64
	for _, weight := range pattern.Distribution {
		total += weight
	}
	return ValidationResult{
		Valid: math.Abs(total-1.0) < 0.001,
		Total: math.Round(total*100) / 100,
	}
}

// HolidayInfo reports the holiday load for a month.
func (s *distributionService) HolidayInfo(month string) HolidayInfo {
	if info, ok := holidayTable[normalizeMonth(month)]; ok {
		return info
	}
	return HolidayInfo{HasHolidays: false, Description: "Unknown month", BusinessImpact: "medium"}
}
