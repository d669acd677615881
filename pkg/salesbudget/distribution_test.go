package salesbudget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(nil)
	require.NoError(t, err)
	return client
}

func TestApply_SumInvariant(t *testing.T) {
	client := newTestClient(t)

	quantities := []int{0, 1, 11, 13, 120, 997, 1200, 100000, -50}

	for _, pattern := range client.Distribution.Patterns() {
		for _, quantity := range quantities {
			distributions := client.Distribution.Apply(quantity, pattern.Name)

			require.Len(t, distributions, 12)

			total := 0
			for i, dist := range distributions {
				assert.Equal(t, monthOrder[i], dist.Month)
				total += dist.Value
			}
			assert.Equal(t, quantity, total,
				"pattern %q, quantity %d", pattern.Name, quantity)
		}
	}
}

func TestApply_DefaultPattern120(t *testing.T) {
	client := newTestClient(t)

	distributions := client.Distribution.Apply(120, DefaultPatternName)

	// Raw rounding over-allocates by 5, all of which January gives back.
	expected := []int{11, 15, 14, 13, 11, 10, 10, 9, 10, 8, 5, 4}
	require.Len(t, distributions, 12)
	for i, dist := range distributions {
		assert.Equal(t, expected[i], dist.Value, "month %s", dist.Month)
	}
	assert.Equal(t, 4, distributions[11].Value)
	assert.InDelta(t, 0.135, distributions[0].Percentage, 1e-9)
}

func TestApply_UnknownPatternFallsBack(t *testing.T) {
	client := newTestClient(t)

	got := client.Distribution.Apply(1200, "NoSuchPattern")
	want := client.Distribution.Apply(1200, DefaultPatternName)

	assert.Equal(t, want, got)
}

func TestApply_ZeroQuantity(t *testing.T) {
	client := newTestClient(t)

	for _, dist := range client.Distribution.Apply(0, DefaultPatternName) {
		assert.Equal(t, 0, dist.Value)
	}
}

func TestApply_SmallQuantities(t *testing.T) {
	client := newTestClient(t)

	// Every month rounds to zero, so January carries the whole unit.
	one := client.Distribution.Apply(1, DefaultPatternName)
	assert.Equal(t, 1, one[0].Value)
	for _, dist := range one[1:] {
		assert.Equal(t, 0, dist.Value)
	}

	eleven := client.Distribution.Apply(11, DefaultPatternName)
	expected := []int{2, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0}
	for i, dist := range eleven {
		assert.Equal(t, expected[i], dist.Value, "month %s", dist.Month)
	}
}

func TestApply_NegativeQuantity(t *testing.T) {
	client := newTestClient(t)

	distributions := client.Distribution.Apply(-120, DefaultPatternName)

	total := 0
	for _, dist := range distributions {
		total += dist.Value
	}
	assert.Equal(t, -120, total)
}

func TestConvertToMonthlyBudget(t *testing.T) {
	client := newTestClient(t)

	distributions := client.Distribution.Apply(120, DefaultPatternName)
	budgets := client.Distribution.ConvertToMonthlyBudget(distributions, DefaultRate, 130, 25)

	require.Len(t, budgets, 12)
	for i, budget := range budgets {
		assert.Equal(t, distributions[i].Month, budget.Month)
		assert.Equal(t, distributions[i].Value, budget.BudgetValue)
		assert.Equal(t, 0, budget.ActualValue)
		assert.Equal(t, float64(DefaultRate), budget.Rate)
		// 130/12 and 25/12 truncate; the remainders are simply dropped.
		assert.Equal(t, 10, budget.Stock)
		assert.Equal(t, 2, budget.Git)
		assert.Equal(t, 0.0, budget.Discount)
	}
}

func TestSeasonalFactor(t *testing.T) {
	client := newTestClient(t)

	assert.InDelta(t, 1.62, client.Distribution.SeasonalFactor("JAN", DefaultPatternName), 1e-9)
	assert.InDelta(t, 1.62, client.Distribution.SeasonalFactor("jan", DefaultPatternName), 1e-9)
	assert.InDelta(t, 0.42, client.Distribution.SeasonalFactor("DEC", DefaultPatternName), 1e-9)
	assert.Equal(t, 0.0, client.Distribution.SeasonalFactor("XXX", DefaultPatternName))
}

func TestValidate(t *testing.T) {
	client := newTestClient(t)

	uniform := make(map[string]float64, 12)
	for _, month := range Months() {
		uniform[month] = 1.0 / 12
	}
	even := client.Distribution.CustomPattern("Even Spread", "Flat across the year", uniform)
	result := client.Distribution.Validate(even)
	assert.True(t, result.Valid)
	assert.InDelta(t, 1.0, result.Total, 0.01)

	// The shipped default weights intentionally over-allocate; the checker
	// flags that, and Apply still normalizes through January.
	def := client.Distribution.PatternByName(DefaultPatternName)
	result = client.Distribution.Validate(def)
	assert.False(t, result.Valid)
	assert.InDelta(t, 1.05, result.Total, 1e-9)
}

func TestPatterns(t *testing.T) {
	client := newTestClient(t)

	patterns := client.Distribution.Patterns()
	require.Len(t, patterns, 5)
	assert.Equal(t, DefaultPatternName, patterns[0].Name)

	names := []string{
		"Default Seasonal", "Strong Seasonal", "Moderate Seasonal",
		"Q1 Heavy", "Holiday Aware",
	}
	for i, pattern := range patterns {
		assert.Equal(t, names[i], pattern.Name)
		assert.Len(t, pattern.Distribution, 12)
	}
}

func TestCustomPattern_ResolvableThroughExtraPatterns(t *testing.T) {
	uniform := make(map[string]float64, 12)
	for _, month := range Months() {
		uniform[month] = 1.0 / 12
	}

	client, err := NewClient(&ClientOptions{
		ExtraPatterns: []*DistributionPattern{
			{Name: "Even Spread", Description: "Flat across the year", Distribution: uniform},
		},
	})
	require.NoError(t, err)

	distributions := client.Distribution.Apply(120, "Even Spread")
	for _, dist := range distributions {
		assert.Equal(t, 10, dist.Value, "month %s", dist.Month)
	}
}

func TestHolidayInfo(t *testing.T) {
	client := newTestClient(t)

	nov := client.Distribution.HolidayInfo("NOV")
	assert.True(t, nov.HasHolidays)
	assert.Equal(t, "low", nov.BusinessImpact)

	jan := client.Distribution.HolidayInfo("jan")
	assert.False(t, jan.HasHolidays)
	assert.Equal(t, "high", jan.BusinessImpact)

	unknown := client.Distribution.HolidayInfo("SMARCH")
	assert.False(t, unknown.HasHolidays)
	assert.Equal(t, "Unknown month", unknown.Description)
	assert.Equal(t, "medium", unknown.BusinessImpact)
}
