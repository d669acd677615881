package main

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/salesdist/salesbudget-go/pkg/salesbudget"
)

func registerTools(server *mcp.Server, client *salesbudget.Client) {
	tools := &budgetTools{client: client}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "apply_seasonal_distribution",
		Description: "Distribute a yearly budget quantity across the twelve months using a named seasonal pattern. Unknown pattern names fall back to the default pattern. The monthly values always sum to the input quantity.",
	}, tools.ApplySeasonalDistribution)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "build_monthly_budget",
		Description: "Distribute a yearly quantity and convert the result into monthly budget lines with a unit rate and evenly divided stock and goods-in-transit quantities.",
	}, tools.BuildMonthlyBudget)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_patterns",
		Description: "List the available seasonal distribution patterns with their monthly weights and weight-sum diagnostics.",
	}, tools.GetPatterns)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "calculate_discount",
		Description: "Apply the category/brand discount rule to a monetary amount. Returns the discount percentage, discount amount and final amount; an unmatched category/brand pair means no discount.",
	}, tools.CalculateDiscount)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_discount_rules",
		Description: "List the discount rules, optionally filtered by category.",
	}, tools.GetDiscountRules)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_discount_rule",
		Description: "Change a discount rule's percentage (0-50) and persist the change. Fails for unknown or non-editable rules and out-of-range percentages.",
	}, tools.UpdateDiscountRule)
}

// budgetTools holds the sales budget client and implements all tool handlers
type budgetTools struct {
	client *salesbudget.Client
}

// ApplySeasonalDistribution tool - spreads a yearly quantity across months
type ApplySeasonalDistributionInput struct {
	TotalQuantity int    `json:"totalQuantity" jsonschema:"Total yearly quantity to distribute"`
	Pattern       string `json:"pattern,omitempty" jsonschema:"Pattern name (default: Default Seasonal)"`
}

type DistributionEntry struct {
	Month      string  `json:"month" jsonschema:"Three letter month code"`
	Percentage float64 `json:"percentage" jsonschema:"Weight used for this month"`
	Value      int     `json:"value" jsonschema:"Units allocated to this month"`
}

type ApplySeasonalDistributionOutput struct {
	Pattern       string              `json:"pattern" jsonschema:"Pattern actually used"`
	Distributions []DistributionEntry `json:"distributions" jsonschema:"Allocation for each month, JAN to DEC"`
	Total         int                 `json:"total" jsonschema:"Sum of the monthly values"`
}

func (t *budgetTools) ApplySeasonalDistribution(ctx context.Context, req *mcp.CallToolRequest, input ApplySeasonalDistributionInput) (*mcp.CallToolResult, ApplySeasonalDistributionOutput, error) {
	pattern := t.client.Distribution.PatternByName(input.Pattern)
	distributions := t.client.Distribution.Apply(input.TotalQuantity, input.Pattern)

	entries := make([]DistributionEntry, 0, len(distributions))
	total := 0
	for _, dist := range distributions {
		entries = append(entries, DistributionEntry{
			Month:      dist.Month,
			Percentage: dist.Percentage,
			Value:      dist.Value,
		})
		total += dist.Value
	}

	return nil, ApplySeasonalDistributionOutput{
		Pattern:       pattern.Name,
		Distributions: entries,
		Total:         total,
	}, nil
}

// BuildMonthlyBudget tool - distribution plus budget line conversion
type BuildMonthlyBudgetInput struct {
	TotalQuantity int     `json:"totalQuantity" jsonschema:"Total yearly quantity to distribute"`
	Pattern       string  `json:"pattern,omitempty" jsonschema:"Pattern name (default: Default Seasonal)"`
	Rate          float64 `json:"rate,omitempty" jsonschema:"Unit rate (default: 100)"`
	Stock         int     `json:"stock,omitempty" jsonschema:"Yearly stock quantity, divided evenly across months"`
	Git           int     `json:"git,omitempty" jsonschema:"Yearly goods-in-transit quantity, divided evenly across months"`
}

type BuildMonthlyBudgetOutput struct {
	Pattern string                      `json:"pattern" jsonschema:"Pattern actually used"`
	Budgets []salesbudget.MonthlyBudget `json:"budgets" jsonschema:"Monthly budget lines, JAN to DEC"`
}

func (t *budgetTools) BuildMonthlyBudget(ctx context.Context, req *mcp.CallToolRequest, input BuildMonthlyBudgetInput) (*mcp.CallToolResult, BuildMonthlyBudgetOutput, error) {
	rate := input.Rate
	if rate == 0 {
		rate = salesbudget.DefaultRate
	}

	pattern := t.client.Distribution.PatternByName(input.Pattern)
	distributions := t.client.Distribution.Apply(input.TotalQuantity, input.Pattern)
	budgets := t.client.Distribution.ConvertToMonthlyBudget(distributions, rate, input.Stock, input.Git)

	return nil, BuildMonthlyBudgetOutput{
		Pattern: pattern.Name,
		Budgets: budgets,
	}, nil
}

// GetPatterns tool - lists the pattern catalog
type GetPatternsInput struct{}

type PatternEntry struct {
	Name        string             `json:"name" jsonschema:"Pattern name"`
	Description string             `json:"description" jsonschema:"What the pattern is for"`
	Weights     map[string]float64 `json:"weights" jsonschema:"Monthly weight fractions"`
	WeightTotal float64            `json:"weightTotal" jsonschema:"Sum of the weights"`
	Balanced    bool               `json:"balanced" jsonschema:"Whether the weights sum to 1.0 within tolerance"`
}

type GetPatternsOutput struct {
	Patterns []PatternEntry `json:"patterns" jsonschema:"Available distribution patterns"`
}

func (t *budgetTools) GetPatterns(ctx context.Context, req *mcp.CallToolRequest, input GetPatternsInput) (*mcp.CallToolResult, GetPatternsOutput, error) {
	patterns := t.client.Distribution.Patterns()

	entries := make([]PatternEntry, 0, len(patterns))
	for _, pattern := range patterns {
		result := t.client.Distribution.Validate(pattern)
		entries = append(entries, PatternEntry{
			Name:        pattern.Name,
			Description: pattern.Description,
			Weights:     pattern.Distribution,
			WeightTotal: result.Total,
			Balanced:    result.Valid,
		})
	}

	return nil, GetPatternsOutput{Patterns: entries}, nil
}

// CalculateDiscount tool - applies a discount rule to an amount
type CalculateDiscountInput struct {
	Amount   float64 `json:"amount" jsonschema:"Monetary amount before discount"`
	Category string  `json:"category" jsonschema:"Product category (e.g. TBR, P4X4)"`
	Brand    string  `json:"brand,omitempty" jsonschema:"Brand name; empty selects the category-wide rule"`
}

type CalculateDiscountOutput struct {
	OriginalAmount     float64 `json:"originalAmount" jsonschema:"Amount before discount"`
	DiscountPercentage float64 `json:"discountPercentage" jsonschema:"Percentage applied"`
	DiscountAmount     float64 `json:"discountAmount" jsonschema:"Monetary discount"`
	FinalAmount        float64 `json:"finalAmount" jsonschema:"Amount after discount"`
	RuleID             string  `json:"ruleId,omitempty" jsonschema:"Id of the applied rule, if any"`
}

func (t *budgetTools) CalculateDiscount(ctx context.Context, req *mcp.CallToolRequest, input CalculateDiscountInput) (*mcp.CallToolResult, CalculateDiscountOutput, error) {
	result := t.client.Discounts.Calculate(input.Amount, input.Category, input.Brand)

	output := CalculateDiscountOutput{
		OriginalAmount:     result.OriginalAmount,
		DiscountPercentage: result.DiscountPercentage,
		DiscountAmount:     result.DiscountAmount,
		FinalAmount:        result.FinalAmount,
	}
	if result.AppliedRule != nil {
		output.RuleID = result.AppliedRule.ID
	}

	return nil, output, nil
}

// GetDiscountRules tool - lists rules, optionally per category
type GetDiscountRulesInput struct {
	Category string `json:"category,omitempty" jsonschema:"Restrict to one category (optional)"`
}

type DiscountRuleEntry struct {
	ID                 string  `json:"id" jsonschema:"Rule id"`
	Category           string  `json:"category" jsonschema:"Product category"`
	Brand              string  `json:"brand,omitempty" jsonschema:"Brand; empty means category-wide"`
	DiscountPercentage float64 `json:"discountPercentage" jsonschema:"Current percentage"`
	IsEditable         bool    `json:"isEditable" jsonschema:"Whether the rule accepts updates"`
	ModifiedBy         string  `json:"modifiedBy,omitempty" jsonschema:"Last editor, if any"`
}

type GetDiscountRulesOutput struct {
	Rules      []DiscountRuleEntry `json:"rules" jsonschema:"Matching discount rules"`
	Categories []string            `json:"categories" jsonschema:"All known categories"`
	Count      int                 `json:"count" jsonschema:"Number of rules returned"`
}

func (t *budgetTools) GetDiscountRules(ctx context.Context, req *mcp.CallToolRequest, input GetDiscountRulesInput) (*mcp.CallToolResult, GetDiscountRulesOutput, error) {
	var rules []*salesbudget.DiscountRule
	if input.Category != "" {
		rules = t.client.Discounts.RulesByCategory(input.Category)
	} else {
		rules = t.client.Discounts.AllRules()
	}

	entries := make([]DiscountRuleEntry, 0, len(rules))
	for _, rule := range rules {
		entries = append(entries, DiscountRuleEntry{
			ID:                 rule.ID,
			Category:           rule.Category,
			Brand:              rule.Brand,
			DiscountPercentage: rule.DiscountPercentage,
			IsEditable:         rule.IsEditable,
			ModifiedBy:         rule.ModifiedBy,
		})
	}

	return nil, GetDiscountRulesOutput{
		Rules:      entries,
		Categories: t.client.Discounts.Categories(),
		Count:      len(entries),
	}, nil
}

// UpdateDiscountRule tool - mutates a rule percentage
type UpdateDiscountRuleInput struct {
	RuleID     string  `json:"ruleId" jsonschema:"Id of the rule to update"`
	Percentage float64 `json:"percentage" jsonschema:"New discount percentage, 0 to 50"`
	ModifiedBy string  `json:"modifiedBy" jsonschema:"Identity of the editor"`
}

type UpdateDiscountRuleOutput struct {
	RuleID             string  `json:"ruleId" jsonschema:"Id of the updated rule"`
	DiscountPercentage float64 `json:"discountPercentage" jsonschema:"Percentage now in effect"`
}

func (t *budgetTools) UpdateDiscountRule(ctx context.Context, req *mcp.CallToolRequest, input UpdateDiscountRuleInput) (*mcp.CallToolResult, UpdateDiscountRuleOutput, error) {
	if err := t.client.Discounts.UpdateRule(ctx, input.RuleID, input.Percentage, input.ModifiedBy); err != nil {
		return nil, UpdateDiscountRuleOutput{}, fmt.Errorf("failed to update discount rule: %w", err)
	}

	rule := findRuleByID(t.client, input.RuleID)
	if rule == nil {
		return nil, UpdateDiscountRuleOutput{}, fmt.Errorf("rule %s disappeared after update", input.RuleID)
	}

	return nil, UpdateDiscountRuleOutput{
		RuleID:             rule.ID,
		DiscountPercentage: rule.DiscountPercentage,
	}, nil
}

func findRuleByID(client *salesbudget.Client, ruleID string) *salesbudget.DiscountRule {
	for _, rule := range client.Discounts.AllRules() {
		if rule.ID == ruleID {
			return rule
		}
	}
	return nil
}
