package salesbudget

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"

	"github.com/salesdist/salesbudget-go/internal/catalog"
)

const (
	// MinDiscountPercentage is the lower bound accepted by UpdateRule.
	MinDiscountPercentage = 0

	// MaxDiscountPercentage is the upper bound accepted by UpdateRule.
	MaxDiscountPercentage = 50
)

// discountService implements the DiscountService interface. The rule table
// lives in memory, seeded from the built-in catalog and overlaid with any
// persisted overrides; mutations are written through to the store.
type discountService struct {
	mu     sync.RWMutex
	rules  []*DiscountRule
	store  RuleStore
	logger Logger
}

// newDiscountService seeds the rule table and merges persisted overrides.
func newDiscountService(seed []catalog.Rule, store RuleStore, logger Logger) *discountService {
	now := time.Now()
	rules := make([]*DiscountRule, 0, len(seed))
	for _, r := range seed {
		rules = append(rules, &DiscountRule{
			ID:                 r.ID,
			Category:           r.Category,
			Brand:              r.Brand,
			DiscountPercentage: r.DiscountPercentage,
			IsEditable:         r.IsEditable,
			LastModified:       now,
		})
	}

	s := &discountService{
		rules:  rules,
		store:  store,
		logger: logger,
	}
	s.loadOverrides(context.Background())
	return s
}

// CategoryDiscount returns the multiplier for an amount, 1 when no rule matches.
func (s *discountService) CategoryDiscount(category, brand string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rule := s.findRule(category, brand); rule != nil {
		return 1 - rule.DiscountPercentage/100
	}
	return 1
}

// Calculate applies the matching rule to an amount.
func (s *discountService) Calculate(amount float64, category, brand string) *DiscountCalculationResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rule := s.findRule(category, brand)
	var percentage float64
	if rule != nil {
		percentage = rule.DiscountPercentage
	}
	discountAmount := amount * percentage / 100

	return &DiscountCalculationResult{
		OriginalAmount:     amount,
		DiscountPercentage: percentage,
		DiscountAmount:     discountAmount,
		FinalAmount:        amount - discountAmount,
		AppliedRule:        rule,
	}
}

// FindRule looks up a rule by category and brand.
func (s *discountService) FindRule(category, brand string) *DiscountRule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findRule(category, brand)
}

// findRule does the lookup with the read lock already held. The category-wide
// rule is only consulted when the caller passed an empty brand; an
// unrecognized brand means no rule and therefore no discount.
func (s *discountService) findRule(category, brand string) *DiscountRule {
	for _, rule := range s.rules {
		if strings.EqualFold(rule.Category, category) && strings.EqualFold(rule.Brand, brand) {
			return rule
		}
	}
	if brand == "" {
		for _, rule := range s.rules {
			if strings.EqualFold(rule.Category, category) && rule.Brand == "" {
				return rule
			}
		}
	}
	return nil
}

// AllRules returns every rule in catalog order.
func (s *discountService) AllRules() []*DiscountRule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rules := make([]*DiscountRule, len(s.rules))
	copy(rules, s.rules)
	return rules
}

// RulesByCategory returns the rules for a category.
func (s *discountService) RulesByCategory(category string) []*DiscountRule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rules []*DiscountRule
	for _, rule := range s.rules {
		if strings.EqualFold(rule.Category, category) {
			rules = append(rules, rule)
		}
	}
	return rules
}

// Categories returns the distinct categories in catalog order.
func (s *discountService) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var categories []string
	for _, rule := range s.rules {
		if !seen[rule.Category] {
			seen[rule.Category] = true
			categories = append(categories, rule.Category)
		}
	}
	return categories
}

// BrandsForCategory returns the distinct non-empty brands for a category.
func (s *discountService) BrandsForCategory(category string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var brands []string
	for _, rule := range s.rules {
		if !strings.EqualFold(rule.Category, category) || rule.Brand == "" {
			continue
		}
		if !seen[rule.Brand] {
			seen[rule.Brand] = true
			brands = append(brands, rule.Brand)
		}
	}
	return brands
}

// UpdateRule changes a rule's percentage and persists the table.
func (s *discountService) UpdateRule(ctx context.Context, ruleID string, percentage float64, modifiedBy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rule *DiscountRule
	for _, r := range s.rules {
		if r.ID == ruleID {
			rule = r
			break
		}
	}
	if rule == nil {
		return errors.Wrapf(ErrRuleNotFound, "rule %q", ruleID)
	}
	if !rule.IsEditable {
		return errors.Wrapf(ErrRuleNotEditable, "rule %q", ruleID)
	}
	if percentage < MinDiscountPercentage || percentage > MaxDiscountPercentage {
		return errors.Wrapf(ErrPercentageOutOfRange, "got %v, allowed %d to %d",
			percentage, MinDiscountPercentage, MaxDiscountPercentage)
	}

	rule.DiscountPercentage = percentage
	rule.LastModified = time.Now()
	rule.ModifiedBy = modifiedBy

	// Write-through is best effort: a failed save never rolls back the
	// in-memory mutation.
	s.saveOverrides(ctx)
	return nil
}

// ResetToDefaults clears the persisted overrides and the modification
// metadata. In-memory percentages keep their last mutated values until the
// next process start reseeds from the catalog.
func (s *discountService) ResetToDefaults(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Clear(ctx); err != nil {
			return errors.Wrap(err, "failed to clear discount rule overrides")
		}
	}

	now := time.Now()
	for _, rule := range s.rules {
		rule.LastModified = now
		rule.ModifiedBy = ""
	}
	return nil
}

// loadOverrides merges persisted overrides onto the seeded table. Storage
// problems degrade to the built-in defaults; overrides for unknown ids are
// ignored and structural fields are never touched.
func (s *discountService) loadOverrides(ctx context.Context) {
	if s.store == nil {
		return
	}

	overrides, err := s.store.Load(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("Failed to load discount rule overrides", "error", err)
		}
		sentry.CaptureException(err)
		return
	}

	byID := make(map[string]*DiscountRule, len(s.rules))
	for _, rule := range s.rules {
		byID[rule.ID] = rule
	}
	for _, override := range overrides {
		rule, ok := byID[override.ID]
		if !ok {
			continue
		}
		rule.DiscountPercentage = override.DiscountPercentage
		rule.LastModified = override.LastModified
		rule.ModifiedBy = override.ModifiedBy
	}
}

// saveOverrides persists the whole rule table. Called with the write lock
// held. Failures are logged and captured, never surfaced.
func (s *discountService) saveOverrides(ctx context.Context) {
	if s.store == nil {
		return
	}

	overrides := make([]RuleOverride, 0, len(s.rules))
	for _, rule := range s.rules {
		overrides = append(overrides, RuleOverride{
			ID:                 rule.ID,
			DiscountPercentage: rule.DiscountPercentage,
			LastModified:       rule.LastModified,
			ModifiedBy:         rule.ModifiedBy,
		})
	}

	if err := s.store.Save(ctx, overrides); err != nil {
		if s.logger != nil {
			s.logger.Error("Failed to save discount rules", "error", err)
		}
		sentry.CaptureException(err)
	}
}
