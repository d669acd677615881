package salesbudget

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/salesdist/salesbudget-go/internal/catalog"
)

// MockRuleStore mocks the RuleStore interface
type MockRuleStore struct {
	mock.Mock
}

func (m *MockRuleStore) Load(ctx context.Context) ([]RuleOverride, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]RuleOverride), args.Error(1)
}

func (m *MockRuleStore) Save(ctx context.Context, overrides []RuleOverride) error {
	args := m.Called(ctx, overrides)
	return args.Error(0)
}

func (m *MockRuleStore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestCategoryDiscount(t *testing.T) {
	client := newTestClient(t)

	assert.InDelta(t, 0.8874, client.Discounts.CategoryDiscount("TBR", "MICHELIN"), 1e-9)
	assert.InDelta(t, 0.8874, client.Discounts.CategoryDiscount("tbr", "michelin"), 1e-9)
	assert.InDelta(t, 0.9979, client.Discounts.CategoryDiscount("Services", ""), 1e-9)

	// A non-empty unmatched brand gets no discount. The category-wide rule
	// only applies when the caller explicitly passes an empty brand.
	assert.Equal(t, 1.0, client.Discounts.CategoryDiscount("Services", "AnyUnlistedBrand"))
	assert.Equal(t, 1.0, client.Discounts.CategoryDiscount("NOPE", "MICHELIN"))
}

func TestCalculate(t *testing.T) {
	client := newTestClient(t)

	result := client.Discounts.Calculate(1000, "TBR", "MICHELIN")
	assert.Equal(t, 1000.0, result.OriginalAmount)
	assert.InDelta(t, 11.26, result.DiscountPercentage, 1e-9)
	assert.InDelta(t, 112.6, result.DiscountAmount, 1e-9)
	assert.InDelta(t, 887.4, result.FinalAmount, 1e-9)
	require.NotNil(t, result.AppliedRule)
	assert.Equal(t, "tbr_michelin", result.AppliedRule.ID)

	result = client.Discounts.Calculate(1000, "TBR", "UNKNOWN BRAND")
	assert.Equal(t, 0.0, result.DiscountPercentage)
	assert.Equal(t, 0.0, result.DiscountAmount)
	assert.Equal(t, 1000.0, result.FinalAmount)
	assert.Nil(t, result.AppliedRule)
}

func TestFindRule(t *testing.T) {
	client := newTestClient(t)

	rule := client.Discounts.FindRule("P4X4", "BF GOODRICH")
	require.NotNil(t, rule)
	assert.Equal(t, "p4x4_bf_goodrich", rule.ID)
	assert.InDelta(t, 22.77, rule.DiscountPercentage, 1e-9)
	assert.True(t, rule.IsEditable)

	assert.Nil(t, client.Discounts.FindRule("Services", "AnyUnlistedBrand"))

	wide := client.Discounts.FindRule("TRL-SER", "")
	require.NotNil(t, wide)
	assert.Equal(t, "trl_ser_all", wide.ID)
}

func TestUpdateRule_RoundTrip(t *testing.T) {
	client := newTestClient(t)

	err := client.Discounts.UpdateRule(context.Background(), "tbr_michelin", 25, "alice")
	require.NoError(t, err)

	var updated *DiscountRule
	for _, rule := range client.Discounts.AllRules() {
		if rule.ID == "tbr_michelin" {
			updated = rule
		}
	}
	require.NotNil(t, updated)
	assert.Equal(t, 25.0, updated.DiscountPercentage)
	assert.Equal(t, "alice", updated.ModifiedBy)
	assert.WithinDuration(t, time.Now(), updated.LastModified, time.Minute)
}

func TestUpdateRule_BoundsRejected(t *testing.T) {
	client := newTestClient(t)

	before := client.Discounts.FindRule("TBR", "MICHELIN").DiscountPercentage

	err := client.Discounts.UpdateRule(context.Background(), "tbr_michelin", 51, "bob")
	assert.ErrorIs(t, err, ErrPercentageOutOfRange)

	err = client.Discounts.UpdateRule(context.Background(), "tbr_michelin", -1, "bob")
	assert.ErrorIs(t, err, ErrPercentageOutOfRange)
	assert.True(t, IsValidationError(err))

	assert.Equal(t, before, client.Discounts.FindRule("TBR", "MICHELIN").DiscountPercentage)

	// The bounds themselves are accepted.
	assert.NoError(t, client.Discounts.UpdateRule(context.Background(), "tbr_michelin", 0, "bob"))
	assert.NoError(t, client.Discounts.UpdateRule(context.Background(), "tbr_michelin", 50, "bob"))
}

func TestUpdateRule_UnknownID(t *testing.T) {
	client := newTestClient(t)

	err := client.Discounts.UpdateRule(context.Background(), "no_such_rule", 10, "bob")
	assert.ErrorIs(t, err, ErrRuleNotFound)
}

func TestUpdateRule_NotEditable(t *testing.T) {
	seed := []catalog.Rule{
		{ID: "locked_rule", Category: "TBR", Brand: "MICHELIN", DiscountPercentage: 11.26, IsEditable: false},
	}
	service := newDiscountService(seed, nil, nil)

	err := service.UpdateRule(context.Background(), "locked_rule", 10, "bob")
	assert.ErrorIs(t, err, ErrRuleNotEditable)
	assert.InDelta(t, 11.26, service.FindRule("TBR", "MICHELIN").DiscountPercentage, 1e-9)
}

func TestUpdateRule_SaveFailureDoesNotRollBack(t *testing.T) {
	mockStore := new(MockRuleStore)
	mockStore.On("Load", mock.Anything).Return(nil, nil)
	mockStore.On("Save", mock.Anything, mock.Anything).Return(assert.AnError)

	service := newDiscountService(catalog.MustRules(), mockStore, nil)

	err := service.UpdateRule(context.Background(), "tbr_michelin", 25, "alice")
	assert.NoError(t, err)
	assert.Equal(t, 25.0, service.FindRule("TBR", "MICHELIN").DiscountPercentage)

	mockStore.AssertExpectations(t)
}

func TestCategories(t *testing.T) {
	client := newTestClient(t)

	categories := client.Discounts.Categories()
	assert.Len(t, categories, 11)
	assert.Equal(t, "P4X4", categories[0])
	assert.Contains(t, categories, "TBR")
	assert.Contains(t, categories, "HDE Services")
	assert.Contains(t, categories, "TRL-SER")
}

func TestRulesByCategory(t *testing.T) {
	client := newTestClient(t)

	assert.Len(t, client.Discounts.RulesByCategory("P4X4"), 3)
	assert.Len(t, client.Discounts.RulesByCategory("p4x4"), 3)
	assert.Empty(t, client.Discounts.RulesByCategory("NOPE"))
}

func TestBrandsForCategory(t *testing.T) {
	client := newTestClient(t)

	brands := client.Discounts.BrandsForCategory("TBR")
	assert.Len(t, brands, 7)
	assert.Contains(t, brands, "MICHELIN")
	assert.Contains(t, brands, "BRIDGESTONE")

	// Category-wide rules carry an empty brand, which is filtered out.
	assert.Empty(t, client.Discounts.BrandsForCategory("Services"))
}

func TestOverrideMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.json")
	store := NewFileRuleStore(path)

	stamp := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(context.Background(), []RuleOverride{
		{ID: "tbr_michelin", DiscountPercentage: 33.3, LastModified: stamp, ModifiedBy: "bob"},
		{ID: "ghost_rule", DiscountPercentage: 9.9, LastModified: stamp, ModifiedBy: "bob"},
	}))

	client, err := NewClient(&ClientOptions{Store: store})
	require.NoError(t, err)

	rule := client.Discounts.FindRule("TBR", "MICHELIN")
	require.NotNil(t, rule)
	assert.InDelta(t, 33.3, rule.DiscountPercentage, 1e-9)
	assert.Equal(t, "bob", rule.ModifiedBy)
	assert.Equal(t, stamp, rule.LastModified)
	// Structural fields come from the catalog, never from storage.
	assert.Equal(t, "TBR", rule.Category)
	assert.Equal(t, "MICHELIN", rule.Brand)

	// The override for an id the catalog no longer has is dropped.
	assert.Len(t, client.Discounts.AllRules(), 57)
}

func TestCorruptStoreIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	client, err := NewClient(&ClientOptions{Store: NewFileRuleStore(path)})
	require.NoError(t, err)

	// Corrupt data degrades to the built-in defaults.
	assert.InDelta(t, 11.26, client.Discounts.FindRule("TBR", "MICHELIN").DiscountPercentage, 1e-9)
}

func TestResetToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.json")
	store := NewFileRuleStore(path)

	client, err := NewClient(&ClientOptions{Store: store})
	require.NoError(t, err)

	require.NoError(t, client.Discounts.UpdateRule(context.Background(), "tbr_michelin", 25, "alice"))
	_, statErr := os.Stat(path)
	require.NoError(t, statErr)

	require.NoError(t, client.Discounts.ResetToDefaults(context.Background()))

	_, statErr = os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	// Storage is cleared but the in-memory percentage keeps its mutated
	// value until the next process start reseeds from the catalog.
	rule := client.Discounts.FindRule("TBR", "MICHELIN")
	assert.Equal(t, 25.0, rule.DiscountPercentage)
	assert.Empty(t, rule.ModifiedBy)
}
