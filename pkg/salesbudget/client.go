package salesbudget

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"

	"github.com/salesdist/salesbudget-go/internal/catalog"
)

const (
	// DefaultPatternName is the pattern used when callers do not pick one.
	DefaultPatternName = "Default Seasonal"

	// DefaultRate is the unit rate assumed when converting a distribution
	// into monthly budget lines.
	DefaultRate = 100

	// StorageKey is the well-known key under which key-value stores keep
	// the discount rule overrides.
	StorageKey = "discount_rules"
)

// Client is the entry point for the sales budget core services
type Client struct {
	// Service interfaces
	Distribution DistributionService
	Discounts    DiscountService

	// Internal fields
	options *ClientOptions
}

// ClientOptions configures the client
type ClientOptions struct {
	// Store persists discount rule overrides. Nil disables persistence;
	// rules then live only in memory.
	Store RuleStore

	// Logger for debug logging
	Logger Logger

	// ExtraPatterns are appended after the built-in pattern catalog and
	// are resolvable by name in Apply.
	ExtraPatterns []*DistributionPattern

	// SentryDSN enables Sentry error tracking when set
	SentryDSN string

	// SentryOptions allows custom Sentry configuration
	SentryOptions *sentry.ClientOptions
}

// Logger interface for logging
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// NewClient creates a new sales budget client
func NewClient(opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}

	// Initialize Sentry if DSN is provided
	if opts.SentryDSN != "" || opts.SentryOptions != nil {
		sentryOpts := sentry.ClientOptions{}

		if opts.SentryOptions != nil {
			sentryOpts = *opts.SentryOptions
		}

		if opts.SentryDSN != "" {
			sentryOpts.Dsn = opts.SentryDSN
		}

		if sentryOpts.Environment == "" {
			sentryOpts.Environment = "production"
		}

		if err := sentry.Init(sentryOpts); err != nil {
			// Log error but don't fail client creation
			if opts.Logger != nil {
				opts.Logger.Error("Failed to initialize Sentry", "error", err)
			}
		}
	}

	patterns, err := catalog.Patterns()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load pattern catalog")
	}
	rules, err := catalog.Rules()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load discount rule catalog")
	}

	c := &Client{options: opts}
	c.initServices(patterns, rules)
	return c, nil
}

// initServices initializes all service implementations
func (c *Client) initServices(seedPatterns []catalog.Pattern, seedRules []catalog.Rule) {
	patterns := make([]*DistributionPattern, 0, len(seedPatterns)+len(c.options.ExtraPatterns))
	for _, p := range seedPatterns {
		patterns = append(patterns, &DistributionPattern{
			Name:         p.Name,
			Description:  p.Description,
			Distribution: p.Distribution,
		})
	}
	patterns = append(patterns, c.options.ExtraPatterns...)

	c.Distribution = newDistributionService(patterns)
	c.Discounts = newDiscountService(seedRules, c.options.Store, c.options.Logger)
}

// Close flushes any pending Sentry events and performs cleanup
func (c *Client) Close() {
	// Flush Sentry events with a 2 second timeout
	sentry.Flush(2 * time.Second)
}
