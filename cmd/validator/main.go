// Command validator checks the embedded pattern and discount rule catalogs
// and writes a JSON report. Structural problems (missing months, weights or
// percentages out of range, duplicate keys) fail the run; pattern weight sums
// are advisory and only produce warnings, since allocation normalizes the
// total through January regardless.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/salesdist/salesbudget-go/internal/catalog"
)

// ValidatorConfig holds configuration for the validator
type ValidatorConfig struct {
	OutputDir string
	Verbose   bool
}

// CheckResult represents the result of a single catalog check
type CheckResult struct {
	Check   string `json:"check"`
	Subject string `json:"subject"`
	Passed  bool   `json:"passed"`
	Warning bool   `json:"warning,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// ValidationReport represents the full validation report
type ValidationReport struct {
	Timestamp   time.Time     `json:"timestamp"`
	TotalChecks int           `json:"total_checks"`
	Passed      int           `json:"passed"`
	Failed      int           `json:"failed"`
	Warnings    int           `json:"warnings"`
	Results     []CheckResult `json:"results"`
}

var months = []string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}

func main() {
	config := parseFlags()

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	report, err := runChecks(config)
	if err != nil {
		log.Fatalf("Validation failed: %v", err)
	}

	reportPath := filepath.Join(config.OutputDir, fmt.Sprintf("catalog_report_%d.json", time.Now().Unix()))
	if err := saveReport(report, reportPath); err != nil {
		log.Fatalf("Failed to save report: %v", err)
	}

	printSummary(report, reportPath)

	if report.Failed > 0 {
		os.Exit(1)
	}
}

func parseFlags() *ValidatorConfig {
	config := &ValidatorConfig{}

	flag.StringVar(&config.OutputDir, "output", "./validation_results", "Output directory for results")
	flag.BoolVar(&config.Verbose, "verbose", false, "Verbose output")
	flag.Parse()

	return config
}

func runChecks(config *ValidatorConfig) (*ValidationReport, error) {
	report := &ValidationReport{
		Timestamp: time.Now(),
		Results:   make([]CheckResult, 0),
	}

	patterns, err := catalog.Patterns()
	if err != nil {
		return nil, fmt.Errorf("failed to load pattern catalog: %w", err)
	}
	rules, err := catalog.Rules()
	if err != nil {
		return nil, fmt.Errorf("failed to load rule catalog: %w", err)
	}

	for _, pattern := range patterns {
		checkPattern(report, pattern, config.Verbose)
	}
	checkRules(report, rules, config.Verbose)

	report.TotalChecks = len(report.Results)
	for _, result := range report.Results {
		switch {
		case result.Warning:
			report.Warnings++
		case result.Passed:
			report.Passed++
		default:
			report.Failed++
		}
	}

	return report, nil
}

func checkPattern(report *ValidationReport, pattern catalog.Pattern, verbose bool) {
	record := func(result CheckResult) {
		report.Results = append(report.Results, result)
		if verbose {
			fmt.Printf("  %s / %s: passed=%v %s\n", result.Check, result.Subject, result.Passed, result.Detail)
		}
	}

	missing := make([]string, 0)
	for _, month := range months {
		if _, ok := pattern.Distribution[month]; !ok {
			missing = append(missing, month)
		}
	}
	record(CheckResult{
		Check:   "pattern_months_complete",
		Subject: pattern.Name,
		Passed:  len(missing) == 0 && len(pattern.Distribution) == 12,
		Detail:  strings.Join(missing, ","),
	})

	inRange := true
	for month, weight := range pattern.Distribution {
		if weight < 0 || weight > 1 {
			inRange = false
			record(CheckResult{
				Check:   "pattern_weight_range",
				Subject: pattern.Name + "/" + month,
				Passed:  false,
				Detail:  fmt.Sprintf("weight %v outside [0,1]", weight),
			})
		}
	}
	if inRange {
		record(CheckResult{Check: "pattern_weight_range", Subject: pattern.Name, Passed: true})
	}

	var total float64
	for _, weight := range pattern.Distribution {
		total += weight
	}
	sumOK := math.Abs(total-1.0) < 0.001
	record(CheckResult{
		Check:   "pattern_weight_sum",
		Subject: pattern.Name,
		Passed:  sumOK,
		Warning: !sumOK,
		Detail:  fmt.Sprintf("weights sum to %.3f", total),
	})
}

func checkRules(report *ValidationReport, rules []catalog.Rule, verbose bool) {
	record := func(result CheckResult) {
		report.Results = append(report.Results, result)
		if verbose {
			fmt.Printf("  %s / %s: passed=%v %s\n", result.Check, result.Subject, result.Passed, result.Detail)
		}
	}

	seenIDs := make(map[string]bool)
	seenKeys := make(map[string]string)
	allOK := true

	for _, rule := range rules {
		if rule.ID == "" || rule.Category == "" {
			allOK = false
			record(CheckResult{
				Check:   "rule_fields",
				Subject: rule.ID,
				Passed:  false,
				Detail:  "empty id or category",
			})
		}

		if seenIDs[rule.ID] {
			allOK = false
			record(CheckResult{
				Check:   "rule_id_unique",
				Subject: rule.ID,
				Passed:  false,
				Detail:  "duplicate rule id",
			})
		}
		seenIDs[rule.ID] = true

		key := strings.ToLower(rule.Category) + "\x00" + strings.ToLower(rule.Brand)
		if other, ok := seenKeys[key]; ok {
			allOK = false
			record(CheckResult{
				Check:   "rule_key_unique",
				Subject: rule.ID,
				Passed:  false,
				Detail:  fmt.Sprintf("category/brand collides with %s", other),
			})
		}
		seenKeys[key] = rule.ID

		if rule.DiscountPercentage < 0 || rule.DiscountPercentage > 50 {
			allOK = false
			record(CheckResult{
				Check:   "rule_percentage_range",
				Subject: rule.ID,
				Passed:  false,
				Detail:  fmt.Sprintf("percentage %v outside [0,50]", rule.DiscountPercentage),
			})
		}
	}

	if allOK {
		record(CheckResult{
			Check:   "rule_catalog",
			Subject: fmt.Sprintf("%d rules", len(rules)),
			Passed:  true,
		})
	}
}

func saveReport(report *ValidationReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func printSummary(report *ValidationReport, reportPath string) {
	fmt.Println("\n=== Catalog Validation Report ===")
	fmt.Printf("Total Checks: %d\n", report.TotalChecks)
	fmt.Printf("Passed: %d\n", report.Passed)
	fmt.Printf("Failed: %d\n", report.Failed)
	fmt.Printf("Warnings: %d\n", report.Warnings)

	if report.Failed > 0 || report.Warnings > 0 {
		fmt.Println("\nFindings:")
		for _, result := range report.Results {
			if !result.Passed {
				kind := "FAIL"
				if result.Warning {
					kind = "WARN"
				}
				fmt.Printf("  [%s] %s %s: %s\n", kind, result.Check, result.Subject, result.Detail)
			}
		}
	}

	fmt.Printf("\nReport saved to: %s\n", reportPath)
}
