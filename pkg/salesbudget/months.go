package salesbudget

import "strings"

// monthOrder is the fixed JAN..DEC ordering used by every distribution result.
var monthOrder = [12]string{
	"JAN", "FEB", "MAR", "APR", "MAY", "JUN",
	"JUL", "AUG", "SEP", "OCT", "NOV", "DEC",
}

// Months returns the twelve month codes in calendar order.
func Months() []string {
	months := make([]string, len(monthOrder))
	copy(months, monthOrder[:])
	return months
}

// normalizeMonth upper-cases a month code for catalog lookups.
func normalizeMonth(month string) string {
	return strings.ToUpper(strings.TrimSpace(month))
}

// holidayTable maps month codes to their holiday load. The distribution
// patterns are built around this calendar: heavy allocation in the
// holiday-free first quarter, light allocation in November and December.
var holidayTable = map[string]HolidayInfo{
	"JAN": {HasHolidays: false, Description: "Post-holiday business recovery period", BusinessImpact: "high"},
	"FEB": {HasHolidays: false, Description: "No major holidays, full business operations", BusinessImpact: "high"},
	"MAR": {HasHolidays: false, Description: "Spring business season, no major holidays", BusinessImpact: "high"},
	"APR": {HasHolidays: false, Description: "Good business month, Easter varies", BusinessImpact: "high"},
	"MAY": {HasHolidays: false, Description: "Strong business month", BusinessImpact: "medium"},
	"JUN": {HasHolidays: false, Description: "Early vacation season begins", BusinessImpact: "medium"},
	"JUL": {HasHolidays: false, Description: "Summer vacation period", BusinessImpact: "medium"},
	"AUG": {HasHolidays: false, Description: "Late summer, some vacation impact", BusinessImpact: "medium"},
	"SEP": {HasHolidays: false, Description: "Back-to-business after summer", BusinessImpact: "medium"},
	"OCT": {HasHolidays: false, Description: "Pre-holiday business preparation", BusinessImpact: "medium"},
	"NOV": {HasHolidays: true, Description: "Thanksgiving and multiple holidays", BusinessImpact: "low"},
	"DEC": {HasHolidays: true, Description: "Christmas and New Year holidays", BusinessImpact: "low"},
}
