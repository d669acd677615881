package salesbudget

import "errors"

var (
	// ErrRuleNotFound is returned when a rule id is unknown
	ErrRuleNotFound = errors.New("discount rule not found")

	// ErrRuleNotEditable is returned when a rule rejects mutation
	ErrRuleNotEditable = errors.New("discount rule is not editable")

	// ErrPercentageOutOfRange is returned when a percentage is outside the allowed bounds
	ErrPercentageOutOfRange = errors.New("discount percentage out of range")
)

// IsValidationError reports whether err is one of the discount update
// validation failures. Callers surface these to the user and keep state
// unchanged.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrRuleNotFound) ||
		errors.Is(err, ErrRuleNotEditable) ||
		errors.Is(err, ErrPercentageOutOfRange)
}
