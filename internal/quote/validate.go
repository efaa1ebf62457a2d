package quote

import (
	"regexp"
	"strings"
)

// Wizard steps
const (
	StepServices = iota
	StepProperty
	StepContact
	StepSchedule

	TotalSteps
)

// Validation messages
const (
	MsgSelectService  = "Please select at least one service."
	MsgFirstName      = "First name is required."
	MsgLastName       = "Last name is required."
	MsgPhone          = "Phone number is required."
	MsgEmail          = "Email address is required."
	MsgEmailMalformed = "Please enter a valid email address."
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError is a step-scoped, user-facing validation failure.
type ValidationError struct {
	Step    int
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks the draft against the rules of a single step. Only the first
// failing rule is reported.
func Validate(step int, d Draft) error {
	switch step {
	case StepServices:
		if len(d.Services) == 0 {
			return &ValidationError{Step: step, Message: MsgSelectService}
		}
	case StepContact:
		switch {
		case strings.TrimSpace(d.FirstName) == "":
			return &ValidationError{Step: step, Message: MsgFirstName}
		case strings.TrimSpace(d.LastName) == "":
			return &ValidationError{Step: step, Message: MsgLastName}
		case strings.TrimSpace(d.Phone) == "":
			return &ValidationError{Step: step, Message: MsgPhone}
		case strings.TrimSpace(d.Email) == "":
			return &ValidationError{Step: step, Message: MsgEmail}
		case !emailPattern.MatchString(d.Email):
			return &ValidationError{Step: step, Message: MsgEmailMalformed}
		}
	}
	return nil
}

// ValidateAll runs every step in order and returns the first failure.
func ValidateAll(d Draft) error {
	for step := 0; step < TotalSteps; step++ {
		if err := Validate(step, d); err != nil {
			return err
		}
	}
	return nil
}
