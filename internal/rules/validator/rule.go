package validator

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"slotsmith/pkg/config"
	"slotsmith/pkg/logger"
	"slotsmith/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Fixed-width HH:MM:SS so lexicographic order equals time-of-day order.
var slotLabelRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]:[0-5][0-9]$`)

type RuleValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewRuleValidator(log *logger.Logger) *RuleValidator {
	v := validator.New()

	if err := v.RegisterValidation("slot_label", validateSlotLabel); err != nil {
		log.Fatal("Failed to register 'slot_label' validator", "error", err)
	}

	return &RuleValidator{
		validate: v,
		logger:   log,
	}
}

func validateSlotLabel(fl validator.FieldLevel) bool {
	return slotLabelRegex.MatchString(fl.Field().String())
}

func (v *RuleValidator) Validate(rule *model.RecurringRule) error {
	if err := v.validate.Struct(rule); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

// ValidateSet checks the full weekly template: every rule well-formed, no
// weekday appearing twice, slot labels unique and sorted per rule.
func (v *RuleValidator) ValidateSet(rules []*model.RecurringRule) error {
	var errs ValidationErrors

	seen := make(map[config.Weekday]struct{}, len(rules))
	for _, rule := range rules {
		if err := v.Validate(rule); err != nil {
			var ruleErrs ValidationErrors
			if errors.As(err, &ruleErrs) {
				errs = append(errs, ruleErrs...)
				continue
			}
			return err
		}

		if _, dup := seen[rule.Weekday]; dup {
			errs = append(errs, ValidationError{
				Field:   "weekday",
				Message: fmt.Sprintf("duplicate rule for %s: at most one rule per weekday", rule.Weekday),
			})
		}
		seen[rule.Weekday] = struct{}{}

		if !sort.StringsAreSorted(rule.Slots) {
			errs = append(errs, ValidationError{
				Field:   "slots",
				Message: fmt.Sprintf("slots for %s must be in ascending time order", rule.Weekday),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *RuleValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be a weekday name (Sunday-Saturday)", err.Field())
		case "min":
			message = fmt.Sprintf("%s must have at least %s entries", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must have at most %s entries", err.Field(), err.Param())
		case "slot_label":
			message = "slot labels must be in HH:MM:SS 24-hour format"
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
