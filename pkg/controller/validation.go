package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nimburion/airbnb-listings/pkg/listing"
)

// Price range form messages.
const (
	msgMinNotNumber = "Minimum price must be a number."
	msgMaxNotNumber = "Maximum price must be a number."
	msgMinAboveMax  = "Minimum price must be less than or equal to maximum price."
	msgMaxBelowMin  = "Maximum price must be greater than or equal to minimum price."

	msgMinOutOfRange = "Minimum price is out of range."
	msgMaxOutOfRange = "Maximum price is out of range."
)

const (
	tagMinAboveMax = "lte_max"
	tagMaxBelowMin = "gte_min"
	tagOutOfRange  = "int_range"
)

// priceRangeInput is the submitted price range form.
type priceRangeInput struct {
	Min string `validate:"required,numeric"`
	Max string `validate:"required,numeric"`
}

// bounds returns the integer bounds. ok is false unless both fields parse.
func (in priceRangeInput) bounds() (int64, int64, bool) {
	lower, lowerOK := listing.ParseInt(in.Min)
	upper, upperOK := listing.ParseInt(in.Max)
	return lower, upper, lowerOK && upperOK
}

var priceValidator = newPriceValidator()

func newPriceValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		in := sl.Current().Interface().(priceRangeInput)
		lower, lowerOK := listing.ParseInt(in.Min)
		upper, upperOK := listing.ParseInt(in.Max)
		// Numeric input that does not fit an integer bound.
		if !lowerOK && sl.Validator().Var(in.Min, "numeric") == nil {
			sl.ReportError(in.Min, "Min", "Min", tagOutOfRange, "")
		}
		if !upperOK && sl.Validator().Var(in.Max, "numeric") == nil {
			sl.ReportError(in.Max, "Max", "Max", tagOutOfRange, "")
		}
		if !lowerOK || !upperOK || lower <= upper {
			return
		}
		sl.ReportError(in.Min, "Min", "Min", tagMinAboveMax, "")
		sl.ReportError(in.Max, "Max", "Max", tagMaxBelowMin, "")
	}, priceRangeInput{})
	return v
}

// validatePriceRange returns one message per failing field, minimum first.
func validatePriceRange(in priceRangeInput) []string {
	err := priceValidator.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{msgMinNotNumber, msgMaxNotNumber}
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, priceMessage(fe.Field(), fe.Tag()))
	}
	return messages
}

func priceMessage(field, tag string) string {
	switch {
	case tag == tagMinAboveMax:
		return msgMinAboveMax
	case tag == tagMaxBelowMin:
		return msgMaxBelowMin
	case tag == tagOutOfRange && strings.EqualFold(field, "Min"):
		return msgMinOutOfRange
	case tag == tagOutOfRange:
		return msgMaxOutOfRange
	case strings.EqualFold(field, "Min"):
		return msgMinNotNumber
	default:
		return msgMaxNotNumber
	}
}
