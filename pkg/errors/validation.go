package errors

import (
	"errors"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidateFinite rejects NaN and infinite values for the named parameter.
// Struct tags such as gt=0 already reject NaN, but let +Inf through.
func ValidateFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidParameter, "%s must be finite, got %v", name, v)
	}
	return nil
}

// ValidateCount checks that a per-node count lies in [0, limit].
func ValidateCount(name string, node, v, limit int) error {
	if v < 0 || v > limit {
		return New(ErrCodeInvalidParameter, "%s of node %d must be in [0, %d], got %d", name, node, limit, v)
	}
	return nil
}

// FromValidator converts the error returned by a go-playground validator
// into a coded *Error. Every failed field is listed in the message; the
// original error is kept as the cause. A nil err returns nil.
//
// Errors that are not validator.ValidationErrors (for example an
// InvalidValidationError from passing a nil pointer) map to
// [ErrCodeInternal], since they indicate a programming mistake.
func FromValidator(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Wrap(ErrCodeInternal, err, "validate")
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fe.Field() + " failed " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		parts = append(parts, msg)
	}
	return Wrap(ErrCodeInvalidParameter, err, "%s", strings.Join(parts, "; "))
}
