// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

// Package validate implements request input validation.
//
// A [Validator] accumulates field errors across checks, so a handler reports
// every problem in one response instead of failing on the first.
package validate

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/vetasur/minepanel/internal/platform/apperr"
)

// Validator accumulates field errors. The zero value is ready to use.
type Validator struct {
	errors []apperr.FieldError
}

// New creates an empty [Validator].
func New() *Validator {
	return &Validator{}
}

// Required checks that value is not empty after trimming whitespace.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, fmt.Sprintf("%s is required", field))
	}
	return v
}

// MinLen checks that value has at least min characters.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	if utf8.RuneCountInString(value) < min {
		v.add(field, fmt.Sprintf("%s must be at least %d characters", field, min))
	}
	return v
}

// MaxLen checks that value has at most max characters.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return v
}

// Email checks that value is a parseable email address. Empty values pass;
// combine with Required when the field is mandatory.
func (v *Validator) Email(field, value string) *Validator {
	if value == "" {
		return v
	}
	if _, err := mail.ParseAddress(value); err != nil {
		v.add(field, fmt.Sprintf("%s must be a valid email address", field))
	}
	return v
}

// OneOf checks that value is one of the allowed choices. Empty values pass.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	if value == "" {
		return v
	}
	if !slices.Contains(allowed, value) {
		v.add(field, fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", ")))
	}
	return v
}

// Match checks that two fields carry the same value, e.g. a password and its
// confirmation.
func (v *Validator) Match(field, value, confirmation string) *Validator {
	if value != confirmation {
		v.add(field, fmt.Sprintf("%s does not match", field))
	}
	return v
}

// Check records a failure message for field when ok is false.
func (v *Validator) Check(ok bool, field, message string) *Validator {
	if !ok {
		v.add(field, message)
	}
	return v
}

// HasErrors reports whether any check failed.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Err returns the accumulated failures as a validation [apperr.AppError],
// or nil when every check passed.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return apperr.ValidationError("Invalid request payload", v.errors...)
}

func (v *Validator) add(field, message string) {
	v.errors = append(v.errors, apperr.FieldError{Field: field, Message: message})
}
