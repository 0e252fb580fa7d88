// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package validation checks request input against per-resource schemas and
// reports failures as an ordered list of field messages.
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError is a single failed constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the validation failure returned by Validate.
type Errors struct {
	Fields []FieldError
}

func (e *Errors) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a field message.
func (e *Errors) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Has reports whether field failed.
func (e *Errors) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Map returns the first message per field, for the JSON error envelope.
func (e *Errors) Map() map[string]string {
	m := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		if _, ok := m[f.Field]; !ok {
			m[f.Field] = f.Message
		}
	}
	return m
}

// BodyError reports an undecodable request body as a failure on field "body".
func BodyError(err error) *Errors {
	e := &Errors{}
	e.Add("body", fmt.Sprintf("could not be parsed: %v", err))
	return e
}

// githubUserRegex matches GitHub logins: alphanumerics separated by
// single hyphens.
var githubUserRegex = regexp.MustCompile(`^[A-Za-z0-9]+(-[A-Za-z0-9]+)*$`)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("absurl", func(fl validator.FieldLevel) bool {
			return IsAbsoluteURL(fl.Field().String())
		})
		_ = v.RegisterValidation("imageref", func(fl validator.FieldLevel) bool {
			return IsImageReference(fl.Field().String())
		})
		_ = v.RegisterValidation("ghuser", func(fl validator.FieldLevel) bool {
			return githubUserRegex.MatchString(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// Validate checks schema, a pointer to one of the input structs, and returns
// *Errors listing every failed field in declaration order.
func Validate(schema any) error {
	err := instance().Struct(schema)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// InvalidValidationError: a programming error, not user input.
		return fmt.Errorf("validating input: %w", err)
	}

	out := &Errors{}
	for _, fe := range verrs {
		out.Add(fieldPath(fe), message(fe))
	}
	return out
}

// fieldPath drops the root struct name: "ContactInput.email" -> "email".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must contain at least %s items", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must contain at most %s items", fe.Param())
	case "email":
		return "must be a valid email address"
	case "absurl":
		return "must be a valid absolute URL"
	case "imageref":
		return "must be a data:image URI or an http(s) URL"
	case "ghuser":
		return "must be a valid GitHub username"
	default:
		return "is invalid"
	}
}

// IsAbsoluteURL reports whether s parses as a URL with both scheme and host.
func IsAbsoluteURL(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// IsImageReference accepts data:image/... URIs and absolute http(s) URLs.
func IsImageReference(s string) bool {
	if strings.HasPrefix(s, "data:image/") {
		return strings.Contains(s, ",")
	}
	if !IsAbsoluteURL(s) {
		return false
	}
	u, _ := url.Parse(s)
	return u.Scheme == "http" || u.Scheme == "https"
}
