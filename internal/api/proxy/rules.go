package proxy

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/citylink/admin-gateway/internal/core/domain"
)

var validate = validator.New()

// Rule checks one aspect of a payload and returns a *domain.ValidationError
// on failure.
type Rule func(p *Payload) error

// Required fails when field is missing or blank.
func Required(field, msg string) Rule {
	return func(p *Payload) error {
		if validate.Var(strings.TrimSpace(p.String(field)), "required") != nil {
			return domain.NewValidationError(field, msg)
		}
		return nil
	}
}

// NonNegative fails when field is present but not a number ≥ 0.
func NonNegative(field, msg string) Rule {
	return func(p *Payload) error {
		if !p.Has(field) {
			return nil
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(p.String(field)), 64)
		if err != nil || validate.Var(n, "gte=0") != nil {
			return domain.NewValidationError(field, msg)
		}
		return nil
	}
}

// IntRange fails when field is present but not an integer in [lo, hi].
func IntRange(field string, lo, hi int, msg string) Rule {
	tag := fmt.Sprintf("min=%d,max=%d", lo, hi)
	return func(p *Payload) error {
		if !p.Has(field) {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(p.String(field)))
		if err != nil || validate.Var(n, tag) != nil {
			return domain.NewValidationError(field, msg)
		}
		return nil
	}
}

// OneOf fails when field is present but not one of allowed.
func OneOf(field string, allowed []string, msg string) Rule {
	tag := "oneof=" + strings.Join(allowed, " ")
	return func(p *Payload) error {
		if !p.Has(field) {
			return nil
		}
		if validate.Var(strings.TrimSpace(p.String(field)), tag) != nil {
			return domain.NewValidationError(field, msg)
		}
		return nil
	}
}

// Email fails when field is present but not an email address.
func Email(field, msg string) Rule {
	return func(p *Payload) error {
		if !p.Has(field) {
			return nil
		}
		if validate.Var(strings.TrimSpace(p.String(field)), "email") != nil {
			return domain.NewValidationError(field, msg)
		}
		return nil
	}
}

func runRules(rules []Rule, p *Payload) error {
	for _, rule := range rules {
		if err := rule(p); err != nil {
			return err
		}
	}
	return nil
}
