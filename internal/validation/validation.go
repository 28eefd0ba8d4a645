// Package validation implements the declarative per-route request
// validation pipeline. Routes declare ordered chains of checks bound to a
// body field or a path parameter; every failing check appends one
// field-level error, so a single field can report several violations in
// chain order. The accumulated errors are stashed in the request locals
// for the gate middleware to inspect.
package validation

import (
	"encoding/json"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const errorsKey = "validation_errors"

// validate backs the checks whose semantics map cleanly onto
// go-playground tags.
var validate = validator.New()

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type source int

const (
	fromBody source = iota
	fromParams
)

// checkFunc reports whether the value is valid. present is false when the
// field is absent from the request entirely.
type checkFunc func(value interface{}, present bool) bool

type step struct {
	valid   checkFunc
	message string
}

// Chain is an ordered sequence of checks against one field of the request.
// Chains are immutable after route registration and safe for concurrent use.
type Chain struct {
	field string
	src   source
	steps []step
}

// Body starts a chain over a field of the JSON request body.
func Body(field string) *Chain {
	return &Chain{field: field, src: fromBody}
}

// Param starts a chain over a path parameter.
func Param(field string) *Chain {
	return &Chain{field: field, src: fromParams}
}

func (c *Chain) add(valid checkFunc, message string) *Chain {
	c.steps = append(c.steps, step{valid: valid, message: message})
	return c
}

// NotEmpty fails for absent, null, or empty-string values. Any other
// value, including a numeric zero, passes.
func (c *Chain) NotEmpty(message string) *Chain {
	return c.add(func(v interface{}, present bool) bool {
		if !present || v == nil {
			return false
		}
		if s, ok := v.(string); ok {
			return s != ""
		}
		return true
	}, message)
}

// Numeric fails unless the value is a JSON number or a numeric string.
func (c *Chain) Numeric(message string) *Chain {
	return c.add(func(v interface{}, present bool) bool {
		if !present {
			return false
		}
		switch val := v.(type) {
		case float64:
			return true
		case string:
			return validate.Var(val, "numeric") == nil
		default:
			return false
		}
	}, message)
}

// GreaterThan fails unless the value converts to a number strictly
// greater than min. Non-convertible and absent values fail.
func (c *Chain) GreaterThan(min float64, message string) *Chain {
	return c.add(func(v interface{}, present bool) bool {
		if !present {
			return false
		}
		switch val := v.(type) {
		case float64:
			return val > min
		case string:
			f, err := strconv.ParseFloat(val, 64)
			return err == nil && f > min
		default:
			return false
		}
	}, message)
}

// Boolean fails unless the value is a JSON boolean.
func (c *Chain) Boolean(message string) *Chain {
	return c.add(func(v interface{}, present bool) bool {
		if !present {
			return false
		}
		_, ok := v.(bool)
		return ok
	}, message)
}

// Int fails unless the value is a string holding a valid integer. Path
// parameters are always strings, so this is the check for /:id segments.
func (c *Chain) Int(message string) *Chain {
	return c.add(func(v interface{}, present bool) bool {
		if !present {
			return false
		}
		s, ok := v.(string)
		if !ok {
			return false
		}
		_, err := strconv.Atoi(s)
		return err == nil
	}, message)
}

// Evaluate returns a middleware that runs every chain against the request
// and stores the accumulated errors in the request locals. It never
// short-circuits; rejection is the gate middleware's job. A missing or
// malformed JSON body is treated as an empty body.
func Evaluate(chains ...*Chain) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body map[string]interface{}
		if raw := c.Body(); len(raw) > 0 {
			if err := json.Unmarshal(raw, &body); err != nil {
				body = nil
			}
		}

		var errs []FieldError
		for _, chain := range chains {
			var value interface{}
			var present bool
			switch chain.src {
			case fromBody:
				value, present = body[chain.field]
			case fromParams:
				if s := c.Params(chain.field); s != "" {
					value, present = s, true
				}
			}
			for _, st := range chain.steps {
				if !st.valid(value, present) {
					errs = append(errs, FieldError{Field: chain.field, Message: st.message})
				}
			}
		}

		c.Locals(errorsKey, errs)
		return c.Next()
	}
}

// ErrorsFrom returns the errors accumulated by Evaluate for this request.
func ErrorsFrom(c *fiber.Ctx) []FieldError {
	if errs, ok := c.Locals(errorsKey).([]FieldError); ok {
		return errs
	}
	return nil
}
