package validation_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"productapi/internal/validation"
)

// evaluate runs the given chains against a synthetic request and returns
// the accumulated errors.
func evaluate(t *testing.T, method, target, body string, chains ...*validation.Chain) []validation.FieldError {
	t.Helper()

	app := fiber.New()
	report := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"errors": validation.ErrorsFrom(c)})
	}
	app.Add(method, "/products", validation.Evaluate(chains...), report)
	app.Add(method, "/products/:id", validation.Evaluate(chains...), report)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	defer resp.Body.Close()

	var decoded struct {
		Errors []validation.FieldError `json:"errors"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return decoded.Errors
}

func postRules() []*validation.Chain {
	return []*validation.Chain{
		validation.Body("name").NotEmpty("name required"),
		validation.Body("price").
			Numeric("invalid value").
			NotEmpty("price required").
			GreaterThan(0, "invalid price"),
	}
}

func TestEmptyBodyAccumulatesAllErrors(t *testing.T) {
	errs := evaluate(t, http.MethodPost, "/products", "", postRules()...)

	assert.Len(t, errs, 4)
	assert.Equal(t, validation.FieldError{Field: "name", Message: "name required"}, errs[0])
	assert.Equal(t, validation.FieldError{Field: "price", Message: "invalid value"}, errs[1])
	assert.Equal(t, validation.FieldError{Field: "price", Message: "price required"}, errs[2])
	assert.Equal(t, validation.FieldError{Field: "price", Message: "invalid price"}, errs[3])
}

func TestZeroPriceFailsOnlyPositivityCheck(t *testing.T) {
	errs := evaluate(t, http.MethodPost, "/products", `{"name":"Mouse","price":0}`, postRules()...)

	assert.Len(t, errs, 1)
	assert.Equal(t, "invalid price", errs[0].Message)
	assert.Equal(t, "price", errs[0].Field)
}

func TestNonNumericPriceFailsTwoChecks(t *testing.T) {
	errs := evaluate(t, http.MethodPost, "/products", `{"name":"Mouse","price":"hola"}`, postRules()...)

	assert.Len(t, errs, 2)
	assert.Equal(t, "invalid value", errs[0].Message)
	assert.Equal(t, "invalid price", errs[1].Message)
}

func TestNumericStringPricePasses(t *testing.T) {
	errs := evaluate(t, http.MethodPost, "/products", `{"name":"Mouse","price":"50"}`, postRules()...)

	assert.Empty(t, errs)
}

func TestValidBodyProducesNoErrors(t *testing.T) {
	errs := evaluate(t, http.MethodPost, "/products", `{"name":"Mouse -Testing","price":50}`, postRules()...)

	assert.Empty(t, errs)
}

func TestMalformedBodyTreatedAsEmpty(t *testing.T) {
	errs := evaluate(t, http.MethodPost, "/products", `{"name": truncated`, postRules()...)

	assert.Len(t, errs, 4)
}

func TestParamIntegerCheck(t *testing.T) {
	idRule := func() []*validation.Chain {
		return []*validation.Chain{validation.Param("id").Int("ID in not valid")}
	}

	errs := evaluate(t, http.MethodGet, "/products/abc", "", idRule()...)
	assert.Len(t, errs, 1)
	assert.Equal(t, validation.FieldError{Field: "id", Message: "ID in not valid"}, errs[0])

	errs = evaluate(t, http.MethodGet, "/products/42", "", idRule()...)
	assert.Empty(t, errs)

	// Floats are not valid path identifiers.
	errs = evaluate(t, http.MethodGet, "/products/4.2", "", idRule()...)
	assert.Len(t, errs, 1)
}

func TestUpdateRulesAccumulateFiveErrorsOnEmptyBody(t *testing.T) {
	rules := []*validation.Chain{validation.Param("id").Int("ID in not valid")}
	rules = append(rules, postRules()...)
	rules = append(rules, validation.Body("availability").Boolean("invalid availability value"))

	errs := evaluate(t, http.MethodPut, "/products/1", "", rules...)

	assert.Len(t, errs, 5)
	assert.Equal(t, "invalid availability value", errs[4].Message)
}

func TestAvailabilityMustBeBoolean(t *testing.T) {
	rule := validation.Body("availability").Boolean("invalid availability value")

	errs := evaluate(t, http.MethodPut, "/products/1",
		`{"availability":"yes"}`, rule)
	assert.Len(t, errs, 1)
	assert.Equal(t, "invalid availability value", errs[0].Message)

	errs = evaluate(t, http.MethodPut, "/products/1",
		`{"availability":false}`,
		validation.Body("availability").Boolean("invalid availability value"))
	assert.Empty(t, errs)
}
