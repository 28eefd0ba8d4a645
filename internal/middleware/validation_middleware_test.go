package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"productapi/internal/middleware"
	"productapi/internal/validation"
)

func setupGate() *fiber.App {
	app := fiber.New()
	app.Post("/products",
		validation.Evaluate(validation.Body("name").NotEmpty("name required")),
		middleware.RejectInvalid,
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"data": "handler reached"})
		})
	return app
}

func TestRejectInvalidShortCircuitsWith400(t *testing.T) {
	app := setupGate()

	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Errors []validation.FieldError `json:"errors"`
		Data   string                  `json:"data"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Errors, 1)
	assert.Equal(t, "name required", body.Errors[0].Message)
	assert.Empty(t, body.Data, "handler must not run when validation fails")
}

func TestRejectInvalidPassesCleanRequests(t *testing.T) {
	app := setupGate()

	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(`{"name":"Mouse"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "handler reached", body["data"])
}
