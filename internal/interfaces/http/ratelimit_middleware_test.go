package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/oficina-api/internal/interfaces/http"
)

func limitedApp(cfg apphttp.RateLimitConfig) *fiber.App {
	app := fiber.New()
	app.Get("/x",
		func(c *fiber.Ctx) error {
			c.Locals(apphttp.LocalUserID, c.Get("X-User"))
			return c.Next()
		},
		apphttp.RateLimitMiddleware(cfg),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) },
	)
	return app
}

func hit(t *testing.T, app *fiber.App, user string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-User", user)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestRateLimit_EstouroDevolve429PorUsuario(t *testing.T) {
	app := limitedApp(apphttp.RateLimitConfig{RPS: 0.001, Burst: 2})

	assert.Equal(t, http.StatusNoContent, hit(t, app, "a"))
	assert.Equal(t, http.StatusNoContent, hit(t, app, "a"))
	assert.Equal(t, http.StatusTooManyRequests, hit(t, app, "a"))

	// outro usuário tem seu próprio balde
	assert.Equal(t, http.StatusNoContent, hit(t, app, "b"))
}

func TestRateLimit_Desligado(t *testing.T) {
	app := limitedApp(apphttp.RateLimitConfig{RPS: 0})
	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusNoContent, hit(t, app, "a"))
	}
}
