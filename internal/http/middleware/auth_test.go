package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"transitdocs/internal/auth"
	"transitdocs/internal/model"
	sessionMocks "transitdocs/internal/session/mocks"
)

var authTestSecret = []byte("middleware-test-secret")

func mintToken(t *testing.T, userID string, role model.Role) string {
	t.Helper()
	token, err := auth.GenerateToken(authTestSecret, userID, role, time.Hour)
	assert.NoError(t, err)
	return token
}

func newAuthApp(sessions *sessionMocks.MockStore) *fiber.App {
	app := fiber.New()
	app.Use(RequireAuth(authTestSecret, sessions))

	app.Get("/whoami", func(c *fiber.Ctx) error {
		actor := ActorFromCtx(c)
		return c.SendString(actor.UserID + ":" + string(actor.Role))
	})
	app.Get("/admin-only", RequireRole(model.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString("admin area")
	})

	return app
}

func TestRequireAuth(t *testing.T) {
	t.Run("valid token with live session passes", func(t *testing.T) {
		sessions := new(sessionMocks.MockStore)
		token := mintToken(t, "user-1", model.RoleEmployee)
		sessions.On("Exists", mock.Anything, token).Return(true, nil)

		app := newAuthApp(sessions)
		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("token accepted from cookie", func(t *testing.T) {
		sessions := new(sessionMocks.MockStore)
		token := mintToken(t, "user-1", model.RoleEmployee)
		sessions.On("Exists", mock.Anything, token).Return(true, nil)

		app := newAuthApp(sessions)
		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set("Cookie", tokenCookie+"="+token)

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("missing token redirects to sign-in", func(t *testing.T) {
		app := newAuthApp(new(sessionMocks.MockStore))
		req := httptest.NewRequest("GET", "/whoami", nil)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, SignInPath, resp.Header.Get("Location"))
	})

	t.Run("garbage token redirects to sign-in", func(t *testing.T) {
		app := newAuthApp(new(sessionMocks.MockStore))
		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer not-a-jwt")

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, SignInPath, resp.Header.Get("Location"))
	})

	t.Run("signed-out session is rejected even with a valid token", func(t *testing.T) {
		sessions := new(sessionMocks.MockStore)
		token := mintToken(t, "user-1", model.RoleEmployee)
		sessions.On("Exists", mock.Anything, token).Return(false, nil)

		app := newAuthApp(sessions)
		req := httptest.NewRequest("GET", "/whoami", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, SignInPath, resp.Header.Get("Location"))
	})
}

func TestRequireRole(t *testing.T) {
	t.Run("matching role passes", func(t *testing.T) {
		sessions := new(sessionMocks.MockStore)
		token := mintToken(t, "admin-1", model.RoleAdmin)
		sessions.On("Exists", mock.Anything, token).Return(true, nil)

		app := newAuthApp(sessions)
		req := httptest.NewRequest("GET", "/admin-only", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("wrong role bounces to own landing route", func(t *testing.T) {
		sessions := new(sessionMocks.MockStore)
		token := mintToken(t, "emp-1", model.RoleEmployee)
		sessions.On("Exists", mock.Anything, token).Return(true, nil)

		app := newAuthApp(sessions)
		req := httptest.NewRequest("GET", "/admin-only", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, model.RoleEmployee.LandingPath(), resp.Header.Get("Location"))
	})
}
