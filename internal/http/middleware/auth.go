package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"transitdocs/internal/auth"
	"transitdocs/internal/model"
	"transitdocs/internal/service"
	"transitdocs/internal/session"
)

const (
	// ActorLocalKey is the locals key holding the authenticated service.Actor.
	ActorLocalKey = "actor"
	// TokenLocalKey is the locals key holding the raw access token.
	TokenLocalKey = "access_token"

	// SignInPath is where unauthenticated requests are redirected.
	SignInPath = "/auth/signin"

	tokenCookie = "access_token"
)

// TokenFromRequest extracts the access token from the Authorization header
// (Bearer scheme) or, failing that, from the session cookie.
func TokenFromRequest(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if after, ok := strings.CutPrefix(header, "Bearer "); ok && after != "" {
		return after
	}
	return c.Cookies(tokenCookie)
}

// RequireAuth verifies the access token signature and checks the session is
// still registered in the store. A token whose session was torn down is
// treated the same as no token at all. On success the resolved Actor and the
// raw token are stored in context locals.
func RequireAuth(secret []byte, sessions session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := TokenFromRequest(c)
		if token == "" {
			return c.Redirect(SignInPath, fiber.StatusSeeOther)
		}

		claims, err := auth.ParseToken(secret, token)
		if err != nil {
			return c.Redirect(SignInPath, fiber.StatusSeeOther)
		}

		alive, err := sessions.Exists(c.UserContext(), token)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "session lookup failed")
		}
		if !alive {
			return c.Redirect(SignInPath, fiber.StatusSeeOther)
		}

		c.Locals(ActorLocalKey, service.Actor{UserID: claims.Subject, Role: claims.Role})
		c.Locals(TokenLocalKey, token)

		return c.Next()
	}
}

// RequireRole lets matching actors through and bounces everyone else to
// their own landing route. It must run after RequireAuth.
func RequireRole(role model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := c.Locals(ActorLocalKey).(service.Actor)
		if !ok {
			return c.Redirect(SignInPath, fiber.StatusSeeOther)
		}
		if actor.Role != role {
			return c.Redirect(actor.Role.LandingPath(), fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

// ActorFromCtx returns the Actor placed in locals by RequireAuth.
func ActorFromCtx(c *fiber.Ctx) service.Actor {
	actor, _ := c.Locals(ActorLocalKey).(service.Actor)
	return actor
}
