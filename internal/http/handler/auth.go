package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"transitdocs/internal/http/middleware"
	"transitdocs/internal/model"
	"transitdocs/internal/service"
)

type signUpRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FullName   string `json:"full_name"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers a new account. An empty role defaults to employee.
func SignUp(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req signUpRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}

		role := model.Role(req.Role)
		if req.Role == "" {
			role = model.RoleEmployee
		}

		profile, err := svc.SignUp(c.UserContext(), service.SignUpInput{
			Email:      req.Email,
			Password:   req.Password,
			FullName:   req.FullName,
			Role:       role,
			Department: req.Department,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(profile)
	}
}

// SignIn verifies credentials and returns the access token. The token is also
// set as a cookie so the redirect flows work without a client keeping headers.
func SignIn(svc service.AuthService, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req signInRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}

		result, err := svc.SignIn(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Cookie(&fiber.Cookie{
			Name:     "access_token",
			Value:    result.Token,
			Expires:  time.Now().Add(ttl),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})

		return c.JSON(result)
	}
}

// SignOut tears the session down and clears the cookie.
func SignOut(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, _ := c.Locals(middleware.TokenLocalKey).(string)
		if err := svc.SignOut(c.UserContext(), token); err != nil {
			return writeServiceError(c, err)
		}

		c.Cookie(&fiber.Cookie{
			Name:     "access_token",
			Value:    "",
			Expires:  time.Now().Add(-time.Hour),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// Me returns the profile of the signed-in user.
func Me(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := middleware.ActorFromCtx(c)
		profile, err := svc.Profile(c.UserContext(), actor.UserID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(profile)
	}
}

// Landing bounces the signed-in user to the landing route for their role.
func Landing() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := middleware.ActorFromCtx(c)
		return c.Redirect(actor.Role.LandingPath(), fiber.StatusSeeOther)
	}
}
