package handler

import (
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"transitdocs/internal/http/middleware"
	"transitdocs/internal/model"
	"transitdocs/internal/service"
	"transitdocs/internal/session"
)

// Deps bundles everything RegisterRoutes wires into the app.
type Deps struct {
	DB         *sql.DB
	Auth       service.AuthService
	Documents  service.DocumentService
	Sessions   session.Store
	JWTSecret  []byte
	SessionTTL time.Duration
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin; role checks run in middleware first and again in the
// service layer.
func RegisterRoutes(app *fiber.App, d Deps) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())

	// Public auth endpoints
	app.Post("/auth/signup", SignUp(d.Auth))
	app.Post("/auth/signin", SignIn(d.Auth, d.SessionTTL))

	authed := middleware.RequireAuth(d.JWTSecret, d.Sessions)
	admin := middleware.RequireRole(model.RoleAdmin)
	employee := middleware.RequireRole(model.RoleEmployee)

	app.Post("/auth/signout", authed, SignOut(d.Auth))
	app.Get("/auth/me", authed, Me(d.Auth))
	app.Get("/landing", authed, Landing())

	// Role landing screens
	app.Get("/admin", authed, admin, DocumentStats(d.Documents))
	app.Get("/employee", authed, employee, MyDocuments(d.Documents))

	// Admin document management
	app.Post("/documents", authed, admin, UploadDocument(d.Documents))
	app.Get("/documents/pending", authed, admin, PendingDocuments(d.Documents))
	app.Get("/documents", authed, admin, ListDocuments(d.Documents))
	app.Get("/documents/:id", authed, GetDocument(d.Documents))
	app.Post("/documents/:id/status", authed, admin, TransitionDocument(d.Documents))
	app.Put("/documents/:id/assignees", authed, admin, PutAssignees(d.Documents))
	app.Get("/documents/:id/assignees", authed, admin, GetAssignees(d.Documents))
	app.Get("/employees", authed, admin, ListEmployees(d.Documents))

	// Shared + employee views
	app.Get("/stats", authed, DocumentStats(d.Documents))
	app.Get("/my/documents", authed, employee, MyDocuments(d.Documents))
}
