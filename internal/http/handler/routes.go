package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"ssisapi/internal/http/middleware"
	"ssisapi/internal/service"
)

// Deps bundles the services the HTTP surface depends on.
type Deps struct {
	Auth      service.AuthService
	Students  service.StudentService
	Avatars   service.AvatarService
	Creations service.CreationOrchestrator
	Colleges  service.CollegeService
	Programs  service.ProgramService
	Users     service.UserService

	JWTSecret string
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin; business rules live in the service layer.
func RegisterRoutes(app *fiber.App, db *sql.DB, deps Deps) {
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

	// Health endpoints
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	// Authentication (public)
	auth := app.Group("/auth")
	auth.Post("/signup", Signup(deps.Auth))
	auth.Post("/login", Login(deps.Auth))

	requireAuth := middleware.RequireAuth(deps.JWTSecret)

	// Students and the avatar flow
	students := app.Group("/students", requireAuth)
	students.Post("/", CreateStudent(deps.Creations))
	students.Get("/", ListStudents(deps.Students))
	students.Get("/:id", GetStudent(deps.Students))
	students.Put("/:id", UpdateStudent(deps.Students))
	students.Delete("/:id", DeleteStudent(deps.Students))
	students.Delete("/:id/creation", AbortStudentCreation(deps.Creations))

	students.Post("/:id/avatar", RequestAvatarUpload(deps.Avatars))
	students.Post("/:id/avatar/confirm", ConfirmAvatarUpload(deps.Avatars))
	students.Get("/:id/avatar", GetAvatarURL(deps.Avatars))
	students.Delete("/:id/avatar", DeleteAvatar(deps.Avatars))

	// Colleges
	colleges := app.Group("/colleges", requireAuth)
	colleges.Post("/", CreateCollege(deps.Colleges))
	colleges.Get("/", ListColleges(deps.Colleges))
	colleges.Get("/:code", GetCollege(deps.Colleges))
	colleges.Put("/:code", UpdateCollege(deps.Colleges))
	colleges.Delete("/:code", DeleteCollege(deps.Colleges))

	// Programs
	programs := app.Group("/programs", requireAuth)
	programs.Post("/", CreateProgram(deps.Programs))
	programs.Get("/", ListPrograms(deps.Programs))
	programs.Get("/:code", GetProgram(deps.Programs))
	programs.Put("/:code", UpdateProgram(deps.Programs))
	programs.Delete("/:code", DeleteProgram(deps.Programs))

	// Account management, restricted to admins
	users := app.Group("/users", requireAuth, middleware.RequireAdmin())
	users.Post("/", CreateUser(deps.Users))
	users.Get("/", ListUsers(deps.Users))
	users.Get("/:id", GetUser(deps.Users))
	users.Put("/:id", UpdateUser(deps.Users))
	users.Delete("/:id", DeleteUser(deps.Users))
}
