package main

import (
	"context"
	"fmt"
	common_api "go-obra/internal/common/api"
	"go-obra/internal/config"
	"go-obra/internal/database"
	"go-obra/internal/features/employee"
	"go-obra/internal/features/employeedoc"
	"go-obra/internal/features/obra"
	"go-obra/internal/features/obradoc"
	"go-obra/internal/features/system"
	"go-obra/internal/logger"
	"go-obra/internal/middleware"
	"go-obra/internal/storage"
	"go-obra/pkg/utils"
	"log"

	_ "go-obra/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             32 << 20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())
	app.Use(middleware.MetricsMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	log.Printf("Registering %d routes...\n", len(routes))
	for i, route := range routes {
		log.Printf("Setting up route %d: %T\n", i+1, route)
		route.Setup(app)
	}
	log.Println("All routes registered successfully")
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// ConfigureAuth points token validation at the configured signing secret.
func ConfigureAuth(cfg *config.Config) {
	utils.SetSecret(cfg.JWTSecret)
}

// RunMigrations creates or updates the schema for every model, including
// the guard indexes that back the single-current and single-slot rules.
func RunMigrations(pg *database.PostgresDB) {
	pg.Migrate(
		&employee.Employee{},
		&obra.Obra{},
		&employeedoc.EmployeeDocument{},
		&obradoc.ObraDocument{},
	)
}

// @title           Obra Admin API
// @version         1.0
// @description     Construction-company admin backend: employee and obra document management with versioning and signed URLs.

// @contact.name    API Support

// @host            localhost:8000
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database & Object Storage
			database.NewDatabase,
			storage.NewObjectStore,

			// Event hub for document change notifications
			system.NewHub,

			// Initialize Repository
			employee.NewEmployeeRepository,
			obra.NewObraRepository,
			employeedoc.NewDocumentRepository,
			obradoc.NewDocumentRepository,

			// Initialize Service
			employee.NewEmployeeService,
			obra.NewObraService,
			employeedoc.NewDocumentService,
			obradoc.NewDocumentService,

			// Initialize Controller
			employee.NewEmployeeController,
			obra.NewObraController,
			employeedoc.NewDocumentController,
			obradoc.NewDocumentController,
			system.NewWebSocketController,

			// Initialize API Routes
			AsRoute(employee.NewEmployeeApi),
			AsRoute(obra.NewObraApi),
			AsRoute(employeedoc.NewDocumentApi),
			AsRoute(obradoc.NewDocumentApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
			AsRoute(system.NewWebSocketApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			ConfigureAuth,
			RunMigrations,

			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
		),
	)

	app.Run()
}
