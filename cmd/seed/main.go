package main

import (
	"context"
	"log"
	"time"

	"go-obra/internal/config"
	"go-obra/internal/database"
	"go-obra/internal/features/employee"
	"go-obra/internal/features/employeedoc"
	"go-obra/internal/features/obra"
	"go-obra/internal/features/obradoc"
	"go-obra/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func datePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

// Seed runs the database seeding
func Seed(
	lc fx.Lifecycle,
	pg *database.PostgresDB,
	employeeRepo employee.EmployeeRepository,
	obraRepo obra.ObraRepository,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				logger.Info("🌱 Starting Database Seeding...")

				pg.Migrate(
					&employee.Employee{},
					&obra.Obra{},
					&employeedoc.EmployeeDocument{},
					&obradoc.ObraDocument{},
				)

				employees := []employee.Employee{
					{
						Name:       "Juan Pérez",
						Email:      "juan.perez@example.com",
						Phone:      "+52 55 1234 5678",
						Position:   "Site Manager",
						Department: "Operations",
						Location:   "CDMX",
						Status:     "Active",
						JoinDate:   datePtr(2023, time.March, 15),
					},
					{
						Name:       "María García",
						Email:      "maria.garcia@example.com",
						Phone:      "+52 55 8765 4321",
						Position:   "Architect",
						Department: "Engineering",
						Location:   "Guadalajara",
						Status:     "Active",
						JoinDate:   datePtr(2024, time.January, 8),
					},
					{
						Name:       "Carlos Hernández",
						Email:      "carlos.hernandez@example.com",
						Position:   "Foreman",
						Department: "Operations",
						Location:   "Monterrey",
						Status:     "Active",
						JoinDate:   datePtr(2022, time.August, 1),
					},
				}

				var managerID *uuid.UUID
				for i := range employees {
					emp := &employees[i]
					if err := employeeRepo.Save(ctx, emp); err != nil {
						logger.Error("Failed to create employee",
							zap.String("email", emp.Email), zap.Error(err))
						continue
					}
					logger.Info("Employee created", zap.String("name", emp.Name))
					if managerID == nil {
						id := emp.ID
						managerID = &id
					}
				}

				obras := []obra.Obra{
					{
						Name:      "Torre Reforma Norte",
						Location:  "Av. Reforma 100, CDMX",
						Status:    obra.StatusInProgress,
						Progress:  45,
						StartDate: datePtr(2025, time.February, 1),
						Budget:    12_500_000,
						Spent:     5_100_000,
						ManagerID: managerID,
					},
					{
						Name:      "Residencial Los Pinos",
						Location:  "Zapopan, Jalisco",
						Status:    obra.StatusPlanning,
						Progress:  0,
						StartDate: datePtr(2025, time.November, 1),
						Budget:    7_800_000,
					},
				}

				for i := range obras {
					o := &obras[i]
					if err := obraRepo.Save(ctx, o); err != nil {
						logger.Error("Failed to create obra",
							zap.String("name", o.Name), zap.Error(err))
						continue
					}
					logger.Info("Obra created", zap.String("name", o.Name))
				}

				logger.Info("✅ Seeding complete")
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			employee.NewEmployeeRepository,
			obra.NewObraRepository,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}

	<-app.Done()
}
