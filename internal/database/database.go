package database

import (
	"context"
	"log"

	"go-obra/internal/common/models"
	"go-obra/internal/config"

	"go.uber.org/fx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PostgresDB wraps the gorm handle so fx has a concrete type to provide.
type PostgresDB struct {
	DB *gorm.DB
}

// NewDatabase creates the Postgres connection with lifecycle management
func NewDatabase(lc fx.Lifecycle, cfg *config.Config) (*PostgresDB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	log.Println("Connected to Postgres!")

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Println("Closing Postgres connection...")
			return sqlDB.Close()
		},
	})

	return &PostgresDB{DB: db}, nil
}

// Migrate runs AutoMigrate for the given models individually so a failure
// on one doesn't block others, then applies the raw guard indexes gorm
// can't express.
func (p *PostgresDB) Migrate(modelsToMigrate ...interface{}) {
	for _, m := range modelsToMigrate {
		if err := p.DB.AutoMigrate(m); err != nil {
			log.Printf("migration warning (%T): %v", m, err)
		}
	}
	if err := p.DB.AutoMigrate(&models.AppLog{}); err != nil {
		log.Printf("migration warning (app_logs): %v", err)
	}
	p.ensureGuardIndexes()
}

// ensureGuardIndexes installs the constraints that back the document
// invariants at the engine level:
//   - at most one current row per (obra_id, doc_type)
//   - one slot per (employee_id, doc_type)
func (p *PostgresDB) ensureGuardIndexes() {
	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_obra_documents_current
			ON obra_documents (obra_id, doc_type) WHERE is_current`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_employee_documents_slot
			ON employee_documents (employee_id, doc_type)`,
	}
	for _, s := range stmts {
		if err := p.DB.Exec(s).Error; err != nil {
			log.Printf("guard index warning: %v", err)
		}
	}
}
