package logger

import (
	"fmt"
	"time"

	common_models "go-obra/internal/common/models"
	"go-obra/internal/config"
	"go-obra/internal/database"

	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

// LogEntry holds the data passed from Zap to our worker
type LogEntry struct {
	Level     zapcore.Level
	Message   string
	IpAddress string
	Caller    string // Function name
}

// DBLogWriter handles the async writing
type DBLogWriter struct {
	db      *gorm.DB
	logChan chan LogEntry
	appId   string
}

// NewDBLogWriter initializes the worker
func NewDBLogWriter(pg *database.PostgresDB, cfg *config.Config) *DBLogWriter {
	writer := &DBLogWriter{
		db:      pg.DB,
		logChan: make(chan LogEntry, 1000), // Buffer 1000 logs
		appId:   cfg.AppId,
	}

	// Start the background worker immediately
	go writer.processLogs()

	return writer
}

// AddLog is called by our Zap hook
func (w *DBLogWriter) AddLog(entry LogEntry) {
	select {
	case w.logChan <- entry:
		// Log pushed to channel
	default:
		// Channel full: drop the log instead of blocking the API
		fmt.Println("DB Log Channel Full! Dropping log:", entry.Message)
	}
}

func (w *DBLogWriter) processLogs() {
	for entry := range w.logChan {
		logRecord := common_models.AppLog{
			Level:     entry.Level.String(),
			Message:   entry.Message,
			Caller:    entry.Caller,
			IPAddress: entry.IpAddress,
			AppID:     w.appId,
			CreatedAt: time.Now().UTC(),
		}

		// Insert errors are swallowed on purpose; logging must never take
		// the app down.
		w.db.Create(&logRecord)
	}
}
