package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go-obra/internal/config"
	"go-obra/internal/storage"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Sweeps both buckets for blobs no document row references. The upload
// flows compensate on failure, but a crash between the blob write and
// the row insert can still strand an object; this tool finds and
// (optionally) removes them. Run with CLEANUP_APPLY=true to delete,
// otherwise it only reports.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	apply := os.Getenv("CLEANUP_APPLY") == "true"

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}

	store, err := storage.NewObjectStore(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to object storage: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	sweeps := []struct {
		bucket string
		table  string
		column string
	}{
		{cfg.EmployeeDocsBucket, "employee_documents", "storage_path"},
		{cfg.ObraDocsBucket, "obra_documents", "object_path"},
	}

	var orphans, removed int
	for _, sw := range sweeps {
		objects, err := store.List(ctx, sw.bucket, "")
		if err != nil {
			log.Fatalf("Failed to list bucket %s: %v", sw.bucket, err)
		}
		fmt.Printf("Bucket %s: %d objects\n", sw.bucket, len(objects))

		for _, obj := range objects {
			var count int64
			err := db.WithContext(ctx).
				Table(sw.table).
				Where(sw.column+" = ?", obj.Path).
				Count(&count).Error
			if err != nil {
				log.Fatalf("Failed to query %s: %v", sw.table, err)
			}
			if count > 0 {
				continue
			}

			orphans++
			fmt.Printf("Orphaned blob: %s/%s (%d bytes, modified %s)\n",
				sw.bucket, obj.Path, obj.Size, obj.LastModified.Format(time.RFC3339))

			if !apply {
				continue
			}
			if err := store.Remove(ctx, sw.bucket, obj.Path); err != nil {
				log.Printf("Failed to remove %s/%s: %v\n", sw.bucket, obj.Path, err)
				continue
			}
			removed++
		}
	}

	// Reverse check: rows pointing at blobs that no longer exist. These are
	// the bad kind of orphan and are only reported, never auto-deleted.
	var broken int
	for _, sw := range sweeps {
		var rows []struct {
			ID   string
			Path string
		}
		err := db.WithContext(ctx).
			Table(sw.table).
			Select("id, " + sw.column + " AS path").
			Scan(&rows).Error
		if err != nil {
			log.Fatalf("Failed to scan %s: %v", sw.table, err)
		}
		for _, row := range rows {
			exists, err := store.Stat(ctx, sw.bucket, row.Path)
			if err != nil {
				log.Printf("Failed to stat %s/%s: %v\n", sw.bucket, row.Path, err)
				continue
			}
			if !exists {
				broken++
				fmt.Printf("Row %s in %s references missing blob %s/%s\n",
					row.ID, sw.table, sw.bucket, row.Path)
			}
		}
	}
	if broken > 0 {
		fmt.Printf("WARNING: %d rows reference missing blobs and need manual review.\n", broken)
	}

	if apply {
		fmt.Printf("Cleanup complete: %d orphans found, %d removed.\n", orphans, removed)
	} else {
		fmt.Printf("Dry run complete: %d orphans found. Set CLEANUP_APPLY=true to remove them.\n", orphans)
	}
}
