// ABOUTME: Migration utility for upgrading legacy display configuration files.
// ABOUTME: Provides dry-run and backup capabilities for safe config migration.

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/harperreed/marquee/state"
)

func main() {
	filePath := flag.String("file", "", "Path to config JSON file (required)")
	dryRun := flag.Bool("dry-run", false, "Show what would happen without making changes")
	backup := flag.Bool("backup", true, "Create backup before migration")
	flag.Parse()

	if *filePath == "" {
		log.Fatal("Error: -file flag is required")
	}

	if err := migrate(*filePath, *dryRun, *backup); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migration completed successfully")
}

func migrate(filePath string, dryRun, createBackup bool) error {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist: %s", filePath)
	}

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	if dryRun {
		log.Printf("[DRY RUN] Would perform the following actions:")
		for _, step := range state.MigrationSteps() {
			log.Printf("[DRY RUN] - %s", step)
		}
		if _, err := state.Decode(string(raw)); err != nil {
			log.Printf("[DRY RUN] Config would fail validation: %v", err)
			return fmt.Errorf("config is not migratable")
		}
		log.Printf("[DRY RUN] Config parses and migrates cleanly")
		return nil
	}

	if createBackup {
		backupPath := fmt.Sprintf("%s.backup.%s", filePath, time.Now().Format("20060102-150405"))
		log.Printf("Creating backup: %s", backupPath)

		if err := os.WriteFile(backupPath, raw, 0644); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
		log.Printf("Backup created successfully")
	}

	cfg, err := state.Decode(string(raw))
	if err != nil {
		return fmt.Errorf("failed to migrate config: %w", err)
	}

	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(filePath, append(out, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	log.Printf("Migrated config written to %s", filePath)
	return nil
}
