// ABOUTME: Document import CLI command
// ABOUTME: Extracts announcements and events from a file and adds them to the display config
package cli

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/harperreed/marquee/ai"
	"github.com/harperreed/marquee/extract"
	"github.com/harperreed/marquee/models"
)

// ImportCommand reads a document (PDF, text, or markdown), extracts
// announcements and events with the AI client, and appends them to
// the display configuration.
func ImportCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	dryRun := fs.Bool("dry-run", false, "Show what would be imported without saving")
	tone := fs.String("tone", "", "Optional tone hint passed to the extractor")
	_ = fs.Parse(args)

	path := fs.Arg(0)
	if path == "" {
		return fmt.Errorf("usage: marquee import [--dry-run] <file>")
	}

	client, err := ai.New(ai.ConfigFromEnv())
	if err != nil {
		return fmt.Errorf("import needs AI access: %w", err)
	}

	text, err := extract.Text(path)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	if *tone != "" {
		text = fmt.Sprintf("Tone hint: %s\n\n%s", *tone, text)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	bulletins, err := ai.ExtractBulletins(ctx, client, text)
	if err != nil {
		return fmt.Errorf("failed to extract bulletins: %w", err)
	}

	now := time.Now().UTC()
	announcements := make([]models.Announcement, 0, len(bulletins.Announcements))
	for _, b := range bulletins.Announcements {
		announcements = append(announcements, b.ToModel(now))
	}
	events := make([]models.Event, 0, len(bulletins.Events))
	for _, b := range bulletins.Events {
		events = append(events, b.ToModel())
	}

	if len(announcements) == 0 && len(events) == 0 {
		fmt.Println("No announcements or events found in the document")
		return nil
	}

	if *dryRun {
		for _, a := range announcements {
			fmt.Printf("  announcement: %s\n", a.Title)
		}
		for _, e := range events {
			when := "undated"
			if !e.StartsAt.IsZero() {
				when = e.StartsAt.Format("2006-01-02 15:04")
			}
			fmt.Printf("  event: %s (%s)\n", e.Title, when)
		}
		fmt.Printf("[DRY RUN] Would import %d announcement(s) and %d event(s)\n", len(announcements), len(events))
		return nil
	}

	app.Config.Update(func(cfg *models.DisplayConfig) {
		cfg.Announcements = append(cfg.Announcements, announcements...)
		cfg.Events = append(cfg.Events, events...)
	})

	fmt.Printf("✓ Imported %d announcement(s) and %d event(s) from %s\n", len(announcements), len(events), path)
	return nil
}
