// ABOUTME: Configuration CLI commands
// ABOUTME: Show, reset, export, and import the display configuration
package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/harperreed/marquee/state"
)

// ConfigShowCommand prints a human-readable configuration summary.
func ConfigShowCommand(app *App, args []string) error {
	cfg := app.Config.Load()

	if cfg.SafeMode {
		fmt.Println("WARNING: stored configuration was corrupt; showing safe-mode defaults")
		fmt.Println()
	}

	fmt.Printf("School:  %s\n", cfg.SchoolName)
	fmt.Printf("Theme:   %s on %s\n", cfg.Theme.PrimaryColor, cfg.Theme.BackgroundColor)
	if !cfg.UpdatedAt.IsZero() {
		fmt.Printf("Updated: %s\n", cfg.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PAGE\tTYPE\tDURATION")
	_, _ = fmt.Fprintln(w, "----\t----\t--------")
	for _, page := range cfg.Pages {
		duration := "-"
		if page.DurationSeconds > 0 {
			duration = fmt.Sprintf("%ds", page.DurationSeconds)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", page.Title, page.Type, duration)
	}
	_ = w.Flush()

	fmt.Printf("\n%d page(s), %d announcement(s), %d event(s), %d widget(s)\n",
		len(cfg.Pages), len(cfg.Announcements), len(cfg.Events), len(cfg.Widgets))

	if cfg.Alert.Active {
		fmt.Printf("ACTIVE ALERT [%s]: %s\n", cfg.Alert.Level, cfg.Alert.Message)
	}

	return nil
}

// ConfigResetCommand discards the stored configuration.
func ConfigResetCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	yes := fs.Bool("yes", false, "Skip confirmation")
	_ = fs.Parse(args)

	if !*yes {
		return fmt.Errorf("config reset discards every page and announcement; re-run with --yes to confirm")
	}

	app.Config.Reset()
	fmt.Println("✓ Configuration reset to defaults")
	return nil
}

// ConfigExportCommand writes the configuration as indented JSON.
func ConfigExportCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	_ = fs.Parse(args)

	data, err := json.MarshalIndent(app.Config.Load(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize configuration: %w", err)
	}
	data = append(data, '\n')

	if *output == "" {
		fmt.Print(string(data))
		return nil
	}

	if err := os.WriteFile(*output, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", *output, err)
	}
	fmt.Printf("✓ Configuration exported to %s\n", *output)
	return nil
}

// ConfigImportCommand loads a configuration file, migrating legacy
// shapes on the way in.
func ConfigImportCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("usage: config import <file>")
	}
	path := fs.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg, err := state.Decode(string(data))
	if err != nil {
		return fmt.Errorf("invalid configuration file: %w", err)
	}

	app.Config.Save(cfg)
	fmt.Printf("✓ Configuration imported from %s\n", path)
	return nil
}
