// ABOUTME: Log buffer CLI commands
// ABOUTME: List and clear the system log, and review login attempts
package cli

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
)

// LogsListCommand prints system log entries, newest first.
func LogsListCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	limit := fs.Int("limit", 0, "Maximum entries (default: all)")
	_ = fs.Parse(args)

	entries := app.SysLog.List()
	if *limit > 0 && len(entries) > *limit {
		entries = entries[:*limit]
	}

	if len(entries) == 0 {
		fmt.Println("No log entries")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TIME\tLEVEL\tSOURCE\tMESSAGE")
	_, _ = fmt.Fprintln(w, "----\t-----\t------\t-------")
	for _, entry := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			entry.Timestamp.Local().Format("2006-01-02 15:04:05"),
			entry.Level, entry.Source, entry.Message)
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d entries\n", len(entries))
	return nil
}

// LogsClearCommand drops every system log entry.
func LogsClearCommand(app *App) error {
	app.SysLog.Clear()
	fmt.Println("✓ System log cleared")
	return nil
}

// LoginsCommand prints recorded login attempts, newest first.
func LoginsCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("logins", flag.ExitOnError)
	limit := fs.Int("limit", 0, "Maximum entries (default: all)")
	_ = fs.Parse(args)

	attempts := app.LoginLog.List()
	if *limit > 0 && len(attempts) > *limit {
		attempts = attempts[:*limit]
	}

	if len(attempts) == 0 {
		fmt.Println("No login attempts recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TIME\tUSER\tFROM\tRESULT")
	_, _ = fmt.Fprintln(w, "----\t----\t----\t------")
	for _, attempt := range attempts {
		result := "FAILED"
		if attempt.Success {
			result = "ok"
		}
		from := attempt.RemoteAddr
		if from == "" {
			from = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			attempt.Timestamp.Local().Format("2006-01-02 15:04:05"),
			attempt.Username, from, result)
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d attempts\n", len(attempts))
	return nil
}
