package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/crisiswatch/internal/model"
	"github.com/ppiankov/crisiswatch/internal/summary"
)

var (
	scanLimit   int
	scanLocated bool
	scanDigest  bool
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one refresh cycle and print the collected events",
	Long: `Scan runs a single fetch-normalize-deduplicate cycle across all
enabled sources and prints the resulting events with a situation
summary. Useful for checking source health and as a cron-driven
snapshot.

Example:
  crisiswatch scan
  crisiswatch scan --limit 10 --located
  crisiswatch scan --digest`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().IntVar(&scanLimit, "limit", 25, "max events to print (0 = all)")
	scanCmd.Flags().BoolVar(&scanLocated, "located", false, "print only events with resolved coordinates")
	scanCmd.Flags().BoolVar(&scanDigest, "digest", false, "polish the summary with the configured model")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cfg, false)
	if err != nil {
		return err
	}

	result := a.pipeline.Refresh(cmd.Context())

	fmt.Printf("Fetched %d events (%d unique, %d new) from %d sources\n",
		result.Fetched, result.Unique, result.Added, len(cfg.EnabledSources()))
	for _, e := range result.Errors {
		fmt.Printf("  ! %s\n", e)
	}
	fmt.Println()

	events := a.store.GetAll(scanLocated)
	if scanLimit > 0 && len(events) > scanLimit {
		events = events[:scanLimit]
	}
	for _, ev := range events {
		printEvent(ev)
	}

	text := summary.Generate(a.store.GetAll(false))
	if scanDigest && a.digester != nil {
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.LLM.Timeout)
		defer cancel()
		if polished, err := a.digester.Digest(ctx, text, events); err == nil {
			text = polished
		} else {
			a.logger.Warn("digest failed, printing heuristic summary", "error", err)
		}
	}
	fmt.Println(text)
	return nil
}

func printEvent(ev model.Event) {
	display := ev.Type.Display()
	location := ev.LocationName
	if location == "" {
		location = "-"
	}
	fmt.Printf("[%s] %s  sev:%d  %-14s %s (%s)\n",
		display.Indicator,
		ev.Timestamp.Format("15:04"),
		ev.Severity,
		location,
		strings.TrimSpace(ev.Title),
		ev.SourceName)
}
