package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vanguardsec/vanguard-cli/internal/export"
	"github.com/vanguardsec/vanguard-cli/internal/scanner"
)

type scanFlags struct {
	TimeoutSecs    int
	DNSTimeoutSecs int
	Nameservers    []string
	Selectors      []string
	RulesFile      string
	Concurrency    int
	RateLimit      int
	JSONOutput     bool
	ExportDir      string
	Progress       bool
}

var scanOpts scanFlags

var scanCmd = &cobra.Command{
	Use:   "scan <domain> [domain...]",
	Short: "Scan one or more domains and report their security posture",
	Long: `Run the DNS, TLS, headers, and fingerprint probes against each domain
and print a scored report. Targets are bare domains or host:port pairs;
schemes and paths are rejected.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		applyScanConfig(cmd.Flags())

		for _, target := range args {
			if err := scanner.ValidateTarget(target); err != nil {
				return fmt.Errorf("target %q: %w", target, err)
			}
		}

		var rules []scanner.Rule
		if scanOpts.RulesFile != "" {
			loaded, err := scanner.LoadRules(scanOpts.RulesFile)
			if err != nil {
				return err
			}
			rules = loaded
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		go func() {
			select {
			case sig := <-sigCh:
				fmt.Fprintf(os.Stderr, "\n%s received %s, cancelling...\n", colorWarn("!"), sig.String())
				cancel()
			case <-ctx.Done():
			}
		}()

		s := scanner.New(scanner.Config{
			Timeout:     time.Duration(scanOpts.TimeoutSecs) * time.Second,
			DNSTimeout:  time.Duration(scanOpts.DNSTimeoutSecs) * time.Second,
			Nameservers: scanOpts.Nameservers,
			Selectors:   scanOpts.Selectors,
			Rules:       rules,
			Log:         logger,
		})
		runner := &scanner.Runner{
			Concurrency: scanOpts.Concurrency,
			RateLimit:   scanOpts.RateLimit,
		}

		var progress *progressPrinter
		if scanOpts.Progress && !scanOpts.JSONOutput {
			progress = newProgressPrinter(len(args))
			runner.OnResult = func(target string, report scanner.ScanReport, duration time.Duration) {
				progress.Record(len(report.AllFindings()) == 0, duration)
			}
			progress.Start()
		}

		reports := runner.RunScans(ctx, args, s)
		if progress != nil {
			progress.Stop()
		}

		if scanOpts.JSONOutput {
			if err := printJSON(cmd, reports); err != nil {
				return err
			}
		} else {
			for _, report := range reports {
				renderReport(cmd.OutOrStdout(), report, scanner.Summarize(report))
			}
		}

		if scanOpts.ExportDir != "" {
			for _, report := range reports {
				path, err := export.WriteReport(scanOpts.ExportDir, report)
				if err != nil {
					return fmt.Errorf("export %s: %w", report.Target, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", colorInfo("Report written:"), path)
			}
		}
		return nil
	},
}

func printJSON(cmd *cobra.Command, reports []scanner.ScanReport) error {
	docs := make([]export.Document, 0, len(reports))
	for _, report := range reports {
		docs = append(docs, export.Document{
			Report:  report,
			Summary: scanner.Summarize(report),
		})
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(docs)
}

func init() {
	scanCmd.Flags().IntVarP(&scanOpts.TimeoutSecs, "timeout", "t", 10, "probe timeout in seconds")
	scanCmd.Flags().IntVar(&scanOpts.DNSTimeoutSecs, "dns-timeout", 5, "DNS query timeout in seconds")
	scanCmd.Flags().StringSliceVar(&scanOpts.Nameservers, "nameservers", nil, "custom DNS nameservers (e.g., 8.8.8.8:53,1.1.1.1:53)")
	scanCmd.Flags().StringSliceVar(&scanOpts.Selectors, "dkim-selectors", nil, "DKIM selectors to query (defaults to a common set)")
	scanCmd.Flags().StringVar(&scanOpts.RulesFile, "rules", "", "YAML fingerprint rules file replacing the built-in registry")
	scanCmd.Flags().IntVarP(&scanOpts.Concurrency, "concurrency", "c", 4, "max concurrent scans")
	scanCmd.Flags().IntVarP(&scanOpts.RateLimit, "rate", "r", 2, "scan starts per second (global)")
	scanCmd.Flags().BoolVar(&scanOpts.JSONOutput, "json", false, "print reports as JSON instead of the rendered summary")
	scanCmd.Flags().BoolVar(&scanOpts.Progress, "progress", false, "display live progress while scanning")
	scanCmd.Flags().StringVar(&scanOpts.ExportDir, "export-dir", "", "write each report as a JSON file into this directory")
}
