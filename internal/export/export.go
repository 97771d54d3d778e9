// Package export writes finished scan reports to disk as JSON.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/vanguardsec/vanguard-cli/internal/scanner"
	consts "github.com/vanguardsec/vanguard-cli/internal/shared/constants"
	sharedErrors "github.com/vanguardsec/vanguard-cli/internal/shared/errors"
	"github.com/vanguardsec/vanguard-cli/internal/shared/security"
)

// Document is the exported file shape: the full report plus its summary, so
// downstream tooling does not have to recompute the score.
type Document struct {
	Report  scanner.ScanReport `json:"report"`
	Summary scanner.Summary    `json:"summary"`
}

// WriteReport serializes one report into dir as
// <target>_<timestamp>.json and returns the written path. The directory is
// created if needed.
func WriteReport(dir string, report scanner.ScanReport) (string, error) {
	if dir == "" {
		return "", sharedErrors.ErrExportDirUnset
	}
	if !security.IsValidPath(dir) {
		return "", fmt.Errorf("%w: %s", sharedErrors.ErrInvalidExportDir, dir)
	}
	if err := os.MkdirAll(dir, consts.DefaultDirPerm); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	doc := Document{
		Report:  report,
		Summary: scanner.Summarize(report),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	name := fmt.Sprintf("%s_%s.json",
		filenameSafe(report.Target),
		report.GeneratedAt.UTC().Format("20060102T150405Z"))
	path, err := security.ResolveWithin(dir, name)
	if err != nil {
		return "", fmt.Errorf("resolve report path: %w", err)
	}
	if err := os.WriteFile(path, data, consts.DefaultFilePerm); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// filenameSafe maps a target to a portable file name fragment. Targets are
// already validated as host[:port], so only the port colon needs rewriting.
func filenameSafe(target string) string {
	return strings.ReplaceAll(target, ":", "_")
}
