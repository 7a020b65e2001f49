package config

import (
	"fmt"
	"strings"

	"github.com/gyaneshwarpardhi/scandal/internal/filter"
)

var (
	reportFormats = map[string]bool{"text": true, "json": true}
	logLevels     = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	logFormats    = map[string]bool{"text": true, "json": true}
)

// Validate checks the config for:
//   - required fields (version, corpus root)
//   - known report / log formats and levels
//   - a filter expression that compiles
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Version == "" {
		errs = append(errs, "version is required")
	}
	if cfg.Corpus.Root == "" {
		errs = append(errs, "corpus.root is required")
	}
	for i, h := range cfg.Corpus.RecipientHeaders {
		if strings.TrimSpace(h) == "" {
			errs = append(errs, fmt.Sprintf("corpus.recipient_headers[%d]: header name is empty", i))
		} else if strings.EqualFold(h, cfg.Corpus.SenderHeader) {
			errs = append(errs, fmt.Sprintf("corpus.recipient_headers[%d]: %q is also the sender header", i, h))
		}
	}
	if !reportFormats[strings.ToLower(cfg.Report.Format)] {
		errs = append(errs, fmt.Sprintf("report.format %q is not one of text, json", cfg.Report.Format))
	}
	if !logLevels[strings.ToLower(cfg.Log.Level)] {
		errs = append(errs, fmt.Sprintf("log.level %q is not one of debug, info, warn, error", cfg.Log.Level))
	}
	if !logFormats[strings.ToLower(cfg.Log.Format)] {
		errs = append(errs, fmt.Sprintf("log.format %q is not one of text, json", cfg.Log.Format))
	}
	if _, err := filter.Parse(cfg.Filter); err != nil {
		errs = append(errs, fmt.Sprintf("filter %q: %s", cfg.Filter, err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
