package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/studiowebux/appclient/internal/actions"
	"github.com/studiowebux/appclient/internal/analytics"
	"github.com/studiowebux/appclient/internal/history"
	"github.com/studiowebux/appclient/internal/types"
)

// HistoryOptions controls the history listing
type HistoryOptions struct {
	Limit        int
	Control      string
	Clear        bool
	OutputFormat string
}

// History prints (or clears) recorded outcomes
func History(mgr *history.Manager, opts HistoryOptions, w io.Writer) error {
	if opts.Clear {
		count, err := mgr.GetCount()
		if err != nil {
			return err
		}
		if err := mgr.Clear(); err != nil {
			return err
		}
		fmt.Fprintf(w, "Cleared %d history entries\n", count)
		return nil
	}

	entries, err := load(mgr, opts)
	if err != nil {
		return err
	}

	switch opts.OutputFormat {
	case FormatJSON:
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
	case FormatYAML:
		data, err := yaml.Marshal(entries)
		if err != nil {
			return err
		}
		fmt.Fprint(w, string(data))
	default:
		if len(entries) == 0 {
			fmt.Fprintln(w, "No history entries")
			return nil
		}
		var sb strings.Builder
		for _, e := range entries {
			line := fmt.Sprintf("%s  %-5s %-4d %6dms  %s", e.Timestamp, e.Method, e.Status, e.Duration, e.URL)
			if e.Error != "" {
				line += "  " + styleError.Render(e.Error)
			}
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		fmt.Fprint(w, sb.String())
	}
	return nil
}

// load returns the newest entries, optionally narrowed to one control
func load(mgr *history.Manager, opts HistoryOptions) ([]types.HistoryEntry, error) {
	if opts.Control == "" {
		return mgr.Recent(opts.Limit)
	}
	if _, ok := actions.Lookup(opts.Control); !ok {
		return nil, fmt.Errorf("unknown control '%s'", opts.Control)
	}
	entries, err := mgr.LoadForControl(opts.Control)
	if err != nil {
		return nil, err
	}
	if opts.Limit > 0 && len(entries) > opts.Limit {
		entries = entries[:opts.Limit]
	}
	return entries, nil
}

// Stats prints per-control aggregates of the recorded calls
func Stats(mgr *history.Manager, format string, w io.Writer) error {
	stats, err := analytics.PerControl(mgr)
	if err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
	case FormatYAML:
		data, err := yaml.Marshal(stats)
		if err != nil {
			return err
		}
		fmt.Fprint(w, string(data))
	default:
		if len(stats) == 0 {
			fmt.Fprintln(w, "No history entries")
			return nil
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "%-14s %-5s %6s %8s %10s %10s %10s\n", "CONTROL", "METHOD", "CALLS", "SUCCESS", "AVG", "MIN", "MAX")
		for _, s := range stats {
			fmt.Fprintf(&sb, "%-14s %-5s %6d %7.1f%% %8.1fms %8dms %8dms\n",
				s.Control, s.Method, s.TotalCalls, s.SuccessRate(),
				s.AvgDurationMs, s.MinDurationMs, s.MaxDurationMs)
		}
		fmt.Fprint(w, sb.String())
	}
	return nil
}
