// Package reporter renders and stores the run summary.
package reporter

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go-jobradar/internal/engine"
	"go-jobradar/internal/filter"
	"go-jobradar/internal/models"
)

// buckets in display order
var buckets = []string{
	filter.Included.String(),
	filter.ExcludedExplicit.String(),
	filter.ExcludedImplicit.String(),
	engine.BucketDuplicate,
}

// platforms returns the report's platforms in run order.
func platforms(r *engine.Report) []models.Platform {
	var out []models.Platform
	for _, p := range models.Platforms {
		if _, ok := r.PerPlatform[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

func countsLine(c engine.Counts) string {
	return fmt.Sprintf("included=%d excluded_explicit=%d excluded_implicit=%d duplicate=%d accepted=%d failed_searches=%d",
		c.Included, c.ExcludedExplicit, c.ExcludedImplicit, c.Duplicate, c.Accepted, c.Failed)
}

func sampleText(s engine.TitleSample, bucket string) string {
	switch {
	case bucket == filter.ExcludedExplicit.String():
		return fmt.Sprintf("%s (filter: %s)", s.Title, s.Word)
	case bucket == filter.ExcludedImplicit.String():
		return fmt.Sprintf("%s (filter: implicit)", s.Title)
	}
	return s.Title
}

// Text writes the human readable summary printed at the end of a run.
func Text(w io.Writer, r *engine.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "===== Run %s =====\n", r.RunID)
	fmt.Fprintf(&b, "Keywords: %d  Duration: %s\n", len(r.Keywords), r.FinishedAt.Sub(r.StartedAt).Round(time.Second))
	for _, p := range platforms(r) {
		fmt.Fprintf(&b, "%-9s window=%-8s %s\n", p, r.Windows[p], countsLine(*r.PerPlatform[p]))
	}
	fmt.Fprintf(&b, "%-9s %-15s %s\n", "Total", "", countsLine(r.Total))

	for _, bucket := range buckets {
		samples := r.Titles[bucket]
		if len(samples) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n-- %s (%d shown) --\n", bucket, len(samples))
		for _, s := range samples {
			fmt.Fprintf(&b, "  [%s] %s\n", s.Platform, sampleText(s, bucket))
		}
	}

	if len(r.Failures) > 0 {
		b.WriteString("\n-- failed searches --\n")
		for _, f := range r.Failures {
			fmt.Fprintf(&b, "  [%s] %q: %s\n", f.Platform, f.Keyword, f.Err)
		}
	}
	if r.Aborted {
		fmt.Fprintf(&b, "\nRun aborted: %s\n", r.AbortReason)
	}
	if r.Interrupted {
		b.WriteString("\nRun interrupted before all searches finished\n")
	}

	st := r.Store
	switch {
	case st.Err != "":
		fmt.Fprintf(&b, "\nStore %s NOT saved: %s\n", st.Path, st.Err)
		if st.RescuePath != "" {
			fmt.Fprintf(&b, "Rescue copy: %s\n", st.RescuePath)
		}
	case st.Written:
		fmt.Fprintf(&b, "\nStore %s saved: %d rows (%d new)\n", st.Path, st.Rows, st.Added)
	default:
		fmt.Fprintf(&b, "\nStore %s unchanged\n", st.Path)
	}
	if st.Warning != "" {
		fmt.Fprintf(&b, "Warning: %s\n", st.Warning)
	}
	if st.AsidePath != "" {
		fmt.Fprintf(&b, "Unreadable store kept at: %s\n", st.AsidePath)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// HTML renders a compact summary in Telegram's HTML subset.
func HTML(r *engine.Report) string {
	var b strings.Builder
	status := "✅"
	if r.Partial() {
		status = "⚠️"
	}
	if r.Store.Err != "" {
		status = "❌"
	}
	fmt.Fprintf(&b, "%s <b>Job search run</b> <code>%s</code>\n", status, html.EscapeString(r.RunID))
	fmt.Fprintf(&b, "🆕 New: <b>%d</b>  🔁 Duplicates: %d\n", r.Total.Accepted, r.Total.Duplicate)
	fmt.Fprintf(&b, "🚫 Excluded: %d explicit, %d implicit\n", r.Total.ExcludedExplicit, r.Total.ExcludedImplicit)
	for _, p := range platforms(r) {
		c := r.PerPlatform[p]
		fmt.Fprintf(&b, "• %s: %d new / %d included\n", p, c.Accepted, c.Included)
	}
	if n := len(r.Failures); n > 0 {
		fmt.Fprintf(&b, "⚠️ Failed searches: %d\n", n)
	}
	if r.Aborted {
		fmt.Fprintf(&b, "🛑 Aborted: %s\n", html.EscapeString(r.AbortReason))
	}
	if r.Store.Err != "" {
		fmt.Fprintf(&b, "💥 Store not saved: %s\n", html.EscapeString(r.Store.Err))
	} else if r.Store.Written {
		fmt.Fprintf(&b, "💾 %d rows in %s\n", r.Store.Rows, html.EscapeString(filepath.Base(r.Store.Path)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// WriteJSON stores the report at path, creating parent directories.
func WriteJSON(path string, r *engine.Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return os.Rename(tmp, path)
}

func ReadJSON(path string) (*engine.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r engine.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", path, err)
	}
	return &r, nil
}

// Bucket returns the samples of one bucket, or nil for an unknown name.
func Bucket(r *engine.Report, name string) []engine.TitleSample {
	if !slices.Contains(buckets, name) {
		return nil
	}
	return r.Titles[name]
}
