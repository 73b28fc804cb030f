// Package exporter writes marked notes out as individual markdown files.
package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"notry/internal/logs"
	"notry/internal/store"
)

const maxSlugLen = 50

// Report aggregates the outcome of an export run.
type Report struct {
	Written int
	Failed  int
	Dir     string
}

// Summary renders the report as a status-bar message.
func (r Report) Summary() string {
	msg := fmt.Sprintf("Exported %d notes to %s", r.Written, r.Dir)
	if r.Failed > 0 {
		msg += fmt.Sprintf(" (%d failed)", r.Failed)
	}
	return msg
}

type header struct {
	Title   string `yaml:"title"`
	Created string `yaml:"created"`
	Updated string `yaml:"updated"`
}

// Export writes one markdown file per id into a fresh timestamped directory
// under baseDir. Failure to create the directory aborts the whole operation;
// per-note failures (missing id, write error) are logged, counted, and the
// run continues.
func Export(st *store.Store, ids []int64, baseDir string) (Report, error) {
	dir := filepath.Join(baseDir, "notry_export_"+time.Now().Format("20060102_150405"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Report{}, fmt.Errorf("exporter: create dir: %w", err)
	}

	r := Report{Dir: dir}
	used := make(map[string]int)

	for _, id := range ids {
		n, err := st.Get(id)
		if err != nil {
			logs.Logger.Printf("export note %d: %v", id, err)
			r.Failed++
			continue
		}

		name := uniqueName(used, slug(n.Title), n.ID)
		if err := writeNote(filepath.Join(dir, name), n); err != nil {
			logs.Logger.Printf("export note %d: %v", id, err)
			r.Failed++
			continue
		}
		r.Written++
	}

	return r, nil
}

func writeNote(path string, n store.Note) error {
	hdr, err := yaml.Marshal(header{
		Title:   n.Title,
		Created: n.CreatedAt.Format(time.RFC3339),
		Updated: n.UpdatedAt.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(hdr)
	b.WriteString("---\n\n")
	b.WriteString(n.Body)
	if !strings.HasSuffix(n.Body, "\n") {
		b.WriteString("\n")
	}

	return os.WriteFile(path, []byte(b.String()), 0644)
}

// slug reduces a title to a filesystem-safe name.
func slug(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('-')
		}
	}
	s := strings.Trim(b.String(), "-")
	if len(s) > maxSlugLen {
		s = s[:maxSlugLen]
	}
	return s
}

// uniqueName disambiguates repeated slugs with a numeric suffix.
func uniqueName(used map[string]int, s string, id int64) string {
	if s == "" {
		s = fmt.Sprintf("note-%d", id)
	}
	used[s]++
	if used[s] == 1 {
		return s + ".md"
	}
	return fmt.Sprintf("%s-%d.md", s, used[s])
}
