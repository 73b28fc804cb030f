// Package importer ingests text and markdown files into the note store.
package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"notry/internal/checksum"
	"notry/internal/logs"
	"notry/internal/store"
)

// Extensions lists the file suffixes eligible for import.
var Extensions = []string{".txt", ".md", ".markdown"}

// Entry is one row of a directory listing shown in the import dialog.
type Entry struct {
	Path    string
	Name    string
	IsDir   bool
	Preview string // first non-empty line, files only
}

// Report aggregates the outcome of an import batch.
type Report struct {
	Imported int
	Skipped  int
	Failed   int
	NoteIDs  []int64
}

// Summary renders the report as a status-bar message.
func (r Report) Summary() string {
	msg := fmt.Sprintf("Imported %d new", r.Imported)
	if r.Skipped > 0 {
		msg += fmt.Sprintf(", skipped %d duplicates", r.Skipped)
	}
	if r.Failed > 0 {
		msg += fmt.Sprintf(", %d failed to read", r.Failed)
	}
	return msg
}

// ListDir returns the subdirectories and importable files of dir, directories
// first, each group sorted by name. Hidden entries are omitted.
func ListDir(dir string) ([]Entry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("importer: read dir: %w", err)
	}

	var dirs, files []Entry
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)
		if e.IsDir() {
			dirs = append(dirs, Entry{Path: path, Name: name, IsDir: true})
			continue
		}
		if !eligible(name) {
			continue
		}
		files = append(files, Entry{
			Path:    path,
			Name:    name,
			Preview: preview(path),
		})
	}

	byName := func(list []Entry) {
		sort.Slice(list, func(i, j int) bool {
			return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
		})
	}
	byName(dirs)
	byName(files)

	return append(dirs, files...), nil
}

// ImportFiles imports each path into st, skipping files whose content hash is
// already present. Per-file failures are logged and counted; the batch always
// runs to completion.
func ImportFiles(st *store.Store, paths []string) Report {
	var r Report
	for _, path := range paths {
		id, err := importFile(st, path)
		switch {
		case errors.Is(err, errDuplicate):
			r.Skipped++
		case err != nil:
			logs.Logger.Printf("import %s: %v", path, err)
			r.Failed++
		default:
			r.Imported++
			r.NoteIDs = append(r.NoteIDs, id)
		}
	}
	return r
}

var errDuplicate = errors.New("importer: duplicate content")

func importFile(st *store.Store, path string) (int64, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	body := string(content)
	title := DeriveTitle(path, content)

	// Duplicate detection keys on file content alone, so the same text
	// under a different filename is still rejected.
	hash := checksum.Sum(content)
	exists, err := st.ExistsByHash(hash)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, errDuplicate
	}

	n, err := st.Insert(title, body, hash)
	if err != nil {
		return 0, err
	}
	return n.ID, nil
}

// DeriveTitle picks a title for an imported file: the first level-1 markdown
// heading, else a frontmatter title, else the filename stem.
func DeriveTitle(path string, content []byte) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".md" || ext == ".markdown" {
		if t := headingTitle(content); t != "" {
			return t
		}
	}
	if t := frontmatterTitle(content); t != "" {
		return t
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if stem == "" {
		return "(untitled)"
	}
	return stem
}

func headingTitle(content []byte) string {
	doc := goldmark.DefaultParser().Parse(text.NewReader(content))

	var title string
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			title = string(h.Text(content))
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(title)
}

type frontmatter struct {
	Title string `yaml:"title"`
}

func frontmatterTitle(content []byte) string {
	lines := strings.Split(string(content), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return ""
	}

	var fmEnd int
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fmEnd = i
			break
		}
	}
	if fmEnd == 0 {
		return ""
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(strings.Join(lines[1:fmEnd], "\n")), &fm); err != nil {
		return ""
	}
	return strings.TrimSpace(fm.Title)
}

func eligible(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func preview(path string) string {
	const maxChars = 80

	content, err := os.ReadFile(path)
	if err != nil {
		return "(unable to read)"
	}
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if r := []rune(line); len(r) > maxChars {
			return string(r[:maxChars]) + "..."
		}
		return line
	}
	return "(empty file)"
}
