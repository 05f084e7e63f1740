// Package projectcontext builds the free-form project description handed to
// every evaluator.
package projectcontext

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/mod/modfile"
)

// maxOutline caps the number of README headings kept.
const maxOutline = 40

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
}

// manifestFiles are noted when present at the project root.
var manifestFiles = []string{
	"go.mod", "package.json", "pyproject.toml", "requirements.txt", "Cargo.toml",
	"pom.xml", "build.gradle", "Dockerfile", "Makefile", ".github/workflows",
}

// Bundle is a summary of a project directory.
type Bundle struct {
	Root       string
	Module     string
	Files      int
	Extensions map[string]int
	Manifests  []string

	ReadmeTitle string
	Outline     []string
}

// Gather walks dir and summarizes it. Hidden directories and the usual
// dependency folders are skipped.
func Gather(ctx context.Context, dir string) (*Bundle, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read project directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("'%s' is not a directory", dir)
	}

	b := &Bundle{
		Root:       dir,
		Extensions: map[string]int{},
	}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() {
			name := d.Name()
			if path != dir && (skipDirs[name] || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}

		b.Files++

		ext := strings.ToLower(filepath.Ext(d.Name()))
		if ext == "" {
			ext = "(none)"
		}
		b.Extensions[ext]++
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, m := range manifestFiles {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(m))); err == nil {
			b.Manifests = append(b.Manifests, m)
		}
	}

	if data, err := os.ReadFile(filepath.Join(dir, "go.mod")); err == nil {
		b.Module = modfile.ModulePath(data)
	}

	if data, ok := readReadme(dir); ok {
		b.ReadmeTitle, b.Outline = outline(data)
	}

	return b, nil
}

func readReadme(dir string) ([]byte, bool) {
	for _, name := range []string{"README.md", "readme.md", "Readme.md", "README.markdown"} {
		if data, err := os.ReadFile(filepath.Join(dir, name)); err == nil {
			return data, true
		}
	}
	return nil, false
}

// outline returns the first level-1 heading and the list of all headings,
// indented by level.
func outline(source []byte) (string, []string) {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var (
		title    string
		headings []string
	)

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		label := strings.TrimSpace(nodeText(h, source))
		if label == "" {
			return ast.WalkSkipChildren, nil
		}

		if title == "" && h.Level == 1 {
			title = label
		}

		if len(headings) < maxOutline {
			headings = append(headings, strings.Repeat("  ", h.Level-1)+label)
		}

		return ast.WalkSkipChildren, nil
	})

	return title, headings
}

func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(source))
			if v.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(v.Value)
		default:
			sb.WriteString(nodeText(c, source))
		}
	}

	return sb.String()
}

// TopExtensions returns up to n extensions, most frequent first, ties by name.
func (b *Bundle) TopExtensions(n int) []string {
	exts := make([]string, 0, len(b.Extensions))
	for ext := range b.Extensions {
		exts = append(exts, ext)
	}

	slices.SortFunc(exts, func(x, y string) int {
		if d := b.Extensions[y] - b.Extensions[x]; d != 0 {
			return d
		}
		return strings.Compare(x, y)
	})

	if len(exts) > n {
		exts = exts[:n]
	}
	return exts
}

// String renders the bundle as the context text given to evaluators.
func (b *Bundle) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Project: %s\n", filepath.Base(b.Root))

	if b.ReadmeTitle != "" {
		fmt.Fprintf(&sb, "Title: %s\n", b.ReadmeTitle)
	}
	if b.Module != "" {
		fmt.Fprintf(&sb, "Go module: %s\n", b.Module)
	}
	if len(b.Manifests) > 0 {
		fmt.Fprintf(&sb, "Build files: %s\n", strings.Join(b.Manifests, ", "))
	}

	fmt.Fprintf(&sb, "Files: %d\n", b.Files)

	if top := b.TopExtensions(8); len(top) > 0 {
		parts := make([]string, len(top))
		for i, ext := range top {
			parts[i] = fmt.Sprintf("%s=%d", ext, b.Extensions[ext])
		}
		fmt.Fprintf(&sb, "File types: %s\n", strings.Join(parts, " "))
	}

	if len(b.Outline) > 0 {
		sb.WriteString("README outline:\n")
		for _, h := range b.Outline {
			fmt.Fprintf(&sb, "  %s\n", h)
		}
	}

	return sb.String()
}
