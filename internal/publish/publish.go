package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"planline/internal/model"
)

type WriteOptions struct {
	Overwrite bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteProject renders the project to Markdown under outDir/projects/.
func WriteProject(p *model.Project, outDir string, opt WriteOptions) (WriteResult, error) {
	if p == nil {
		return WriteResult{}, errors.New("missing project")
	}
	outDir = strings.TrimSpace(outDir)
	if outDir == "" {
		return WriteResult{}, errors.New("missing --out")
	}
	outDir = filepath.Clean(outDir)

	md := RenderProjectMarkdown(p)

	dir := filepath.Join(outDir, "projects")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return WriteResult{}, err
	}
	path := filepath.Join(dir, p.ID+".md")
	if err := writeFile(path, []byte(md), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{path}}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
