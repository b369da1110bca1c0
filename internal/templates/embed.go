// Package templates provides embedded project scaffolding.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed project/*
var projectFS embed.FS

// Data contains values for template rendering.
type Data struct {
	// ExternDir is where the externs artifact accumulates.
	ExternDir string

	// OutDir is where corrected code is written.
	OutDir string

	// Service is the transform service name.
	Service string
}

// Files renders every scaffold template against data and returns the result
// keyed by destination file name (the template name minus its .tmpl suffix).
func Files(data Data) (map[string]string, error) {
	rendered := map[string]string{}

	err := fs.WalkDir(projectFS, "project", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		raw, err := projectFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", path, err)
		}

		tmpl, err := template.New(filepath.Base(path)).Parse(string(raw))
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", path, err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return fmt.Errorf("rendering template %s: %w", path, err)
		}

		rendered[destName(path)] = buf.String()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return rendered, nil
}

// destName maps a template path to its destination file name. The CLI config
// template cannot carry its real dotfile name inside the embed FS, so it is
// renamed here.
func destName(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), ".tmpl")
	if name == "config.yaml" {
		return ".tsickle-loader.yaml"
	}
	return name
}

// Write renders the scaffold into dir. Existing files are left alone unless
// force is set; the returned list names the files actually written.
func Write(dir string, data Data, force bool) ([]string, error) {
	files, err := Files(data)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}

	var written []string
	for name, content := range files {
		dest := filepath.Join(dir, name)
		if _, err := os.Stat(dest); err == nil && !force {
			continue
		}
		if err := os.WriteFile(dest, []byte(content), 0o644); err != nil {
			return written, fmt.Errorf("writing %s: %w", dest, err)
		}
		written = append(written, dest)
	}

	return written, nil
}
