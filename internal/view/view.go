// Package view renders the HTML pages from templates/. Parsed templates
// are cached per name for the life of the process.
package view

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"sync"
)

var (
	mu      sync.RWMutex
	baseDir = "templates"
	cache   = map[string]*template.Template{}
)

// SetBaseDir points the renderer at a different template directory and
// drops the cache. Tests use it to render from their own fixtures.
func SetBaseDir(dir string) {
	mu.Lock()
	baseDir = dir
	cache = map[string]*template.Template{}
	mu.Unlock()
}

func load(name string) (*template.Template, error) {
	mu.RLock()
	t, dir := cache[name], baseDir
	mu.RUnlock()
	if t != nil {
		return t, nil
	}
	t, err := template.ParseFiles(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	mu.Lock()
	cache[name] = t
	mu.Unlock()
	return t, nil
}

// Render executes the named template into a buffer first so a template
// error never leaves a half-written response.
func Render(w http.ResponseWriter, _ *http.Request, name string, data any) error {
	t, err := load(name)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Errorf("execute template %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = buf.WriteTo(w)
	return err
}
