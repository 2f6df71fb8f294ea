// Package loader reads source files into documents ready for chunking.
package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/docqa/docqa-mcp/pkg/types"
)

// Loader converts raw file contents into a document.
type Loader interface {
	// Load reads the full contents of r and returns a document named name.
	Load(name string, r io.Reader) (types.Document, error)

	// Extensions lists the file extensions this loader accepts, with the
	// leading dot and lowercased.
	Extensions() []string
}

// TextLoader handles plain-text formats. The body is used as-is apart
// from trimming surrounding whitespace.
type TextLoader struct{}

func (TextLoader) Load(name string, r io.Reader) (types.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return types.Document{}, fmt.Errorf("read %s: %w", name, err)
	}
	doc := types.Document{
		Name: name,
		Text: strings.TrimSpace(string(data)),
	}
	if err := doc.Validate(); err != nil {
		return types.Document{}, err
	}
	return doc, nil
}

func (TextLoader) Extensions() []string {
	return []string{".txt", ".text", ".md", ".markdown"}
}

// loaders maps file extensions to the loader responsible for them.
var loaders = buildRegistry(TextLoader{})

func buildRegistry(all ...Loader) map[string]Loader {
	reg := make(map[string]Loader)
	for _, l := range all {
		for _, ext := range l.Extensions() {
			reg[ext] = l
		}
	}
	return reg
}

// ForFile returns the loader registered for the file's extension.
func ForFile(path string) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(path))
	l, ok := loaders[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported file type %q", ext)
	}
	return l, nil
}

// SupportedExtensions reports whether path has a registered loader.
func SupportedExtensions(path string) bool {
	_, err := ForFile(path)
	return err == nil
}

// LoadFile reads a single file from disk. The document is named after the
// file's base name.
func LoadFile(path string) (types.Document, error) {
	l, err := ForFile(path)
	if err != nil {
		return types.Document{}, &types.LoadError{Name: path, Err: err}
	}

	f, err := os.Open(path)
	if err != nil {
		return types.Document{}, &types.LoadError{Name: path, Err: err}
	}
	defer func() {
		_ = f.Close()
	}()

	doc, err := l.Load(filepath.Base(path), f)
	if err != nil {
		return types.Document{}, &types.LoadError{Name: path, Err: err}
	}
	return doc, nil
}

// LoadFiles reads every path, collecting per-file failures instead of
// aborting. The returned errors are all of type *types.LoadError.
func LoadFiles(paths []string) ([]types.Document, []error) {
	var docs []types.Document
	var errs []error
	for _, path := range paths {
		doc, err := LoadFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, errs
}
