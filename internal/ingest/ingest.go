// Package ingest turns file paths and glob patterns into decoded documents.
package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"resumerank/internal/decoder"
	"resumerank/internal/domain"
)

// Skipped describes an input that was not turned into a document.
type Skipped struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Expand resolves each argument as a doublestar glob. Arguments matching
// nothing are kept verbatim so a missing file surfaces as a read error.
// Duplicates are dropped, first occurrence wins.
func Expand(args []string) ([]string, error) {
	var out []string
	seen := make(map[string]struct{})
	for _, arg := range args {
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			matches = []string{arg}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	return out, nil
}

// LoadFile reads and decodes one file. The document ID is the base name.
func LoadFile(reg *decoder.Registry, path string) (domain.Document, error) {
	if _, err := reg.For(path); err != nil {
		return domain.Document{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, err
	}
	return Decode(reg, filepath.Base(path), data)
}

// Decode decodes an in-memory upload named name.
func Decode(reg *decoder.Registry, name string, data []byte) (domain.Document, error) {
	name = filepath.Base(filepath.Clean("/" + name))
	text, err := reg.Decode(name, data)
	if err != nil {
		return domain.Document{}, err
	}
	return domain.Document{ID: name, Text: text}, nil
}

// LoadCandidates loads every path. Files of unsupported formats and files
// whose base name repeats an earlier one are skipped; read and decode errors
// are returned.
func LoadCandidates(reg *decoder.Registry, paths []string) ([]domain.Document, []Skipped, error) {
	var docs []domain.Document
	var skipped []Skipped
	ids := make(map[string]struct{})
	for _, p := range paths {
		doc, err := LoadFile(reg, p)
		if errors.Is(err, decoder.ErrUnsupportedFormat) {
			skipped = append(skipped, Skipped{Path: p, Reason: "unsupported format"})
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		if _, ok := ids[doc.ID]; ok {
			skipped = append(skipped, Skipped{Path: p, Reason: "duplicate name " + doc.ID})
			continue
		}
		ids[doc.ID] = struct{}{}
		docs = append(docs, doc)
	}
	return docs, skipped, nil
}
