// Package decoder extracts plain UTF-8 text from uploaded documents.
//
// Decoders are selected by file extension. PDF is not supported.
package decoder

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// ErrUnsupportedFormat is returned for files no decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Decoder turns raw file bytes into text.
type Decoder interface {
	Decode(data []byte) (string, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(data []byte) (string, error)

// Decode calls f(data).
func (f DecoderFunc) Decode(data []byte) (string, error) { return f(data) }

// Registry maps lower-case extensions (with leading dot) to decoders.
type Registry struct {
	byExt map[string]Decoder
}

func builtins() map[string]Decoder {
	return map[string]Decoder{
		".txt":  PlainText{},
		".md":   PlainText{},
		".html": HTML{},
		".htm":  HTML{},
		".docx": DOCX{},
	}
}

// NewRegistry returns a registry of the built-in decoders. When extensions is
// non-empty only those are enabled; naming an extension without a built-in
// decoder is an error.
func NewRegistry(extensions []string) (*Registry, error) {
	all := builtins()
	if len(extensions) == 0 {
		return &Registry{byExt: all}, nil
	}
	r := &Registry{byExt: make(map[string]Decoder, len(extensions))}
	for _, ext := range extensions {
		ext = normalizeExt(ext)
		d, ok := all[ext]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
		}
		r.byExt[ext] = d
	}
	return r, nil
}

// Register adds or replaces the decoder for ext.
func (r *Registry) Register(ext string, d Decoder) {
	r.byExt[normalizeExt(ext)] = d
}

// Extensions lists the enabled extensions in sorted order.
func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		out = append(out, ext)
	}
	slices.Sort(out)
	return out
}

// Supports reports whether filename has a registered decoder.
func (r *Registry) Supports(filename string) bool {
	_, err := r.For(filename)
	return err == nil
}

// For returns the decoder for filename's extension.
func (r *Registry) For(filename string) (Decoder, error) {
	ext := normalizeExt(filepath.Ext(filename))
	d, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
	}
	return d, nil
}

// Decode decodes data using the decoder registered for filename.
func (r *Registry) Decode(filename string, data []byte) (string, error) {
	d, err := r.For(filename)
	if err != nil {
		return "", err
	}
	text, err := d.Decode(data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", filename, err)
	}
	return text, nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
