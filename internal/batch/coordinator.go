// Package batch runs the parse→render pipeline across a set of invoice
// sources, isolating per-source failures.
package batch

import (
	"fmt"

	"github.com/rezonia/invoice-pdf/internal/model"
	"github.com/rezonia/invoice-pdf/internal/parser/xlsx"
	"github.com/rezonia/invoice-pdf/internal/render"
)

// File is one finished document, named after its source stem.
type File struct {
	Name string
	Data []byte
}

// Result accumulates a batch's output: an insertion-ordered mapping of
// output filename to document bytes, plus one error entry per failed
// source. A duplicate filename overwrites the earlier document in place
// (last write wins, original position kept, no error).
type Result struct {
	files  []File
	index  map[string]int
	Errors []string
}

func newResult() *Result {
	return &Result{index: make(map[string]int)}
}

func (r *Result) put(name string, data []byte) {
	if i, ok := r.index[name]; ok {
		r.files[i].Data = data
		return
	}
	r.index[name] = len(r.files)
	r.files = append(r.files, File{Name: name, Data: data})
}

// Files returns the successful documents in insertion order. The returned
// slice is a copy, so callers can reorder or reassign entries without
// touching the result.
func (r *Result) Files() []File {
	out := make([]File, len(r.files))
	copy(out, r.files)
	return out
}

// Get returns the document bytes for an output filename.
func (r *Result) Get(name string) ([]byte, bool) {
	if i, ok := r.index[name]; ok {
		return r.files[i].Data, true
	}
	return nil, false
}

// Len returns the number of successful documents.
func (r *Result) Len() int {
	return len(r.files)
}

// Coordinator converts batches of invoice sources.
type Coordinator struct {
	parser   *xlsx.Parser
	renderer *render.Renderer
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithParser overrides the default parser.
func WithParser(p *xlsx.Parser) Option {
	return func(c *Coordinator) {
		c.parser = p
	}
}

// WithRenderer overrides the default renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(c *Coordinator) {
		c.renderer = r
	}
}

// NewCoordinator creates a coordinator with the given options.
func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{}
	for _, opt := range opts {
		opt(c)
	}
	if c.parser == nil {
		c.parser = xlsx.NewParser()
	}
	if c.renderer == nil {
		c.renderer = render.NewRenderer()
	}
	return c
}

// Convert processes sources sequentially in input order. A failure at
// either stage becomes one error entry carrying the source name and never
// stops the rest of the batch; a failed source contributes no document.
// The logo bytes are shared read-only across all renders.
func (c *Coordinator) Convert(sources []model.Source, companyName string, logo []byte) *Result {
	result := newResult()

	for _, src := range sources {
		rec, err := c.parser.Parse(src)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", src.Name, err))
			continue
		}

		data, err := c.renderer.Render(rec, companyName, logo)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", src.Name, err))
			continue
		}

		result.put(xlsx.Stem(src.Name)+".pdf", data)
	}

	return result
}
