package invoicepdf

import (
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/rezonia/invoice-pdf/internal/archive"
	"github.com/rezonia/invoice-pdf/internal/batch"
	"github.com/rezonia/invoice-pdf/internal/parser/xlsx"
	"github.com/rezonia/invoice-pdf/internal/render"
	"github.com/rezonia/invoice-pdf/internal/server"
)

// Options configures a Converter
type Options struct {
	// CompanyName is printed in bold at the foot of every invoice.
	CompanyName string

	// Logo holds optional PNG or JPEG image bytes drawn next to the company
	// name. Loaded once and shared read-only across the batch.
	Logo []byte

	// Clock drives the fallback date for sources without a date segment and
	// the document creation date. A fixed clock makes conversion output
	// byte-identical across runs.
	Clock clockwork.Clock
}

// DefaultOptions returns default converter options
func DefaultOptions() Options {
	return Options{
		CompanyName: server.DefaultCompanyName,
		Clock:       clockwork.NewRealClock(),
	}
}

// Converter converts batches of invoice sources using the internal
// pipeline
type Converter struct {
	coordinator *batch.Coordinator
	parser      *xlsx.Parser
	options     Options
}

// NewConverter creates a converter with the given options
func NewConverter(opts Options) *Converter {
	if opts.CompanyName == "" {
		opts.CompanyName = server.DefaultCompanyName
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	parser := xlsx.NewParser(xlsx.WithClock(opts.Clock))
	coordinator := batch.NewCoordinator(
		batch.WithParser(parser),
		batch.WithRenderer(render.NewRenderer(render.WithClock(opts.Clock))),
	)

	return &Converter{
		coordinator: coordinator,
		parser:      parser,
		options:     opts,
	}
}

// NewDefaultConverter creates a converter with default options
func NewDefaultConverter() *Converter {
	return NewConverter(DefaultOptions())
}

// Convert processes sources sequentially in input order, isolating
// per-source failures. See Result for the success/error contract.
func (c *Converter) Convert(sources []Source) *Result {
	return c.coordinator.Convert(sources, c.options.CompanyName, c.options.Logo)
}

// ConvertOne converts a single source and returns its PDF bytes.
func (c *Converter) ConvertOne(src Source) ([]byte, error) {
	result := c.Convert([]Source{src})
	if result.Len() == 0 {
		if len(result.Errors) > 0 {
			return nil, fmt.Errorf("%s", result.Errors[0])
		}
		return nil, fmt.Errorf("%s: conversion produced no document", src.Name)
	}
	return result.Files()[0].Data, nil
}

// Parse reads a source into an InvoiceRecord without rendering it.
func (c *Converter) Parse(src Source) (*InvoiceRecord, error) {
	return c.parser.Parse(src)
}

// Zip bundles a batch result into a ZIP archive.
func (c *Converter) Zip(result *Result) ([]byte, error) {
	return archive.Build(result.Files())
}

// ZipName returns the timestamped download name for a batch archive.
func (c *Converter) ZipName() string {
	return archive.Name(c.options.Clock.Now())
}
