// Package writer serializes a semantic document into PDF bytes.
package writer

import (
	"context"
	"io"

	"github.com/tradiedocs/docpdf/ir/semantic"
)

// ContentFilter selects the encoding applied to content streams.
type ContentFilter int

const (
	FilterNone ContentFilter = iota
	FilterFlate
)

// Config controls serialization behavior.
type Config struct {
	ContentFilter ContentFilter
	// Producer overrides the Producer info entry when the document does
	// not set one.
	Producer string
}

// Writer serializes documents. Output is deterministic: the same document
// and config always produce identical bytes.
type Writer interface {
	Write(ctx context.Context, doc *semantic.Document, w io.Writer, cfg Config) error
}

// New constructs a Writer.
func New() Writer { return &impl{} }
