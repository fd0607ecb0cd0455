package layout

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"

	"github.com/tradiedocs/docpdf/auformat"
	"github.com/tradiedocs/docpdf/builder"
	"github.com/tradiedocs/docpdf/fonts"
	"github.com/tradiedocs/docpdf/writer"
)

// Finalize runs the footer pass: it revisits every rendered page and
// stamps the footer line now that the total page count is known. It must
// run after the last append; it is a no-op when called again.
func (e *Engine) Finalize() {
	if e.finalized {
		return
	}
	e.ensurePage()
	total := len(e.pages)
	for i, pg := range e.pages {
		e.drawFooter(pg, i+1, total)
	}
	e.finalized = true
}

func (e *Engine) drawFooter(pg builder.PageBuilder, pageNum, total int) {
	pal := e.cfg.Palette
	size := e.cfg.FontSizes.Tiny
	ruleY := e.cfg.Margins.Bottom - 8
	textY := ruleY - size - 4

	pg.DrawLine(e.cfg.Margins.Left, ruleY, e.cfg.PageSize.Width-e.cfg.Margins.Right, ruleY, builder.LineOptions{
		StrokeColor: pal.Rule,
		LineWidth:   0.5,
	})

	left := "Generated " + auformat.DateTime(e.generatedAt)
	if e.issuer != "" {
		left = e.issuer + "  |  " + left
	}
	pg.DrawText(left, e.cfg.Margins.Left, textY, builder.TextOptions{
		Font:     fonts.Helvetica,
		FontSize: size,
		Color:    pal.Muted,
	})

	if e.documentID != "" {
		id := "Ref " + e.documentID
		w := e.b.MeasureText(id, size, fonts.Helvetica)
		pg.DrawText(id, e.cfg.PageSize.Width/2-w/2, textY, builder.TextOptions{
			Font:     fonts.Helvetica,
			FontSize: size,
			Color:    pal.Muted,
		})
	}

	pageText := fmt.Sprintf("Page %d of %d", pageNum, total)
	w := e.b.MeasureText(pageText, size, fonts.Helvetica)
	pg.DrawText(pageText, e.cfg.PageSize.Width-e.cfg.Margins.Right-w, textY, builder.TextOptions{
		Font:     fonts.Helvetica,
		FontSize: size,
		Color:    pal.Muted,
	})
}

// Bytes serializes the document. After Finalize the result is cached, so
// repeat calls return byte-identical output.
func (e *Engine) Bytes() ([]byte, error) {
	if e.finalized && e.pdfBytes != nil {
		return e.pdfBytes, nil
	}
	e.ensurePage()
	if e.info != nil {
		e.info.CreationDate = pdfDate(e.generatedAt)
		e.b.SetInfo(e.info)
	}
	doc, err := e.b.Build()
	if err != nil {
		return nil, fmt.Errorf("build document: %w", err)
	}
	var buf bytes.Buffer
	if err := writer.New().Write(context.Background(), doc, &buf, writer.Config{Producer: "docpdf"}); err != nil {
		return nil, fmt.Errorf("serialize document: %w", err)
	}
	if e.finalized {
		e.pdfBytes = buf.Bytes()
	}
	return buf.Bytes(), nil
}

// DataURI returns the document as a base64 data URI for inline preview.
func (e *Engine) DataURI() (string, error) {
	b, err := e.Bytes()
	if err != nil {
		return "", err
	}
	return "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(b), nil
}
