package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeJob(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write job: %v", err)
	}
	return path
}

const quoteJobYAML = `type: quote
date: 2025-05-02
business:
  legal_name: Harbour City Plumbing Pty Ltd
  trading_name: Harbour Plumbing
  abn: "51824753556"
client:
  name: S. Nguyen
  address: 8 Crown St, Surry Hills NSW 2010
quote:
  number: Q-1042
  scope_of_work: Replace the hot water system.
  inclusions:
    - Supply new unit
  items:
    - description: Rheem 315L unit
      qty: 1
      unit: ea
      price: 1650
  valid_days: 30
`

func TestLoadJob_Quote(t *testing.T) {
	job, err := loadJob(writeJob(t, quoteJobYAML))
	if err != nil {
		t.Fatalf("loadJob: %v", err)
	}
	if job.Type != "quote" || job.Quote == nil {
		t.Fatalf("job not parsed: %+v", job)
	}
	if job.Quote.Number != "Q-1042" || job.Quote.Items[0].Price != 1650 {
		t.Fatalf("quote fields: %+v", job.Quote)
	}

	pdf, number, err := job.render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if number != "Q-1042" {
		t.Fatalf("number = %q", number)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-1.7")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestLoadJob_RejectsUnknownFields(t *testing.T) {
	_, err := loadJob(writeJob(t, "type: quote\nbiz: oops\n"))
	if err == nil {
		t.Fatalf("expected strict parse error")
	}
}

func TestLoadJob_EmptyFile(t *testing.T) {
	_, err := loadJob(writeJob(t, ""))
	if !errors.Is(err, errEmptyJob) {
		t.Fatalf("err = %v", err)
	}
}

func TestRender_UnknownType(t *testing.T) {
	job := &jobFile{Type: "invoice"}
	_, _, err := job.render()
	if !errors.Is(err, errUnknownType) {
		t.Fatalf("err = %v", err)
	}
}

func TestRender_MissingSection(t *testing.T) {
	job := &jobFile{Type: "swms"}
	_, _, err := job.render()
	if !errors.Is(err, errMissingDoc) {
		t.Fatalf("err = %v", err)
	}
}

func TestRender_MissingNumber(t *testing.T) {
	job := &jobFile{Type: "quote", Quote: &quoteJob{}}
	_, _, err := job.render()
	if !errors.Is(err, errMissingNumber) {
		t.Fatalf("err = %v", err)
	}
}

func TestRender_BadDate(t *testing.T) {
	job := &jobFile{Type: "quote", Date: "02/05/2025", Quote: &quoteJob{Number: "Q-1"}}
	if _, _, err := job.render(); err == nil {
		t.Fatalf("expected date parse error")
	}
}

func TestRunWritesOutputFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "quote.pdf")
	jobPath := writeJob(t, quoteJobYAML)

	flags := &cliFlags{output: out}
	if err := run(flags, []string{jobPath}); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-1.7")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestRunRequiresJobFile(t *testing.T) {
	if err := run(&cliFlags{}, nil); err == nil {
		t.Fatalf("expected usage error")
	}
}
