package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/pdf2docx/internal/testpdf"
	"github.com/tsawler/pdf2docx/logging"
)

func TestRun(t *testing.T) {
	t.Cleanup(func() { logging.SetLogger(nil) })
	dir := t.TempDir()
	in := filepath.Join(dir, "letter.pdf")
	data := testpdf.Document("", testpdf.TextPage("Dear reader"), testpdf.TextPage("Kind regards"))
	if err := os.WriteFile(in, data, 0o644); err != nil {
		t.Fatal(err)
	}
	encrypted := filepath.Join(dir, "locked.pdf")
	locked, err := testpdf.Encrypt(testpdf.Document("", testpdf.TextPage("x")), "pw", "owner")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(encrypted, locked, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"version", []string{"--version"}, exitOK, "pdf2docx dev", ""},
		{"help", []string{"--help"}, exitOK, "Usage: pdf2docx", ""},
		{"no input", nil, exitUsage, "", "missing input file"},
		{"convert", []string{in}, exitOK, "2 pages", ""},
		{"page range", []string{"--pages=5", in, filepath.Join(dir, "range.docx")}, exitRange, "", "out of range"},
		{"password", []string{encrypted}, exitPassword, "", "encrypted"},
		{"wrong password", []string{"--password=nope", encrypted, filepath.Join(dir, "locked.docx")}, exitPassword, "", "incorrect password"},
		{"missing file", []string{filepath.Join(dir, "none.pdf")}, exitFailure, "", "none.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), tt.args, &stdout, &stderr)
			if code != tt.wantCode {
				t.Errorf("run() = %d, want %d (stderr %q)", code, tt.wantCode, stderr.String())
			}
			if !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.wantStdout)
			}
			if !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want %q", stderr.String(), tt.wantStderr)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(dir, "letter.docx")); err != nil {
		t.Errorf("default output not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "range.docx")); !os.IsNotExist(err) {
		t.Errorf("failed conversion left output behind")
	}
}
