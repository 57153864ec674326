package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alnah/go-rtiform/internal/assets"
)

// ---------------------------------------------------------------------------
// Shared fixtures
// ---------------------------------------------------------------------------

var testNow = time.Date(2026, time.March, 9, 10, 30, 0, 0, time.UTC)

const recordYAML = `applicant:
  name: Anitha Raghavan
  address: TC 12/345, Pattom, Thiruvananthapuram
  place: Thiruvananthapuram
authority:
  district: Thiruvananthapuram
  localBodyType: Municipal Corporation
  localBodyName: Thiruvananthapuram Corporation
request:
  subject: Road maintenance in Ward 12
  questions:
    - How much was spent on road repairs in 2025?
declaration:
  place: Thiruvananthapuram
  date: 2026-03-09
`

// invalidRecordYAML is well formed but fails validation (no questions text).
const invalidRecordYAML = `applicant:
  name: Anitha Raghavan
  address: TC 12/345, Pattom
  place: Pattom
request:
  subject: Road maintenance
  questions:
    - ""
declaration:
  date: 2026-03-09
`

// testEnv returns an Environment writing to buffers.
func testEnv(t *testing.T) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	return &Environment{
		Now:         func() time.Time { return testNow },
		Stdout:      &stdout,
		Stderr:      &stderr,
		AssetLoader: assets.NewEmbeddedLoader(),
	}, &stdout, &stderr
}

// writeFile creates dir/name with content, making parent directories.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// writePNG writes a small grey PNG and returns its path.
func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 8, 4))
	for i := range img.Pix {
		img.Pix[i] = color.Gray{Y: 80}.Y
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func assertPDF(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path) // #nosec G304 -- test path
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("%s is not a PDF (starts with %q)", path, data[:min(len(data), 8)])
	}
}
