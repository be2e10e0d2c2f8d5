package render

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
)

// ErrNoConverter is returned when PDF export is requested but rsvg-convert
// is not installed.
var ErrNoConverter = errors.New("pdf export requires rsvg-convert (brew install librsvg, apt install librsvg2-bin)")

const converter = "rsvg-convert"

// HasConverter reports whether SVG to PDF conversion is available.
func HasConverter() bool {
	_, err := exec.LookPath(converter)
	return err == nil
}

// ToPDF converts SVG bytes to PDF using rsvg-convert.
func ToPDF(svg []byte) ([]byte, error) {
	if !HasConverter() {
		return nil, ErrNoConverter
	}

	cmd := exec.Command(converter, "-f", "pdf")
	cmd.Stdin = bytes.NewReader(svg)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %v: %s", converter, err, stderr.String())
	}
	return out.Bytes(), nil
}
