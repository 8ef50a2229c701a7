package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// xz streams are single-file compressors, not archives with a member
// directory, so the "extracted member" is just the stream itself with
// the .xz suffix stripped.
func extractXz(path, scratchDir string, allowedExts []string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	zr, err := xz.NewReader(f)
	if err != nil {
		return "", fmt.Errorf("archive: xz header: %w", err)
	}

	outName := strings.TrimSuffix(filepath.Base(path), ".xz")
	if outName == filepath.Base(path) {
		outName += ".out"
	}
	if !extensionAllowed(outName, allowedExts) {
		return "", ErrNoMatchingExtension
	}
	outPath := filepath.Join(scratchDir, outName)

	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("archive: create %s: %w", outPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, zr); err != nil {
		return "", fmt.Errorf("archive: xz decompress: %w", err)
	}
	return outPath, nil
}
