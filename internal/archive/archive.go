// Package archive extracts compressed ROM containers (zip/7z/rar/xz) into
// a scratch directory before handing the extracted content path to a
// libretro core, for cores that declare need_fullpath and can't stream
// content from an in-memory buffer.
package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoMatchingExtension is returned when an archive contains no member
// whose extension is in the caller's allowed set — the game-open failure
// spec.md classifies as fatal.
var ErrNoMatchingExtension = errors.New("archive: no member with a matching extension")

var signatures = []struct {
	magic []byte
	kind  string
}{
	{[]byte{0x50, 0x4B, 0x03, 0x04}, "zip"},
	{[]byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}, "7z"},
	{[]byte{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07}, "rar"},
	{[]byte{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00}, "xz"},
}

// Detect sniffs the first bytes of path to classify its archive format,
// returning "" if none match (the caller should then treat path as a
// plain, uncompressed ROM).
func Detect(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	head := make([]byte, 8)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return "", err
	}
	head = head[:n]

	for _, sig := range signatures {
		if bytes.HasPrefix(head, sig.magic) {
			return sig.kind, nil
		}
	}
	return "", nil
}

// Extract detects path's archive format and extracts the largest member
// whose extension appears in allowedExts into scratchDir, returning the
// extracted file's path. If path isn't a recognized archive, path is
// returned unchanged without consulting allowedExts — a plain ROM file's
// own extension was already validated by the caller before it got here.
func Extract(path, scratchDir string, allowedExts []string) (string, error) {
	kind, err := Detect(path)
	if err != nil {
		return "", fmt.Errorf("archive: detect %s: %w", path, err)
	}
	if kind == "" {
		return path, nil
	}

	if err := os.MkdirAll(scratchDir, 0o755); err != nil {
		return "", fmt.Errorf("archive: scratch dir: %w", err)
	}

	switch kind {
	case "zip":
		return extractZip(path, scratchDir, allowedExts)
	case "7z":
		return extractSevenZip(path, scratchDir, allowedExts)
	case "rar":
		return extractRar(path, scratchDir, allowedExts)
	case "xz":
		return extractXz(path, scratchDir, allowedExts)
	default:
		return "", fmt.Errorf("archive: unhandled kind %q", kind)
	}
}

func extensionAllowed(name string, allowedExts []string) bool {
	if len(allowedExts) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, a := range allowedExts {
		if strings.ToLower(a) == ext {
			return true
		}
	}
	return false
}

func writeLargestMember(scratchDir string, names []string, sizes []int64, allowedExts []string, open func(i int) (io.ReadCloser, error)) (string, error) {
	best := -1
	for i, name := range names {
		if !extensionAllowed(name, allowedExts) {
			continue
		}
		if best == -1 || sizes[i] > sizes[best] {
			best = i
		}
	}
	if best == -1 {
		return "", ErrNoMatchingExtension
	}

	rc, err := open(best)
	if err != nil {
		return "", fmt.Errorf("archive: open member %s: %w", names[best], err)
	}
	defer rc.Close()

	outPath := filepath.Join(scratchDir, filepath.Base(names[best]))
	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("archive: create %s: %w", outPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return "", fmt.Errorf("archive: extract %s: %w", names[best], err)
	}
	return outPath, nil
}
