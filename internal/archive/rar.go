package archive

import (
	"bytes"
	"fmt"
	"io"

	"github.com/nwaples/rardecode/v2"
)

// rar archives don't expose a random-access directory the way zip/7z do;
// rardecode streams headers and member bytes sequentially, so this reads
// every member in one pass and keeps only the largest in memory.
func extractRar(path, scratchDir string, allowedExts []string) (string, error) {
	r, err := rardecode.OpenReader(path)
	if err != nil {
		return "", err
	}
	defer r.Close()

	var bestName string
	var bestData []byte

	for {
		hdr, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("archive: rar header: %w", err)
		}
		if hdr.IsDir || !extensionAllowed(hdr.Name, allowedExts) {
			continue
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("archive: rar read %s: %w", hdr.Name, err)
		}
		if len(data) > len(bestData) || bestName == "" {
			bestName, bestData = hdr.Name, data
		}
	}

	if bestName == "" {
		return "", ErrNoMatchingExtension
	}

	names := []string{bestName}
	sizes := []int64{int64(len(bestData))}
	return writeLargestMember(scratchDir, names, sizes, allowedExts, func(i int) (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(bestData)), nil
	})
}
