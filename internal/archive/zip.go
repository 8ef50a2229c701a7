package archive

import (
	"io"

	"github.com/klauspost/compress/zip"
)

func extractZip(path, scratchDir string, allowedExts []string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", err
	}
	defer r.Close()

	var files []*zip.File
	names := make([]string, 0, len(r.File))
	sizes := make([]int64, 0, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		files = append(files, f)
		names = append(names, f.Name)
		sizes = append(sizes, int64(f.UncompressedSize64))
	}

	return writeLargestMember(scratchDir, names, sizes, allowedExts, func(i int) (io.ReadCloser, error) {
		return files[i].Open()
	})
}
