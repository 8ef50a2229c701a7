package archive

import (
	"io"

	"github.com/bodgit/sevenzip"
)

func extractSevenZip(path, scratchDir string, allowedExts []string) (string, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return "", err
	}
	defer r.Close()

	var files []*sevenzip.File
	names := make([]string, 0, len(r.File))
	sizes := make([]int64, 0, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		files = append(files, f)
		names = append(names, f.Name)
		sizes = append(sizes, int64(f.UncompressedSize))
	}

	return writeLargestMember(scratchDir, names, sizes, allowedExts, func(i int) (io.ReadCloser, error) {
		return files[i].Open()
	})
}
