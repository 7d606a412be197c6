package passkit

import (
	"archive/zip"
	"bytes"
	"fmt"
	"sort"
)

// WriteArchive packages the members into the .pkpass ZIP. Entries are
// stored uncompressed (Apple does not mandate deflate) and written in
// sorted name order so identical inputs produce identical archives.
func WriteArchive(files map[string][]byte) ([]byte, error) {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Store})
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrPackaging, name, err)
		}
		if _, err := w.Write(files[name]); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrPackaging, name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: close: %v", ErrPackaging, err)
	}
	return buf.Bytes(), nil
}
