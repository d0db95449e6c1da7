package bom

import (
	"archive/zip"
	"fmt"
	"io"
	"time"
)

// WritePackage writes a zip archive holding "{sku}-bom.csv" and "{sku}.json".
func WritePackage(w io.Writer, sku, csvText string, exportJSON []byte, modified time.Time) error {
	zw := zip.NewWriter(w)

	files := []struct {
		name string
		data []byte
	}{
		{sku + "-bom.csv", []byte(csvText)},
		{sku + ".json", exportJSON},
	}
	for _, f := range files {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return fmt.Errorf("create %s: %w", f.name, err)
		}
		if _, err := fw.Write(f.data); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("close bom package: %w", err)
	}
	return nil
}
