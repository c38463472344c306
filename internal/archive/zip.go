// Package archive bundles converted documents into a ZIP for bulk
// download.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"time"

	"github.com/rezonia/invoice-pdf/internal/batch"
)

// Name returns the download name for a batch archive, stamped with the
// given time.
func Name(now time.Time) string {
	return fmt.Sprintf("invoices_%s.zip", now.Format("20060102_150405"))
}

// Build packs the files into a deflate-compressed ZIP, preserving their
// order.
func Build(files []batch.File) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	for _, f := range files {
		entry, err := w.Create(f.Name)
		if err != nil {
			return nil, fmt.Errorf("create archive entry %s: %w", f.Name, err)
		}
		if _, err := entry.Write(f.Data); err != nil {
			return nil, fmt.Errorf("write archive entry %s: %w", f.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
