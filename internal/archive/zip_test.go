package archive_test

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-pdf/internal/archive"
	"github.com/rezonia/invoice-pdf/internal/batch"
)

func TestName(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC)
	assert.Equal(t, "invoices_20240115_103045.zip", archive.Name(now))
}

func TestBuild(t *testing.T) {
	files := []batch.File{
		{Name: "10001-20240101.pdf", Data: []byte("%PDF-1.3 first")},
		{Name: "10002-20240102.pdf", Data: []byte("%PDF-1.3 second")},
	}

	data, err := archive.Build(files)
	require.NoError(t, err)

	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, r.File, 2)

	// Entry order follows input order.
	assert.Equal(t, "10001-20240101.pdf", r.File[0].Name)
	assert.Equal(t, "10002-20240102.pdf", r.File[1].Name)

	rc, err := r.File[1].Open()
	require.NoError(t, err)
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, []byte("%PDF-1.3 second"), content)
}

func TestBuild_Empty(t *testing.T) {
	data, err := archive.Build(nil)
	require.NoError(t, err)

	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Empty(t, r.File)
}
