package model

import "io"

// Source is one invoice input as supplied by the host: a display name
// (expected form "<invoiceNumber>-<date>[-...]" plus extension) and a
// readable spreadsheet payload. The core never owns or mutates it.
type Source struct {
	Name   string
	Reader io.Reader
}
