package server

// ConvertSummary reports aggregate batch counts. It is returned as JSON
// when nothing converted, and mirrored into response headers when a ZIP is
// returned.
type ConvertSummary struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors,omitempty"`
}

// InspectResponse is the response for the inspect endpoint
type InspectResponse struct {
	InvoiceNumber  string   `json:"invoice_number"`
	Date           string   `json:"date"`
	ColumnHeaders  []string `json:"column_headers"`
	DisplayHeaders []string `json:"display_headers"`
	Rows           int      `json:"rows"`
	Total          string   `json:"total"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}
