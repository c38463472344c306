package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	money "github.com/rezonia/invoice-pdf/internal/decimal"
	"github.com/rezonia/invoice-pdf/internal/model"
	"github.com/rezonia/invoice-pdf/internal/parser/xlsx"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [files...]",
	Short: "Parse invoice workbooks without rendering",
	Long: `Parse one or more invoice workbooks and print the extracted record:
invoice number, date, column headers, row count and total.

Examples:
  invoice-pdf inspect 10001-20240101.xlsx
  invoice-pdf inspect invoices/ -f table
  invoice-pdf inspect '*.xlsx' -f csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

// InspectResult holds the parsed summary of a single workbook
type InspectResult struct {
	File          string   `json:"file"`
	InvoiceNumber string   `json:"invoice_number,omitempty"`
	Date          string   `json:"date,omitempty"`
	ColumnHeaders []string `json:"column_headers,omitempty"`
	Rows          int      `json:"rows,omitempty"`
	Total         string   `json:"total,omitempty"`
	Error         string   `json:"error,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no workbooks found to inspect")
	}

	parser := xlsx.NewParser()
	results := make([]*InspectResult, 0, len(files))

	for _, file := range files {
		printVerbose("Inspecting: %s\n", file)
		results = append(results, inspectFile(parser, file))
	}

	switch outputFormat {
	case "json":
		return outputJSON(results)
	case "table":
		return outputTable(results)
	case "csv":
		return outputCSV(results)
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}

func inspectFile(parser *xlsx.Parser, path string) *InspectResult {
	result := &InspectResult{File: path}

	f, err := os.Open(path)
	if err != nil {
		result.Error = fmt.Sprintf("failed to open file: %v", err)
		return result
	}
	defer f.Close()

	rec, err := parser.Parse(model.Source{Name: filepath.Base(path), Reader: f})
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.InvoiceNumber = rec.InvoiceNumber
	result.Date = rec.Date
	result.ColumnHeaders = rec.ColumnHeaders
	result.Rows = len(rec.Items)
	result.Total = money.FormatTotal(rec.Total, rec.FloatTotal)
	return result
}

func outputJSON(results []*InspectResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}

func outputTable(results []*InspectResult) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tNUMBER\tDATE\tROWS\tTOTAL")
	fmt.Fprintln(tw, "----\t------\t----\t----\t-----")

	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(tw, "%s\tERROR: %s\t\t\t\n", r.File, r.Error)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", r.File, r.InvoiceNumber, r.Date, r.Rows, r.Total)
	}

	return tw.Flush()
}

func outputCSV(results []*InspectResult) error {
	fmt.Println("file,invoice_number,date,rows,total,error")

	for _, r := range results {
		if r.Error != "" {
			fmt.Printf("%s,,,,,%s\n", r.File, escapeCSV(r.Error))
			continue
		}
		fmt.Printf("%s,%s,%s,%d,%s,\n", r.File, r.InvoiceNumber, r.Date, r.Rows, r.Total)
	}

	return nil
}

func escapeCSV(s string) string {
	if strings.Contains(s, ",") || strings.Contains(s, "\"") || strings.Contains(s, "\n") {
		return "\"" + strings.ReplaceAll(s, "\"", "\"\"") + "\""
	}
	return s
}
