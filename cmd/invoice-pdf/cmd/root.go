package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-pdf/internal/server"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFormat string
	companyName  string
	logoPath     string
)

var rootCmd = &cobra.Command{
	Use:   "invoice-pdf",
	Short: "Convert Excel invoices to PDF documents",
	Long: `Invoice PDF converts spreadsheet invoices (.xlsx) into single-page
A4 PDF documents.

Each workbook must carry a sheet named "Sheet 1" with the columns
product_id, product_name, amount_purchased, price_per_unit and
total_price. The file name supplies the invoice number and date:
"<number>-<date>.xlsx".

Examples:
  # Convert a single invoice
  invoice-pdf convert 10001-20240101.xlsx

  # Convert a folder into one ZIP archive
  invoice-pdf convert invoices/ --zip --company "ACME Corp" --logo logo.png

  # Inspect a workbook without rendering
  invoice-pdf inspect 10001-20240101.xlsx -f table

  # Run the HTTP API
  invoice-pdf serve --address :8080`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "json", "Output format for inspect (json, csv, table)")
	rootCmd.PersistentFlags().StringVar(&companyName, "company", server.DefaultCompanyName, "Company name printed on each invoice (env: INVOICE_COMPANY)")
	rootCmd.PersistentFlags().StringVar(&logoPath, "logo", "", "Path to a PNG or JPEG company logo (env: INVOICE_LOGO)")

	// Load from environment variables if not set via flags
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if companyName == server.DefaultCompanyName {
		if env := os.Getenv("INVOICE_COMPANY"); env != "" {
			companyName = env
		}
	}
	if logoPath == "" {
		logoPath = os.Getenv("INVOICE_LOGO")
	}
}

// loadLogo reads the configured logo file into memory, once per run.
func loadLogo() ([]byte, error) {
	if logoPath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(logoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read logo %s: %w", logoPath, err)
	}
	return data, nil
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
