package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [pdfs...]",
	Short: "Validate generated PDF documents",
	Long: `Validate one or more PDF documents against the PDF specification.

Useful as a post-conversion check on the output of the convert command.

Examples:
  invoice-pdf validate 10001-20240101.pdf
  invoice-pdf validate out/*.pdf -f json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// ValidationResult holds the validation outcome for one PDF
type ValidationResult struct {
	File  string `json:"file"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	files, err := collectPDFs(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no PDF files found to validate")
	}

	results := make([]*ValidationResult, 0, len(files))
	allValid := true

	for _, file := range files {
		result := &ValidationResult{File: file, Valid: true}
		if err := api.ValidateFile(file, nil); err != nil {
			result.Valid = false
			result.Error = err.Error()
			allValid = false
		}
		results = append(results, result)
	}

	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Valid {
				fmt.Printf("✓ %s: VALID\n", r.File)
			} else {
				fmt.Printf("✗ %s: INVALID\n", r.File)
				fmt.Printf("  - %s\n", r.Error)
			}
		}
	}

	if !allValid {
		return fmt.Errorf("validation failed")
	}
	return nil
}

func collectPDFs(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
		}
		if len(matches) == 0 {
			matches = []string{arg}
		}
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				return nil, fmt.Errorf("file not found: %s", match)
			}
			if !info.IsDir() && strings.EqualFold(filepath.Ext(match), ".pdf") {
				files = append(files, match)
			}
		}
	}

	return files, nil
}
