package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-pdf/internal/archive"
	"github.com/rezonia/invoice-pdf/internal/batch"
	"github.com/rezonia/invoice-pdf/internal/model"
)

var (
	outputDir string
	asZip     bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert invoice workbooks to PDF",
	Long: `Convert one or more .xlsx invoice workbooks into single-page PDF
documents.

Arguments may be files, directories or glob patterns. Each converted
invoice is written as "<stem>.pdf"; with --zip the whole batch is packed
into one timestamped archive instead. A workbook that fails to convert is
reported and skipped, it never stops the rest of the batch.

Examples:
  invoice-pdf convert 10001-20240101.xlsx
  invoice-pdf convert invoices/ -d out/
  invoice-pdf convert '*.xlsx' --zip --company "ACME Corp" --logo logo.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&outputDir, "output-dir", "d", ".", "Directory for converted files")
	convertCmd.Flags().BoolVar(&asZip, "zip", false, "Bundle all PDFs into one ZIP archive")
}

func runConvert(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no workbooks found to convert")
	}

	printVerbose("Found %d workbooks to convert\n", len(files))

	logo, err := loadLogo()
	if err != nil {
		return err
	}

	sources, closeAll, err := openSources(files)
	if err != nil {
		return err
	}
	defer closeAll()

	result := batch.NewCoordinator().Convert(sources, companyName, logo)

	for _, msg := range result.Errors {
		fmt.Fprintf(os.Stderr, "failed: %s\n", msg)
	}

	if result.Len() > 0 {
		if err := writeOutput(result); err != nil {
			return err
		}
	}

	fmt.Printf("Converted %d of %d workbooks (%d failed)\n", result.Len(), len(sources), len(result.Errors))

	if result.Len() == 0 {
		return fmt.Errorf("no workbooks converted")
	}
	return nil
}

func writeOutput(result *batch.Result) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if asZip {
		data, err := archive.Build(result.Files())
		if err != nil {
			return err
		}
		path := filepath.Join(outputDir, archive.Name(time.Now()))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write archive: %w", err)
		}
		printVerbose("Wrote %s\n", path)
		return nil
	}

	for _, f := range result.Files() {
		path := filepath.Join(outputDir, f.Name)
		if err := os.WriteFile(path, f.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		printVerbose("Wrote %s\n", path)
	}
	return nil
}

// openSources opens each path as a batch source. The source name is the
// base file name, which supplies the invoice number, date and output stem.
func openSources(paths []string) ([]model.Source, func(), error) {
	sources := make([]model.Source, 0, len(paths))
	handles := make([]*os.File, 0, len(paths))

	closeAll := func() {
		for _, f := range handles {
			f.Close()
		}
	}

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		handles = append(handles, f)
		sources = append(sources, model.Source{Name: filepath.Base(path), Reader: f})
	}

	return sources, closeAll, nil
}

func collectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
		}

		if len(matches) == 0 {
			info, err := os.Stat(arg)
			if err != nil {
				return nil, fmt.Errorf("file not found: %s", arg)
			}

			if info.IsDir() {
				err := filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
					if err != nil {
						return err
					}
					if !info.IsDir() && isWorkbook(path) {
						files = append(files, path)
					}
					return nil
				})
				if err != nil {
					return nil, err
				}
			} else {
				files = append(files, arg)
			}
		} else {
			for _, match := range matches {
				info, err := os.Stat(match)
				if err != nil {
					continue
				}
				if !info.IsDir() && isWorkbook(match) {
					files = append(files, match)
				}
			}
		}
	}

	return files, nil
}

func isWorkbook(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}
