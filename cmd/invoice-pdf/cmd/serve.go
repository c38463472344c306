package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/invoice-pdf/internal/server"
)

var (
	serverAddr    string
	serverDebug   bool
	readTimeout   time.Duration
	writeTimeout  time.Duration
	maxUploadSize int64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for converting invoices.

The API provides endpoints for:
  - POST /api/v1/convert         - Convert uploaded workbooks, respond with a ZIP
  - POST /api/v1/convert/single  - Convert one workbook, respond with the PDF
  - POST /api/v1/inspect         - Parse a workbook without rendering
  - GET  /health                 - Health check

Examples:
  # Start server on default port
  invoice-pdf serve

  # Start on custom port with a branded footer
  invoice-pdf serve --address :9090 --company "ACME Corp"

  # Start in debug mode
  invoice-pdf serve --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", ":8080", "Server listen address")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 2*time.Minute, "HTTP write timeout")
	serveCmd.Flags().Int64Var(&maxUploadSize, "max-upload", 32<<20, "Maximum multipart upload size in bytes")
}

func runServe(cmd *cobra.Command, args []string) error {
	config := &server.Config{
		Address:       serverAddr,
		CompanyName:   companyName,
		MaxUploadSize: maxUploadSize,
		ReadTimeout:   readTimeout,
		WriteTimeout:  writeTimeout,
		Debug:         serverDebug,
	}

	srv := server.NewServer(config)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		fmt.Println("\nShutting down server...")
		os.Exit(0)
	}()

	fmt.Printf("Starting server on %s\n", serverAddr)
	fmt.Printf("Company name: %s\n", config.CompanyName)

	return srv.Run()
}
