package server

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rezonia/invoice-pdf/internal/archive"
	"github.com/rezonia/invoice-pdf/internal/batch"
	money "github.com/rezonia/invoice-pdf/internal/decimal"
	"github.com/rezonia/invoice-pdf/internal/model"
	"github.com/rezonia/invoice-pdf/internal/parser/xlsx"
	"github.com/rezonia/invoice-pdf/internal/render"
)

// DefaultCompanyName is used when a request carries no company_name field.
const DefaultCompanyName = "PythonHow"

// Config holds server configuration
type Config struct {
	Address       string
	CompanyName   string
	MaxUploadSize int64
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	Debug         bool
}

// Server represents the HTTP API server
type Server struct {
	config      *Config
	router      *gin.Engine
	coordinator *batch.Coordinator
	parser      *xlsx.Parser
}

// NewServer creates a new API server
func NewServer(config *Config) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if config.CompanyName == "" {
		config.CompanyName = DefaultCompanyName
	}
	if config.MaxUploadSize == 0 {
		config.MaxUploadSize = 32 << 20
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if config.Debug {
		router.Use(gin.Logger())
	}
	router.MaxMultipartMemory = config.MaxUploadSize

	s := &Server{
		config:      config,
		router:      router,
		coordinator: batch.NewCoordinator(),
		parser:      xlsx.NewParser(),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.handleHealth)

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/convert", s.handleConvert)
		v1.POST("/convert/single", s.handleConvertSingle)
		v1.POST("/inspect", s.handleInspect)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleConvert converts every uploaded workbook and responds with a ZIP of
// the resulting PDFs. Per-file failures do not fail the request; they are
// reported in the X-Conversion-* headers. Only a batch with zero successes
// is an error response.
func (s *Server) handleConvert(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid multipart form"})
		return
	}

	uploads := form.File["files"]
	if len(uploads) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no files uploaded"})
		return
	}

	logo, err := s.formLogo(form)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	sources, closeAll, err := openSources(uploads)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	defer closeAll()

	result := s.coordinator.Convert(sources, s.companyName(c), logo)

	summary := ConvertSummary{
		Total:      len(sources),
		Successful: result.Len(),
		Failed:     len(result.Errors),
		Errors:     result.Errors,
	}

	if result.Len() == 0 {
		c.JSON(http.StatusUnprocessableEntity, summary)
		return
	}

	data, err := archive.Build(result.Files())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fmt.Sprintf("failed to build archive: %v", err)})
		return
	}

	c.Header("X-Conversion-Total", strconv.Itoa(summary.Total))
	c.Header("X-Conversion-Successful", strconv.Itoa(summary.Successful))
	c.Header("X-Conversion-Failed", strconv.Itoa(summary.Failed))
	if len(summary.Errors) > 0 {
		c.Header("X-Conversion-Errors", strings.Join(summary.Errors, "; "))
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", archive.Name(time.Now())))
	c.Data(http.StatusOK, "application/zip", data)
}

// handleConvertSingle converts one workbook and responds with the PDF
// bytes.
func (s *Server) handleConvertSingle(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid multipart form"})
		return
	}

	upload, err := singleUpload(form)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	logo, err := s.formLogo(form)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	f, err := upload.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read upload"})
		return
	}
	defer f.Close()

	result := s.coordinator.Convert([]model.Source{{Name: upload.Filename, Reader: f}}, s.companyName(c), logo)
	if result.Len() == 0 {
		msg := "conversion failed"
		if len(result.Errors) > 0 {
			msg = result.Errors[0]
		}
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: msg})
		return
	}

	name := result.Files()[0].Name
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", name))
	c.Data(http.StatusOK, "application/pdf", result.Files()[0].Data)
}

// handleInspect parses a workbook without rendering and returns the record
// summary.
func (s *Server) handleInspect(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid multipart form"})
		return
	}

	upload, err := singleUpload(form)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	f, err := upload.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read upload"})
		return
	}
	defer f.Close()

	rec, err := s.parser.Parse(model.Source{Name: upload.Filename, Reader: f})
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		return
	}

	display := make([]string, len(rec.ColumnHeaders))
	for i, h := range rec.ColumnHeaders {
		display[i] = render.DisplayHeader(h)
	}

	c.JSON(http.StatusOK, InspectResponse{
		InvoiceNumber:  rec.InvoiceNumber,
		Date:           rec.Date,
		ColumnHeaders:  rec.ColumnHeaders,
		DisplayHeaders: display,
		Rows:           len(rec.Items),
		Total:          money.FormatTotal(rec.Total, rec.FloatTotal),
	})
}

func (s *Server) companyName(c *gin.Context) string {
	if name := c.PostForm("company_name"); name != "" {
		return name
	}
	return s.config.CompanyName
}

// formLogo reads the optional logo upload into memory. The bytes are loaded
// once per request and shared read-only across the batch.
func (s *Server) formLogo(form *multipart.Form) ([]byte, error) {
	uploads := form.File["logo"]
	if len(uploads) == 0 {
		return nil, nil
	}

	f, err := uploads[0].Open()
	if err != nil {
		return nil, fmt.Errorf("failed to read logo upload")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read logo upload")
	}
	return data, nil
}

func singleUpload(form *multipart.Form) (*multipart.FileHeader, error) {
	uploads := form.File["file"]
	if len(uploads) == 0 {
		return nil, fmt.Errorf("no file uploaded")
	}
	return uploads[0], nil
}

// openSources opens every upload as a batch source. The returned closer
// releases all of them after conversion.
func openSources(uploads []*multipart.FileHeader) ([]model.Source, func(), error) {
	sources := make([]model.Source, 0, len(uploads))
	files := make([]multipart.File, 0, len(uploads))

	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}

	for _, upload := range uploads {
		f, err := upload.Open()
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to read upload %s", upload.Filename)
		}
		files = append(files, f)
		sources = append(sources, model.Source{Name: upload.Filename, Reader: f})
	}

	return sources, closeAll, nil
}
