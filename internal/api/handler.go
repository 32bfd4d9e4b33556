package api

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/hsbc-statement-converter/internal/config"
	"github.com/insightdelivered/hsbc-statement-converter/internal/models"
	"github.com/insightdelivered/hsbc-statement-converter/internal/parser"
	"github.com/insightdelivered/hsbc-statement-converter/internal/writer"
)

// ConvertResponse is the JSON response from the /api/convert endpoint.
type ConvertResponse struct {
	Success bool         `json:"success"`
	Error   string       `json:"error,omitempty"`
	BatchID string       `json:"batchId,omitempty"`
	Results []FileResult `json:"results"`
	CSV     string       `json:"csv,omitempty"`
}

// FileResult is one document's parse result plus its upload name and
// totals. Filename shadows the parse result's name, which is the temp
// file's.
type FileResult struct {
	*models.ParseResult
	Filename string          `json:"filename"`
	TotalIn  decimal.Decimal `json:"totalIn"`
	TotalOut decimal.Decimal `json:"totalOut"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Parser   *parser.Parser
	Batch    parser.BatchOptions
	MaxFiles int
	Version  string
	// Context bounds every batch; cancel it on shutdown. Nil means
	// context.Background().
	Context context.Context
}

// NewApp builds a fiber app with the API routes registered.
func NewApp(cfg *config.Config, h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "hsbc-statement-converter",
		BodyLimit:    cfg.Server.BodyLimitMB << 20,
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	h.RegisterRoutes(app)
	return app
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", h.Health)
	app.Post("/api/convert", h.Convert)
}

// Health reports that the server is up.
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": h.Version,
	})
}

// Convert parses the uploaded statements and returns their transactions
// together with a combined CSV of every successful document.
func (h *Handler) Convert(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("Failed to parse form: %v", err))
	}

	files := form.File["files"]
	if len(files) == 0 {
		return writeError(c, fiber.StatusBadRequest, "No files uploaded. Use form field 'files'.")
	}
	if h.MaxFiles > 0 && len(files) > h.MaxFiles {
		return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("Too many files: %d (max %d)", len(files), h.MaxFiles))
	}
	for _, fh := range files {
		if !strings.EqualFold(filepath.Ext(fh.Filename), ".pdf") {
			return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("Only PDF files are supported: %s", fh.Filename))
		}
	}

	batchID := uuid.NewString()
	dir, err := os.MkdirTemp("", "statements-"+batchID)
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to create temp directory.")
	}
	defer os.RemoveAll(dir)

	paths := make([]string, len(files))
	for i, fh := range files {
		// Prefix with the index so two uploads with the same name don't collide.
		paths[i] = filepath.Join(dir, fmt.Sprintf("%03d_%s", i, filepath.Base(fh.Filename)))
		if err := c.SaveFile(fh, paths[i]); err != nil {
			return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("Failed to save uploaded file %s.", fh.Filename))
		}
	}
	log.Infof("[API] batch %s: %d file(s)", batchID, len(files))

	ctx, cancel := h.requestContext(c)
	defer cancel()
	parsed := h.Parser.ParseBatch(ctx, paths, h.Batch)

	names := make([]string, len(files))
	for i, fh := range files {
		names[i] = fh.Filename
	}
	resp, err := h.buildResponse(batchID, names, parsed)
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(resp)
}

// requestContext is the request's user context, also cancelled when the
// handler's own context ends.
func (h *Handler) requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(c.UserContext())
	if h.Context == nil {
		return ctx, cancel
	}
	if h.Context.Err() != nil {
		cancel()
		return ctx, cancel
	}
	stop := context.AfterFunc(h.Context, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// buildResponse pairs each parse result with its upload name and builds
// the combined CSV of the successful ones. The results are not modified.
func (h *Handler) buildResponse(batchID string, names []string, parsed []*models.ParseResult) (ConvertResponse, error) {
	resp := ConvertResponse{
		BatchID: batchID,
		Results: make([]FileResult, len(parsed)),
	}
	var ok [][]models.Transaction
	for i, result := range parsed {
		in, out := result.Totals()
		resp.Results[i] = FileResult{ParseResult: result, Filename: names[i], TotalIn: in, TotalOut: out}
		if result.Success {
			ok = append(ok, result.Transactions)
			resp.Success = true
		}
	}

	if len(ok) > 0 {
		layout := h.Parser.Layout()
		var buf bytes.Buffer
		if err := writer.NewCSVWriter(layout.Bank, layout.Currency).WriteCombined(&buf, ok...); err != nil {
			return resp, fmt.Errorf("CSV generation failed: %w", err)
		}
		resp.CSV = buf.String()
	}

	log.Infof("[API] batch %s: %d of %d file(s) converted", batchID, len(ok), len(parsed))
	return resp, nil
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	log.Errorf("[API] %s %s: %v", c.Method(), c.Path(), err)
	return writeError(c, code, err.Error())
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ConvertResponse{
		Success: false,
		Error:   msg,
		Results: []FileResult{},
	})
}
