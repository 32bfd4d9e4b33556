package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/gommon/log"

	"github.com/insightdelivered/hsbc-statement-converter/internal/config"
	"github.com/insightdelivered/hsbc-statement-converter/internal/extractor"
	"github.com/insightdelivered/hsbc-statement-converter/internal/models"
)

// TokenSource turns a statement file into pages of positioned tokens.
type TokenSource interface {
	ExtractPages(path string) ([]models.Page, error)
}

// Parser extracts transactions from statements of one layout family.
// A Parser holds no per-document state and is safe for concurrent use.
type Parser struct {
	layout     config.Layout
	source     TokenSource
	noise      *noiseFilter
	classifier *classifier
}

// Option configures a Parser.
type Option func(*Parser)

// WithTokenSource replaces the PDF extractor.
func WithTokenSource(src TokenSource) Option {
	return func(p *Parser) {
		p.source = src
	}
}

// New returns a parser for the given layout.
func New(layout config.Layout, opts ...Option) *Parser {
	p := &Parser{
		layout:     layout,
		source:     extractor.NewPDFExtractor(),
		noise:      newNoiseFilter(layout),
		classifier: newClassifier(layout),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Layout returns the layout the parser was built with.
func (p *Parser) Layout() config.Layout {
	return p.layout
}

func newResult(filename string) *models.ParseResult {
	return &models.ParseResult{
		Filename:     filename,
		Transactions: []models.Transaction{},
		Errors:       []string{},
		Warnings:     []string{},
	}
}

// ParseFile extracts and parses the statement at path.
func (p *Parser) ParseFile(path string) *models.ParseResult {
	name := filepath.Base(path)
	result := newResult(name)

	if _, err := os.Stat(path); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("File not found: %s", path))
		return result
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		result.Errors = append(result.Errors, fmt.Sprintf("Not a PDF file: %s", path))
		return result
	}

	pages, err := p.source.ExtractPages(path)
	if err != nil {
		log.Errorf("[Parser] %s: %v", name, err)
		result.Errors = append(result.Errors, fmt.Sprintf("Error parsing PDF: %v", err))
		return result
	}

	return p.Parse(models.Document{Name: name, Pages: pages})
}

// ParseFileContext is ParseFile bounded by ctx. When ctx ends first the
// returned result carries a cancellation error; the abandoned parse
// finishes in the background and is discarded.
func (p *Parser) ParseFileContext(ctx context.Context, path string) *models.ParseResult {
	if err := ctx.Err(); err != nil {
		return cancelled(path, err)
	}

	done := make(chan *models.ParseResult, 1)
	go func() {
		done <- p.ParseFile(path)
	}()

	select {
	case result := <-done:
		return result
	case <-ctx.Done():
		log.Warnf("[Parser] %s: %v", filepath.Base(path), ctx.Err())
		return cancelled(path, ctx.Err())
	}
}

func cancelled(path string, err error) *models.ParseResult {
	result := newResult(filepath.Base(path))
	result.Errors = append(result.Errors, fmt.Sprintf("parse cancelled: %v", err))
	return result
}

// Parse runs the full pipeline over an already extracted document.
func (p *Parser) Parse(doc models.Document) *models.ParseResult {
	result := newResult(doc.Name)
	result.PageCount = len(doc.Pages)

	tokens := 0
	texts := make([]string, 0, len(doc.Pages))
	for _, page := range doc.Pages {
		tokens += len(page.Tokens)
		texts = append(texts, page.Text)
	}
	if tokens == 0 {
		result.Errors = append(result.Errors, "No content could be extracted from PDF")
		return result
	}
	log.Infof("[Parser] %s: extracted %d tokens from %d pages", doc.Name, tokens, len(doc.Pages))

	if !extractor.Readable(doc.Pages) {
		result.Warnings = append(result.Warnings, "Extracted text looks garbled; the PDF may use fonts without a text mapping")
	}

	fullText := strings.Join(texts, "\n")
	if len(p.layout.Identifiers) > 0 && !containsAnyFold(fullText, p.layout.Identifiers) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Statement does not look like a %s statement; results may be incomplete", strings.ToUpper(p.layout.Bank)))
	}
	result.AccountNumber = findAccountNumber(fullText)
	result.SortCode = findSortCode(fullText)
	result.Summary = ExtractSummary(fullText)

	result.Transactions = p.ExtractTransactions(doc.Pages)
	log.Infof("[Parser] %s: extracted %d transactions", doc.Name, len(result.Transactions))

	if warnings := Validate(result.Transactions, result.Summary, p.layout.Currency); len(warnings) > 0 {
		log.Warnf("[Parser] %s: validation issues: %s", doc.Name, strings.Join(warnings, "; "))
		result.Warnings = append(result.Warnings, warnings...)
	}

	result.Success = len(result.Errors) == 0 && len(result.Transactions) > 0
	return result
}

// ExtractTransactions folds every page's lines through the assembler and
// returns the transactions sorted by date. Same-day transactions keep
// statement order.
func (p *Parser) ExtractTransactions(pages []models.Page) []models.Transaction {
	var acc accumulator
	for _, page := range pages {
		for _, l := range groupLines(page.Tokens) {
			switch p.noise.kind(l) {
			case lineNoise, lineBroughtForward:
				continue
			case lineCarriedForward:
				acc = acc.carryForward()
				continue
			case lineData:
			}
			acc = acc.step(p.classifier.classifyLine(l))
		}
	}
	acc = acc.finalize()

	txns := acc.emitted
	if txns == nil {
		txns = []models.Transaction{}
	}
	models.SortByDate(txns)
	return txns
}
