package extractor

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/labstack/gommon/log"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/insightdelivered/hsbc-statement-converter/internal/models"
)

// defaultPageTop is the top edge of an A4 page in points, used when a
// page has no MediaBox.
const defaultPageTop = 842.0

var errNoPages = errors.New("PDF has no pages")

func init() {
	// Keep pdfcpu from creating a config directory under $HOME.
	model.ConfigPath = "disable"
}

// Error describes a failed extraction step.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// PDFExtractor reads positioned words from PDF pages.
type PDFExtractor struct {
	// XTolerance is the largest gap in points between glyphs of one word.
	XTolerance float64
	// Validate runs a structural check of the file before reading it.
	Validate bool
}

// NewPDFExtractor returns an extractor that joins glyphs up to 3pt apart
// and validates files first.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{XTolerance: 3, Validate: true}
}

// ValidatePDF checks that the file at path is a structurally sound PDF.
func ValidatePDF(path string) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(path, conf); err != nil {
		return &Error{Op: "validate", Path: path, Err: err}
	}
	return nil
}

// ExtractPages returns every page's words and plain text. A page that
// cannot be read is logged and comes back empty; the other pages are
// still extracted.
func (e *PDFExtractor) ExtractPages(path string) (pages []models.Page, err error) {
	if e.Validate {
		if err := ValidatePDF(path); err != nil {
			return nil, err
		}
	}

	defer func() {
		if r := recover(); r != nil {
			err = &Error{Op: "open", Path: path, Err: fmt.Errorf("PDF library crashed: %v", r)}
		}
	}()

	f, r, openErr := pdf.Open(path)
	if openErr != nil {
		return nil, &Error{Op: "open", Path: path, Err: openErr}
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, &Error{Op: "open", Path: path, Err: errNoPages}
	}

	pages = make([]models.Page, 0, numPages)
	for i := 1; i <= numPages; i++ {
		pages = append(pages, e.extractPage(r, i, path))
	}
	return pages, nil
}

func (e *PDFExtractor) extractPage(r *pdf.Reader, num int, path string) (page models.Page) {
	page.Number = num
	defer func() {
		if rec := recover(); rec != nil {
			log.Errorf("[Extractor] %s page %d: %v", path, num, rec)
			page = models.Page{Number: num}
		}
	}()

	p := r.Page(num)
	if p.V.IsNull() {
		log.Warnf("[Extractor] %s page %d: missing page object", path, num)
		return page
	}

	page.Tokens = buildWords(p.Content().Text, pageTop(p), e.XTolerance)
	page.Text = pageText(page.Tokens)
	if len(page.Tokens) == 0 {
		log.Warnf("[Extractor] %s page %d: no words extracted", path, num)
	} else {
		log.Debugf("[Extractor] %s page %d: extracted %d words", path, num, len(page.Tokens))
	}
	return page
}

// pageTop returns the y coordinate of the top edge of the page's
// MediaBox, following inherited values. Boxes need not start at 0.
func pageTop(p pdf.Page) float64 {
	for v := p.V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Kind() == pdf.Array && box.Len() == 4 {
			y0, y1 := box.Index(1).Float64(), box.Index(3).Float64()
			if y0 != y1 {
				return math.Max(y0, y1)
			}
		}
	}
	return defaultPageTop
}

type glyph struct {
	x, w, top float64
	s         string
}

// buildWords merges glyphs into words. Glyphs on the same rounded
// baseline are joined while the gap to the previous glyph is at most
// tol; whitespace always ends a word. Top is measured down from pageTop,
// the y of the page's top edge.
func buildWords(texts []pdf.Text, pageTop, tol float64) []models.Token {
	rows := make(map[int][]glyph)
	for _, t := range texts {
		for _, g := range splitGlyph(t, pageTop) {
			y := int(math.RoundToEven(g.top))
			rows[y] = append(rows[y], g)
		}
	}

	keys := make([]int, 0, len(rows))
	for y := range rows {
		keys = append(keys, y)
	}
	sort.Ints(keys)

	var words []models.Token
	for _, y := range keys {
		row := rows[y]
		sort.SliceStable(row, func(a, b int) bool {
			return row[a].x < row[b].x
		})

		var cur strings.Builder
		var start glyph
		var end float64
		flush := func() {
			if cur.Len() > 0 {
				words = append(words, models.Token{Text: cur.String(), X: start.x, Top: start.top})
				cur.Reset()
			}
		}
		for _, g := range row {
			if strings.TrimSpace(g.s) == "" {
				flush()
				continue
			}
			if cur.Len() > 0 && g.x-end > tol {
				flush()
			}
			if cur.Len() == 0 {
				start = g
			}
			cur.WriteString(g.s)
			end = g.x + g.w
		}
		flush()
	}
	return words
}

// splitGlyph breaks a text run containing spaces into separate glyphs,
// spreading the run's width evenly over its characters.
func splitGlyph(t pdf.Text, pageTop float64) []glyph {
	top := pageTop - t.Y
	if !strings.ContainsAny(t.S, " \t") {
		return []glyph{{x: t.X, w: t.W, top: top, s: t.S}}
	}

	runes := []rune(t.S)
	per := 0.0
	if len(runes) > 0 {
		per = t.W / float64(len(runes))
	}
	var out []glyph
	for i, r := range runes {
		out = append(out, glyph{x: t.X + per*float64(i), w: per, top: top, s: string(r)})
	}
	return out
}

// pageText rebuilds the page's plain text from its words: one line per
// rounded Top, words separated by single spaces.
func pageText(words []models.Token) string {
	rows := make(map[int][]models.Token)
	for _, w := range words {
		y := int(math.RoundToEven(w.Top))
		rows[y] = append(rows[y], w)
	}
	keys := make([]int, 0, len(rows))
	for y := range rows {
		keys = append(keys, y)
	}
	sort.Ints(keys)

	lines := make([]string, 0, len(keys))
	for _, y := range keys {
		row := rows[y]
		sort.SliceStable(row, func(a, b int) bool {
			return row[a].X < row[b].X
		})
		parts := make([]string, len(row))
		for i, w := range row {
			parts[i] = w.Text
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n")
}
