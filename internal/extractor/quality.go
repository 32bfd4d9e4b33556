package extractor

import (
	"strings"
	"unicode"

	"github.com/insightdelivered/hsbc-statement-converter/internal/models"
)

// textQuality returns the ratio of basic ASCII readable characters (a-z, A-Z,
// 0-9, common punctuation, whitespace) to total characters. Returns 0.0-1.0.
// unicode.IsLetter is too broad: identity-encoded fonts decode to accented
// garbage that it would accept.
func textQuality(pages []models.Page) float64 {
	total := 0
	readable := 0
	for _, page := range pages {
		for _, r := range page.Text {
			total++
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
				strings.ContainsRune(".,-/:;()'\"£$€%&@#!?+=*", r) {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

// commonWords appear in virtually all bank statements.
var commonWords = []string{
	"bank", "account", "balance", "date", "payment", "statement",
	"total", "amount", "credit", "debit", "transaction", "sort code",
	"money", "paid", "opening", "closing", "transfer", "direct",
	"number", "page", "period",
}

func containsCommonWords(pages []models.Page) bool {
	var b strings.Builder
	for _, p := range pages {
		b.WriteString(strings.ToLower(p.Text))
		b.WriteByte(' ')
	}
	combined := b.String()
	for _, word := range commonWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

// Readable reports whether the extracted text looks like a statement
// rather than undecoded font glyphs: more than 60% readable characters
// and at least one word every statement contains.
func Readable(pages []models.Page) bool {
	if textQuality(pages) <= 0.6 {
		return false
	}
	return containsCommonWords(pages)
}
