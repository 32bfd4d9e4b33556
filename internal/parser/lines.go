package parser

import (
	"math"
	"sort"
	"strings"

	"github.com/insightdelivered/hsbc-statement-converter/internal/models"
)

// line is a row of tokens sharing a rounded vertical offset, left to right.
type line struct {
	top    int
	tokens []models.Token
}

// text joins the line's tokens with single spaces.
func (l line) text() string {
	parts := make([]string, len(l.tokens))
	for i, t := range l.tokens {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}

// groupLines clusters one page's tokens into lines. Tokens whose Top
// rounds to the same integer share a line; lines come back top of page
// first. Rounding is half-to-even.
func groupLines(tokens []models.Token) []line {
	byTop := make(map[int][]models.Token)
	for _, t := range tokens {
		y := int(math.RoundToEven(t.Top))
		byTop[y] = append(byTop[y], t)
	}

	tops := make([]int, 0, len(byTop))
	for y := range byTop {
		tops = append(tops, y)
	}
	sort.Ints(tops)

	lines := make([]line, 0, len(tops))
	for _, y := range tops {
		items := byTop[y]
		sort.SliceStable(items, func(a, b int) bool {
			return items[a].X < items[b].X
		})
		lines = append(lines, line{top: y, tokens: items})
	}
	return lines
}
