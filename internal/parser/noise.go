package parser

import (
	"strings"

	"github.com/insightdelivered/hsbc-statement-converter/internal/config"
)

type lineKind int

const (
	lineData lineKind = iota
	lineNoise
	lineBroughtForward
	lineCarriedForward
)

func (k lineKind) String() string {
	switch k {
	case lineData:
		return "data"
	case lineNoise:
		return "noise"
	case lineBroughtForward:
		return "brought-forward"
	case lineCarriedForward:
		return "carried-forward"
	}
	return "unknown"
}

// noiseFilter recognises boilerplate lines and balance-forward markers.
type noiseFilter struct {
	patterns       []string
	broughtForward string
	carriedForward string
}

func newNoiseFilter(layout config.Layout) *noiseFilter {
	nf := &noiseFilter{
		broughtForward: squash(layout.BroughtForwardMarker),
		carriedForward: squash(layout.CarriedForwardMarker),
	}
	for _, p := range layout.NoisePatterns {
		if p = strings.ToUpper(p); p != "" {
			nf.patterns = append(nf.patterns, p)
		}
	}
	return nf
}

func (nf *noiseFilter) kind(l line) lineKind {
	upper := strings.ToUpper(l.text())
	for _, p := range nf.patterns {
		if strings.Contains(upper, p) {
			return lineNoise
		}
	}

	squashed := strings.ReplaceAll(upper, " ", "")
	if nf.broughtForward != "" && strings.Contains(squashed, nf.broughtForward) {
		return lineBroughtForward
	}
	if nf.carriedForward != "" && strings.Contains(squashed, nf.carriedForward) {
		return lineCarriedForward
	}
	return lineData
}

// squash upper-cases s and drops its spaces.
func squash(s string) string {
	return strings.ReplaceAll(strings.ToUpper(s), " ", "")
}
