package extractor_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// testPage is one page of a generated PDF. An empty mediaBox inherits the
// A4 box from the page tree.
type testPage struct {
	mediaBox string
	content  string
}

// word places s at (x, y) in 10pt Courier, 6pt per character.
func word(x, y float64, s string) string {
	return fmt.Sprintf("1 0 0 1 %g %g Tm (%s) Tj\n", x, y, s)
}

// textBlock wraps positioned words in a text object using font F1.
func textBlock(words ...string) string {
	return "BT\n/F1 10 Tf\n" + strings.Join(words, "") + "ET"
}

// writePDF writes a minimal uncompressed PDF with one object per page
// dictionary and content stream, and returns its path.
func writePDF(t *testing.T, name string, pages ...testPage) string {
	t.Helper()

	var objects []string
	kids := make([]string, len(pages))
	const firstPageObj = 4
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", firstPageObj+2*i)
	}

	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 595 842] >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Courier /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths ["+
			strings.TrimSpace(strings.Repeat("600 ", 95))+"] >>",
	)
	for i, p := range pages {
		box := ""
		if p.mediaBox != "" {
			box = fmt.Sprintf(" /MediaBox [%s]", p.mediaBox)
		}
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R%s >>", firstPageObj+2*i+1, box),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(p.content), p.content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}
