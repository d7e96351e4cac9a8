// Package pdftest writes small, valid PDF documents for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/require"
)

// Build returns a PDF whose pages are widthBase+1, widthBase+2, ... points
// wide, so page order can be checked after concatenation.
func Build(pages int, widthBase int) []byte {
	var buf bytes.Buffer
	var offsets []int

	// objects: 1 catalog, 2 pages, 3 font, then (page, content) pairs
	total := 3 + 2*pages
	addObj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	addObj("<< /Type /Catalog /Pages 2 0 R >>")

	kids := ""
	for i := 0; i < pages; i++ {
		kids += fmt.Sprintf("%d 0 R ", 4+2*i)
	}
	addObj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pages))
	addObj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	for i := 0; i < pages; i++ {
		width := widthBase + i + 1
		content := fmt.Sprintf("BT /F1 18 Tf 72 720 Td (page %d) Tj ET", i+1)
		addObj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", width, 5+2*i))
		addObj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", total+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", total+1, xref)

	return buf.Bytes()
}

// Write stores a PDF built by Build at path.
func Write(t testing.TB, path string, pages int, widthBase int) string {
	t.Helper()
	require.NoError(t, os.WriteFile(path, Build(pages, widthBase), 0644))
	return path
}

// PageWidths reads back the MediaBox width of every page in order.
func PageWidths(t testing.TB, path string) []int {
	t.Helper()

	f, r, err := pdf.Open(path)
	require.NoError(t, err)
	defer f.Close()

	widths := make([]int, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		box := r.Page(i).V.Key("MediaBox")
		widths = append(widths, int(box.Index(2).Float64()-box.Index(0).Float64()))
	}
	return widths
}
