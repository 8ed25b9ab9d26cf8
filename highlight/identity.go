package highlight

import (
	"strconv"
	"strings"

	"github.com/research-exchange/pdfreview/model"
)

// UniqueID is the page number followed by the y,x pair of every highlight
// section, comma separated. The same page and section sequence always give
// the same id; reordering the sections changes it.
func UniqueID(sel model.PdfSelection) string {
	var b strings.Builder

	b.WriteString(strconv.Itoa(sel.PageNum))

	for _, rect := range sel.HighlightSections {
		b.WriteByte(',')
		b.WriteString(formatCoord(rect.Y))
		b.WriteByte(',')
		b.WriteString(formatCoord(rect.X))
	}

	return b.String()
}

// formatCoord prints the shortest decimal form, so 20 is "20" and 20.5 is
// "20.5".
func formatCoord(v float64) string {
	if v == 0 {
		// drop the sign of -0
		v = 0
	}

	return strconv.FormatFloat(v, 'f', -1, 64)
}

// sortsAfter compares ids as plain strings. "2,9,0" sorts after "2,20,0".
func sortsAfter(id, other string) bool {
	return id > other
}
