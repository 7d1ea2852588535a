package table

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const maxCellWidth = 60

// Render writes the record as an aligned plain-text table. Missing
// cells render as blanks. Intended for terminal inspection, not for
// machine parsing.
func (r *Record) Render(w io.Writer) {
	if len(r.columns) == 0 {
		fmt.Fprintln(w, "(empty)")
		return
	}

	widths := make([]int, len(r.columns))
	for i, c := range r.columns {
		widths[i] = utf8.RuneCountInString(c)
	}
	cells := make([][]string, r.rows)
	for row := 0; row < r.rows; row++ {
		cells[row] = make([]string, len(r.columns))
		for i, c := range r.columns {
			s := r.Cell(row, c).String()
			// Widths count runes so multi-byte text stays aligned.
			n := utf8.RuneCountInString(s)
			if n > maxCellWidth {
				s = string([]rune(s)[:maxCellWidth-3]) + "..."
				n = maxCellWidth
			}
			cells[row][i] = s
			if n > widths[i] {
				widths[i] = n
			}
		}
	}

	var header strings.Builder
	for i, c := range r.columns {
		if i > 0 {
			header.WriteString("  ")
		}
		header.WriteString(padRight(c, widths[i]))
	}
	fmt.Fprintln(w, header.String())
	fmt.Fprintln(w, strings.Repeat("-", utf8.RuneCountInString(header.String())))

	for row := 0; row < r.rows; row++ {
		var line strings.Builder
		for i := range r.columns {
			if i > 0 {
				line.WriteString("  ")
			}
			line.WriteString(padRight(cells[row][i], widths[i]))
		}
		fmt.Fprintln(w, line.String())
	}
}

func padRight(s string, length int) string {
	n := utf8.RuneCountInString(s)
	if n >= length {
		return s
	}
	return s + strings.Repeat(" ", length-n)
}
