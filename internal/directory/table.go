package directory

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"phonedir/internal"
)

// FormatTable renders entries as a two-column text table padded by display width.
func FormatTable(entries []internal.DirectoryEntry) string {
	rows := make([][2]string, 0, len(entries)+1)
	rows = append(rows, [2]string{"NAME", "TELEPHONE"})
	for _, e := range entries {
		rows = append(rows, [2]string{e.Name, e.Telephone})
	}

	nameWidth := 0
	for _, row := range rows {
		if w := runewidth.StringWidth(row[0]); w > nameWidth {
			nameWidth = w
		}
	}

	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(runewidth.FillRight(row[0], nameWidth))
		sb.WriteString("  ")
		sb.WriteString(row[1])
		sb.WriteString("\n")
	}
	return sb.String()
}
