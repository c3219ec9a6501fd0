package directory

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"phonedir/internal"
)

func ExportEntriesToXLSX(entries []internal.DirectoryEntry, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headers := []string{"name", "telephone"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, e := range entries {
		r := i + 2
		set := func(col int, value string) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			// Extensions stay text so leading zeros survive.
			_ = f.SetCellStr(sheet, cell, value)
		}
		set(1, e.Name)
		set(2, e.Telephone)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
