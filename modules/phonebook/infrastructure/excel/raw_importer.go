package excel

import (
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"

	"github.com/yealink-tools/phonebook-admin/modules/phonebook/domain/directory"
)

// Layout contract of the raw departmental sheet. Department headers sit in
// column B, employee rows carry a running ordinal in column C, and the scan
// stops at the TOTAL footer row.
const (
	rawDataStartRow  = 6
	rawColDepartment = 2
	rawColOrdinal    = 3
	rawColFullName   = 4
	rawColPosition   = 5
	rawColCityPhone  = 6
	rawColMobile     = 7
	rawColEmail      = 8
	rawColExtension  = 9
	rawStopMarker    = "TOTAL"
)

// ParseRawDepartmentTable scans a loosely structured departmental workbook
// into raw contact records. A department header row opens a section that
// applies to the employee rows below it until the next header. A sheet that
// yields no employee rows at all is treated as malformed rather than empty.
func ParseRawDepartmentTable(path string) ([]directory.RawContact, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, gerrors.Wrap(err, "open raw workbook")
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, gerrors.Wrap(err, "read rows")
	}

	currentDepartment := ""
	out := make([]directory.RawContact, 0)
	for rowNum := rawDataStartRow; rowNum <= len(rows); rowNum++ {
		row := rows[rowNum-1]
		department := cellAt(row, rawColDepartment)
		if strings.EqualFold(strings.TrimSpace(department), rawStopMarker) {
			break
		}

		ordinal := cellAt(row, rawColOrdinal)
		if !isNumeric(ordinal) {
			if directory.IsDepartmentHeader(department, cellFilled(f, sheet, rawColDepartment, rowNum)) {
				currentDepartment = strings.TrimSpace(department)
			}
			continue
		}

		name := cellAt(row, rawColFullName)
		if name == "" || currentDepartment == "" {
			continue
		}

		rc := directory.RawContact{
			FullDepartmentName: currentDepartment,
			FullName:           name,
			Position:           cellAt(row, rawColPosition),
			CityPhone:          cellAt(row, rawColCityPhone),
			MobilePhone:        cellAt(row, rawColMobile),
			Email:              cellAt(row, rawColEmail),
		}
		rc.InternalExtension = directory.ExtractExtension(
			cellAt(row, rawColExtension),
			[]string{rc.CityPhone, rc.MobilePhone, rc.Position, rc.Email},
		)
		out = append(out, rc)
	}

	if len(out) == 0 {
		return nil, &directory.FormatError{
			Message: "no employee rows recognized, the sheet does not match the expected layout",
		}
	}
	return out, nil
}

func cellAt(row []string, col int) string {
	if col-1 >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col-1])
}

func isNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// cellFilled reports whether a cell carries a pattern fill, the visual marker
// department headers use. Style lookups are best-effort: on any error the
// cell counts as unfilled and the digit-free heuristic decides.
func cellFilled(f *excelize.File, sheet string, col, row int) bool {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return false
	}
	styleID, err := f.GetCellStyle(sheet, cell)
	if err != nil || styleID == 0 {
		return false
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	return style.Fill.Type == "pattern" && style.Fill.Pattern > 0
}
