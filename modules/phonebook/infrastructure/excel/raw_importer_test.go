package excel

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yealink-tools/phonebook-admin/modules/phonebook/domain/directory"
)

func mustCell(t *testing.T, col, row int) string {
	t.Helper()
	cell, err := excelize.CoordinatesToCellName(col, row)
	require.NoError(t, err)
	return cell
}

func setCell(t *testing.T, f *excelize.File, col, row int, value string) {
	t.Helper()
	require.NoError(t, f.SetCellValue(f.GetSheetName(0), mustCell(t, col, row), value))
}

func saveWorkbook(t *testing.T, f *excelize.File) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "raw.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestParseRawDepartmentTable_EndToEnd(t *testing.T) {
	f := excelize.NewFile()

	// Digit-free header row opens the Sales section.
	setCell(t, f, rawColDepartment, rawDataStartRow, "Sales")
	// Two employee rows: one with a dedicated extension, one relying on the
	// fallback scan across row fields.
	setCell(t, f, rawColOrdinal, rawDataStartRow+1, "1")
	setCell(t, f, rawColFullName, rawDataStartRow+1, "Alice Smith")
	setCell(t, f, rawColExtension, rawDataStartRow+1, "101")
	setCell(t, f, rawColOrdinal, rawDataStartRow+2, "2")
	setCell(t, f, rawColFullName, rawDataStartRow+2, "Bob Lee")
	setCell(t, f, rawColCityPhone, rawDataStartRow+2, "tel. 45-12")
	// Footer sentinel, anything below must be ignored.
	setCell(t, f, rawColDepartment, rawDataStartRow+3, "TOTAL")
	setCell(t, f, rawColOrdinal, rawDataStartRow+4, "3")
	setCell(t, f, rawColFullName, rawDataStartRow+4, "Ghost Row")

	raw, err := ParseRawDepartmentTable(saveWorkbook(t, f))
	require.NoError(t, err)
	require.Len(t, raw, 2)

	require.Equal(t, "Sales", raw[0].FullDepartmentName)
	require.Equal(t, "Alice Smith", raw[0].FullName)
	require.Equal(t, "101", raw[0].InternalExtension)
	require.Equal(t, "Bob Lee", raw[1].FullName)
	require.Equal(t, "4512", raw[1].InternalExtension, "fallback scan strips separators")
}

func TestParseRawDepartmentTable_FilledHeaderWithDigits(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headerCell := mustCell(t, rawColDepartment, rawDataStartRow)
	require.NoError(t, f.SetCellValue(sheet, headerCell, "Building 2 Security"))
	styleID, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, headerCell, headerCell, styleID))

	setCell(t, f, rawColOrdinal, rawDataStartRow+1, "1")
	setCell(t, f, rawColFullName, rawDataStartRow+1, "Guard One")
	setCell(t, f, rawColExtension, rawDataStartRow+1, "4400")

	raw, err := ParseRawDepartmentTable(saveWorkbook(t, f))
	require.NoError(t, err)
	require.Len(t, raw, 1)
	require.Equal(t, "Building 2 Security", raw[0].FullDepartmentName)
}

func TestParseRawDepartmentTable_SkipsRowsWithoutNameOrDepartment(t *testing.T) {
	f := excelize.NewFile()

	// Employee row before any header has no department context.
	setCell(t, f, rawColOrdinal, rawDataStartRow, "1")
	setCell(t, f, rawColFullName, rawDataStartRow, "Orphan")
	setCell(t, f, rawColDepartment, rawDataStartRow+1, "Sales")
	// Nameless employee row is skipped.
	setCell(t, f, rawColOrdinal, rawDataStartRow+2, "1")
	setCell(t, f, rawColExtension, rawDataStartRow+2, "500")
	setCell(t, f, rawColOrdinal, rawDataStartRow+3, "2")
	setCell(t, f, rawColFullName, rawDataStartRow+3, "Real Person")
	setCell(t, f, rawColExtension, rawDataStartRow+3, "501")

	raw, err := ParseRawDepartmentTable(saveWorkbook(t, f))
	require.NoError(t, err)
	require.Len(t, raw, 1)
	require.Equal(t, "Real Person", raw[0].FullName)
}

func TestParseRawDepartmentTable_NoEmployeeRowsIsFormatError(t *testing.T) {
	f := excelize.NewFile()
	setCell(t, f, rawColDepartment, rawDataStartRow, "Sales")

	_, err := ParseRawDepartmentTable(saveWorkbook(t, f))
	var ferr *directory.FormatError
	require.ErrorAs(t, err, &ferr)
}

func TestParseRawDepartmentTable_MissingFile(t *testing.T) {
	_, err := ParseRawDepartmentTable(filepath.Join(t.TempDir(), "gone.xlsx"))
	require.Error(t, err)
}
