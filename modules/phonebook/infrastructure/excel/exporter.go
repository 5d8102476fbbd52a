package excel

import (
	"bytes"

	gerrors "github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"

	"github.com/yealink-tools/phonebook-admin/modules/phonebook/domain/directory"
)

// Column headers of the tabular exchange format. Import resolves them
// case-insensitively but export always writes this exact spelling.
var tabularColumns = []string{
	"Department",
	"Name",
	"Office Number",
	"Mobile Number",
	"Other Number",
	"Head Portrait",
}

// ExportContacts renders all contacts into a single-sheet workbook.
func ExportContacts(contacts []directory.Contact) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	for col, header := range tabularColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, gerrors.Wrap(err, "header cell name")
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, gerrors.Wrap(err, "write header")
		}
	}

	for i, c := range contacts {
		values := []string{c.Group, c.Name, c.Office, c.Mobile, c.Other, c.Photo}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, gerrors.Wrap(err, "cell name")
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, gerrors.Wrap(err, "write cell")
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, gerrors.Wrap(err, "write workbook")
	}
	return buf.Bytes(), nil
}
