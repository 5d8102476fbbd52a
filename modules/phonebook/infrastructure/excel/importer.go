package excel

import (
	"io"
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"

	"github.com/yealink-tools/phonebook-admin/modules/phonebook/domain/directory"
)

// ImportContacts reads the tabular exchange format back into contacts.
// Headers are matched case-insensitively; all six columns must be present.
// Rows without a department, or with neither a name nor any number, are
// skipped. The result is meant to replace the whole directory.
func ImportContacts(r io.Reader) ([]directory.Contact, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, gerrors.Wrap(err, "open workbook")
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, gerrors.Wrap(err, "read rows")
	}
	if len(rows) == 0 {
		return nil, &directory.FormatError{Message: "workbook has no header row"}
	}

	columns := make(map[string]int, len(rows[0]))
	for idx, header := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(header))] = idx
	}
	for _, required := range tabularColumns {
		if _, ok := columns[strings.ToLower(required)]; !ok {
			return nil, &directory.FormatError{Message: "unexpected column layout, missing " + required}
		}
	}

	cell := func(row []string, header string) string {
		idx := columns[strings.ToLower(header)]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	contacts := make([]directory.Contact, 0, len(rows)-1)
	for _, row := range rows[1:] {
		c := directory.Contact{
			Group:  cell(row, "Department"),
			Name:   cell(row, "Name"),
			Office: cell(row, "Office Number"),
			Mobile: cell(row, "Mobile Number"),
			Other:  cell(row, "Other Number"),
			Photo:  cell(row, "Head Portrait"),
		}
		if c.Group == "" {
			continue
		}
		if c.Name == "" && c.Office == "" && c.Mobile == "" && c.Other == "" {
			continue
		}
		contacts = append(contacts, c)
	}
	return contacts, nil
}
