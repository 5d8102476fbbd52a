package directory

// Limits imposed by the Yealink remote phonebook format.
const (
	MaxGroups      = 50
	MaxNameLength  = 99
	MaxPhoneLength = 32
)

// Contact is a single phonebook entry. ID is positional: Load assigns ids
// 0..N-1 in encounter order, so an id is only valid within the snapshot it
// came from and must never be treated as a durable key.
type Contact struct {
	ID     int
	Group  string
	Name   string
	Office string
	Mobile string
	Other  string
	Photo  string
}

// Group is a derived view over contacts sharing one group name.
type Group struct {
	Name         string
	ContactCount int
	OrderIndex   int
}

// RawContact is an intermediate record extracted from a departmental
// spreadsheet before alias mapping and filtering. It is never persisted.
type RawContact struct {
	FullDepartmentName string
	FullName           string
	Position           string
	CityPhone          string
	MobilePhone        string
	Email              string
	InternalExtension  string
}
