package directory

import "context"

// Repository owns the canonical on-disk phonebook and its group-order side
// file. Every mutation is a full read-modify-write cycle against durable
// state; implementations keep no in-process cache.
type Repository interface {
	// Load reads the structured file, creating an empty one when absent, and
	// returns contacts with positional ids assigned in encounter order.
	Load(ctx context.Context) ([]Contact, error)
	// Save validates every contact and rewrites the structured file from
	// scratch. Groups named in preserved are kept even when empty.
	Save(ctx context.Context, contacts []Contact, preserved []string) error
	GroupsWithCounts(ctx context.Context) ([]Group, error)

	AddContact(ctx context.Context, c Contact) error
	UpdateContact(ctx context.Context, id int, c Contact) error
	DeleteContact(ctx context.Context, id int) error

	RenameGroup(ctx context.Context, oldName, newName string) error
	// DeleteGroup removes a group. With withContacts=false it fails with
	// ErrGroupNotEmpty while contacts still reference the group.
	DeleteGroup(ctx context.Context, name string, withContacts bool) error
	UpdateGroupOrder(ctx context.Context, names []string) error

	SortContactsByName(ctx context.Context) error
	UpdateContactOrder(ctx context.Context, ids []int) error

	LoadGroupOrder(ctx context.Context) (map[string]int, error)
	// PhonebookPath is the absolute path of the structured file the phone
	// downloads.
	PhonebookPath() string
}
