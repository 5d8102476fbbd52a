package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yealink-tools/phonebook-admin/modules/phonebook/domain/directory"
)

type mockDirectoryRepo struct {
	added      []directory.Contact
	updated    map[int]directory.Contact
	renamedTo  string
	contacts   []directory.Contact
	groupOrder []string
}

func (m *mockDirectoryRepo) Load(ctx context.Context) ([]directory.Contact, error) {
	return m.contacts, nil
}
func (m *mockDirectoryRepo) Save(ctx context.Context, contacts []directory.Contact, preserved []string) error {
	m.contacts = contacts
	return nil
}
func (m *mockDirectoryRepo) GroupsWithCounts(ctx context.Context) ([]directory.Group, error) {
	return nil, nil
}
func (m *mockDirectoryRepo) AddContact(ctx context.Context, c directory.Contact) error {
	m.added = append(m.added, c)
	return nil
}
func (m *mockDirectoryRepo) UpdateContact(ctx context.Context, id int, c directory.Contact) error {
	if m.updated == nil {
		m.updated = map[int]directory.Contact{}
	}
	m.updated[id] = c
	return nil
}
func (m *mockDirectoryRepo) DeleteContact(ctx context.Context, id int) error { return nil }
func (m *mockDirectoryRepo) RenameGroup(ctx context.Context, oldName, newName string) error {
	m.renamedTo = newName
	return nil
}
func (m *mockDirectoryRepo) DeleteGroup(ctx context.Context, name string, withContacts bool) error {
	return nil
}
func (m *mockDirectoryRepo) UpdateGroupOrder(ctx context.Context, names []string) error {
	m.groupOrder = names
	return nil
}
func (m *mockDirectoryRepo) SortContactsByName(ctx context.Context) error       { return nil }
func (m *mockDirectoryRepo) UpdateContactOrder(ctx context.Context, ids []int) error {
	return nil
}
func (m *mockDirectoryRepo) LoadGroupOrder(ctx context.Context) (map[string]int, error) {
	return nil, nil
}
func (m *mockDirectoryRepo) PhonebookPath() string { return "/tmp/rem.xml" }

func TestDirectoryService_AddTrimsFields(t *testing.T) {
	repo := &mockDirectoryRepo{}
	svc := NewDirectoryService(repo)

	err := svc.AddContact(context.Background(), directory.Contact{
		Group:  "  Sales ",
		Name:   " Alice Smith ",
		Office: " 101 ",
	})
	require.NoError(t, err)
	require.Len(t, repo.added, 1)
	require.Equal(t, "Sales", repo.added[0].Group)
	require.Equal(t, "Alice Smith", repo.added[0].Name)
	require.Equal(t, "101", repo.added[0].Office)
}

func TestDirectoryService_RenameTrims(t *testing.T) {
	repo := &mockDirectoryRepo{}
	svc := NewDirectoryService(repo)

	require.NoError(t, svc.RenameGroup(context.Background(), "Old", "  New Name  "))
	require.Equal(t, "New Name", repo.renamedTo)
}

func TestDirectoryService_Filter(t *testing.T) {
	svc := NewDirectoryService(&mockDirectoryRepo{})
	contacts := []directory.Contact{
		{Group: "Sales", Name: "Alice Smith", Office: "101"},
		{Group: "Sales", Name: "Bob Lee", Mobile: "555-0001"},
		{Group: "IT", Name: "Carol King", Other: "202"},
	}

	require.Len(t, svc.Filter(contacts, "", ""), 3)

	sales := svc.Filter(contacts, "Sales", "")
	require.Len(t, sales, 2)

	byName := svc.Filter(contacts, "", "alice")
	require.Len(t, byName, 1)
	require.Equal(t, "Alice Smith", byName[0].Name)

	byNumber := svc.Filter(contacts, "", "5550001")
	require.Len(t, byNumber, 1)
	require.Equal(t, "Bob Lee", byNumber[0].Name)

	both := svc.Filter(contacts, "IT", "alice")
	require.Empty(t, both)
}
