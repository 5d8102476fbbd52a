package persistence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yealink-tools/phonebook-admin/modules/phonebook/domain/directory"
)

func newTestRepo(t *testing.T) *DirectoryRepository {
	t.Helper()
	return NewDirectoryRepository(t.TempDir(), "rem.xml", false)
}

func TestLoad_CreatesEmptyPhonebookWhenAbsent(t *testing.T) {
	repo := newTestRepo(t)

	contacts, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, contacts)

	data, err := os.ReadFile(repo.PhonebookPath())
	require.NoError(t, err)
	require.Contains(t, string(data), "<YealinkIPPhoneBook>")
}

func TestSaveLoad_RoundTripAndPositionalIDs(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	in := []directory.Contact{
		{Group: "Sales", Name: "Alice Smith", Office: "101", Mobile: "555-0001"},
		{Group: "Sales", Name: "Bob Lee", Other: "777"},
		{Group: "IT", Name: "Carol King", Office: "202", Photo: "icon:Family"},
	}
	require.NoError(t, repo.Save(ctx, in, nil))

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out, 3)
	for i, c := range out {
		require.Equal(t, i, c.ID)
	}

	type tuple struct{ group, name, office, mobile, other string }
	got := make(map[tuple]bool)
	for _, c := range out {
		got[tuple{c.Group, c.Name, c.Office, c.Mobile, c.Other}] = true
	}
	for _, c := range in {
		require.True(t, got[tuple{c.Group, c.Name, c.Office, c.Mobile, c.Other}])
	}
}

func TestSave_WritesGroupsWithOrderPrefixes(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []directory.Contact{
		{Group: "Zebra", Name: "Z"},
		{Group: "Alpha", Name: "A"},
	}, nil))

	data, err := os.ReadFile(repo.PhonebookPath())
	require.NoError(t, err)
	// Fresh order map: both groups are new, appended in name order.
	require.Contains(t, string(data), `Name="01. Alpha"`)
	require.Contains(t, string(data), `Name="02. Zebra"`)
}

func TestLoad_PrefixSeedsDerivedOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	book := `<?xml version="1.0" encoding="UTF-8"?>
<YealinkIPPhoneBook>
  <Menu Name="02. Warehouse">
    <Unit Name="Wally" Phone1="300" Phone2="" Phone3="" default_photo=""></Unit>
  </Menu>
  <Menu Name="01. Sales">
    <Unit Name="Alice" Phone1="101" Phone2="" Phone3="" default_photo=""></Unit>
  </Menu>
</YealinkIPPhoneBook>`
	require.NoError(t, os.WriteFile(repo.PhonebookPath(), []byte(book), 0o644))

	contacts, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "Warehouse", contacts[0].Group, "ids follow file order")
	require.Equal(t, 0, contacts[0].ID)

	order, err := repo.LoadGroupOrder(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]int{"Sales": 1, "Warehouse": 2}, order, "prefix seeds the order, not file position")
}

func TestLoad_MergeNeverOverwritesKnownRanks(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []directory.Contact{
		{Group: "Sales", Name: "Alice"},
		{Group: "IT", Name: "Bob"},
	}, nil))

	// A group edited into the file out-of-band must be appended after the
	// known ones without disturbing their ranks.
	contacts, err := repo.Load(ctx)
	require.NoError(t, err)
	contacts = append(contacts, directory.Contact{Group: "AAA New", Name: "New Guy"})
	require.NoError(t, repo.Save(ctx, contacts, nil))

	order, err := repo.LoadGroupOrder(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, order["IT"])
	require.Equal(t, 2, order["Sales"])
	require.Equal(t, 3, order["AAA New"])
}

func TestSave_GroupCapLeavesFileUntouched(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []directory.Contact{{Group: "Original", Name: "Keep Me"}}, nil))
	before, err := os.ReadFile(repo.PhonebookPath())
	require.NoError(t, err)

	over := make([]directory.Contact, 0, directory.MaxGroups+1)
	for i := 0; i <= directory.MaxGroups; i++ {
		over = append(over, directory.Contact{Group: fmt.Sprintf("Group %02d", i), Name: "X"})
	}
	err = repo.Save(ctx, over, nil)
	var verr *directory.ValidationError
	require.ErrorAs(t, err, &verr)

	after, err := os.ReadFile(repo.PhonebookPath())
	require.NoError(t, err)
	require.Equal(t, string(before), string(after))
}

func TestSave_ValidationHappensBeforeAnyWrite(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []directory.Contact{{Group: "Sales", Name: "Alice"}}, nil))
	before, err := os.ReadFile(repo.PhonebookPath())
	require.NoError(t, err)

	bad := []directory.Contact{
		{Group: "Sales", Name: "Fine"},
		{Group: "Sales", Name: strings.Repeat("x", directory.MaxNameLength+1)},
	}
	var verr *directory.ValidationError
	require.ErrorAs(t, repo.Save(ctx, bad, nil), &verr)

	after, err := os.ReadFile(repo.PhonebookPath())
	require.NoError(t, err)
	require.Equal(t, string(before), string(after))
}

func TestSave_PreservedGroupsKeptWhenEmpty(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []directory.Contact{{Group: "Sales", Name: "Alice"}}, []string{"Reserve"}))

	data, err := os.ReadFile(repo.PhonebookPath())
	require.NoError(t, err)
	require.Contains(t, string(data), "Reserve")

	groups, err := repo.GroupsWithCounts(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1, "empty groups carry no contacts and no count")
}

func TestUpdateContact_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []directory.Contact{{Group: "Sales", Name: "Alice"}}, nil))
	err := repo.UpdateContact(ctx, 42, directory.Contact{Group: "Sales", Name: "Nobody"})
	require.ErrorIs(t, err, directory.ErrContactNotFound)

	require.ErrorIs(t, repo.DeleteContact(ctx, 42), directory.ErrContactNotFound)
}

func TestAddUpdateDeleteContact(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.AddContact(ctx, directory.Contact{Group: "Sales", Name: "Alice", Office: "101"}))
	require.NoError(t, repo.AddContact(ctx, directory.Contact{Group: "Sales", Name: "Bob", Office: "102"}))

	contacts, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, contacts, 2)

	updated := contacts[1]
	updated.Office = "999"
	require.NoError(t, repo.UpdateContact(ctx, contacts[1].ID, updated))

	contacts, err = repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "999", contacts[1].Office)

	require.NoError(t, repo.DeleteContact(ctx, contacts[0].ID))
	contacts, err = repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	require.Equal(t, "Bob", contacts[0].Name)
}

func TestDeleteContact_KeepEmptyGroupsPreservesGroup(t *testing.T) {
	repo := NewDirectoryRepository(t.TempDir(), "rem.xml", true)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []directory.Contact{{Group: "Lonely", Name: "Only One"}}, nil))
	contacts, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.DeleteContact(ctx, contacts[0].ID))

	data, err := os.ReadFile(repo.PhonebookPath())
	require.NoError(t, err)
	require.Contains(t, string(data), "Lonely")
}

func TestRenameGroup_CarriesRankOver(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []directory.Contact{
		{Group: "Alpha", Name: "A"},
		{Group: "Beta", Name: "B"},
	}, nil))

	require.NoError(t, repo.RenameGroup(ctx, "Alpha", "Zulu"))

	order, err := repo.LoadGroupOrder(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, order["Zulu"], "renamed group keeps its rank")
	require.Equal(t, 2, order["Beta"])

	contacts, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "Zulu", contacts[0].Group)
}

func TestDeleteGroup_RefusesWhenPopulated(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []directory.Contact{{Group: "Busy", Name: "Worker"}}, nil))
	require.ErrorIs(t, repo.DeleteGroup(ctx, "Busy", false), directory.ErrGroupNotEmpty)

	require.NoError(t, repo.DeleteGroup(ctx, "Busy", true))
	contacts, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, contacts)
}

func TestUpdateGroupOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []directory.Contact{
		{Group: "One", Name: "A"},
		{Group: "Two", Name: "B"},
		{Group: "Three", Name: "C"},
	}, nil))

	require.NoError(t, repo.UpdateGroupOrder(ctx, []string{"Three", " Three ", "One"}))

	order, err := repo.LoadGroupOrder(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, order["Three"])
	require.Equal(t, 2, order["One"])
	require.Equal(t, 3, order["Two"], "unlisted groups are appended")

	data, err := os.ReadFile(repo.PhonebookPath())
	require.NoError(t, err)
	require.Contains(t, string(data), `Name="01. Three"`)
}

func TestSortContactsByName(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []directory.Contact{
		{Group: "Sales", Name: "charlie"},
		{Group: "Sales", Name: "Alice"},
		{Group: "Sales", Name: "bob"},
	}, nil))

	require.NoError(t, repo.SortContactsByName(ctx))

	contacts, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Alice", "bob", "charlie"}, []string{contacts[0].Name, contacts[1].Name, contacts[2].Name})
}

func TestUpdateContactOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []directory.Contact{
		{Group: "Sales", Name: "First"},
		{Group: "Sales", Name: "Second"},
		{Group: "Sales", Name: "Third"},
	}, nil))

	contacts, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateContactOrder(ctx, []int{contacts[2].ID, contacts[0].ID}))

	reordered, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Third", "First", "Second"},
		[]string{reordered[0].Name, reordered[1].Name, reordered[2].Name})
}

func TestGroupOrderSideFileLocation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []directory.Contact{{Group: "Sales", Name: "Alice"}}, nil))
	_, err := os.Stat(filepath.Join(filepath.Dir(repo.PhonebookPath()), groupOrderFilename))
	require.NoError(t, err)
}
