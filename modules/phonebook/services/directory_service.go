package services

import (
	"context"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/yealink-tools/phonebook-admin/modules/phonebook/domain/directory"
)

// DirectoryService fronts the directory repository for the web layer. Input
// normalization lives here; persistence rules stay in the repository.
type DirectoryService struct {
	repo directory.Repository
}

func NewDirectoryService(repo directory.Repository) *DirectoryService {
	return &DirectoryService{repo: repo}
}

func (s *DirectoryService) Load(ctx context.Context) ([]directory.Contact, error) {
	return s.repo.Load(ctx)
}

func (s *DirectoryService) GroupsWithCounts(ctx context.Context) ([]directory.Group, error) {
	return s.repo.GroupsWithCounts(ctx)
}

func (s *DirectoryService) PhonebookPath() string {
	return s.repo.PhonebookPath()
}

func normalizeContact(c directory.Contact) directory.Contact {
	c.Group = strings.TrimSpace(c.Group)
	c.Name = strings.TrimSpace(c.Name)
	c.Office = strings.TrimSpace(c.Office)
	c.Mobile = strings.TrimSpace(c.Mobile)
	c.Other = strings.TrimSpace(c.Other)
	c.Photo = strings.TrimSpace(c.Photo)
	return c
}

func (s *DirectoryService) AddContact(ctx context.Context, c directory.Contact) error {
	return s.repo.AddContact(ctx, normalizeContact(c))
}

func (s *DirectoryService) UpdateContact(ctx context.Context, id int, c directory.Contact) error {
	return s.repo.UpdateContact(ctx, id, normalizeContact(c))
}

func (s *DirectoryService) DeleteContact(ctx context.Context, id int) error {
	return s.repo.DeleteContact(ctx, id)
}

func (s *DirectoryService) RenameGroup(ctx context.Context, oldName, newName string) error {
	return s.repo.RenameGroup(ctx, strings.TrimSpace(oldName), strings.TrimSpace(newName))
}

func (s *DirectoryService) DeleteGroup(ctx context.Context, name string, withContacts bool) error {
	return s.repo.DeleteGroup(ctx, name, withContacts)
}

func (s *DirectoryService) UpdateGroupOrder(ctx context.Context, names []string) error {
	return s.repo.UpdateGroupOrder(ctx, names)
}

func (s *DirectoryService) SortContactsByName(ctx context.Context) error {
	return s.repo.SortContactsByName(ctx)
}

func (s *DirectoryService) UpdateContactOrder(ctx context.Context, ids []int) error {
	return s.repo.UpdateContactOrder(ctx, ids)
}

// Filter narrows a loaded snapshot for the list view: exact group match plus
// a fuzzy, case-folded search over the name and all three numbers.
func (s *DirectoryService) Filter(contacts []directory.Contact, group, query string) []directory.Contact {
	query = strings.TrimSpace(query)
	if group == "" && query == "" {
		return contacts
	}
	out := make([]directory.Contact, 0, len(contacts))
	for _, c := range contacts {
		if group != "" && c.Group != group {
			continue
		}
		if query != "" && !matchesQuery(c, query) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func matchesQuery(c directory.Contact, query string) bool {
	for _, field := range []string{c.Name, c.Office, c.Mobile, c.Other} {
		if fuzzy.MatchNormalizedFold(query, field) {
			return true
		}
	}
	return false
}
