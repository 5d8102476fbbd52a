package persistence

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	gerrors "github.com/go-faster/errors"

	"github.com/yealink-tools/phonebook-admin/modules/phonebook/domain/directory"
)

const groupOrderFilename = "group_order.json"

var groupPrefixPattern = regexp.MustCompile(`^\s*(\d{2})\.\s+(.*)$`)

// DirectoryRepository stores the phonebook as a Yealink XML file plus a JSON
// side file holding the explicit group display order. There is no caching:
// every operation starts from what is on disk.
type DirectoryRepository struct {
	dataDir         string
	filename        string
	keepEmptyGroups bool
}

func NewDirectoryRepository(dataDir, filename string, keepEmptyGroups bool) *DirectoryRepository {
	return &DirectoryRepository{
		dataDir:         dataDir,
		filename:        filename,
		keepEmptyGroups: keepEmptyGroups,
	}
}

var _ directory.Repository = (*DirectoryRepository)(nil)

func (r *DirectoryRepository) PhonebookPath() string {
	return filepath.Join(r.dataDir, r.filename)
}

func (r *DirectoryRepository) groupOrderPath() string {
	return filepath.Join(r.dataDir, groupOrderFilename)
}

// splitPrefixedGroup strips an embedded "NN. " order prefix from a stored
// group name. The prefix number seeds the derived order for groups that have
// never been ranked explicitly.
func splitPrefixedGroup(name string) (string, int, bool) {
	m := groupPrefixPattern.FindStringSubmatch(name)
	if m == nil {
		return name, 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return name, 0, false
	}
	return strings.TrimSpace(m[2]), n, true
}

func (r *DirectoryRepository) Load(ctx context.Context) ([]directory.Contact, error) {
	data, err := os.ReadFile(r.PhonebookPath())
	if os.IsNotExist(err) {
		if err := r.writeEmptyPhonebook(); err != nil {
			return nil, err
		}
		return []directory.Contact{}, nil
	}
	if err != nil {
		return nil, gerrors.Wrap(err, "read phonebook")
	}

	var book xmlPhonebook
	if err := xml.Unmarshal(data, &book); err != nil {
		return nil, gerrors.Wrap(err, "parse phonebook xml")
	}

	contacts := make([]directory.Contact, 0)
	derived := make(map[string]int)
	id := 0
	for position, menu := range book.Menus {
		groupName, prefixed, ok := splitPrefixedGroup(menu.Name)
		rank := position + 1
		if ok {
			rank = prefixed
		}
		if _, seen := derived[groupName]; !seen {
			derived[groupName] = rank
		}
		for _, unit := range menu.Units {
			contacts = append(contacts, directory.Contact{
				ID:     id,
				Group:  groupName,
				Name:   unit.Name,
				Office: unit.Phone1,
				Mobile: unit.Phone2,
				Other:  unit.Phone3,
				Photo:  unit.Photo,
			})
			id++
		}
	}

	if err := r.mergeDerivedOrder(derived); err != nil {
		return nil, err
	}
	return contacts, nil
}

// mergeDerivedOrder folds group ranks derived from the file into the
// persisted order map. Ranks of already-known groups are never overwritten.
func (r *DirectoryRepository) mergeDerivedOrder(derived map[string]int) error {
	if len(derived) == 0 {
		return nil
	}
	existing, err := r.loadGroupOrder()
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		return r.saveGroupOrder(directory.ReconcileOrder(derived, mapKeys(derived)))
	}
	merged := make(map[string]int, len(existing)+len(derived))
	for name, rank := range existing {
		merged[name] = rank
	}
	changed := false
	for name, rank := range derived {
		if _, known := existing[name]; !known {
			merged[name] = rank
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return r.saveGroupOrder(directory.ReconcileOrder(merged, mapKeys(merged)))
}

func (r *DirectoryRepository) Save(ctx context.Context, contacts []directory.Contact, preserved []string) error {
	names := make([]string, 0)
	buckets := make(map[string][]directory.Contact)
	addGroup := func(name string) error {
		if _, ok := buckets[name]; ok {
			return nil
		}
		if len(buckets) >= directory.MaxGroups {
			return &directory.ValidationError{
				Field:   "group",
				Message: fmt.Sprintf("too many groups (max %d)", directory.MaxGroups),
			}
		}
		names = append(names, name)
		buckets[name] = nil
		return nil
	}

	for _, c := range contacts {
		if err := directory.ValidateContact(c); err != nil {
			return err
		}
		if err := addGroup(c.Group); err != nil {
			return err
		}
		buckets[c.Group] = append(buckets[c.Group], c)
	}
	for _, name := range preserved {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if err := addGroup(name); err != nil {
			return err
		}
	}

	existing, err := r.loadGroupOrder()
	if err != nil {
		return err
	}
	order := directory.ReconcileOrder(existing, names)
	if len(order) > 0 {
		if err := r.saveGroupOrder(order); err != nil {
			return err
		}
	}

	ordered := append([]string(nil), names...)
	sort.Slice(ordered, func(i, j int) bool {
		ri, rj := orderRank(order, ordered[i]), orderRank(order, ordered[j])
		if ri != rj {
			return ri < rj
		}
		return ordered[i] < ordered[j]
	})

	book := xmlPhonebook{}
	for idx, name := range ordered {
		menu := xmlMenu{Name: fmt.Sprintf("%02d. %s", idx+1, name)}
		for _, c := range buckets[name] {
			menu.Units = append(menu.Units, xmlUnit{
				Name:   c.Name,
				Photo:  c.Photo,
				Phone1: c.Office,
				Phone2: c.Mobile,
				Phone3: c.Other,
			})
		}
		book.Menus = append(book.Menus, menu)
	}
	return r.writePhonebook(book)
}

func orderRank(order map[string]int, name string) int {
	if rank, ok := order[name]; ok {
		return rank
	}
	return 1 << 30
}

func (r *DirectoryRepository) GroupsWithCounts(ctx context.Context) ([]directory.Group, error) {
	contacts, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, c := range contacts {
		counts[c.Group]++
	}
	if len(counts) == 0 {
		return []directory.Group{}, nil
	}

	existing, err := r.loadGroupOrder()
	if err != nil {
		return nil, err
	}
	order := directory.ReconcileOrder(existing, mapKeys(counts))
	if err := r.saveGroupOrder(order); err != nil {
		return nil, err
	}

	groups := make([]directory.Group, 0, len(counts))
	for name, count := range counts {
		groups = append(groups, directory.Group{
			Name:         name,
			ContactCount: count,
			OrderIndex:   order[name],
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].OrderIndex != groups[j].OrderIndex {
			return groups[i].OrderIndex < groups[j].OrderIndex
		}
		return groups[i].Name < groups[j].Name
	})
	return groups, nil
}

func (r *DirectoryRepository) AddContact(ctx context.Context, c directory.Contact) error {
	contacts, err := r.Load(ctx)
	if err != nil {
		return err
	}
	c.ID = len(contacts)
	contacts = append(contacts, c)
	return r.Save(ctx, contacts, nil)
}

func (r *DirectoryRepository) UpdateContact(ctx context.Context, id int, c directory.Contact) error {
	contacts, err := r.Load(ctx)
	if err != nil {
		return err
	}
	for i := range contacts {
		if contacts[i].ID == id {
			c.ID = id
			contacts[i] = c
			return r.Save(ctx, contacts, nil)
		}
	}
	return directory.ErrContactNotFound
}

func (r *DirectoryRepository) DeleteContact(ctx context.Context, id int) error {
	contacts, err := r.Load(ctx)
	if err != nil {
		return err
	}
	var preserved []string
	if r.keepEmptyGroups {
		preserved = distinctGroups(contacts)
	}
	remaining := contacts[:0:0]
	found := false
	for _, c := range contacts {
		if c.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, c)
	}
	if !found {
		return directory.ErrContactNotFound
	}
	return r.Save(ctx, remaining, preserved)
}

func (r *DirectoryRepository) RenameGroup(ctx context.Context, oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return &directory.ValidationError{Field: "group", Message: "new group name is required"}
	}
	contacts, err := r.Load(ctx)
	if err != nil {
		return err
	}
	for i := range contacts {
		if contacts[i].Group == oldName {
			contacts[i].Group = newName
		}
	}
	order, err := r.loadGroupOrder()
	if err != nil {
		return err
	}
	if rank, ok := order[oldName]; ok {
		delete(order, oldName)
		order[newName] = rank
		if err := r.saveGroupOrder(directory.ReconcileOrder(order, mapKeys(order))); err != nil {
			return err
		}
	}
	return r.Save(ctx, contacts, nil)
}

func (r *DirectoryRepository) DeleteGroup(ctx context.Context, name string, withContacts bool) error {
	contacts, err := r.Load(ctx)
	if err != nil {
		return err
	}
	remaining := contacts[:0:0]
	for _, c := range contacts {
		if c.Group == name {
			if !withContacts {
				return directory.ErrGroupNotEmpty
			}
			continue
		}
		remaining = append(remaining, c)
	}

	order, err := r.loadGroupOrder()
	if err != nil {
		return err
	}
	delete(order, name)
	if len(order) > 0 {
		if err := r.saveGroupOrder(directory.ReconcileOrder(order, distinctGroups(remaining))); err != nil {
			return err
		}
	}
	return r.Save(ctx, remaining, nil)
}

func (r *DirectoryRepository) UpdateGroupOrder(ctx context.Context, names []string) error {
	seen := make(map[string]bool)
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		cleaned = append(cleaned, name)
		seen[name] = true
	}

	contacts, err := r.Load(ctx)
	if err != nil {
		return err
	}
	existingGroups := distinctGroups(contacts)
	for _, name := range existingGroups {
		if !seen[name] {
			cleaned = append(cleaned, name)
			seen[name] = true
		}
	}
	if len(cleaned) == 0 {
		return nil
	}

	order := make(map[string]int, len(cleaned))
	for i, name := range cleaned {
		order[name] = i + 1
	}
	if err := r.saveGroupOrder(directory.ReconcileOrder(order, cleaned)); err != nil {
		return err
	}
	var preserved []string
	if r.keepEmptyGroups {
		preserved = existingGroups
	}
	return r.Save(ctx, contacts, preserved)
}

func (r *DirectoryRepository) SortContactsByName(ctx context.Context) error {
	contacts, err := r.Load(ctx)
	if err != nil {
		return err
	}
	groupOrder := make([]string, 0)
	buckets := make(map[string][]directory.Contact)
	for _, c := range contacts {
		if _, ok := buckets[c.Group]; !ok {
			groupOrder = append(groupOrder, c.Group)
		}
		buckets[c.Group] = append(buckets[c.Group], c)
	}
	sorted := make([]directory.Contact, 0, len(contacts))
	for _, group := range groupOrder {
		bucket := buckets[group]
		sort.SliceStable(bucket, func(i, j int) bool {
			return strings.ToLower(bucket[i].Name) < strings.ToLower(bucket[j].Name)
		})
		sorted = append(sorted, bucket...)
	}
	return r.Save(ctx, sorted, nil)
}

func (r *DirectoryRepository) UpdateContactOrder(ctx context.Context, ids []int) error {
	contacts, err := r.Load(ctx)
	if err != nil {
		return err
	}
	byID := make(map[int]directory.Contact, len(contacts))
	for _, c := range contacts {
		byID[c.ID] = c
	}
	placed := make(map[int]bool, len(contacts))
	ordered := make([]directory.Contact, 0, len(contacts))
	for _, id := range ids {
		c, ok := byID[id]
		if !ok || placed[id] {
			continue
		}
		ordered = append(ordered, c)
		placed[id] = true
	}
	for _, c := range contacts {
		if !placed[c.ID] {
			ordered = append(ordered, c)
		}
	}
	return r.Save(ctx, ordered, nil)
}

func (r *DirectoryRepository) LoadGroupOrder(ctx context.Context) (map[string]int, error) {
	return r.loadGroupOrder()
}

func (r *DirectoryRepository) loadGroupOrder() (map[string]int, error) {
	data, err := os.ReadFile(r.groupOrderPath())
	if os.IsNotExist(err) {
		return map[string]int{}, nil
	}
	if err != nil {
		return nil, gerrors.Wrap(err, "read group order")
	}
	order := make(map[string]int)
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, gerrors.Wrap(err, "parse group order")
	}
	return order, nil
}

func (r *DirectoryRepository) saveGroupOrder(order map[string]int) error {
	data, err := json.MarshalIndent(order, "", "  ")
	if err != nil {
		return gerrors.Wrap(err, "encode group order")
	}
	return writeFileAtomic(r.groupOrderPath(), data)
}

func (r *DirectoryRepository) writeEmptyPhonebook() error {
	return r.writePhonebook(xmlPhonebook{})
}

func (r *DirectoryRepository) writePhonebook(book xmlPhonebook) error {
	body, err := xml.MarshalIndent(book, "", "  ")
	if err != nil {
		return gerrors.Wrap(err, "encode phonebook xml")
	}
	data := append([]byte(xml.Header), body...)
	data = append(data, '\n')
	return writeFileAtomic(r.PhonebookPath(), data)
}

func distinctGroups(contacts []directory.Contact) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, c := range contacts {
		if !seen[c.Group] {
			seen[c.Group] = true
			out = append(out, c.Group)
		}
	}
	return out
}

func mapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
