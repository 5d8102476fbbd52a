package mappers

import (
	"github.com/yealink-tools/phonebook-admin/modules/phonebook/domain/directory"
	"github.com/yealink-tools/phonebook-admin/modules/phonebook/presentation/viewmodels"
)

func ContactToVM(c directory.Contact) *viewmodels.Contact {
	return &viewmodels.Contact{
		ID:     c.ID,
		Group:  c.Group,
		Name:   c.Name,
		Office: c.Office,
		Mobile: c.Mobile,
		Other:  c.Other,
		Photo:  c.Photo,
	}
}

func ContactsToVMs(contacts []directory.Contact) []*viewmodels.Contact {
	out := make([]*viewmodels.Contact, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, ContactToVM(c))
	}
	return out
}

func GroupToVM(g directory.Group) *viewmodels.Group {
	return &viewmodels.Group{
		Name:         g.Name,
		ContactCount: g.ContactCount,
	}
}

func GroupsToVMs(groups []directory.Group) []*viewmodels.Group {
	out := make([]*viewmodels.Group, 0, len(groups))
	for _, g := range groups {
		out = append(out, GroupToVM(g))
	}
	return out
}

func AliasRows(departments []string, aliases map[string]string) []*viewmodels.AliasRow {
	out := make([]*viewmodels.AliasRow, 0, len(departments))
	for _, dept := range departments {
		out = append(out, &viewmodels.AliasRow{Department: dept, Alias: aliases[dept]})
	}
	return out
}
