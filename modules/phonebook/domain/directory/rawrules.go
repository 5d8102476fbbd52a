package directory

import (
	"sort"
	"strings"
	"unicode"
)

// Extension digit-run length window. Shorter runs are room numbers, longer
// ones are city numbers.
const (
	minExtensionDigits = 3
	maxExtensionDigits = 5
)

// IsDepartmentHeader classifies a department-column cell as a section header.
// Header rows are either visually marked with a fill or carry a bare
// department name, which unlike employee rows contains no digits.
func IsDepartmentHeader(value string, filled bool) bool {
	v := strings.TrimSpace(value)
	if v == "" {
		return false
	}
	return filled || !containsDigit(v)
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ExtractExtension recovers a short internal extension from a raw employee
// row. The dedicated extension column wins when its digits, separators
// stripped, form a 3-5 digit run; otherwise the remaining row fields are
// scanned in order and the first qualifying run is taken.
func ExtractExtension(dedicated string, fields []string) string {
	if digits := stripNonDigits(dedicated); len(digits) >= minExtensionDigits && len(digits) <= maxExtensionDigits {
		return digits
	}
	for _, field := range fields {
		if digits := stripNonDigits(field); len(digits) >= minExtensionDigits && len(digits) <= maxExtensionDigits {
			return digits
		}
	}
	return ""
}

// NormalizeRawContacts maps raw departmental records into final contacts:
// department names go through the alias map (falling back to the full name),
// the extracted extension becomes the office number, and records without any
// usable number are dropped. Surviving contacts are grouped by canonical
// department in first-seen order and name-sorted case-insensitively within
// each group.
func NormalizeRawContacts(raw []RawContact, aliases map[string]string) []Contact {
	groupOrder := make([]string, 0)
	buckets := make(map[string][]Contact)
	for _, rc := range raw {
		group := strings.TrimSpace(rc.FullDepartmentName)
		if alias, ok := aliases[group]; ok && strings.TrimSpace(alias) != "" {
			group = strings.TrimSpace(alias)
		}
		c := Contact{
			Group:  group,
			Name:   strings.TrimSpace(rc.FullName),
			Office: rc.InternalExtension,
		}
		if c.Office == "" && c.Mobile == "" && c.Other == "" {
			continue
		}
		if _, seen := buckets[group]; !seen {
			groupOrder = append(groupOrder, group)
		}
		buckets[group] = append(buckets[group], c)
	}

	out := make([]Contact, 0, len(raw))
	for _, group := range groupOrder {
		contacts := buckets[group]
		sort.SliceStable(contacts, func(i, j int) bool {
			return strings.ToLower(contacts[i].Name) < strings.ToLower(contacts[j].Name)
		})
		out = append(out, contacts...)
	}
	return out
}
