package directory

import "fmt"

// ValidateContact enforces the device-imposed field limits. Lengths are
// counted in runes, matching what the phone display truncates on.
func ValidateContact(c Contact) error {
	if c.Group == "" {
		return &ValidationError{Field: "group", Message: "group is required"}
	}
	if n := len([]rune(c.Group)); n > MaxNameLength {
		return &ValidationError{Field: "group", Message: fmt.Sprintf("group name too long (max %d)", MaxNameLength)}
	}
	if c.Name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if n := len([]rune(c.Name)); n > MaxNameLength {
		return &ValidationError{Field: "name", Message: fmt.Sprintf("name too long (max %d)", MaxNameLength)}
	}
	for field, number := range map[string]string{"office": c.Office, "mobile": c.Mobile, "other": c.Other} {
		if len([]rune(number)) > MaxPhoneLength {
			return &ValidationError{Field: field, Message: fmt.Sprintf("number too long (max %d)", MaxPhoneLength)}
		}
	}
	if len([]rune(c.Photo)) > MaxNameLength {
		return &ValidationError{Field: "photo", Message: fmt.Sprintf("photo reference too long (max %d)", MaxNameLength)}
	}
	return nil
}
