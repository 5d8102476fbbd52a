package dtos

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yealink-tools/phonebook-admin/modules/phonebook/domain/directory"
	"github.com/yealink-tools/phonebook-admin/modules/phonebook/presentation/viewmodels"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ContactDTO carries a submitted contact form. The limits mirror what the
// phone firmware accepts; the repository re-checks them before writing.
type ContactDTO struct {
	Group  string `validate:"required,max=99"`
	Name   string `validate:"required,max=99"`
	Office string `validate:"omitempty,max=32"`
	Mobile string `validate:"omitempty,max=32"`
	Other  string `validate:"omitempty,max=32"`
	Photo  string `validate:"omitempty,max=99"`
}

func (d *ContactDTO) Normalize() {
	d.Group = strings.TrimSpace(d.Group)
	d.Name = strings.TrimSpace(d.Name)
	d.Office = strings.TrimSpace(d.Office)
	d.Mobile = strings.TrimSpace(d.Mobile)
	d.Other = strings.TrimSpace(d.Other)
	d.Photo = strings.TrimSpace(d.Photo)
}

// Ok validates the form and returns field-keyed messages for re-rendering.
func (d *ContactDTO) Ok() (map[string]string, bool) {
	d.Normalize()

	errs := validate.Struct(d)
	if errs == nil {
		return map[string]string{}, true
	}

	out := make(map[string]string)
	for _, fieldErr := range errs.(validator.ValidationErrors) {
		switch fieldErr.Tag() {
		case "required":
			out[fieldErr.Field()] = fieldErr.Field() + " is required"
		case "max":
			out[fieldErr.Field()] = fieldErr.Field() + " is longer than " + fieldErr.Param() + " characters"
		default:
			out[fieldErr.Field()] = fieldErr.Field() + " is invalid"
		}
	}
	return out, false
}

func (d *ContactDTO) ToEntity() directory.Contact {
	return directory.Contact{
		Group:  d.Group,
		Name:   d.Name,
		Office: d.Office,
		Mobile: d.Mobile,
		Other:  d.Other,
		Photo:  d.Photo,
	}
}

func (d *ContactDTO) ToForm() *viewmodels.ContactForm {
	return &viewmodels.ContactForm{
		Group:  d.Group,
		Name:   d.Name,
		Office: d.Office,
		Mobile: d.Mobile,
		Other:  d.Other,
		Photo:  d.Photo,
	}
}
