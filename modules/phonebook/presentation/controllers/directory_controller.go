package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/yealink-tools/phonebook-admin/modules/phonebook/domain/directory"
	"github.com/yealink-tools/phonebook-admin/modules/phonebook/presentation/controllers/dtos"
	"github.com/yealink-tools/phonebook-admin/modules/phonebook/presentation/mappers"
	"github.com/yealink-tools/phonebook-admin/modules/phonebook/presentation/templates"
	"github.com/yealink-tools/phonebook-admin/modules/phonebook/presentation/viewmodels"
	"github.com/yealink-tools/phonebook-admin/modules/phonebook/services"
)

type DirectoryController struct {
	directory *services.DirectoryService
	basePath  string
}

func NewDirectoryController(directoryService *services.DirectoryService) *DirectoryController {
	return &DirectoryController{
		directory: directoryService,
		basePath:  "/contacts",
	}
}

func (c *DirectoryController) Key() string {
	return c.basePath
}

func (c *DirectoryController) Register(r *mux.Router) {
	r.HandleFunc("/", c.RedirectRoot).Methods(http.MethodGet)

	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/new", c.NewForm).Methods(http.MethodGet)
	router.HandleFunc("/sort", c.SortByName).Methods(http.MethodPost)
	router.HandleFunc("/reorder", c.Reorder).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9]+}/edit", c.EditForm).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}", c.Update).Methods(http.MethodPost)
	router.HandleFunc("/{id:[0-9]+}/delete", c.Delete).Methods(http.MethodPost)
}

func (c *DirectoryController) RedirectRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, c.basePath, http.StatusFound)
}

func (c *DirectoryController) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := c.directory.Load(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	groups, err := c.directory.GroupsWithCounts(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	group := strings.TrimSpace(r.URL.Query().Get("group"))
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	filtered := c.directory.Filter(contacts, group, query)

	props := &viewmodels.DirectoryPageProps{
		Contacts:      mappers.ContactsToVMs(filtered),
		Groups:        mappers.GroupsToVMs(groups),
		SelectedGroup: group,
		Query:         query,
		Total:         len(filtered),
		Flash:         popFlash(w, r),
	}
	templates.Render(w, templates.Directory, props)
}

func (c *DirectoryController) NewForm(w http.ResponseWriter, r *http.Request) {
	c.renderForm(w, r, &viewmodels.ContactFormProps{
		Title:  "Add contact",
		Form:   &viewmodels.ContactForm{Group: strings.TrimSpace(r.URL.Query().Get("group"))},
		Errors: map[string]string{},
		PostTo: c.basePath,
	})
}

func (c *DirectoryController) Create(w http.ResponseWriter, r *http.Request) {
	dto := contactDTOFromForm(r)
	if errorsMap, ok := dto.Ok(); !ok {
		c.renderForm(w, r, &viewmodels.ContactFormProps{
			Title:  "Add contact",
			Form:   dto.ToForm(),
			Errors: errorsMap,
			PostTo: c.basePath,
		})
		return
	}

	if err := c.directory.AddContact(r.Context(), dto.ToEntity()); err != nil {
		c.handleWriteError(w, r, err, "Add contact", dto, c.basePath)
		return
	}
	setFlash(w, "success", "Contact added")
	http.Redirect(w, r, c.basePath, http.StatusFound)
}

func (c *DirectoryController) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(w, r)
	if !ok {
		return
	}
	contacts, err := c.directory.Load(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if id >= len(contacts) {
		http.Error(w, directory.ErrContactNotFound.Error(), http.StatusNotFound)
		return
	}

	entity := contacts[id]
	c.renderForm(w, r, &viewmodels.ContactFormProps{
		Title: "Edit contact",
		Form: &viewmodels.ContactForm{
			Group:  entity.Group,
			Name:   entity.Name,
			Office: entity.Office,
			Mobile: entity.Mobile,
			Other:  entity.Other,
			Photo:  entity.Photo,
		},
		Errors: map[string]string{},
		PostTo: c.basePath + "/" + strconv.Itoa(id),
	})
}

func (c *DirectoryController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(w, r)
	if !ok {
		return
	}
	postTo := c.basePath + "/" + strconv.Itoa(id)

	dto := contactDTOFromForm(r)
	if errorsMap, ok := dto.Ok(); !ok {
		c.renderForm(w, r, &viewmodels.ContactFormProps{
			Title:  "Edit contact",
			Form:   dto.ToForm(),
			Errors: errorsMap,
			PostTo: postTo,
		})
		return
	}

	if err := c.directory.UpdateContact(r.Context(), id, dto.ToEntity()); err != nil {
		c.handleWriteError(w, r, err, "Edit contact", dto, postTo)
		return
	}
	setFlash(w, "success", "Contact updated")
	http.Redirect(w, r, c.basePath, http.StatusFound)
}

func (c *DirectoryController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(w, r)
	if !ok {
		return
	}
	if err := c.directory.DeleteContact(r.Context(), id); err != nil {
		if errors.Is(err, directory.ErrContactNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	setFlash(w, "success", "Contact deleted")
	http.Redirect(w, r, c.basePath, http.StatusFound)
}

func (c *DirectoryController) SortByName(w http.ResponseWriter, r *http.Request) {
	if err := c.directory.SortContactsByName(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	setFlash(w, "success", "Contacts sorted by name")
	http.Redirect(w, r, c.basePath, http.StatusFound)
}

// Reorder rewrites the whole directory in the submitted id order. The ids are
// a comma or whitespace separated list of current positions.
func (c *DirectoryController) Reorder(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDList(r.FormValue("order"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := c.directory.UpdateContactOrder(r.Context(), ids); err != nil {
		if errors.Is(err, directory.ErrContactNotFound) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	setFlash(w, "success", "Contact order updated")
	http.Redirect(w, r, c.basePath, http.StatusFound)
}

func (c *DirectoryController) renderForm(w http.ResponseWriter, r *http.Request, props *viewmodels.ContactFormProps) {
	groups, err := c.directory.GroupsWithCounts(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	props.Groups = mappers.GroupsToVMs(groups)
	props.BackURL = c.basePath
	props.Flash = popFlash(w, r)
	templates.Render(w, templates.ContactForm, props)
}

// handleWriteError turns repository validation failures back into form errors
// so the operator keeps their input.
func (c *DirectoryController) handleWriteError(w http.ResponseWriter, r *http.Request, err error, title string, dto *dtos.ContactDTO, postTo string) {
	var validationErr *directory.ValidationError
	if errors.As(err, &validationErr) {
		c.renderForm(w, r, &viewmodels.ContactFormProps{
			Title:  title,
			Form:   dto.ToForm(),
			Errors: map[string]string{validationErr.Field: validationErr.Message},
			PostTo: postTo,
		})
		return
	}
	if errors.Is(err, directory.ErrContactNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func contactDTOFromForm(r *http.Request) *dtos.ContactDTO {
	return &dtos.ContactDTO{
		Group:  r.FormValue("Group"),
		Name:   r.FormValue("Name"),
		Office: r.FormValue("Office"),
		Mobile: r.FormValue("Mobile"),
		Other:  r.FormValue("Other"),
		Photo:  r.FormValue("Photo"),
	}
}

func contactID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 0 {
		http.Error(w, "invalid contact id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func parseIDList(value string) ([]int, error) {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\r' || r == '\t'
	})
	ids := make([]int, 0, len(fields))
	for _, field := range fields {
		id, err := strconv.Atoi(field)
		if err != nil {
			return nil, errors.New("order must be a list of contact ids")
		}
		ids = append(ids, id)
	}
	return ids, nil
}
