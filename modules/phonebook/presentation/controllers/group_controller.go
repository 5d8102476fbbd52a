package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/yealink-tools/phonebook-admin/modules/phonebook/domain/directory"
	"github.com/yealink-tools/phonebook-admin/modules/phonebook/presentation/mappers"
	"github.com/yealink-tools/phonebook-admin/modules/phonebook/presentation/templates"
	"github.com/yealink-tools/phonebook-admin/modules/phonebook/presentation/viewmodels"
	"github.com/yealink-tools/phonebook-admin/modules/phonebook/services"
)

type GroupController struct {
	directory *services.DirectoryService
	basePath  string
}

func NewGroupController(directoryService *services.DirectoryService) *GroupController {
	return &GroupController{
		directory: directoryService,
		basePath:  "/groups",
	}
}

func (c *GroupController) Key() string {
	return c.basePath
}

func (c *GroupController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/rename", c.Rename).Methods(http.MethodPost)
	router.HandleFunc("/delete", c.Delete).Methods(http.MethodPost)
	router.HandleFunc("/reorder", c.Reorder).Methods(http.MethodPost)
}

func (c *GroupController) List(w http.ResponseWriter, r *http.Request) {
	groups, err := c.directory.GroupsWithCounts(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	props := &viewmodels.GroupsPageProps{
		Groups: mappers.GroupsToVMs(groups),
		Flash:  popFlash(w, r),
	}
	templates.Render(w, templates.Groups, props)
}

func (c *GroupController) Rename(w http.ResponseWriter, r *http.Request) {
	oldName := strings.TrimSpace(r.FormValue("old_name"))
	newName := strings.TrimSpace(r.FormValue("new_name"))
	if oldName == "" || newName == "" {
		setFlash(w, "error", "Both the current and the new group name are required")
		http.Redirect(w, r, c.basePath, http.StatusFound)
		return
	}
	if err := c.directory.RenameGroup(r.Context(), oldName, newName); err != nil {
		c.redirectError(w, r, err)
		return
	}
	setFlash(w, "success", "Group renamed")
	http.Redirect(w, r, c.basePath, http.StatusFound)
}

func (c *GroupController) Delete(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		setFlash(w, "error", "Group name is required")
		http.Redirect(w, r, c.basePath, http.StatusFound)
		return
	}
	withContacts := r.FormValue("with_contacts") == "1"
	if err := c.directory.DeleteGroup(r.Context(), name, withContacts); err != nil {
		if errors.Is(err, directory.ErrGroupNotEmpty) {
			setFlash(w, "error", "Group still has contacts; tick \"with contacts\" to delete them too")
			http.Redirect(w, r, c.basePath, http.StatusFound)
			return
		}
		c.redirectError(w, r, err)
		return
	}
	setFlash(w, "success", "Group deleted")
	http.Redirect(w, r, c.basePath, http.StatusFound)
}

// Reorder takes the desired order as one group name per textarea line.
func (c *GroupController) Reorder(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0)
	for _, line := range strings.Split(r.FormValue("order"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}
	if err := c.directory.UpdateGroupOrder(r.Context(), names); err != nil {
		c.redirectError(w, r, err)
		return
	}
	setFlash(w, "success", "Group order updated")
	http.Redirect(w, r, c.basePath, http.StatusFound)
}

func (c *GroupController) redirectError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *directory.ValidationError
	if errors.As(err, &validationErr) {
		setFlash(w, "error", validationErr.Error())
	} else {
		setFlash(w, "error", err.Error())
	}
	http.Redirect(w, r, c.basePath, http.StatusFound)
}
