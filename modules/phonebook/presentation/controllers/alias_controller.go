package controllers

import (
	"net/http"
	"sort"

	"github.com/gorilla/mux"

	"github.com/yealink-tools/phonebook-admin/modules/phonebook/presentation/mappers"
	"github.com/yealink-tools/phonebook-admin/modules/phonebook/presentation/templates"
	"github.com/yealink-tools/phonebook-admin/modules/phonebook/presentation/viewmodels"
	"github.com/yealink-tools/phonebook-admin/modules/phonebook/services"
)

type AliasController struct {
	aliases  *services.AliasService
	basePath string
}

func NewAliasController(aliasService *services.AliasService) *AliasController {
	return &AliasController{
		aliases:  aliasService,
		basePath: "/aliases",
	}
}

func (c *AliasController) Key() string {
	return c.basePath
}

func (c *AliasController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Save).Methods(http.MethodPost)
}

func (c *AliasController) List(w http.ResponseWriter, r *http.Request) {
	registry, err := c.aliases.Load(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	departments := make([]string, 0, len(registry))
	for dept := range registry {
		departments = append(departments, dept)
	}
	sort.Strings(departments)

	props := &viewmodels.AliasesPageProps{
		Rows:  mappers.AliasRows(departments, registry),
		Flash: popFlash(w, r),
	}
	templates.Render(w, templates.Aliases, props)
}

func (c *AliasController) Save(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	names := r.PostForm["department"]
	aliases := r.PostForm["alias"]
	if err := c.aliases.ReplaceAll(r.Context(), names, aliases); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	setFlash(w, "success", "Aliases saved")
	http.Redirect(w, r, c.basePath, http.StatusFound)
}
