package controllers

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/yealink-tools/phonebook-admin/modules/phonebook/services"
)

// PhonebookFileController serves the XML file the phones poll. The route name
// is fixed; the file on disk can be named anything.
type PhonebookFileController struct {
	directory *services.DirectoryService
	basePath  string
}

func NewPhonebookFileController(directoryService *services.DirectoryService) *PhonebookFileController {
	return &PhonebookFileController{
		directory: directoryService,
		basePath:  "/RemotePhonebook.xml",
	}
}

func (c *PhonebookFileController) Key() string {
	return c.basePath
}

func (c *PhonebookFileController) Register(r *mux.Router) {
	r.HandleFunc(c.basePath, c.Download).Methods(http.MethodGet)
}

func (c *PhonebookFileController) Download(w http.ResponseWriter, r *http.Request) {
	// Loading first self-heals a missing file: an empty phonebook is written
	// so the phones always get a valid document.
	if _, err := c.directory.Load(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	path := c.directory.PhonebookPath()
	if _, err := os.Stat(path); err != nil {
		http.Error(w, "phonebook file not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	http.ServeFile(w, r, path)
}
