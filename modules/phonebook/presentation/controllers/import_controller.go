package controllers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/yealink-tools/phonebook-admin/modules/phonebook/domain/directory"
	"github.com/yealink-tools/phonebook-admin/modules/phonebook/presentation/mappers"
	"github.com/yealink-tools/phonebook-admin/modules/phonebook/presentation/templates"
	"github.com/yealink-tools/phonebook-admin/modules/phonebook/presentation/viewmodels"
	"github.com/yealink-tools/phonebook-admin/modules/phonebook/services"
)

const rawImportCookie = "raw_import_token"

// maxUploadBytes caps workbook uploads well above any realistic directory.
const maxUploadBytes = 16 << 20

type ImportController struct {
	imports  *services.ImportService
	aliases  *services.AliasService
	basePath string
}

func NewImportController(importService *services.ImportService, aliasService *services.AliasService) *ImportController {
	return &ImportController{
		imports:  importService,
		aliases:  aliasService,
		basePath: "/import",
	}
}

func (c *ImportController) Key() string {
	return c.basePath
}

func (c *ImportController) Register(r *mux.Router) {
	r.HandleFunc("/export.xlsx", c.Export).Methods(http.MethodGet)

	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/tabular", c.ImportTabular).Methods(http.MethodPost)
	router.HandleFunc("/raw", c.UploadForm).Methods(http.MethodGet)
	router.HandleFunc("/raw/upload", c.Upload).Methods(http.MethodPost)
	router.HandleFunc("/raw/departments", c.DepartmentsForm).Methods(http.MethodGet)
	router.HandleFunc("/raw/departments", c.SaveDepartments).Methods(http.MethodPost)
	router.HandleFunc("/raw/preview", c.Preview).Methods(http.MethodGet)
	router.HandleFunc("/raw/confirm", c.Confirm).Methods(http.MethodPost)
	router.HandleFunc("/raw/cancel", c.Cancel).Methods(http.MethodPost)
}

func (c *ImportController) Export(w http.ResponseWriter, r *http.Request) {
	data, err := c.imports.ExportTabular(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="phonebook.xlsx"`)
	_, _ = w.Write(data)
}

func (c *ImportController) ImportTabular(w http.ResponseWriter, r *http.Request) {
	file, ok := c.uploadedFile(w, r)
	if !ok {
		return
	}
	defer func() { _ = file.Close() }()

	count, err := c.imports.ImportTabular(r.Context(), file)
	if err != nil {
		c.redirectImportError(w, r, err)
		return
	}
	setFlash(w, "success", fmt.Sprintf("Imported %d contact(s)", count))
	http.Redirect(w, r, "/contacts", http.StatusFound)
}

func (c *ImportController) UploadForm(w http.ResponseWriter, r *http.Request) {
	props := &viewmodels.ImportUploadPageProps{Flash: popFlash(w, r)}
	templates.Render(w, templates.ImportUpload, props)
}

func (c *ImportController) Upload(w http.ResponseWriter, r *http.Request) {
	file, ok := c.uploadedFile(w, r)
	if !ok {
		return
	}
	defer func() { _ = file.Close() }()

	token, err := c.imports.StoreRawUpload(file)
	if err != nil {
		c.redirectImportError(w, r, err)
		return
	}
	c.setToken(w, token)
	http.Redirect(w, r, c.basePath+"/raw/departments", http.StatusFound)
}

func (c *ImportController) DepartmentsForm(w http.ResponseWriter, r *http.Request) {
	_, raw, ok := c.wizardState(w, r)
	if !ok {
		return
	}

	departments := c.imports.Departments(raw)
	suggestions, err := c.aliases.Suggestions(r.Context(), departments)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	props := &viewmodels.ImportDepartmentsPageProps{
		Rows:  mappers.AliasRows(departments, suggestions),
		Flash: popFlash(w, r),
	}
	templates.Render(w, templates.ImportDepartments, props)
}

func (c *ImportController) SaveDepartments(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := c.wizardState(w, r); !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, err := c.aliases.MergeAndSave(r.Context(), r.PostForm["department"], r.PostForm["alias"]); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, c.basePath+"/raw/preview", http.StatusFound)
}

func (c *ImportController) Preview(w http.ResponseWriter, r *http.Request) {
	token, ok := c.token(r)
	if !ok {
		c.expireWizard(w, r)
		return
	}
	normalized, _, _, err := c.imports.Preview(r.Context(), token)
	if err != nil {
		if errors.Is(err, directory.ErrUploadExpired) {
			c.expireWizard(w, r)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	props := &viewmodels.ImportPreviewPageProps{
		Contacts: mappers.ContactsToVMs(normalized),
		Groups:   distinctGroupNames(normalized),
		Total:    len(normalized),
		Flash:    popFlash(w, r),
	}
	templates.Render(w, templates.ImportPreview, props)
}

func (c *ImportController) Confirm(w http.ResponseWriter, r *http.Request) {
	token, ok := c.token(r)
	if !ok {
		c.expireWizard(w, r)
		return
	}
	count, err := c.imports.Confirm(r.Context(), token)
	if err != nil {
		if errors.Is(err, directory.ErrUploadExpired) {
			c.expireWizard(w, r)
			return
		}
		c.redirectImportError(w, r, err)
		return
	}
	c.clearToken(w)
	setFlash(w, "success", fmt.Sprintf("Imported %d contact(s)", count))
	http.Redirect(w, r, "/contacts", http.StatusFound)
}

func (c *ImportController) Cancel(w http.ResponseWriter, r *http.Request) {
	if token, ok := c.token(r); ok {
		c.imports.DiscardUpload(token)
	}
	c.clearToken(w)
	setFlash(w, "success", "Import cancelled")
	http.Redirect(w, r, c.basePath+"/raw", http.StatusFound)
}

func (c *ImportController) uploadedFile(w http.ResponseWriter, r *http.Request) (multipart.File, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		setFlash(w, "error", "Upload failed: "+err.Error())
		http.Redirect(w, r, c.basePath+"/raw", http.StatusFound)
		return nil, false
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		setFlash(w, "error", "Choose a workbook file first")
		http.Redirect(w, r, c.basePath+"/raw", http.StatusFound)
		return nil, false
	}
	return file, true
}

// wizardState resolves the token cookie and re-parses the stored upload,
// bouncing back to the upload step when either is gone.
func (c *ImportController) wizardState(w http.ResponseWriter, r *http.Request) (string, []directory.RawContact, bool) {
	token, ok := c.token(r)
	if !ok {
		c.expireWizard(w, r)
		return "", nil, false
	}
	raw, err := c.imports.RawContacts(token)
	if err != nil {
		if errors.Is(err, directory.ErrUploadExpired) {
			c.expireWizard(w, r)
			return "", nil, false
		}
		var formatErr *directory.FormatError
		if errors.As(err, &formatErr) {
			c.clearToken(w)
			setFlash(w, "error", formatErr.Message)
			http.Redirect(w, r, c.basePath+"/raw", http.StatusFound)
			return "", nil, false
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return "", nil, false
	}
	return token, raw, true
}

func (c *ImportController) expireWizard(w http.ResponseWriter, r *http.Request) {
	c.clearToken(w)
	setFlash(w, "error", "Import session expired, upload the workbook again")
	http.Redirect(w, r, c.basePath+"/raw", http.StatusFound)
}

func (c *ImportController) redirectImportError(w http.ResponseWriter, r *http.Request, err error) {
	var formatErr *directory.FormatError
	var validationErr *directory.ValidationError
	switch {
	case errors.As(err, &formatErr):
		setFlash(w, "error", formatErr.Message)
	case errors.As(err, &validationErr):
		setFlash(w, "error", validationErr.Error())
	default:
		setFlash(w, "error", err.Error())
	}
	http.Redirect(w, r, c.basePath+"/raw", http.StatusFound)
}

func (c *ImportController) token(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(rawImportCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (c *ImportController) setToken(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     rawImportCookie,
		Value:    token,
		Path:     c.basePath,
		Expires:  time.Now().Add(time.Hour),
		HttpOnly: true,
	})
}

func (c *ImportController) clearToken(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     rawImportCookie,
		Value:    "",
		Path:     c.basePath,
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func distinctGroupNames(contacts []directory.Contact) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, contact := range contacts {
		if !seen[contact.Group] {
			seen[contact.Group] = true
			out = append(out, contact.Group)
		}
	}
	return out
}
