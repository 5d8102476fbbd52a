package templates

import (
	"embed"
	"html/template"
	"net/http"
)

//go:embed layout.html pages/*.html
var files embed.FS

func mustPage(name string) *template.Template {
	return template.Must(template.New("layout.html").ParseFS(files, "layout.html", "pages/"+name))
}

var (
	Directory         = mustPage("contacts.html")
	ContactForm       = mustPage("contact_form.html")
	Groups            = mustPage("groups.html")
	Aliases           = mustPage("aliases.html")
	ImportUpload      = mustPage("import_upload.html")
	ImportDepartments = mustPage("import_departments.html")
	ImportPreview     = mustPage("import_preview.html")
)

func Render(w http.ResponseWriter, t *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "layout.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
