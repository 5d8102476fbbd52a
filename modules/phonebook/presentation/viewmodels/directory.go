package viewmodels

type Contact struct {
	ID     int
	Group  string
	Name   string
	Office string
	Mobile string
	Other  string
	Photo  string
}

type Group struct {
	Name         string
	ContactCount int
}

type Flash struct {
	Kind    string
	Message string
}

type DirectoryPageProps struct {
	Contacts      []*Contact
	Groups        []*Group
	SelectedGroup string
	Query         string
	Total         int
	Flash         *Flash
}

type ContactFormProps struct {
	Title   string
	Form    *ContactForm
	Groups  []*Group
	Errors  map[string]string
	PostTo  string
	BackURL string
	Flash   *Flash
}

type ContactForm struct {
	Group  string
	Name   string
	Office string
	Mobile string
	Other  string
	Photo  string
}

type GroupsPageProps struct {
	Groups []*Group
	Flash  *Flash
}

type AliasRow struct {
	Department string
	Alias      string
}

type AliasesPageProps struct {
	Rows  []*AliasRow
	Flash *Flash
}

type ImportUploadPageProps struct {
	Flash *Flash
}

type ImportDepartmentsPageProps struct {
	Rows  []*AliasRow
	Flash *Flash
}

type ImportPreviewPageProps struct {
	Contacts []*Contact
	Groups   []string
	Total    int
	Flash    *Flash
}
