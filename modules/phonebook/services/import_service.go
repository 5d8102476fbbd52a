package services

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/gabriel-vasile/mimetype"
	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/yealink-tools/phonebook-admin/modules/phonebook/domain/directory"
	"github.com/yealink-tools/phonebook-admin/modules/phonebook/infrastructure/excel"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ImportService runs both import paths: the one-shot tabular import and the
// two-step raw wizard. Wizard state is a stored upload addressed by an opaque
// token; the file can outlive or predecease the token, so every step
// re-checks that it still exists.
type ImportService struct {
	repo      directory.Repository
	aliases   directory.AliasRegistry
	uploadDir string
}

func NewImportService(repo directory.Repository, aliases directory.AliasRegistry, dataDir string) *ImportService {
	return &ImportService{
		repo:      repo,
		aliases:   aliases,
		uploadDir: filepath.Join(dataDir, "raw_uploads"),
	}
}

// StoreRawUpload persists an uploaded workbook and returns the token for the
// follow-up wizard steps. Anything that is not an xlsx workbook is rejected
// up front.
func (s *ImportService) StoreRawUpload(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", gerrors.Wrap(err, "read upload")
	}
	if !mimetype.Detect(data).Is(xlsxMIME) {
		return "", &directory.FormatError{Message: "uploaded file is not an xlsx workbook"}
	}
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", gerrors.Wrap(err, "create upload directory")
	}
	token := uuid.NewString()
	if err := os.WriteFile(s.uploadPath(token), data, 0o644); err != nil {
		return "", gerrors.Wrap(err, "store upload")
	}
	return token, nil
}

func (s *ImportService) uploadPath(token string) string {
	return filepath.Join(s.uploadDir, "raw_import_"+token+".xlsx")
}

// RawContacts re-parses the stored upload for a wizard step.
func (s *ImportService) RawContacts(token string) ([]directory.RawContact, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, directory.ErrUploadExpired
	}
	path := s.uploadPath(token)
	if _, err := os.Stat(path); err != nil {
		return nil, directory.ErrUploadExpired
	}
	return excel.ParseRawDepartmentTable(path)
}

// Departments lists the distinct full department names of a parse result in
// name order, for the alias-editing step.
func (s *ImportService) Departments(raw []directory.RawContact) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, rc := range raw {
		if !seen[rc.FullDepartmentName] {
			seen[rc.FullDepartmentName] = true
			out = append(out, rc.FullDepartmentName)
		}
	}
	sort.Strings(out)
	return out
}

// Preview returns the normalized contacts the confirm step would save,
// alongside the raw records and the alias map used.
func (s *ImportService) Preview(ctx context.Context, token string) ([]directory.Contact, []directory.RawContact, map[string]string, error) {
	raw, err := s.RawContacts(token)
	if err != nil {
		return nil, nil, nil, err
	}
	aliases, err := s.aliases.Load(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return directory.NormalizeRawContacts(raw, aliases), raw, aliases, nil
}

// Confirm normalizes the stored upload and replaces the whole directory with
// the result. The upload is discarded only after a successful save.
func (s *ImportService) Confirm(ctx context.Context, token string) (int, error) {
	normalized, _, _, err := s.Preview(ctx, token)
	if err != nil {
		return 0, err
	}
	if err := s.repo.Save(ctx, normalized, nil); err != nil {
		return 0, err
	}
	s.DiscardUpload(token)
	return len(normalized), nil
}

func (s *ImportService) DiscardUpload(token string) {
	if _, err := uuid.Parse(token); err != nil {
		return
	}
	_ = os.Remove(s.uploadPath(token))
}

// ImportTabular replaces the whole directory with the rows of a tabular
// workbook. Returns the number of imported contacts.
func (s *ImportService) ImportTabular(ctx context.Context, r io.Reader) (int, error) {
	contacts, err := excel.ImportContacts(r)
	if err != nil {
		return 0, err
	}
	if err := s.repo.Save(ctx, contacts, nil); err != nil {
		return 0, err
	}
	return len(contacts), nil
}

// ExportTabular renders the current directory as a workbook.
func (s *ImportService) ExportTabular(ctx context.Context) ([]byte, error) {
	contacts, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return excel.ExportContacts(contacts)
}
