package persistence

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	gerrors "github.com/go-faster/errors"

	"github.com/yealink-tools/phonebook-admin/modules/phonebook/domain/directory"
)

const aliasFilename = "departments_aliases.json"

// AliasRepository persists department aliases as a flat JSON object next to
// the phonebook file.
type AliasRepository struct {
	dataDir string
}

func NewAliasRepository(dataDir string) *AliasRepository {
	return &AliasRepository{dataDir: dataDir}
}

var _ directory.AliasRegistry = (*AliasRepository)(nil)

func (r *AliasRepository) path() string {
	return filepath.Join(r.dataDir, aliasFilename)
}

func (r *AliasRepository) Load(ctx context.Context) (map[string]string, error) {
	data, err := os.ReadFile(r.path())
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, gerrors.Wrap(err, "read department aliases")
	}
	aliases := make(map[string]string)
	if err := json.Unmarshal(data, &aliases); err != nil {
		return nil, gerrors.Wrap(err, "parse department aliases")
	}
	return aliases, nil
}

func (r *AliasRepository) Save(ctx context.Context, aliases map[string]string) error {
	data, err := json.MarshalIndent(aliases, "", "  ")
	if err != nil {
		return gerrors.Wrap(err, "encode department aliases")
	}
	return writeFileAtomic(r.path(), data)
}
