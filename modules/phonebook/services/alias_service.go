package services

import (
	"context"
	"strings"

	"github.com/yealink-tools/phonebook-admin/modules/phonebook/domain/directory"
)

// AliasService manages the department alias registry. The registry outlives
// contacts: deleting every contact of a department does not remove its alias.
type AliasService struct {
	registry directory.AliasRegistry
}

func NewAliasService(registry directory.AliasRegistry) *AliasService {
	return &AliasService{registry: registry}
}

func (s *AliasService) Load(ctx context.Context) (map[string]string, error) {
	return s.registry.Load(ctx)
}

// ReplaceAll rebuilds the registry from parallel name/alias slices, filling
// blank aliases with the default suggestion.
func (s *AliasService) ReplaceAll(ctx context.Context, names, aliases []string) error {
	return s.registry.Save(ctx, buildAliasMap(nil, names, aliases))
}

// MergeAndSave overlays submitted entries on top of the current registry,
// used by the import wizard so unrelated departments keep their aliases.
func (s *AliasService) MergeAndSave(ctx context.Context, names, aliases []string) (map[string]string, error) {
	current, err := s.registry.Load(ctx)
	if err != nil {
		return nil, err
	}
	merged := buildAliasMap(current, names, aliases)
	if err := s.registry.Save(ctx, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// Suggestions returns the alias to prefill for each department: the persisted
// one when present, the heuristic otherwise.
func (s *AliasService) Suggestions(ctx context.Context, departments []string) (map[string]string, error) {
	current, err := s.registry.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(departments))
	for _, dept := range departments {
		if alias, ok := current[dept]; ok && strings.TrimSpace(alias) != "" {
			out[dept] = alias
			continue
		}
		out[dept] = directory.SuggestAlias(dept)
	}
	return out, nil
}

func buildAliasMap(base map[string]string, names, aliases []string) map[string]string {
	out := make(map[string]string, len(base)+len(names))
	for name, alias := range base {
		out[name] = alias
	}
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		alias := ""
		if i < len(aliases) {
			alias = strings.TrimSpace(aliases[i])
		}
		if alias == "" {
			alias = directory.SuggestAlias(name)
		}
		out[name] = alias
	}
	return out
}
