package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yealink-tools/phonebook-admin/modules/phonebook/infrastructure/persistence"
)

func newAliasService(t *testing.T) *AliasService {
	t.Helper()
	return NewAliasService(persistence.NewAliasRepository(t.TempDir()))
}

func TestAliasService_ReplaceAllFillsBlanksWithSuggestions(t *testing.T) {
	svc := newAliasService(t)
	ctx := context.Background()

	err := svc.ReplaceAll(ctx,
		[]string{"Human Resources Department", "Finance", "  ", "Sales Office"},
		[]string{"", "FIN", "ignored", "SO"},
	)
	require.NoError(t, err)

	got, err := svc.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"Human Resources Department": "HRD",
		"Finance":                    "FIN",
		"Sales Office":               "SO",
	}, got)
}

func TestAliasService_MergeKeepsUnrelatedEntries(t *testing.T) {
	svc := newAliasService(t)
	ctx := context.Background()

	require.NoError(t, svc.ReplaceAll(ctx, []string{"Finance"}, []string{"FIN"}))

	merged, err := svc.MergeAndSave(ctx, []string{"Warehouse"}, []string{"WH"})
	require.NoError(t, err)
	require.Equal(t, "FIN", merged["Finance"])
	require.Equal(t, "WH", merged["Warehouse"])
}

func TestAliasService_SuggestionsPreferPersisted(t *testing.T) {
	svc := newAliasService(t)
	ctx := context.Background()

	require.NoError(t, svc.ReplaceAll(ctx, []string{"Human Resources Department"}, []string{"People"}))

	got, err := svc.Suggestions(ctx, []string{"Human Resources Department", "Quality Assurance"})
	require.NoError(t, err)
	require.Equal(t, "People", got["Human Resources Department"])
	require.Equal(t, "QA", got["Quality Assurance"])
}
