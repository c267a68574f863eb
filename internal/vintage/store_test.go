package vintage

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/econviz/xplorts/internal/dataset"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "vintages.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sample(t *testing.T, csv string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	return ds
}

func TestAddGetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	ds := sample(t, "date,gva\n2019,100\n2020,110\n")

	require.NoError(t, s.Add(ctx, "2026-08", ds))

	got, err := s.Get(ctx, "2026-08")
	require.NoError(t, err)
	assert.Equal(t, ds.Columns(), got.Columns())
	assert.Equal(t, ds.Len(), got.Len())

	vals, err := got.Numeric("gva")
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 110}, vals)
}

func TestAddReplacesSameName(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, "latest", sample(t, "date,v\n2019,1\n")))
	require.NoError(t, s.Add(ctx, "latest", sample(t, "date,v\n2019,1\n2020,2\n")))

	got, err := s.Get(ctx, "latest")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())

	infos, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, 2, infos[0].Rows)
}

func TestAddEmptyName(t *testing.T) {
	s := openTestStore(t)
	err := s.Add(context.Background(), "", sample(t, "date\n2019\n"))
	assert.Error(t, err)
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"nope"`)
}

func TestList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Add(ctx, "a", sample(t, "date\n2019\n")))
	require.NoError(t, s.Add(ctx, "b", sample(t, "date\n2019\n2020\n")))

	infos, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	names := []string{infos[0].Name, infos[1].Name}
	assert.ElementsMatch(t, []string{"a", "b"}, names)
	for _, info := range infos {
		assert.False(t, info.StoredAt.IsZero())
	}
}

func TestExport(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Add(ctx, "snap", sample(t, "date,v\n2019,1\n")))

	csv, err := s.Export(ctx, "snap")
	require.NoError(t, err)
	assert.Equal(t, "date,v\n2019,1\n", csv)
}
