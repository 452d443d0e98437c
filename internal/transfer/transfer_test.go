package transfer

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/itodo/internal/model"
	"github.com/nhle/itodo/internal/store"
	"github.com/nhle/itodo/tests/testutil"
)

func seed(t *testing.T, s store.Store) model.List {
	t.Helper()
	ctx := context.Background()

	work, err := s.CreateList(ctx, model.CreateListInput{Name: "Work"})
	require.NoError(t, err)
	due := "2024-06-30"
	_, err = s.CreateTask(ctx, model.CreateTaskInput{Title: "report", ListID: work.ID, DueDate: &due})
	require.NoError(t, err)
	return *work
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatForPath("backup.yaml"))
	assert.Equal(t, FormatYAML, FormatForPath("BACKUP.YML"))
	assert.Equal(t, FormatJSON, FormatForPath("backup.json"))
	assert.Equal(t, FormatJSON, FormatForPath("backup"))
}

func TestExportToDirUsesTimestampedName(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	seed(t, s)

	fs := afero.NewMemMapFs()
	tr := NewWithFs(s, fs)
	tr.now = func() time.Time { return time.Date(2024, 6, 1, 14, 5, 9, 0, time.Local) }

	path, err := tr.ExportToDir(ctx, "/data", nil)
	require.NoError(t, err)
	assert.Equal(t, "/data/itodo-export-2024-06-01_140509.json", path)

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	doc, err := store.DecodeExportDocument(data)
	require.NoError(t, err)
	assert.Len(t, doc.Tasks, 1)
	assert.Len(t, doc.Lists, 2)
}

func TestExportImportFileRoundTrip(t *testing.T) {
	for _, path := range []string{"/backups/out.json", "/backups/out.yaml"} {
		t.Run(path, func(t *testing.T) {
			ctx := context.Background()
			src := testutil.NewTestStore(t)
			work := seed(t, src)

			fs := afero.NewMemMapFs()
			require.NoError(t, NewWithFs(src, fs).ExportToPath(ctx, path, &work.ID))

			dst := testutil.NewTestStore(t)
			imported, err := NewWithFs(dst, fs).ImportFile(ctx, path)
			require.NoError(t, err)
			require.Len(t, imported, 1)
			assert.Equal(t, "report", imported[0].Title)
			require.NotNil(t, imported[0].DueDate)
			assert.Equal(t, "2024-06-30", *imported[0].DueDate)

			got, err := dst.GetList(ctx, work.ID)
			require.NoError(t, err)
			assert.Equal(t, "Work", got.Name)
		})
	}
}

func TestImportFileErrors(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	fs := afero.NewMemMapFs()
	tr := NewWithFs(s, fs)

	_, err := tr.ImportFile(ctx, "/missing.json")
	assert.Error(t, err)

	require.NoError(t, afero.WriteFile(fs, "/bad.json", []byte("{not json"), 0o644))
	_, err = tr.ImportFile(ctx, "/bad.json")
	assert.ErrorIs(t, err, store.ErrSerialization)

	require.NoError(t, afero.WriteFile(fs, "/bad.yaml", []byte("version: [1"), 0o644))
	_, err = tr.ImportFile(ctx, "/bad.yaml")
	assert.ErrorIs(t, err, store.ErrSerialization)

	require.NoError(t, afero.WriteFile(fs, "/old.yaml", []byte("version: \"0.9\"\n"), 0o644))
	_, err = tr.ImportFile(ctx, "/old.yaml")
	assert.ErrorIs(t, err, store.ErrSerialization)
}
