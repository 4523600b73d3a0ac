package blob_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkup/internal/plugins/blob"
)

func TestSaveOpenDeleteRoundTrip(t *testing.T) {
	store, err := blob.NewWithFs(afero.NewMemMapFs(), "/data/uploads")
	require.NoError(t, err)
	ctx := context.Background()

	n, err := store.Save(ctx, "chat/att-1.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)

	f, err := store.Open(ctx, "chat/att-1.png")
	require.NoError(t, err)
	body, err := io.ReadAll(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, "png-bytes", string(body))

	require.NoError(t, store.Delete(ctx, "chat/att-1.png"))
	_, err = store.Open(ctx, "chat/att-1.png")
	assert.Error(t, err)
}

func TestPathsCannotEscapeBase(t *testing.T) {
	fs := afero.NewMemMapFs()
	store, err := blob.NewWithFs(fs, "/data/uploads")
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "../../etc/passwd", strings.NewReader("nope"))
	require.NoError(t, err)

	outside, err := afero.Exists(fs, "/etc/passwd")
	require.NoError(t, err)
	assert.False(t, outside)
	inside, err := afero.Exists(fs, "/data/uploads/etc/passwd")
	require.NoError(t, err)
	assert.True(t, inside)
}
