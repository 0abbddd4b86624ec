package blob

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSStoreUpload(t *testing.T) {
	root := t.TempDir()
	s, err := NewFSStore(root)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Upload(ctx, "p1/e1/raio-x.jpg", "image/jpeg", strings.NewReader("img")))

	b, err := os.ReadFile(filepath.Join(root, "p1", "e1", "raio-x.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "img", string(b))

	err = s.Upload(ctx, "p1/e1/raio-x.jpg", "image/jpeg", strings.NewReader("again"))
	assert.Error(t, err)
}

func TestUploadRejectsBadPaths(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for _, p := range []string{"", "/abs", "p1/../x", "p1//x"} {
		err := s.Upload(ctx, p, "", strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidPath, p)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Upload(context.Background(), "p1/e1/a.pdf", "application/pdf", strings.NewReader("pdf")))

	b, ok := s.Get("p1/e1/a.pdf")
	require.True(t, ok)
	assert.Equal(t, "pdf", string(b))
}
