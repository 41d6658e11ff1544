package vision

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/lifeplan/internal/models"
	"github.com/julianstephens/lifeplan/internal/storage"
)

func TestNewImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beach.png")
	require.NoError(t, os.WriteFile(path, []byte{0x89, 'P', 'N', 'G'}, 0o600))

	img, err := NewImage(path, "")
	require.NoError(t, err)
	assert.Equal(t, "beach.png", img.Name)
	assert.NotEmpty(t, img.ID)

	data, err := base64.StdEncoding.DecodeString(img.ImageData)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)

	named, err := NewImage(path, "  Dream house ")
	require.NoError(t, err)
	assert.Equal(t, "Dream house", named.Name)
	assert.NotEqual(t, img.ID, named.ID)
}

func TestNewImage_Errors(t *testing.T) {
	_, err := NewImage(filepath.Join(t.TempDir(), "missing.png"), "")
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.png")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, err = NewImage(empty, "")
	assert.Error(t, err)
}

func TestFind(t *testing.T) {
	images := []models.VisionImage{
		{ID: "abc123", Name: "one"},
		{ID: "abd456", Name: "two"},
	}

	img, err := Find(images, "abc")
	require.NoError(t, err)
	assert.Equal(t, "one", img.Name)

	img, err = Find(images, "abd456")
	require.NoError(t, err)
	assert.Equal(t, "two", img.Name)

	_, err = Find(images, "ab")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = Find(images, "zzz")
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	_, err = Find(images, " ")
	assert.Error(t, err)
}
