// Copyright (c) 2026 Fablery. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media_test

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/fablery/internal/platform/media"
)

/*
TestStore_SavePNG verifies the on-disk layout and the returned public URL.
*/
func TestStore_SavePNG(t *testing.T) {
	root := t.TempDir()

	store, err := media.NewStore(root, "/media/")
	require.NoError(t, err)

	url, err := store.SavePNG("story-123", "cover", []byte{0x89, 0x50, 0x4e, 0x47})
	require.NoError(t, err)

	// 1. URL uses the base without a double slash
	assert.Equal(t, "/media/story-123/cover.png", url)

	// 2. File lands in the per-story directory
	data, err := os.ReadFile(filepath.Join(root, "story-123", "cover.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 0x50, 0x4e, 0x47}, data)
}

/*
TestStore_SaveBase64PNG verifies decoding and rejection of malformed input.
*/
func TestStore_SaveBase64PNG(t *testing.T) {
	store, err := media.NewStore(t.TempDir(), "/media")
	require.NoError(t, err)

	encoded := base64.StdEncoding.EncodeToString([]byte("png-bytes"))

	url, err := store.SaveBase64PNG("story-456", "page-01", encoded)
	require.NoError(t, err)
	assert.Equal(t, "/media/story-456/page-01.png", url)

	_, err = store.SaveBase64PNG("story-456", "page-02", "!!not-base64!!")
	assert.Error(t, err)
}
