// Copyright (c) 2026 Fablery. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package media stores generated illustration files on local disk and maps
them to public URLs served by the API.

Layout:

	<root>/<storyID>/<name>.png

Every story owns a single directory, so wiping a story's artifacts is a
single directory removal and the filesystem never accumulates loose files.
*/
package media

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store persists binary artifacts under a root directory and builds the
// public URLs at which they are served.
type Store struct {
	root    string
	baseURL string
}

// NewStore creates a Store rooted at the given directory.
// The directory is created if it does not exist.
func NewStore(root, baseURL string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("media: failed to create root directory: %w", err)
	}

	return &Store{
		root:    root,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Root returns the filesystem directory the store writes into.
func (store *Store) Root() string {
	return store.root
}

// Check verifies the root directory still exists and is a directory.
// Used by the readiness probe; a missing root fails every generation run.
func (store *Store) Check() error {
	info, err := os.Stat(store.root)
	if err != nil {
		return fmt.Errorf("media: root directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("media: root %q is not a directory", store.root)
	}
	return nil
}

/*
SavePNG writes raw PNG bytes for a story artifact and returns its public URL.

Parameters:
  - storyID: The owning story's UUID (becomes the directory name)
  - name: Base file name without extension, e.g. "cover" or "page-03"
  - data: Raw PNG bytes

Returns:
  - string: Public URL of the stored file, e.g. "/media/<storyID>/cover.png"
  - error: Filesystem errors from directory creation or writing
*/
func (store *Store) SavePNG(storyID, name string, data []byte) (string, error) {

	// 1. Ensure the per-story directory exists
	storyDir := filepath.Join(store.root, storyID)
	if err := os.MkdirAll(storyDir, 0o755); err != nil {
		return "", fmt.Errorf("media: failed to create story directory: %w", err)
	}

	// 2. Write the file
	fileName := name + ".png"
	if err := os.WriteFile(filepath.Join(storyDir, fileName), data, 0o644); err != nil {
		return "", fmt.Errorf("media: failed to write %s: %w", fileName, err)
	}

	return store.baseURL + "/" + storyID + "/" + fileName, nil
}

/*
SaveBase64PNG decodes a base64-encoded PNG and stores it via [Store.SavePNG].

Returns:
  - string: Public URL of the stored file
  - error: Decoding or filesystem errors
*/
func (store *Store) SaveBase64PNG(storyID, name, encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("media: invalid base64 image data: %w", err)
	}
	return store.SavePNG(storyID, name, data)
}
