// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/taibuivan/recipebox/internal/platform/constants"
	"github.com/taibuivan/recipebox/pkg/slug"
)

// DiskStore keeps images in a local directory.
//
// Files are named "<unix-ms>-<slug><ext>" and referenced as "/images/<name>".
type DiskStore struct {
	dir string
	now func() time.Time
}

// NewDiskStore creates the directory if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create image dir: %w", err)
	}
	return &DiskStore{dir: dir, now: time.Now}, nil
}

// Dir is the directory served under /images.
func (store *DiskStore) Dir() string { return store.dir }

// Backend implements [ImageStore].
func (store *DiskStore) Backend() string { return BackendDisk }

// Save implements [ImageStore].
func (store *DiskStore) Save(ctx context.Context, upload Upload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := store.fileName(upload)

	file, err := os.OpenFile(filepath.Join(store.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("storage: create image file: %w", err)
	}

	if _, err := io.Copy(file, upload.Body); err != nil {
		_ = file.Close()
		_ = os.Remove(file.Name())
		return "", fmt.Errorf("storage: write image file: %w", err)
	}

	if err := file.Close(); err != nil {
		return "", fmt.Errorf("storage: close image file: %w", err)
	}

	return path.Join(constants.ImageRoutePrefix, name), nil
}

// Delete implements [ImageStore]. Only the base name of ref is used so a
// stored reference can never point outside the directory.
func (store *DiskStore) Delete(_ context.Context, ref string) error {
	name := path.Base(ref)
	if name == "." || name == "/" || name == "" {
		return nil
	}

	err := os.Remove(filepath.Join(store.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: remove image file: %w", err)
	}
	return nil
}

func (store *DiskStore) fileName(upload Upload) string {
	base := strings.TrimSuffix(filepath.Base(upload.Filename), filepath.Ext(upload.Filename))
	stem := slug.From(base)
	if stem == "" {
		stem = "image"
	}
	return fmt.Sprintf("%d-%s%s", store.now().UnixMilli(), stem, upload.Ext)
}
