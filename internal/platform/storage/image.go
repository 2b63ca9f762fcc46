// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage persists recipe images.

Two backends implement [ImageStore]:

  - DiskStore writes under a local directory served at /images.
  - S3Store writes to an S3-compatible bucket.

Uploads are inspected before they reach a backend: the content type is
sniffed from the bytes, never taken from the client.
*/
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Backend names, also used as metric labels.
const (
	BackendDisk = "disk"
	BackendS3   = "s3"
)

// sniffLen is how many bytes [http.DetectContentType] looks at.
const sniffLen = 512

var (
	// ErrUnsupportedType is returned for anything that is not a known image format.
	ErrUnsupportedType = errors.New("storage: unsupported image type")

	// ErrTooLarge is returned when an upload exceeds the configured limit.
	ErrTooLarge = errors.New("storage: image too large")
)

// allowedTypes maps sniffed content types to the extension stored on disk.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Upload is an image received from a client.
type Upload struct {
	// Filename is the client supplied name. Only used to build a readable object name.
	Filename string
	// ContentType and Ext are filled by [Inspect].
	ContentType string
	Ext         string
	// Body holds at most the configured number of bytes once inspected.
	Body io.Reader
}

// ImageStore saves and removes recipe images.
//
// Save returns the reference persisted on the recipe. Delete accepts a
// reference previously returned by Save and treats a missing object as done.
type ImageStore interface {
	Save(ctx context.Context, upload Upload) (string, error)
	Delete(ctx context.Context, ref string) error
	Backend() string
}

// Inspect buffers the upload (bounded by maxBytes), sniffs its type and
// rejects anything that is not an accepted image.
func Inspect(upload Upload, maxBytes int64) (Upload, error) {
	data, err := io.ReadAll(io.LimitReader(upload.Body, maxBytes+1))
	if err != nil {
		return Upload{}, fmt.Errorf("storage: read upload: %w", err)
	}

	if int64(len(data)) > maxBytes {
		return Upload{}, ErrTooLarge
	}

	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}

	contentType := http.DetectContentType(head)
	ext, ok := allowedTypes[contentType]
	if !ok {
		return Upload{}, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	upload.ContentType = contentType
	upload.Ext = ext
	upload.Body = bytes.NewReader(data)

	return upload, nil
}
