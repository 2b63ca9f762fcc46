// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API re-exports the client surface for fakes.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

func NewS3StoreWithClient(client S3API, bucket string, now func() time.Time, newID func() string) *S3Store {
	store := newS3Store(client, bucket)
	store.now = now
	store.newID = newID
	return store
}

func (store *DiskStore) SetClock(now func() time.Time) { store.now = now }
