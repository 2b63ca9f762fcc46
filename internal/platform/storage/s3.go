// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/taibuivan/recipebox/pkg/uuidv7"
)

// S3Options configures [NewS3Store].
type S3Options struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// s3API is the subset of [*s3.Client] used by the store.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps images in an S3-compatible bucket under
// "recipes/<yyyy>/<mm>/<uuid><ext>". The object key is the reference.
type S3Store struct {
	client s3API
	bucket string
	now    func() time.Time
	newID  func() string
}

// NewS3Store builds an S3 client from opts. A custom endpoint switches to
// path-style addressing, as MinIO and R2 expect.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	loadOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" {
		loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Store(client, opts.Bucket), nil
}

func newS3Store(client s3API, bucket string) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		now:    time.Now,
		newID:  uuidv7.New,
	}
}

// Backend implements [ImageStore].
func (store *S3Store) Backend() string { return BackendS3 }

// Save implements [ImageStore]. The upload body must be seekable, which
// [Inspect] guarantees.
func (store *S3Store) Save(ctx context.Context, upload Upload) (string, error) {
	now := store.now().UTC()
	key := fmt.Sprintf("recipes/%04d/%02d/%s%s", now.Year(), int(now.Month()), store.newID(), upload.Ext)

	_, err := store.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(store.bucket),
		Key:         aws.String(key),
		Body:        upload.Body,
		ContentType: aws.String(upload.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("storage: put object %q: %w", key, err)
	}

	return key, nil
}

// Delete implements [ImageStore]. S3 reports success for missing keys.
func (store *S3Store) Delete(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}

	_, err := store.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		return fmt.Errorf("storage: delete object %q: %w", ref, err)
	}
	return nil
}
