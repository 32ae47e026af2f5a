package objectstore

import (
	"context"
	"fmt"
	"io"

	"github.com/kurin/blazer/b2"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

// b2Store keeps uploaded course files and submissions in a Backblaze B2 bucket.
type b2Store struct {
	bucket *b2.Bucket
}

var _ core.FileStore = (*b2Store)(nil)

func NewB2Store(ctx context.Context, conf core.ObjectStoreConfig) (core.FileStore, error) {
	client, err := b2.NewClient(ctx, conf.AccountID, conf.AppKey)
	if err != nil {
		return nil, errors.Wrap(err, "creating b2 client")
	}
	bucket, err := client.Bucket(ctx, conf.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, "getting b2 bucket")
	}
	return &b2Store{bucket: bucket}, nil
}

func (s *b2Store) Upload(ctx context.Context, key string, r io.Reader) (string, error) {
	w := s.bucket.Object(key).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", errors.Wrap(err, "writing object")
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrap(err, "closing object writer")
	}
	return key, nil
}

func (s *b2Store) URL(path string) string {
	return fmt.Sprintf("%s/file/%s/%s", s.bucket.BaseURL(), s.bucket.Name(), path)
}
