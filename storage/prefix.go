package storage

import (
	"context"
	"io"
	"strings"
)

// WithPrefix scopes every key of s under prefix.
func WithPrefix(s Storage, prefix string) Storage {
	return &prefixed{inner: s, prefix: prefix}
}

type prefixed struct {
	inner  Storage
	prefix string
}

func (p *prefixed) Upload(ctx context.Context, key string, r io.Reader) error {
	return p.inner.Upload(ctx, p.prefix+key, r)
}

func (p *prefixed) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	return p.inner.Download(ctx, p.prefix+key)
}

func (p *prefixed) Delete(ctx context.Context, key string) error {
	return p.inner.Delete(ctx, p.prefix+key)
}

func (p *prefixed) Exists(ctx context.Context, key string) (bool, error) {
	return p.inner.Exists(ctx, p.prefix+key)
}

func (p *prefixed) List(ctx context.Context, prefix string) ([]FileInfo, error) {
	files, err := p.inner.List(ctx, p.prefix+prefix)
	if err != nil {
		return nil, err
	}
	for i := range files {
		files[i].Key = strings.TrimPrefix(files[i].Key, p.prefix)
	}
	return files, nil
}
