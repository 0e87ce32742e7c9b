package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/easymix/docx"
	"github.com/viant/easymix/document"
)

// ErrNotFound is returned when a location holds no object.
var ErrNotFound = errors.New("not found")

// Store loads and persists documents and other artifacts on any afs location
// (local paths, file://, gs://, s3://).
type Store struct {
	fs      afs.Service
	retries int
	backoff time.Duration
}

// Option customizes a Store.
type Option func(s *Store)

// WithRetries sets how many times a failed transfer is retried and the initial
// pause between attempts, doubled after every failure.
func WithRetries(retries int, backoff time.Duration) Option {
	return func(s *Store) {
		s.retries = retries
		s.backoff = backoff
	}
}

// WithService sets the storage service.
func WithService(fs afs.Service) Option {
	return func(s *Store) { s.fs = fs }
}

// New creates a store backed by the default afs service.
func New(options ...Option) *Store {
	s := &Store{fs: afs.New(), retries: 2, backoff: 200 * time.Millisecond}
	for _, option := range options {
		option(s)
	}
	return s
}

// Load downloads the object at URL.
func (s *Store) Load(ctx context.Context, URL string) ([]byte, error) {
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", URL, err)
	}
	if !exists {
		return nil, fmt.Errorf("%s: %w", URL, ErrNotFound)
	}
	var data []byte
	err = s.retry(ctx, func() error {
		var err error
		data, err = s.fs.DownloadWithURL(ctx, URL)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", URL, err)
	}
	return data, nil
}

// Open loads and decodes the document at URL.
func (s *Store) Open(ctx context.Context, URL string) (*document.Document, error) {
	data, err := s.Load(ctx, URL)
	if err != nil {
		return nil, err
	}
	doc, err := docx.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", URL, err)
	}
	return doc, nil
}

// Save encodes doc and uploads it to URL.
func (s *Store) Save(ctx context.Context, doc *document.Document, URL string) error {
	data, err := docx.Encode(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", URL, err)
	}
	return s.Upload(ctx, URL, data)
}

// Upload writes data to a temporary object next to URL and moves it into
// place, so readers never observe a partial object.
func (s *Store) Upload(ctx context.Context, URL string, data []byte) error {
	tmp := URL + ".tmp"
	err := s.retry(ctx, func() error {
		return s.fs.Upload(ctx, tmp, file.DefaultFileOsMode, bytes.NewReader(data))
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", tmp, err)
	}
	if err := s.fs.Move(ctx, tmp, URL); err == nil {
		return nil
	}
	defer func() { _ = s.fs.Delete(ctx, tmp) }()
	err = s.retry(ctx, func() error {
		return s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data))
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", URL, err)
	}
	return nil
}

// Reset removes everything under URL; a missing location is not an error.
func (s *Store) Reset(ctx context.Context, URL string) error {
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil || !exists {
		return err
	}
	if err := s.fs.Delete(ctx, URL); err != nil {
		return fmt.Errorf("delete %s: %w", URL, err)
	}
	return nil
}

// retry runs fn until it succeeds, the retries are exhausted or ctx is done.
func (s *Store) retry(ctx context.Context, fn func() error) error {
	backoff := s.backoff
	var err error
	for attempt := 0; ; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt >= s.retries {
			return err
		}
		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}
