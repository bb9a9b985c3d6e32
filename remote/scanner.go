package remote

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/twardoch/fontgrep"
	"github.com/twardoch/fontgrep/font"
	"github.com/twardoch/fontgrep/font/opentype"
	"github.com/twardoch/fontgrep/log"
	"github.com/twardoch/fontgrep/query"
)

// S3Scanner searches fonts stored in an S3-compatible bucket. Objects are
// fetched and parsed on every search; remote scans never touch the local
// metadata cache.
type S3Scanner struct {
	client *minio.Client
	bucket string

	workers   int
	log       *log.Logger
	extractor font.Extractor
}

// Option configures an S3Scanner.
type Option func(*S3Scanner)

// WithWorkers sets the download/extraction pool size.
func WithWorkers(n int) Option {
	return func(s *S3Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLogger replaces the default discard logger.
func WithLogger(l *log.Logger) Option {
	return func(s *S3Scanner) {
		if l != nil {
			s.log = l
		}
	}
}

// WithExtractor replaces the default OpenType extractor.
func WithExtractor(e font.Extractor) Option {
	return func(s *S3Scanner) {
		if e != nil {
			s.extractor = e
		}
	}
}

// NewS3Scanner connects to an S3-compatible endpoint.
func NewS3Scanner(endpoint, bucket, accessKey, secretKey string, useSSL bool, opts ...Option) (*S3Scanner, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("fontgrep: s3 client: %w", err)
	}

	s := &S3Scanner{
		client:    client,
		bucket:    bucket,
		workers:   runtime.NumCPU(),
		log:       log.Discard(),
		extractor: opentype.NewExtractor(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Open verifies the bucket exists before any search runs.
func (s *S3Scanner) Open(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("fontgrep: s3 bucket check: %w", err)
	}
	if !exists {
		return fmt.Errorf("fontgrep: s3 bucket %q does not exist", s.bucket)
	}
	return nil
}

// Search emits every font object under prefix matching crit. Per-object
// failures are logged and skipped; a listing failure aborts the search.
func (s *S3Scanner) Search(ctx context.Context, prefix string, crit *query.Criteria, sink fontgrep.ResultSink) error {
	if crit == nil {
		return fontgrep.ErrNoCriteria
	}
	if sink == nil {
		return fontgrep.ErrNoSink
	}

	keys := make(chan string, 256)

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for key := range keys {
				if ctx.Err() != nil {
					continue
				}
				s.process(ctx, key, crit, sink)
			}
		}()
	}

	var listErr error
	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})
	for object := range objects {
		if object.Err != nil {
			listErr = fmt.Errorf("fontgrep: s3 listing: %w", object.Err)
			break
		}
		if !font.IsFontPath(object.Key) {
			continue
		}
		select {
		case keys <- object.Key:
		case <-ctx.Done():
		}
	}
	close(keys)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	if listErr != nil {
		return listErr
	}
	return sink.Flush()
}

func (s *S3Scanner) process(ctx context.Context, key string, crit *query.Criteria, sink fontgrep.ResultSink) {
	raw, err := s.fetch(ctx, key)
	if err != nil {
		s.log.Warn("skipping %s: %v", key, err)
		return
	}

	meta, err := s.extractor.Extract(raw)
	if err != nil {
		s.log.Warn("skipping %s: %v", key, err)
		return
	}

	if query.Match(crit, meta) {
		if err := sink.Emit(key); err != nil {
			s.log.Error("emit failed for %s: %v", key, err)
		}
	}
}

func (s *S3Scanner) fetch(ctx context.Context, key string) ([]byte, error) {
	object, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer object.Close()

	return io.ReadAll(object)
}
