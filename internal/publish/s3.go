package publish

import (
	"bytes"
	"context"
	"log/slog"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/afero"

	"github.com/vango-dev/hotweb/internal/errors"
)

// PutObjectAPI is the part of the S3 client used for uploads.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewS3Client creates an S3 client from the default AWS credential chain.
// An empty region keeps the region from the environment.
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.New("E502").WithDetail("load AWS configuration").Wrap(err)
	}
	return s3.NewFromConfig(cfg), nil
}

// S3Options configures an S3Publisher.
type S3Options struct {
	Bucket string

	// Prefix is prepended to every object key.
	Prefix string

	// Fs is read from. Defaults to the OS filesystem.
	Fs afero.Fs

	Logger *slog.Logger
}

// S3Publisher uploads exported files to a bucket.
type S3Publisher struct {
	client PutObjectAPI
	bucket string
	prefix string
	fs     afero.Fs
	logger *slog.Logger
}

// RequireBucket fails with E503 when bucket is blank.
func RequireBucket(bucket string) error {
	if strings.TrimSpace(bucket) == "" {
		return errors.New("E503").WithSuggestion("Set publish.bucket in the config or pass --bucket")
	}
	return nil
}

// NewS3Publisher creates a publisher. It fails when no bucket is set.
func NewS3Publisher(client PutObjectAPI, opts S3Options) (*S3Publisher, error) {
	if err := RequireBucket(opts.Bucket); err != nil {
		return nil, err
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &S3Publisher{
		client: client,
		bucket: opts.Bucket,
		prefix: strings.Trim(opts.Prefix, "/"),
		fs:     opts.Fs,
		logger: opts.Logger.With("component", "publish", "bucket", opts.Bucket),
	}, nil
}

// Key returns the object key for a file relative to the export directory.
func (p *S3Publisher) Key(rel string) string {
	rel = strings.TrimLeft(filepath.ToSlash(rel), "/")
	if p.prefix == "" {
		return rel
	}
	return path.Join(p.prefix, rel)
}

// Publish uploads files, given relative to dir, and returns how many were
// uploaded. It stops at the first failure.
func (p *S3Publisher) Publish(ctx context.Context, dir string, files []string) (int, error) {
	uploaded := 0
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return uploaded, err
		}

		data, err := afero.ReadFile(p.fs, filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return uploaded, errors.New("E502").WithDetailf("read %s", rel).Wrap(err)
		}

		key := p.Key(rel)
		_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:       aws.String(p.bucket),
			Key:          aws.String(key),
			Body:         bytes.NewReader(data),
			ContentType:  aws.String(ContentType(rel)),
			CacheControl: aws.String(cacheControl(rel)),
		})
		if err != nil {
			return uploaded, errors.New("E502").WithDetailf("put s3://%s/%s", p.bucket, key).Wrap(err)
		}
		uploaded++
		p.logger.Debug("uploaded", "key", key, "bytes", len(data))
	}

	p.logger.Info("published", "files", uploaded, "prefix", p.prefix)
	return uploaded, nil
}

// ContentType returns the MIME type for name, falling back to
// application/octet-stream.
func ContentType(name string) string {
	ext := strings.ToLower(path.Ext(name))
	switch ext {
	case ".html", ".htm":
		return "text/html; charset=utf-8"
	case ".mjs", ".js":
		return "text/javascript; charset=utf-8"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// HTML is revalidated on every request so a publish shows up at once.
func cacheControl(name string) string {
	if strings.HasSuffix(name, ".html") {
		return "no-cache"
	}
	return "public, max-age=3600"
}
