package register

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// Sink stores an exported register under name and returns where it went.
type Sink interface {
	Put(ctx context.Context, name string, body []byte) (string, error)
}

// fileSink writes registers into a local directory.
type fileSink struct {
	dir    string
	logger zerolog.Logger
}

// NewFileSink creates a sink that writes under dir, creating it if needed.
func NewFileSink(dir string, logger zerolog.Logger) Sink {
	return &fileSink{
		dir:    dir,
		logger: logger.With().Str("component", "register-file-sink").Logger(),
	}
}

// Put writes body to dir/name. An existing register for the same day is replaced.
func (s *fileSink) Put(ctx context.Context, name string, body []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.logger.Error().Err(err).Str("dir", s.dir).Msg("failed to create register directory")
		return "", fmt.Errorf("failed to create register directory %s: %w", s.dir, err)
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		s.logger.Error().Err(err).Str("file", tmp).Msg("failed to write register file")
		return "", fmt.Errorf("failed to write register file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		s.logger.Error().Err(err).Str("file", path).Msg("failed to move register file into place")
		return "", fmt.Errorf("failed to move register file %s: %w", path, err)
	}

	s.logger.Info().Str("file", path).Int("bytes", len(body)).Msg("register written to local file system")
	return path, nil
}

// PutObjectAPI is the part of the S3 client the sink needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// s3Sink uploads registers to an S3 bucket.
type s3Sink struct {
	client PutObjectAPI
	bucket string
	prefix string
	logger zerolog.Logger
}

// NewS3Sink creates an S3 sink using the default AWS credential chain.
func NewS3Sink(ctx context.Context, bucket, region, prefix string, logger zerolog.Logger) (Sink, error) {
	logger = logger.With().Str("component", "register-s3-sink").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Str("prefix", prefix).
		Msg("S3 register sink initialised")

	return NewS3SinkWithClient(s3.NewFromConfig(cfg), bucket, prefix, logger), nil
}

// NewS3SinkWithClient creates an S3 sink around an existing client.
func NewS3SinkWithClient(client PutObjectAPI, bucket, prefix string, logger zerolog.Logger) Sink {
	return &s3Sink{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger.With().Str("component", "register-s3-sink").Logger(),
	}
}

// Put uploads body to prefix+name and returns the s3:// URI.
func (s *s3Sink) Put(ctx context.Context, name string, body []byte) (string, error) {
	key := s.prefix + name

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:          aws.String(s.bucket),
		Key:             aws.String(key),
		Body:            bytes.NewReader(body),
		ContentLength:   aws.Int64(int64(len(body))),
		ContentType:     aws.String("application/x-ndjson"),
		ContentEncoding: aws.String("gzip"),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", key).
			Msg("failed to put register object")
		return "", fmt.Errorf("failed to put object to S3 (bucket=%s, key=%s): %w", s.bucket, key, err)
	}

	s.logger.Info().
		Str("bucket", s.bucket).
		Str("key", key).
		Int("bytes", len(body)).
		Msg("register uploaded to S3")

	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

// fallbackSink tries S3 first and falls back to the local directory.
type fallbackSink struct {
	s3Sink    Sink
	fileSink  Sink
	s3Enabled bool
	logger    zerolog.Logger
}

// NewFallbackSink creates a sink that prefers S3 when enabled.
// If s3Sink is nil, only the file sink is used.
func NewFallbackSink(s3Sink, fileSink Sink, s3Enabled bool, logger zerolog.Logger) Sink {
	return &fallbackSink{
		s3Sink:    s3Sink,
		fileSink:  fileSink,
		s3Enabled: s3Enabled,
		logger:    logger.With().Str("component", "register-fallback-sink").Logger(),
	}
}

func (s *fallbackSink) Put(ctx context.Context, name string, body []byte) (string, error) {
	if s.s3Enabled && s.s3Sink != nil {
		location, err := s.s3Sink.Put(ctx, name, body)
		if err == nil {
			return location, nil
		}

		s.logger.Warn().
			Err(err).
			Str("name", name).
			Msg("failed to upload register to S3, falling back to local file system")
	} else {
		s.logger.Debug().
			Bool("s3_enabled", s.s3Enabled).
			Bool("has_s3_sink", s.s3Sink != nil).
			Msg("S3 disabled or not configured, using local file system")
	}

	return s.fileSink.Put(ctx, name, body)
}
