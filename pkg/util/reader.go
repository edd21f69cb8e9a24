// Package util provides input-opening helpers for event logs.
package util

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/procflow/procflow/pkg/parser"
)

// OpenInput opens an event log source: "-" for stdin, s3://bucket/key for
// an S3 object, anything else as a local file. Gzip-compressed inputs are
// decompressed transparently by extension. Returns the reader and a
// cleanup function the caller must invoke when done.
func OpenInput(ctx context.Context, path string) (io.Reader, func() error, error) {
	if path == "-" {
		return os.Stdin, func() error { return nil }, nil
	}

	if strings.HasPrefix(path, "s3://") {
		body, err := openS3(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		return wrapGzip(path, body, body.Close)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return wrapGzip(path, file, file.Close)
}

func wrapGzip(path string, r io.Reader, closer func() error) (io.Reader, func() error, error) {
	if !IsGzip(path) {
		return r, closer, nil
	}
	gz, err := gzip.NewReader(r)
	if err != nil {
		closer()
		return nil, nil, err
	}
	cleanup := func() error {
		gz.Close()
		return closer()
	}
	return gz, cleanup, nil
}

// openS3 fetches an object from S3 using the ambient AWS credential chain.
func openS3(ctx context.Context, uri string) (io.ReadCloser, error) {
	bucket, key, err := SplitS3URI(uri)
	if err != nil {
		return nil, err
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("util: load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("util: get s3://%s/%s: %w", bucket, key, err)
	}
	return out.Body, nil
}

// SplitS3URI splits s3://bucket/key into its parts.
func SplitS3URI(uri string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(uri, "s3://")
	idx := strings.IndexByte(rest, '/')
	if idx <= 0 || idx == len(rest)-1 {
		return "", "", fmt.Errorf("util: invalid s3 uri %q", uri)
	}
	return rest[:idx], rest[idx+1:], nil
}

// IsGzip reports whether the path indicates gzip compression.
func IsGzip(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}

// StripCompression removes the .gz suffix from a path, if present.
func StripCompression(path string) string {
	if IsGzip(path) {
		return path[:len(path)-3]
	}
	return path
}

// DetectFormat guesses the input format from the file extension, after
// stripping compression. Stdin defaults to CSV.
func DetectFormat(path string) parser.Format {
	if path == "-" {
		return parser.FormatCSV
	}
	switch strings.ToLower(filepath.Ext(StripCompression(path))) {
	case ".csv":
		return parser.FormatCSV
	case ".xes":
		return parser.FormatXES
	case ".jsonl", ".json", ".ndjson":
		return parser.FormatJSONL
	case ".xlsx":
		return parser.FormatXLSX
	default:
		return parser.FormatUnknown
	}
}
