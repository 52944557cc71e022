package snapshot

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// expiryMetadataKey is the object metadata key carrying the snapshot expiry.
const expiryMetadataKey = "pathline-expires-at"

// S3Store persists snapshots as S3 objects.
//
// Example:
//
//	cfg, _ := config.LoadDefaultConfig(context.Background())
//	store := snapshot.NewS3Store(s3.NewFromConfig(cfg), "my-bucket", "snapshots/")
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Store creates an S3-backed snapshot store.
// The prefix is prepended to every object key (e.g. "snapshots/").
func NewS3Store(client *s3.Client, bucket, prefix string) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

func (s *S3Store) key(sessionID string) string {
	return s.prefix + sessionID + ".snapshot.json"
}

// Save uploads the snapshot, recording the expiry as object metadata.
func (s *S3Store) Save(ctx context.Context, sessionID string, data []byte, expiresAt time.Time) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(sessionID)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	}
	if !expiresAt.IsZero() {
		input.Metadata = map[string]string{
			expiryMetadataKey: expiresAt.UTC().Format(time.RFC3339),
		}
	}

	_, err := s.client.PutObject(ctx, input)
	return err
}

// Load downloads the snapshot, returning (nil, nil) when the object is
// missing or its recorded expiry has passed.
func (s *S3Store) Load(ctx context.Context, sessionID string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(sessionID)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, nil
		}
		return nil, err
	}
	defer out.Body.Close()

	if raw, ok := out.Metadata[expiryMetadataKey]; ok {
		if expiresAt, perr := time.Parse(time.RFC3339, raw); perr == nil && time.Now().After(expiresAt) {
			return nil, nil
		}
	}

	return io.ReadAll(out.Body)
}

// Delete removes the snapshot object. S3 deletes are idempotent.
func (s *S3Store) Delete(ctx context.Context, sessionID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(sessionID)),
	})
	return err
}

// Close is a no-op; the caller owns the S3 client.
func (s *S3Store) Close() error {
	return nil
}
