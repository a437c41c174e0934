package catalog

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3 is the part of the S3 client the archive needs.
type S3 interface {
	PutObject(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archive keeps a copy of every downloaded catalog file in a bucket.
type Archive struct {
	S3     S3
	Bucket string
	Prefix string
}

func NewArchive(client S3, bucket string) *Archive {
	return &Archive{S3: client, Bucket: bucket, Prefix: "default-cards"}
}

// Store uploads the file at path and returns the object key.
func (a *Archive) Store(ctx context.Context, path string, at time.Time) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	key := ArchiveKey(a.Prefix, at)
	_, err = a.S3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.Bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", a.Bucket, key, err)
	}
	return key, nil
}
