package media

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Store uploads user media to an S3 bucket and hands back public URLs.
type Store struct {
	uploader *manager.Uploader
	bucket   string
	region   string
}

func NewStore(ctx context.Context, region, bucket string) (*Store, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %v", err)
	}

	client := s3.NewFromConfig(cfg)
	return &Store{
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		region:   region,
	}, nil
}

// Asset is the stored result of an upload.
type Asset struct {
	URL string `json:"url"`
	Key string `json:"assetId"`
}

// Upload stores the in-memory payload under a fresh key and returns the
// public URL plus the opaque asset key.
func (s *Store) Upload(ctx context.Context, filename, contentType string, data []byte) (*Asset, error) {
	key := "uploads/" + uuid.NewString() + filepath.Ext(filename)

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object: %v", err)
	}

	return &Asset{
		URL: fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, url.PathEscape(key)),
		Key: key,
	}, nil
}
