package aws

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"xmlstore/core"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sirupsen/logrus"
)

// Options selects the bucket and key prefix documents live under. Endpoint
// is set for S3-compatible services such as MinIO.
type Options struct {
	Bucket   string
	Prefix   string
	Endpoint string
}

// API is the subset of the S3 client the store uses.
type API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	s3.ListObjectsV2APIClient
}

type documentStore struct {
	s3Client API
	bucket   string // Name of the S3 bucket
	prefix   string
}

func NewDocumentStore(ctx context.Context, opts Options) (core.DocumentStore, error) {
	if opts.Bucket == "" {
		return nil, errors.New("s3 bucket name is empty")
	}
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewDocumentStoreWithClient(s3Client, opts), nil
}

// NewDocumentStoreWithClient builds a store over an existing client.
func NewDocumentStoreWithClient(client API, opts Options) core.DocumentStore {
	prefix := strings.Trim(opts.Prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &documentStore{
		s3Client: client,
		bucket:   opts.Bucket,
		prefix:   prefix,
	}
}

func (s *documentStore) Location() string {
	return "s3://" + s.bucket + "/" + s.prefix
}

func (s *documentStore) key(name string) string {
	return s.prefix + name
}

func (s *documentStore) Save(ctx context.Context, document *core.Document) (string, error) {
	key := s.key(document.Name)
	log := logrus.WithFields(logrus.Fields{
		"filename": document.Name,
		"bucket":   s.bucket,
		"key":      key,
	})

	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(document.Content),
		ContentType: aws.String("application/xml"),
	})
	if err != nil {
		log.WithField("error", err).Error("Failed to upload document")
		return "", fmt.Errorf("failed to upload document: %w", err)
	}
	log.Info("Document saved successfully")
	return "s3://" + s.bucket + "/" + key, nil
}

func (s *documentStore) Load(ctx context.Context, name string) (*core.Document, error) {
	resp, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%w: %s", core.ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to get document %s: %w", name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read document data: %w", err)
	}
	return &core.Document{Name: name, Content: data}, nil
}

// Delete checks for the object first because S3 deletes are idempotent.
func (s *documentStore) Delete(ctx context.Context, name string) error {
	key := s.key(name)
	_, err := s.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return fmt.Errorf("%w: %s", core.ErrNotFound, name)
		}
		return fmt.Errorf("failed to stat document %s: %w", name, err)
	}

	_, err = s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", name, err)
	}
	logrus.WithFields(logrus.Fields{"bucket": s.bucket, "key": key}).Info("Document deleted successfully")
	return nil
}

// List returns the names directly under the prefix; deeper keys are skipped
// to keep the flat layout.
func (s *documentStore) List(ctx context.Context) ([]string, error) {
	names := []string{}
	paginator := s3.NewListObjectsV2Paginator(s.s3Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list documents: %w", err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), s.prefix)
			if name == "" || strings.Contains(name, "/") {
				continue
			}
			names = append(names, name)
		}
	}
	return names, nil
}
