package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"solvr-go/internal/provision"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Store keeps instance records in an S3 bucket under
// <prefix><name>/metadata.json, so provisioning state can be shared
// between machines.
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

// S3Options configure an S3Store. Endpoint and the static credential pair
// are optional: when empty, the default AWS credential chain and endpoint
// are used. Endpoint enables S3-compatible storage.
type S3Options struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// NewS3Store creates a store backed by the given bucket.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 store requires s3_bucket to be set")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	prefix := opts.Prefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	return &S3Store{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   opts.Bucket,
		prefix:   prefix,
	}, nil
}

func (s *S3Store) key(name string) string {
	return s.prefix + name + "/" + metadataFile
}

// Save uploads the instance record.
func (s *S3Store) Save(ctx context.Context, inst *provision.Instance) error {
	data, err := json.MarshalIndent(inst, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding instance metadata: %w", err)
	}

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(inst.Name)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("uploading instance metadata: %w", err)
	}
	return nil
}

// Load downloads the instance record, returning (nil, nil) when absent.
func (s *S3Store) Load(ctx context.Context, name string) (*provision.Instance, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, nil
		}
		return nil, fmt.Errorf("downloading instance metadata: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading instance metadata: %w", err)
	}

	var inst provision.Instance
	if err := json.Unmarshal(data, &inst); err != nil {
		return nil, fmt.Errorf("decoding instance metadata: %w", err)
	}
	return &inst, nil
}

// Delete removes the instance record. S3 delete is idempotent, so
// deleting a missing record is a no-op.
func (s *S3Store) Delete(ctx context.Context, name string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		return fmt.Errorf("deleting instance metadata: %w", err)
	}
	return nil
}

// List downloads all instance records under the prefix.
func (s *S3Store) List(ctx context.Context) ([]*provision.Instance, error) {
	var instances []*provision.Instance

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing instance metadata: %w", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !strings.HasSuffix(key, "/"+metadataFile) {
				continue
			}
			name := strings.TrimSuffix(strings.TrimPrefix(key, s.prefix), "/"+metadataFile)
			inst, err := s.Load(ctx, name)
			if err != nil {
				return nil, err
			}
			if inst != nil {
				instances = append(instances, inst)
			}
		}
	}
	return instances, nil
}

// Compile-time check that S3Store implements provision.Store
var _ provision.Store = (*S3Store)(nil)
