package photostore

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config configures an S3-compatible bucket. Endpoint is only needed for
// non-AWS providers; empty keys fall back to the default credential chain.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	// PublicURL is the base URL objects are served from, usually a CDN in
	// front of a private bucket. When empty, objects are uploaded
	// public-read and served straight from the bucket.
	PublicURL string
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads photos to an S3 bucket.
type S3Store struct {
	client  putObjectAPI
	bucket  string
	baseURL string
	acl     types.ObjectCannedACL
	now     func() time.Time
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	base, acl := objectLocation(cfg, region)
	return newS3Store(client, cfg.Bucket, base, acl), nil
}

// objectLocation picks the URL photos are served from and the ACL that
// makes that URL readable.
func objectLocation(cfg S3Config, region string) (string, types.ObjectCannedACL) {
	switch {
	case cfg.PublicURL != "":
		return cfg.PublicURL, types.ObjectCannedACLPrivate
	case cfg.Endpoint != "":
		return strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket, types.ObjectCannedACLPublicRead
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region), types.ObjectCannedACLPublicRead
	}
}

func newS3Store(client putObjectAPI, bucket, baseURL string, acl types.ObjectCannedACL) *S3Store {
	return &S3Store{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		acl:     acl,
		now:     time.Now,
	}
}

func (s *S3Store) Save(ctx context.Context, userID, missionID, srcPath string) (string, error) {
	ext, ct, err := contentType(srcPath)
	if err != nil {
		return "", err
	}
	f, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("opening photo: %w", err)
	}
	defer f.Close()

	key := objectKey(userID, missionID, ext, s.now())
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         f,
		ContentType:  aws.String(ct),
		CacheControl: aws.String("max-age=31536000"),
		ACL:          s.acl,
	})
	if err != nil {
		return "", fmt.Errorf("uploading photo to s3: %w", err)
	}
	return s.baseURL + "/" + key, nil
}
