package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go/logging"

	"github.com/packrat-backup/packrat/internal/config"
)

// S3Service wraps the artifact mirror bucket: run artifacts land here and
// restore downloads are served from here via presigned links.
type S3Service struct {
	artifactClient *s3.Client
	cfg            *config.Config
}

func NewS3Service(cfg *config.Config) (*S3Service, error) {
	client, err := buildClient(cfg.ArtifactS3Endpoint, cfg.ArtifactS3Region, cfg.ArtifactS3AccessKeyID, cfg.ArtifactS3SecretAccessKey, cfg.ArtifactS3UsePathStyle)
	if err != nil {
		return nil, err
	}
	return &S3Service{artifactClient: client, cfg: cfg}, nil
}

func (s *S3Service) GetConfig() *config.Config { return s.cfg }

func buildClient(endpoint, region, key, secret string, pathStyle bool) (*s3.Client, error) {
	resolver := awsconfig.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
		func(service, rgn string, options ...interface{}) (aws.Endpoint, error) {
			if endpoint != "" {
				return aws.Endpoint{URL: endpoint, SigningRegion: region}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		}))
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")),
		resolver,
		awsconfig.WithLogger(logging.NewStandardLogger(nil)),
	)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = pathStyle
		if endpoint != "" {
			o.BaseEndpoint = &endpoint
		}
	})
	return client, nil
}

// UploadArtifact streams one artifact into the mirror bucket
func (s *S3Service) UploadArtifact(ctx context.Context, key string, body io.Reader, ctype string) error {
	uploader := manager.NewUploader(s.artifactClient)
	in := &s3.PutObjectInput{
		Bucket:      &s.cfg.ArtifactBucket,
		Key:         &key,
		Body:        body,
		ContentType: &ctype,
		ACL:         s3types.ObjectCannedACLPrivate,
	}
	_, err := uploader.Upload(ctx, in, func(u *manager.Uploader) { u.PartSize = 10 * 1024 * 1024 })
	return err
}

// PresignArtifactGet returns a short-lived download URL for an artifact
func (s *S3Service) PresignArtifactGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	presigner := s3.NewPresignClient(s.artifactClient)
	out, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{Bucket: &s.cfg.ArtifactBucket, Key: &key}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", err
	}
	return out.URL, nil
}

// ArtifactObject describes one object in the mirror bucket
type ArtifactObject struct {
	Key          string
	SizeBytes    int64
	LastModified time.Time
}

// ListArtifacts lists mirror bucket objects under a prefix
func (s *S3Service) ListArtifacts(ctx context.Context, prefix string) ([]ArtifactObject, error) {
	var objects []ArtifactObject
	var token *string
	for {
		out, err := s.artifactClient.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            &s.cfg.ArtifactBucket,
			Prefix:            &prefix,
			ContinuationToken: token,
			MaxKeys:           aws.Int32(1000),
		})
		if err != nil {
			return nil, err
		}
		for _, o := range out.Contents {
			if o.Key == nil || o.Size == nil || o.LastModified == nil {
				continue
			}
			objects = append(objects, ArtifactObject{
				Key:          *o.Key,
				SizeBytes:    *o.Size,
				LastModified: *o.LastModified,
			})
		}
		if aws.ToBool(out.IsTruncated) && out.NextContinuationToken != nil {
			token = out.NextContinuationToken
			continue
		}
		break
	}
	return objects, nil
}

// GetArtifactClient returns the S3 client for artifact operations
func (s *S3Service) GetArtifactClient() (*s3.Client, error) {
	if s.artifactClient == nil {
		return nil, fmt.Errorf("artifact S3 client not configured")
	}
	return s.artifactClient, nil
}
