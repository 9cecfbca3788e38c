package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	typehelpers "github.com/turbot/go-kit/types"

	"github.com/sparkify/lakehouse/config"
)

const (
	AwsS3ObjectStoreIdentifier = "aws_s3_bucket"
	defaultBucketRegion        = "us-east-1"

	// batch size for DeleteObjects calls
	deleteBatchSize = 1000
)

// S3ObjectStore is an [ObjectStore] backed by an S3 bucket
type S3ObjectStore struct {
	bucket string
	client *s3.Client
}

func NewS3ObjectStore(ctx context.Context, bucket string, conn *config.Connection) (*S3ObjectStore, error) {
	client, err := getS3Client(ctx, conn)
	if err != nil {
		return nil, err
	}

	slog.Info("Initialized S3ObjectStore", "bucket", bucket)
	return &S3ObjectStore{bucket: bucket, client: client}, nil
}

func (s *S3ObjectStore) Identifier() string {
	return AwsS3ObjectStoreIdentifier
}

func (s *S3ObjectStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: &s.bucket,
		Prefix: &prefix,
	})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get page of S3 objects, %w", err)
		}
		for _, object := range output.Contents {
			keys = append(keys, *object.Key)
		}
	}
	return keys, nil
}

func (s *S3ObjectStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	getObjectOutput, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s, %w", key, err)
	}
	return getObjectOutput.Body, nil
}

func (s *S3ObjectStore) Put(ctx context.Context, key string, body io.Reader) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   body,
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s, %w", key, err)
	}
	return nil
}

func (s *S3ObjectStore) DeletePrefix(ctx context.Context, prefix string) error {
	keys, err := s.List(ctx, prefix)
	if err != nil {
		return err
	}

	for start := 0; start < len(keys); start += deleteBatchSize {
		end := min(start+deleteBatchSize, len(keys))

		objects := make([]s3types.ObjectIdentifier, 0, end-start)
		for _, key := range keys[start:end] {
			objects = append(objects, s3types.ObjectIdentifier{Key: aws.String(key)})
		}
		_, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: &s.bucket,
			Delete: &s3types.Delete{Objects: objects},
		})
		if err != nil {
			return fmt.Errorf("failed to delete objects under %s, %w", prefix, err)
		}
	}
	return nil
}

func (s *S3ObjectStore) Close() error {
	return nil
}

func getS3Client(ctx context.Context, conn *config.Connection) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error

	var region, endpointUrl string
	var forcePathStyle bool
	if conn != nil {
		// credentials come from the explicit connection config, never from
		// mutated process environment
		accessKey := typehelpers.SafeString(conn.AccessKey)
		secretKey := typehelpers.SafeString(conn.SecretKey)
		if accessKey != "" && secretKey != "" {
			provider := credentials.NewStaticCredentialsProvider(accessKey, secretKey, typehelpers.SafeString(conn.SessionToken))
			opts = append(opts, awsconfig.WithCredentialsProvider(provider))
		}
		region = typehelpers.SafeString(conn.Region)
		endpointUrl = typehelpers.SafeString(conn.EndpointUrl)
		forcePathStyle = conn.S3ForcePathStyle != nil && *conn.S3ForcePathStyle
	}

	if region == "" {
		region = defaultBucketRegion
	}
	opts = append(opts, awsconfig.WithRegion(region))

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config, %w", err)
	}

	// retry handling
	retryer := retry.NewStandard(func(o *retry.StandardOptions) {
		o.MaxAttempts = 9
		o.MaxBackoff = 5 * time.Minute
		o.Backoff = NewExponentialJitterBackoff(25*time.Millisecond, 9)
	})
	cfg.Retryer = func() aws.Retryer {
		return retryer
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpointUrl != "" {
			o.BaseEndpoint = aws.String(endpointUrl)
		}
		if forcePathStyle {
			o.UsePathStyle = true
		}
	})
	return client, nil
}

// ExponentialJitterBackoff provides backoff delays with jitter based on the
// number of attempts.
type ExponentialJitterBackoff struct {
	minDelay           time.Duration
	maxBackoffAttempts int
}

// NewExponentialJitterBackoff returns an ExponentialJitterBackoff configured
// for the max backoff.
func NewExponentialJitterBackoff(minDelay time.Duration, maxAttempts int) *ExponentialJitterBackoff {
	return &ExponentialJitterBackoff{minDelay, maxAttempts}
}

// BackoffDelay returns the duration to wait before the next attempt should be
// made. Returns an error if unable get a duration.
func (j *ExponentialJitterBackoff) BackoffDelay(attempt int, err error) (time.Duration, error) {
	minDelay := j.minDelay

	// The calculated jitter will be between [0.8, 1.2)
	var jitter = float64(rand.Intn(120-80)+80) / 100

	retryTime := time.Duration(int(float64(int(minDelay.Nanoseconds())*int(math.Pow(3, float64(attempt)))) * jitter))

	// Cap retry time at 5 minutes to avoid too long a wait
	if retryTime > (5 * time.Minute) {
		retryTime = 5 * time.Minute
	}

	slog.Debug("BackoffDelay:", "attempt", attempt, "retry_time", retryTime.String(), "error", err)

	return retryTime, nil
}
