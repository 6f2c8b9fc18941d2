package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/swipechef/backend/internal/logging"
	"github.com/swipechef/backend/internal/metrics"
)

// S3API is the part of the S3 client the store calls directly.
type S3API interface {
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Presigner signs object URLs. *s3.PresignClient satisfies it.
type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Config holds the S3 client, bucket info and the circuit breaker that
// guards every call.
type S3Config struct {
	Client        S3API
	Presigner     Presigner
	BucketName    string
	PublicBaseURL string
	Expiry        time.Duration

	breaker *gobreaker.CircuitBreaker[string]
}

// NewS3Config initializes the S3 client from the storage settings and the
// default AWS credential chain.
func NewS3Config(ctx context.Context, cfg StorageConfig) (*S3Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	publicBase := cfg.PublicBaseURL
	if publicBase == "" {
		publicBase = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return NewS3ConfigWithClients(client, s3.NewPresignClient(client), cfg.Bucket, publicBase, cfg.PresignExpiry), nil
}

// NewS3ConfigWithClients wires explicit clients, mainly for tests.
func NewS3ConfigWithClients(client S3API, presigner Presigner, bucket, publicBaseURL string, expiry time.Duration) *S3Config {
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &S3Config{
		Client:        client,
		Presigner:     presigner,
		BucketName:    bucket,
		PublicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		Expiry:        expiry,
		breaker:       newStorageBreaker(),
	}
}

func newStorageBreaker() *gobreaker.CircuitBreaker[string] {
	metrics.ObjectStorageBreakerState.Set(0)
	return gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "object-storage",
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("object storage circuit breaker state change")
			metrics.ObjectStorageBreakerState.Set(breakerStateValue(to))
		},
	})
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// BreakerState reports the circuit breaker state, e.g. "closed".
func (s *S3Config) BreakerState() string {
	return s.breaker.State().String()
}

// PresignPut returns a URL the client can PUT the object bytes to.
func (s *S3Config) PresignPut(ctx context.Context, key, contentType string) (string, time.Time, error) {
	expires := time.Now().Add(s.Expiry)
	u, err := s.execute("presign_put", func() (string, error) {
		req, err := s.Presigner.PresignPutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.BucketName),
			Key:         aws.String(key),
			ContentType: aws.String(contentType),
		}, s3.WithPresignExpires(s.Expiry))
		if err != nil {
			return "", err
		}
		return req.URL, nil
	})
	return u, expires, err
}

func (s *S3Config) DeleteObject(ctx context.Context, key string) error {
	_, err := s.execute("delete", func() (string, error) {
		_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.BucketName),
			Key:    aws.String(key),
		})
		return "", err
	})
	return err
}

// PublicURL is where a stored object is served from.
func (s *S3Config) PublicURL(key string) string {
	return s.PublicBaseURL + "/" + strings.TrimLeft(key, "/")
}

func (s *S3Config) execute(op string, fn func() (string, error)) (string, error) {
	out, err := s.breaker.Execute(fn)
	if err != nil {
		metrics.ObjectStorageErrors.WithLabelValues(op).Inc()
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("object storage unavailable: %w", err)
		}
		return "", fmt.Errorf("object storage %s failed: %w", op, err)
	}
	return out, nil
}
