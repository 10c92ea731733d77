package cloudstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/tovald/linkdrop/internal/config"
	"github.com/tovald/linkdrop/internal/logging"
	"github.com/tovald/linkdrop/internal/providers"
)

// ObjectAPI is the slice of the S3 client the provider depends on
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	PutObjectAcl(ctx context.Context, params *s3.PutObjectAclInput, optFns ...func(*s3.Options)) (*s3.PutObjectAclOutput, error)
}

// CredentialSource resolves cloud credentials at upload time.
// *config.Store satisfies it.
type CredentialSource interface {
	Credentials() (config.Credentials, bool)
}

// Provider uploads to a credentialed S3-compatible object store. Each
// upload is two independent remote calls: object creation, then a
// public-read grant. The sequence is not transactional; when the grant
// fails the object stays created but inaccessible, and the whole
// upload reports a network failure.
type Provider struct {
	creds    CredentialSource
	cfg      config.CloudConfig
	clientFn func(ctx context.Context, creds config.Credentials) (ObjectAPI, error)
}

// New creates a new cloud store provider. Credentials are resolved on
// every Upload call, never cached here.
func New(creds CredentialSource, cfg config.CloudConfig) *Provider {
	p := &Provider{
		creds: creds,
		cfg:   cfg,
	}
	p.clientFn = p.newClient

	logging.ProviderConfig("cloudstore", map[string]interface{}{
		"bucket":   cfg.Bucket,
		"region":   cfg.Region,
		"endpoint": cfg.Endpoint,
	})

	return p
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "cloudstore"
}

// Upload stores the byte stream as a new remote object, grants it
// public read access, and returns the object's public view URL.
func (p *Provider) Upload(ctx context.Context, filename string, file io.Reader, size int64) (string, error) {
	creds, ok := p.creds.Credentials()
	if !ok {
		// Fail before touching the network
		return "", providers.NewConfigurationError("cloud credentials are not configured", nil)
	}

	client, err := p.clientFn(ctx, creds)
	if err != nil {
		return "", providers.NewConfigurationError("failed to build cloud client", err)
	}

	key := storageKey(filename)

	start := time.Now()
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.cfg.Bucket),
		Key:           aws.String(key),
		Body:          file,
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		logging.ErrorContext("object_create", err, map[string]interface{}{
			"provider": "cloudstore",
			"bucket":   p.cfg.Bucket,
			"key":      key,
		})
		return "", providers.NewNetworkError("", fmt.Sprintf("failed to store object: %v", err), err)
	}

	_, err = client.PutObjectAcl(ctx, &s3.PutObjectAclInput{
		Bucket: aws.String(p.cfg.Bucket),
		Key:    aws.String(key),
		ACL:    types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		// The object now exists without public access. That partial
		// state is accepted and surfaced as a plain network failure.
		logging.ErrorContext("object_grant", err, map[string]interface{}{
			"provider": "cloudstore",
			"bucket":   p.cfg.Bucket,
			"key":      key,
		})
		return "", providers.NewNetworkError("", fmt.Sprintf("object stored but public access grant failed: %v", err), err)
	}

	publicURL := p.publicURL(key)
	logging.UploadComplete(filename, publicURL, time.Since(start))

	return publicURL, nil
}

// newClient builds the real S3 client from resolved credentials
func (p *Provider) newClient(ctx context.Context, creds config.Credentials) (ObjectAPI, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(p.cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			creds.ClientID,
			creds.ClientSecret,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if p.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(p.cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return client, nil
}

// publicURL derives the canonical public view link for a stored object
func (p *Provider) publicURL(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	escaped := strings.Join(segments, "/")

	if p.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", p.cfg.Endpoint, p.cfg.Bucket, escaped)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.cfg.Bucket, p.cfg.Region, escaped)
}

// storageKey builds a collision-free object key that keeps the
// original filename as the last segment
func storageKey(filename string) string {
	d := time.Now()
	return fmt.Sprintf("uploads/%d/%02d/%v/%s", d.Year(), int(d.Month()), uuid.New(), filename)
}
