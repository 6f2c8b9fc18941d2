package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	deleted []string
	err     error
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deleted = append(f.deleted, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

type fakePresigner struct {
	lastPut *s3.PutObjectInput
}

func (f *fakePresigner) PresignPutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	f.lastPut = in
	return &v4.PresignedHTTPRequest{URL: "https://signed.example/" + aws.ToString(in.Key), Method: "PUT"}, nil
}

func TestS3PresignPut(t *testing.T) {
	p := &fakePresigner{}
	store := NewS3ConfigWithClients(&fakeS3{}, p, "photos", "https://cdn.example/", time.Minute)

	before := time.Now()
	u, expires, err := store.PresignPut(context.Background(), "recipes/1-100.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/recipes/1-100.jpg", u)
	assert.WithinDuration(t, before.Add(time.Minute), expires, 5*time.Second)
	assert.Equal(t, "photos", aws.ToString(p.lastPut.Bucket))
	assert.Equal(t, "image/jpeg", aws.ToString(p.lastPut.ContentType))
}

func TestS3PublicURL(t *testing.T) {
	store := NewS3ConfigWithClients(&fakeS3{}, &fakePresigner{}, "photos", "https://cdn.example/", 0)
	assert.Equal(t, "https://cdn.example/recipes/1.png", store.PublicURL("/recipes/1.png"))
	assert.Equal(t, 15*time.Minute, store.Expiry)
}

func TestS3DeleteObject(t *testing.T) {
	client := &fakeS3{}
	store := NewS3ConfigWithClients(client, &fakePresigner{}, "photos", "https://cdn.example", time.Minute)
	require.NoError(t, store.DeleteObject(context.Background(), "recipes/9.webp"))
	assert.Equal(t, []string{"recipes/9.webp"}, client.deleted)
}

func TestS3BreakerOpens(t *testing.T) {
	boom := errors.New("503 slow down")
	store := NewS3ConfigWithClients(&fakeS3{err: boom}, &fakePresigner{}, "photos", "https://cdn.example", time.Minute)

	for i := 0; i < 5; i++ {
		err := store.DeleteObject(context.Background(), "k")
		assert.ErrorIs(t, err, boom)
	}
	assert.Equal(t, "open", store.BreakerState())

	err := store.DeleteObject(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unavailable")
}
