package storage

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePresigner struct {
	input   *s3.PutObjectInput
	expires time.Duration
}

func (f *fakePresigner) PresignPutObject(_ context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	f.input = params
	var opts s3.PresignOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	f.expires = opts.Expires
	return &v4.PresignedHTTPRequest{
		URL:    "https://s3.example.com/restaurant-images/" + *params.Key + "?X-Amz-Signature=sig",
		Method: http.MethodPut,
	}, nil
}

type fakeBuckets struct {
	headErr error
	created *s3.CreateBucketInput
}

func (f *fakeBuckets) HeadBucket(context.Context, *s3.HeadBucketInput, ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, f.headErr
}

func (f *fakeBuckets) CreateBucket(_ context.Context, params *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.created = params
	return &s3.CreateBucketOutput{}, nil
}

func newStorage(buckets BucketAPI, presigner Presigner) *S3Storage {
	return &S3Storage{
		buckets:   buckets,
		presigner: presigner,
		bucket:    "restaurant-images",
		region:    "eu-central-1",
		publicURL: "https://cdn.example.com",
		expiry:    15 * time.Minute,
		newID:     func() string { return "0b7c5d2e-0000-4000-8000-000000000001" },
		log:       zap.NewNop(),
	}
}

func TestUploadURL(t *testing.T) {
	presigner := &fakePresigner{}
	s := newStorage(&fakeBuckets{}, presigner)

	upload, err := s.UploadURL(context.Background(), "My Photo (1).png", "image/png")
	require.NoError(t, err)

	assert.Equal(t, "uploads/0b7c5d2e-0000-4000-8000-000000000001-My-Photo-1-.png", upload.Key)
	assert.Equal(t, "https://cdn.example.com/"+upload.Key, upload.PublicURL)
	assert.Contains(t, upload.UploadURL, "X-Amz-Signature")
	assert.Equal(t, "image/png", *presigner.input.ContentType)
	assert.Equal(t, "restaurant-images", *presigner.input.Bucket)
	assert.Equal(t, 15*time.Minute, presigner.expires)
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"photo.jpg":            "photo.jpg",
		"../../etc/passwd":     "passwd",
		`C:\Users\me\pic.webp`: "pic.webp",
		"  spaced name .png":   "spaced-name-.png",
		"???":                  "file",
		"":                     "file",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeFilename(in), in)
	}
}

func TestEnsureBucket(t *testing.T) {
	existing := &fakeBuckets{}
	require.NoError(t, newStorage(existing, &fakePresigner{}).EnsureBucket(context.Background()))
	assert.Nil(t, existing.created)

	missing := &fakeBuckets{headErr: &types.NotFound{}}
	require.NoError(t, newStorage(missing, &fakePresigner{}).EnsureBucket(context.Background()))
	require.NotNil(t, missing.created)
	assert.Equal(t, "restaurant-images", *missing.created.Bucket)
	assert.Equal(t, types.BucketLocationConstraint("eu-central-1"), missing.created.CreateBucketConfiguration.LocationConstraint)

	denied := &fakeBuckets{headErr: errors.New("access denied")}
	assert.Error(t, newStorage(denied, &fakePresigner{}).EnsureBucket(context.Background()))
}
