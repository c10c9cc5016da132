package artifacts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMinioStoreValidation(t *testing.T) {
	cases := []Config{
		{AccessKey: "a", SecretKey: "s", Bucket: "b"},
		{Endpoint: "localhost:9000", Bucket: "b"},
		{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"},
	}
	for _, cfg := range cases {
		_, err := NewMinioStore(cfg)
		assert.Error(t, err, "%+v", cfg)
	}

	s, err := NewMinioStore(Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s", Bucket: "charts"})
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", s.region)
}

func TestPutRequiresKey(t *testing.T) {
	s, err := NewMinioStore(Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s", Bucket: "charts"})
	require.NoError(t, err)

	err = s.Put(context.Background(), " / ", []byte("x"), "image/png")
	require.ErrorContains(t, err, "key is required")
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "20250101_120000/a.png", objectKey(" /20250101_120000/a.png "))
}
