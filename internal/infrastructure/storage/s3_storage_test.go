package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/printease/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStorageConfig(endpoint string) *config.StorageConfig {
	return &config.StorageConfig{
		Enabled:           true,
		Endpoint:          endpoint,
		Region:            "us-east-1",
		Bucket:            "receipts",
		AccessKey:         "test-key",
		SecretKey:         "test-secret",
		UsePathStyle:      true,
		PresignExpiration: 10 * time.Minute,
	}
}

type recordedRequest struct {
	Method      string
	Path        string
	ContentType string
	Body        []byte
}

// fakeS3 answers just enough of the S3 REST API for the archive
type fakeS3 struct {
	mu            sync.Mutex
	requests      []recordedRequest
	bucketMissing bool
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method:      r.Method,
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	})
	missing := f.bucketMissing
	f.mu.Unlock()

	switch {
	case r.Method == http.MethodHead && missing:
		w.WriteHeader(http.StatusNotFound)
	case r.Method == http.MethodPut && r.URL.Path == "/receipts":
		f.mu.Lock()
		f.bucketMissing = false
		f.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	default:
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	}
}

func (f *fakeS3) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func TestNewS3ReceiptArchive_Validation(t *testing.T) {
	_, err := NewS3ReceiptArchive(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration is required")

	tests := []struct {
		name   string
		mutate func(*config.StorageConfig)
		want   string
	}{
		{"missing bucket", func(c *config.StorageConfig) { c.Bucket = "" }, "bucket is required"},
		{"missing access key", func(c *config.StorageConfig) { c.AccessKey = "" }, "access key is required"},
		{"missing secret key", func(c *config.StorageConfig) { c.SecretKey = "" }, "secret key is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testStorageConfig("http://localhost:9000")
			tt.mutate(cfg)
			_, err := NewS3ReceiptArchive(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewS3ReceiptArchive_Defaults(t *testing.T) {
	cfg := testStorageConfig("localhost:9000")
	cfg.PresignExpiration = 0
	cfg.Region = ""

	archive, err := NewS3ReceiptArchive(cfg)
	require.NoError(t, err)
	assert.Equal(t, "receipts", archive.Bucket())
	assert.Equal(t, 15*time.Minute, archive.presignExpiration)

	archive, err = NewS3ReceiptArchive(testStorageConfig("http://localhost:9000"), WithPresignExpiration(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, time.Minute, archive.presignExpiration)
}

func TestNormalizeEndpoint(t *testing.T) {
	got, err := normalizeEndpoint("minio:9000", false)
	require.NoError(t, err)
	assert.Equal(t, "http://minio:9000", got)

	got, err = normalizeEndpoint("s3.example.com", true)
	require.NoError(t, err)
	assert.Equal(t, "https://s3.example.com", got)

	got, err = normalizeEndpoint("", true)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestS3ReceiptArchive_DownloadURL(t *testing.T) {
	archive, err := NewS3ReceiptArchive(testStorageConfig("http://localhost:9000"))
	require.NoError(t, err)

	raw, err := archive.DownloadURL(context.Background(), "receipts/order-1.pdf", 5*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/receipts/receipts/order-1.pdf", u.Path)
	assert.Equal(t, "300", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))

	raw, err = archive.DownloadURL(context.Background(), "receipts/order-1.pdf", 0)
	require.NoError(t, err)
	u, err = url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))

	_, err = archive.DownloadURL(context.Background(), "", time.Minute)
	assert.Error(t, err)
}

func TestS3ReceiptArchive_Put(t *testing.T) {
	fake := &fakeS3{}
	server := httptest.NewServer(fake)
	defer server.Close()

	archive, err := NewS3ReceiptArchive(testStorageConfig(server.URL))
	require.NoError(t, err)

	pdf := []byte("%PDF-1.3 receipt")
	require.NoError(t, archive.Put(context.Background(), "receipts/order-9.pdf", pdf, "application/pdf"))

	reqs := fake.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPut, reqs[0].Method)
	assert.Equal(t, "/receipts/receipts/order-9.pdf", reqs[0].Path)
	assert.Equal(t, "application/pdf", reqs[0].ContentType)
	assert.Contains(t, string(reqs[0].Body), "%PDF-1.3 receipt")

	assert.Error(t, archive.Put(context.Background(), "", pdf, "application/pdf"))
}

func TestS3ReceiptArchive_EnsureBucket(t *testing.T) {
	t.Run("existing bucket", func(t *testing.T) {
		fake := &fakeS3{}
		server := httptest.NewServer(fake)
		defer server.Close()

		archive, err := NewS3ReceiptArchive(testStorageConfig(server.URL))
		require.NoError(t, err)
		require.NoError(t, archive.EnsureBucket(context.Background()))

		reqs := fake.recorded()
		require.Len(t, reqs, 1)
		assert.Equal(t, http.MethodHead, reqs[0].Method)
	})

	t.Run("creates missing bucket", func(t *testing.T) {
		fake := &fakeS3{bucketMissing: true}
		server := httptest.NewServer(fake)
		defer server.Close()

		archive, err := NewS3ReceiptArchive(testStorageConfig(server.URL))
		require.NoError(t, err)
		require.NoError(t, archive.EnsureBucket(context.Background()))

		reqs := fake.recorded()
		require.GreaterOrEqual(t, len(reqs), 2)
		last := reqs[len(reqs)-1]
		assert.Equal(t, http.MethodPut, last.Method)
		assert.Equal(t, "/receipts", last.Path)
	})
}
