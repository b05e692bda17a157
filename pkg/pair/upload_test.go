package pair

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greatexpectationslabs/cooper-pair/internal/common/apperrors"
)

func newUploadClient(t *testing.T) *Client {
	t.Helper()
	f := newFakeDQM(t)
	return f.client(t)
}

func TestUploadDatasetReplaysQueryStringAsFields(t *testing.T) {
	upload := newUploadTarget(t)
	c := newUploadClient(t)

	presigned := upload.srv.URL + "/bucket?key=uploads%2Fa.csv&AWSAccessKeyId=AKIA&signature=s%3D%3D"
	err := c.UploadDataset(context.Background(), presigned, "a.csv", bytes.NewReader([]byte("a,b\n")))
	require.NoError(t, err)

	upload.mu.Lock()
	defer upload.mu.Unlock()
	assert.Equal(t, "uploads/a.csv", upload.fields["key"])
	assert.Equal(t, "AKIA", upload.fields["AWSAccessKeyId"])
	assert.Equal(t, "s==", upload.fields["signature"])
	assert.Equal(t, "a.csv", upload.filename)
	assert.Equal(t, "application/octet-stream", upload.contentType)
	assert.Equal(t, "a,b\n", string(upload.content))
}

func TestUploadDatasetSniffsContentType(t *testing.T) {
	upload := newUploadTarget(t)
	c := newUploadClient(t)

	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00}
	err := c.UploadDataset(context.Background(), upload.srv.URL+"/b?key=k", "chart.png", bytes.NewReader(png))
	require.NoError(t, err)

	upload.mu.Lock()
	defer upload.mu.Unlock()
	assert.Equal(t, "image/png", upload.contentType)
	assert.Equal(t, png, upload.content)
}

func TestUploadDatasetRequiresQueryString(t *testing.T) {
	c := newUploadClient(t)

	for _, presigned := range []string{
		"https://bucket.example.com/path",
		"https://bucket.example.com/path?",
	} {
		err := c.UploadDataset(context.Background(), presigned, "a.csv", bytes.NewReader(nil))
		require.Error(t, err, "presigned %q", presigned)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
}

func TestUploadDatasetRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "<Error><Code>AccessDenied</Code></Error>", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)
	c := newUploadClient(t)

	err := c.UploadDataset(context.Background(), srv.URL+"/b?key=k", "a.csv", bytes.NewReader(nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUploadFailed)
	assert.Contains(t, err.Error(), "status 403")
	assert.Contains(t, err.Error(), "AccessDenied")

	var apperr apperrors.Error
	require.ErrorAs(t, err, &apperr)
	assert.Equal(t, http.StatusForbidden, apperr.StatusCode())
}
