package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// formFile reads the "file" field whether it arrives as a file part or a value.
func formFile(t *testing.T, r *http.Request) string {
	t.Helper()
	require.NoError(t, r.ParseMultipartForm(1<<20))
	if files := r.MultipartForm.File["file"]; len(files) > 0 {
		f, err := files[0].Open()
		require.NoError(t, err)
		defer f.Close()
		b, err := io.ReadAll(f)
		require.NoError(t, err)
		return string(b)
	}
	return r.FormValue("file")
}

func TestCloudinary_Upload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/demo/image/upload", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		body := formFile(t, r)
		assert.Equal(t, "shoes", r.FormValue("upload_preset"))
		assert.Equal(t, "jpeg-bytes", body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"secure_url":"https://cdn.example/shoe.jpg"}`)
	}))
	defer srv.Close()

	c := NewCloudinary("demo", "shoes")
	c.Endpoint = srv.URL

	url, err := c.Upload(context.Background(), "shoe.jpg", []byte("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/shoe.jpg", url)
}

func TestCloudinary_UploadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"message":"Upload preset not found"}}`)
	}))
	defer srv.Close()

	c := NewCloudinary("demo", "missing")
	c.Endpoint = srv.URL

	_, err := c.Upload(context.Background(), "shoe.jpg", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Upload preset not found")
}

func TestCloudinary_NotConfigured(t *testing.T) {
	_, err := NewCloudinary("", "").Upload(context.Background(), "a.jpg", []byte("x"))
	assert.EqualError(t, err, "cloudinary is not configured")
}
