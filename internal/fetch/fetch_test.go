package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchImage_Success(t *testing.T) {
	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0} // JPEG magic
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	img, err := FetchImage(context.Background(), server.URL, nil)

	require.NoError(t, err)
	assert.Equal(t, payload, img.Data)
	assert.Equal(t, "image/jpeg", img.ContentType)
}

func TestFetchImage_Non200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := FetchImage(context.Background(), server.URL, nil)

	require.Error(t, err)
	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, fetchErr.Message, "403")
}

func TestFetchImage_InvalidURL(t *testing.T) {
	_, err := FetchImage(context.Background(), "not a url", nil)
	require.Error(t, err)
}

func TestImageMIMEType(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		url         string
		expected    string
	}{
		{"from content type", "image/png; charset=binary", "https://cdn.example.com/a", "image/png"},
		{"from extension", "application/octet-stream", "https://cdn.example.com/creative.webp?sig=x", "image/webp"},
		{"fallback jpeg", "text/plain", "https://cdn.example.com/asset", "image/jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := &Image{URL: tt.url, ContentType: tt.contentType}
			assert.Equal(t, tt.expected, ImageMIMEType(img))
		})
	}
}

func TestResolveMediaURL_DirectAssetIsUnchanged(t *testing.T) {
	resolved, err := ResolveMediaURL(context.Background(), "https://cdn.example.com/creative.mp4", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/creative.mp4", resolved)
}

func TestResolveMediaURL_ExtractsOpenGraphVideo(t *testing.T) {
	page := `<html><head>
		<meta property="og:image" content="https://cdn.example.com/thumb_asset"/>
		<meta property="og:video" content="https://cdn.example.com/video_asset"/>
	</head><body></body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	resolved, err := ResolveMediaURL(context.Background(), server.URL, nil)

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/video_asset", resolved, "video takes precedence over image")
}

func TestResolveMediaURL_NoTagsReturnsInput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>nothing here</body></html>"))
	}))
	defer server.Close()

	resolved, err := ResolveMediaURL(context.Background(), server.URL, nil)

	require.NoError(t, err)
	assert.Equal(t, server.URL, resolved)
}
