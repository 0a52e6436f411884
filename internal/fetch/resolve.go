package fetch

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ResolveMediaURL extracts the direct media URL from an ad permalink page.
// Sync sometimes stores a page URL instead of a direct asset URL; the page's
// OpenGraph tags carry the real video or image location. Returns the input
// URL unchanged when it already points at media or when nothing resolves.
func ResolveMediaURL(ctx context.Context, urlStr string, opts *Options) (string, error) {
	if looksLikeMedia(urlStr) {
		return urlStr, nil
	}

	page, err := FetchImage(ctx, urlStr, opts)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(strings.Split(page.ContentType, ";")[0], "image/") ||
		strings.HasPrefix(strings.Split(page.ContentType, ";")[0], "video/") {
		return urlStr, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(page.Data)))
	if err != nil {
		return "", &Error{URL: urlStr, Message: "failed to parse HTML", Cause: err}
	}

	for _, property := range []string{"og:video:secure_url", "og:video", "og:image"} {
		if content, ok := doc.Find(`meta[property="` + property + `"]`).Attr("content"); ok && content != "" {
			return content, nil
		}
	}

	return urlStr, nil
}

// looksLikeMedia reports whether a URL path already names a media asset
func looksLikeMedia(urlStr string) bool {
	lower := strings.ToLower(urlStr)
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".webp", ".gif", ".mp4", ".mov", ".webm"} {
		if strings.Contains(lower, ext) {
			return true
		}
	}
	return false
}
