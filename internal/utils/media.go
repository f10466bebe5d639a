package utils

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// ExtensionFromMime maps the upload types the site accepts to a file
// extension. Anything else yields "".
func ExtensionFromMime(mimeType string) string {
	if mimeType == "" {
		return ""
	}
	if parsed, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = parsed
	}

	switch strings.ToLower(mimeType) {
	case "image/png":
		return "png"
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	case "image/svg+xml":
		return "svg"
	case "application/pdf":
		return "pdf"
	default:
		return ""
	}
}

// DetectMedia sniffs data and returns its MIME type and extension. SVG is not
// sniffable, so it is accepted on the declared type plus file name.
func DetectMedia(data []byte, declaredType, filename string) (string, string) {
	sniffed := http.DetectContentType(data)
	if ext := ExtensionFromMime(sniffed); ext != "" {
		mimeType, _, _ := mime.ParseMediaType(sniffed)
		return mimeType, ext
	}
	if strings.EqualFold(filepath.Ext(filename), ".svg") && ExtensionFromMime(declaredType) == "svg" {
		return "image/svg+xml", "svg"
	}
	return sniffed, ""
}
