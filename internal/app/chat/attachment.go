package chat

import (
	"mime"
	"net/url"
	"path/filepath"
	"strings"

	"lanchat/internal/pkg/errs"
)

const (
	// UploadURLPrefix is the path under which uploaded files are served.
	UploadURLPrefix = "/uploads/"

	// DefaultContentType is used for uploads whose type cannot be determined.
	DefaultContentType = "application/octet-stream"
)

// ExtToMIME maps image file extensions to their MIME types.
var ExtToMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".svg":  "image/svg+xml",
	".avif": "image/avif",
	".heic": "image/heic",
	".heif": "image/heif",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".ico":  "image/x-icon",
	".jfif": "image/jpeg",
}

// IsImageFile reports whether fileName carries a known image extension.
func IsImageFile(fileName string) bool {
	_, ok := ExtToMIME[strings.ToLower(filepath.Ext(fileName))]
	return ok
}

// ContentTypeFor picks the content type stored with an upload. The declared
// type from the multipart header wins unless it is empty or generic.
func ContentTypeFor(fileName, declared string) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != DefaultContentType {
		return declared
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if mimeType, ok := ExtToMIME[ext]; ok {
		return mimeType
	}
	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		return mimeType
	}
	return DefaultContentType
}

// UploadURL returns the public path of the stored object key.
func UploadURL(key string) string {
	return UploadURLPrefix + url.PathEscape(key)
}

// ValidateAttachmentURL accepts paths produced by UploadURL and absolute
// http(s) URLs.
func ValidateAttachmentURL(raw string) *errs.CustomError {
	if strings.HasPrefix(raw, UploadURLPrefix) {
		if len(raw) == len(UploadURLPrefix) || strings.Contains(raw[len(UploadURLPrefix):], "/") {
			return errs.NewError(errs.ErrAttachmentInvalid)
		}
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errs.NewError(errs.ErrAttachmentInvalid)
	}
	return nil
}
