package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"outfitted/internal/config"
	"outfitted/internal/middleware"
	"outfitted/internal/models"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultImageUploadDir       = "static/images"
	DefaultImageURLPrefix       = "/static/images"
	DefaultImageMaxUploadSizeMB = 10
)

// ImageUpload is an uploaded outfit picture as received from the client.
type ImageUpload struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ImageStore keeps uploaded outfit images in a directory served as static files.
type ImageStore struct {
	uploadDir          string
	urlPrefix          string
	maxUploadSizeBytes int64
}

func NewImageStore(cfg *config.Config) *ImageStore {
	uploadDir := DefaultImageUploadDir
	urlPrefix := DefaultImageURLPrefix
	maxUploadSizeMB := DefaultImageMaxUploadSizeMB

	if cfg != nil {
		if cfg.UploadDir != "" {
			uploadDir = cfg.UploadDir
		}
		if cfg.UploadURLPrefix != "" {
			urlPrefix = cfg.UploadURLPrefix
		}
		if cfg.UploadMaxSizeMB > 0 {
			maxUploadSizeMB = cfg.UploadMaxSizeMB
		}
	}

	return &ImageStore{
		uploadDir:          uploadDir,
		urlPrefix:          "/" + strings.Trim(urlPrefix, "/"),
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// Dir is the directory uploads are written to.
func (s *ImageStore) Dir() string { return s.uploadDir }

// URLPrefix is the public path uploads are served under.
func (s *ImageStore) URLPrefix() string { return s.urlPrefix }

// Save validates the upload and writes it under a generated name, returning its public URL.
func (s *ImageStore) Save(ctx context.Context, in ImageUpload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(in.Content) == 0 {
		return "", models.NewFieldValidationError("image", "No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return "", models.NewFieldValidationError("image",
			fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedImageMIME(detectedType) {
		return "", models.NewFieldValidationError("image", "Invalid image type")
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(in.Content))
	if err != nil {
		return "", models.NewFieldValidationError("image", "Invalid image file")
	}
	ext, ok := formatExtensions[format]
	if !ok {
		return "", models.NewFieldValidationError("image", "Unsupported image format")
	}

	if provided := normalizeContentType(in.ContentType); strings.HasPrefix(provided, "image/") && !isMatchingContentType(provided, detectedType) {
		return "", models.NewFieldValidationError("image", "Image content type mismatch")
	}

	name := uuid.NewString() + ext
	if err := writeBytesToFile(filepath.Join(s.uploadDir, name), in.Content); err != nil {
		return "", models.NewInternalError(err)
	}
	return path.Join(s.urlPrefix, name), nil
}

// Remove deletes a previously saved image. URLs that were not produced by
// Save (external links, other prefixes) are ignored.
func (s *ImageStore) Remove(ctx context.Context, url string) error {
	name, ok := s.fileName(url)
	if !ok {
		return nil
	}
	err := os.Remove(filepath.Join(s.uploadDir, name))
	if err != nil && !os.IsNotExist(err) {
		middleware.Logger.WarnContext(ctx, "Failed to remove outfit image",
			slog.String("url", url),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}

// fileName extracts the bare file name from a local upload URL.
func (s *ImageStore) fileName(url string) (string, bool) {
	rest, ok := strings.CutPrefix(url, s.urlPrefix+"/")
	if !ok || rest == "" {
		return "", false
	}
	if strings.ContainsAny(rest, `/\`) || rest == "." || rest == ".." {
		return "", false
	}
	return rest, true
}

var formatExtensions = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"gif":  ".gif",
	"webp": ".webp",
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isMatchingContentType(provided, detected string) bool {
	p := normalizeContentType(provided)
	d := normalizeContentType(detected)
	if p == d {
		return true
	}
	return (p == "image/jpg" && d == "image/jpeg") || (p == "image/jpeg" && d == "image/jpg")
}

func writeBytesToFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
