package proxy

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/citylink/admin-gateway/internal/core/domain"
)

// Image upload limits.
const (
	MaxImageBytes = 5 << 20
	MaxImages     = 5
)

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// checkFiles enforces presence, MIME type, size and count limits on every
// declared file field. Undeclared file fields are ignored and never forwarded.
func checkFiles(r Route, p *Payload) error {
	for _, ff := range r.Files {
		files := p.Files(ff.Name)
		if ff.Required && len(files) == 0 {
			if ff.MaxFiles > 1 {
				return domain.NewValidationError(ff.Name, "At least one image is required")
			}
			return domain.NewValidationError(ff.Name, "Image file is required")
		}
		limit, _ := r.maxFiles(ff.Name)
		if len(files) > limit {
			if limit == 1 {
				return domain.NewValidationError(ff.Name, "Only one file is allowed")
			}
			return domain.NewValidationError(ff.Name, fmt.Sprintf("Maximum %d images allowed", limit))
		}
		for _, fh := range files {
			ct := strings.ToLower(strings.TrimSpace(fh.Header.Get("Content-Type")))
			if _, ok := allowedImageTypes[ct]; !ok {
				return domain.NewValidationError(ff.Name, "Invalid file type. Only JPEG, PNG, GIF and WebP images are allowed")
			}
			if fh.Size > MaxImageBytes {
				return domain.NewValidationError(ff.Name, "File size must be less than 5MB")
			}
		}
	}
	return nil
}

// encodeMultipart rebuilds a fresh multipart body from the payload's
// forwarded text fields and declared files.
func encodeMultipart(r Route, p *Payload) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	names := r.Fields
	if len(names) == 0 {
		names = p.fieldNames()
	}
	for _, name := range names {
		if name == r.IDField && r.IDField != "" {
			continue
		}
		for _, v := range p.values[name] {
			if err := mw.WriteField(name, v); err != nil {
				return nil, "", fmt.Errorf("write field %s: %w", name, err)
			}
		}
	}

	for _, ff := range r.Files {
		for _, fh := range p.Files(ff.Name) {
			if err := copyFile(mw, ff.Name, fh); err != nil {
				return nil, "", err
			}
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

func copyFile(mw *multipart.Writer, field string, fh *multipart.FileHeader) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(fh.Filename)))
	h.Set("Content-Type", fh.Header.Get("Content-Type"))

	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create part %s: %w", field, err)
	}

	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload %s: %w", field, err)
	}
	defer src.Close()

	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("copy upload %s: %w", field, err)
	}
	return nil
}
