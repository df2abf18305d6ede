package validators

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrNoImage              = errors.New("no image provided")
	ErrImageTooLarge        = errors.New("image too large")
	ErrImageTypeUnsupported = errors.New("upload a valid image")
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// ImageValidator checks the uploaded file by its content rather than the
// client supplied Content-Type. On success the returned file is rewound and
// mime holds the detected type.
func ImageValidator(fh *multipart.FileHeader, maxSize int64) (code int, f multipart.File, mime string, err error) {
	if fh == nil {
		return http.StatusBadRequest, nil, "", ErrNoImage
	}

	if maxSize > 0 && fh.Size > maxSize {
		return http.StatusRequestEntityTooLarge, nil, "", ErrImageTooLarge
	}

	f, err = fh.Open()
	if err != nil {
		return http.StatusInternalServerError, nil, "", err
	}

	m, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return http.StatusInternalServerError, nil, "", err
	}

	if !mimetype.EqualsAny(m.String(), allowedImageTypes...) {
		f.Close()
		return http.StatusBadRequest, nil, "", ErrImageTypeUnsupported
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return http.StatusInternalServerError, nil, "", err
	}

	return 0, f, m.String(), nil
}
