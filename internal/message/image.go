package message

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ImageRef points at a local image attached to a draft.
type ImageRef struct {
	Path string
	Alt  string
	MIME string
}

// UnsupportedImageError is returned by LoadImage for files that are not images.
type UnsupportedImageError struct {
	Path string
	MIME string
}

func (e UnsupportedImageError) Error() string {
	return fmt.Sprintf("%q is not an image (detected %s)", e.Path, e.MIME)
}

// LoadImage sniffs the file at path and returns a reference to it.
func LoadImage(path, alt string) (ImageRef, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ImageRef{}, fmt.Errorf("image %q not found", path)
		}
		return ImageRef{}, fmt.Errorf("detect image type: %w", err)
	}
	if !strings.HasPrefix(mt.String(), "image/") {
		return ImageRef{}, UnsupportedImageError{Path: path, MIME: mt.String()}
	}

	return ImageRef{
		Path: path,
		Alt:  strings.TrimSpace(alt),
		MIME: mt.String(),
	}, nil
}
