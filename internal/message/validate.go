package message

import "github.com/rivo/uniseg"

const (
	// TextLimit is the exclusive upper bound on text message length.
	TextLimit = 300
	// CaptionLimit is the exclusive upper bound on image caption length.
	CaptionLimit = 80
)

// Length counts user-perceived characters, not bytes.
func Length(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// ValidateText checks a draft against the text message rules.
func ValidateText(d Draft) (TextPayload, error) {
	text, ok := d.text()
	if !ok {
		return TextPayload{}, ErrMissingText
	}
	if n := Length(text); n >= TextLimit {
		return TextPayload{}, TextTooLongError{Count: n, Limit: TextLimit}
	}
	return TextPayload{text: text}, nil
}

// ValidateImage checks a draft against the image message rules. A missing
// image is reported before an over-long caption.
func ValidateImage(d Draft) (ImagePayload, error) {
	if d.Image == nil {
		return ImagePayload{}, ErrMissingImage
	}
	text, _ := d.text()
	if n := Length(text); n >= CaptionLimit {
		return ImagePayload{}, TextTooLongError{Count: n, Limit: CaptionLimit}
	}
	return ImagePayload{image: *d.Image, text: text}, nil
}
