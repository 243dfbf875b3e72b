package message

// TextPayload is non-empty text that passed ValidateText.
type TextPayload struct {
	text string
}

func (p TextPayload) Text() string { return p.text }

// ImagePayload is an image with optional text that passed ValidateImage.
type ImagePayload struct {
	image ImageRef
	text  string
}

func (p ImagePayload) Image() ImageRef { return p.image }

// Text returns the caption, empty when none was given.
func (p ImagePayload) Text() string { return p.text }
