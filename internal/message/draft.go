package message

import "github.com/samber/lo"

// Draft is the in-progress content of a message before validation.
type Draft struct {
	Text  *string
	Image *ImageRef
}

// NewTextDraft returns a draft holding only text.
func NewTextDraft(text string) Draft {
	return Draft{}.WithText(text)
}

// NewImageDraft returns a draft holding an image and no text.
func NewImageDraft(img ImageRef) Draft {
	return Draft{}.WithImage(img)
}

// WithText returns a copy of d with its text replaced.
func (d Draft) WithText(text string) Draft {
	d.Text = lo.ToPtr(text)
	return d
}

// WithoutText returns a copy of d with no text.
func (d Draft) WithoutText() Draft {
	d.Text = nil
	return d
}

// WithImage returns a copy of d with its image replaced.
func (d Draft) WithImage(img ImageRef) Draft {
	d.Image = lo.ToPtr(img)
	return d
}

// WithoutImage returns a copy of d with no image.
func (d Draft) WithoutImage() Draft {
	d.Image = nil
	return d
}

func (d Draft) text() (string, bool) {
	if d.Text == nil || *d.Text == "" {
		return "", false
	}
	return *d.Text, true
}
