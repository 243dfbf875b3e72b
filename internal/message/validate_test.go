package message

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateText(t *testing.T) {
	tests := []struct {
		name    string
		draft   Draft
		wantErr error
	}{
		{name: "short", draft: NewTextDraft("hello")},
		{name: "299 characters", draft: NewTextDraft(strings.Repeat("a", 299))},
		{name: "300 characters", draft: NewTextDraft(strings.Repeat("a", 300)), wantErr: TextTooLongError{Count: 300, Limit: TextLimit}},
		{name: "301 characters", draft: NewTextDraft(strings.Repeat("a", 301)), wantErr: TextTooLongError{Count: 301, Limit: TextLimit}},
		{name: "absent text", draft: Draft{}, wantErr: ErrMissingText},
		{name: "empty text", draft: NewTextDraft(""), wantErr: ErrMissingText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := ValidateText(tt.draft)
			if tt.wantErr != nil {
				require.Equal(t, tt.wantErr, err)
				require.True(t, IsValidationError(err))
				return
			}
			require.NoError(t, err)
			require.Equal(t, *tt.draft.Text, payload.Text())
		})
	}
}

func TestValidateTextCountsCharactersNotBytes(t *testing.T) {
	// 299 three-byte characters
	_, err := ValidateText(NewTextDraft(strings.Repeat("テ", 299)))
	require.NoError(t, err)

	// "e" + combining acute accent renders as a single character
	_, err = ValidateText(NewTextDraft(strings.Repeat("e\u0301", 299)))
	require.NoError(t, err)

	_, err = ValidateText(NewTextDraft(strings.Repeat("テ", 300)))
	require.Equal(t, TextTooLongError{Count: 300, Limit: TextLimit}, err)
}

func TestValidateImage(t *testing.T) {
	img := ImageRef{Path: "shot.png", MIME: "image/png"}

	tests := []struct {
		name    string
		draft   Draft
		wantErr error
	}{
		{name: "image without text", draft: NewImageDraft(img)},
		{name: "image with empty text", draft: NewImageDraft(img).WithText("")},
		{name: "79 character caption", draft: NewImageDraft(img).WithText(strings.Repeat("b", 79))},
		{name: "80 character caption", draft: NewImageDraft(img).WithText(strings.Repeat("b", 80)), wantErr: TextTooLongError{Count: 80, Limit: CaptionLimit}},
		{name: "missing image", draft: NewTextDraft("caption"), wantErr: ErrMissingImage},
		{name: "missing image and long caption", draft: NewTextDraft(strings.Repeat("b", 200)), wantErr: ErrMissingImage},
		{name: "nothing", draft: Draft{}, wantErr: ErrMissingImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := ValidateImage(tt.draft)
			if tt.wantErr != nil {
				require.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, img, payload.Image())
		})
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	drafts := []Draft{
		NewTextDraft("hello"),
		NewTextDraft(strings.Repeat("x", 301)),
		NewImageDraft(ImageRef{Path: "a.png"}).WithText(strings.Repeat("y", 80)),
		{},
	}

	for _, d := range drafts {
		p1, err1 := ValidateText(d)
		p2, err2 := ValidateText(d)
		require.Equal(t, p1, p2)
		require.Equal(t, err1, err2)

		i1, err1 := ValidateImage(d)
		i2, err2 := ValidateImage(d)
		require.Equal(t, i1, i2)
		require.Equal(t, err1, err2)
	}
}

func TestDraftHelpersDoNotAlias(t *testing.T) {
	base := NewTextDraft("one")
	changed := base.WithText("two")

	require.Equal(t, "one", *base.Text)
	require.Equal(t, "two", *changed.Text)
	require.Nil(t, changed.WithoutText().Text)
	require.Nil(t, NewImageDraft(ImageRef{Path: "a.png"}).WithoutImage().Image)
}
