package message

import "time"

// Message is a message returned by a network after a successful send.
type Message interface {
	Kind() Kind
}

// TextMessage is a published text message.
type TextMessage struct {
	ID      string
	Network string
	URL     string
	Text    string
	SentAt  time.Time
}

func (TextMessage) Kind() Kind { return Text }

// ImageMessage is a published image message.
type ImageMessage struct {
	ID      string
	Network string
	URL     string
	Text    string
	Image   ImageRef
	SentAt  time.Time
}

func (ImageMessage) Kind() Kind { return Image }
