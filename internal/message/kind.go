package message

// Kind identifies the flavour of a message.
type Kind int

const (
	Text Kind = iota + 1
	Image
	// Official messages are published by the service itself and are
	// receive-only. No submission strategy exists for this kind.
	Official
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Image:
		return "image"
	case Official:
		return "official"
	default:
		return "unknown"
	}
}
