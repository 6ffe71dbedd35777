package domain

type MessageKind string

const (
	MessageText      MessageKind = "text"
	MessagePhoto     MessageKind = "photo"
	MessageVideo     MessageKind = "video"
	MessageVideoNote MessageKind = "video_note"
	MessageVoice     MessageKind = "voice"
)

// AttachmentRef points at a file held by the chat platform.
type AttachmentRef struct {
	FileID string
	Ext    string // with leading dot, e.g. ".ogg"
}

// InboundMessage is the transport-neutral view of a chat message.
type InboundMessage struct {
	UserID     string
	Kind       MessageKind
	Text       string
	Caption    string
	Attachment *AttachmentRef
	Thumbnail  *AttachmentRef
}

type Reply struct {
	Text string
	// NewUser is set when this message created the sender's profile.
	NewUser bool
}
