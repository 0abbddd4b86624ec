package format

// NoticeType is the toast variant.
type NoticeType string

const (
	NoticeSuccess NoticeType = "success"
	NoticeError   NoticeType = "error"
)

// NoticeDismissAfterMs is how long a toast stays on screen.
const NoticeDismissAfterMs = 4000

// Notice is the operator feedback attached to every write response.
type Notice struct {
	Type           NoticeType `json:"type"`
	Message        string     `json:"message"`
	DismissAfterMs int        `json:"dismiss_after_ms"`
}

func Success(message string) Notice {
	return Notice{Type: NoticeSuccess, Message: message, DismissAfterMs: NoticeDismissAfterMs}
}

func Failure(message string) Notice {
	return Notice{Type: NoticeError, Message: message, DismissAfterMs: NoticeDismissAfterMs}
}
