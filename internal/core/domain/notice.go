package domain

// NoticeLevel classifies a user-visible notice
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeSuccess
	NoticeWarning
	NoticeError
)

func (l NoticeLevel) String() string {
	switch l {
	case NoticeSuccess:
		return "success"
	case NoticeWarning:
		return "warning"
	case NoticeError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a single user-visible message produced by a gateway or orchestrator.
// Detail carries optional diagnostic text (e.g. a raw response preview) rendered
// below the message.
type Notice struct {
	Level   NoticeLevel
	Message string
	Detail  string
}

func InfoNotice(msg string) Notice    { return Notice{Level: NoticeInfo, Message: msg} }
func SuccessNotice(msg string) Notice { return Notice{Level: NoticeSuccess, Message: msg} }
func WarningNotice(msg string) Notice { return Notice{Level: NoticeWarning, Message: msg} }
func ErrorNotice(msg string) Notice   { return Notice{Level: NoticeError, Message: msg} }
