package core

import "context"

// NoticeLevel is the severity of a message shown to the user
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeWarning
	NoticeError
)

func (l NoticeLevel) String() string {
	switch l {
	case NoticeWarning:
		return "warning"
	case NoticeError:
		return "error"
	default:
		return "info"
	}
}

// UserInteraction is everything the service needs from the person at the
// keyboard. Pickers return "" when nothing was selected.
type UserInteraction interface {
	Confirm(ctx context.Context, title, message string) (bool, error)
	Notify(ctx context.Context, level NoticeLevel, message string)
	PickFile(ctx context.Context, title string, extensions []string) (string, error)
	PickFolder(ctx context.Context, title string) (string, error)
}

// silentUI declines every confirmation and never selects anything.
type silentUI struct{}

func (silentUI) Confirm(context.Context, string, string) (bool, error) { return false, nil }
func (silentUI) Notify(context.Context, NoticeLevel, string) {}
func (silentUI) PickFile(context.Context, string, []string) (string, error) { return "", nil }
func (silentUI) PickFolder(context.Context, string) (string, error) { return "", nil }
