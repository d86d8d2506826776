package ui

import "github.com/unkn0wn-root/actionrun/internal/panel"

type invokeResultMsg struct {
	ticket  panel.Ticket
	payload any
	err     error
}

type noticeLevel int

const (
	noticeInfo noticeLevel = iota
	noticeWarn
	noticeSuccess
)

// noticeMsg feeds the footer. It never replaces the invocation status line.
type noticeMsg struct {
	text  string
	level noticeLevel
}
