package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState is the screen a model is showing.
type ViewState int

const (
	// ViewStateLoading waits for the first fetch.
	ViewStateLoading ViewState = iota
	// ViewStateList shows the page.
	ViewStateList
	// ViewStateDetail shows one record.
	ViewStateDetail
	// ViewStateConfirm asks before a destructive action.
	ViewStateConfirm
	// ViewStateError shows a fatal error.
	ViewStateError
	// ViewStateQuitting is terminal.
	ViewStateQuitting
)

// Layout defaults.
const (
	defaultWidth  = 100
	defaultHeight = 24
	minHeight     = 3

	// chromeHeight is the number of lines around the list body: title,
	// status line, notice, help.
	chromeHeight = 7

	filterInputCharLimit = 64
	filterInputWidth     = 32
)

// LoadingState animates the wait for data.
type LoadingState struct {
	spinner spinner.Model
	message string
}

// NewLoadingState returns a spinner with the default message.
func NewLoadingState() *LoadingState {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = HeaderStyle
	return &LoadingState{spinner: s, message: "Loading..."}
}

// WithMessage replaces the message shown next to the spinner.
func (l *LoadingState) WithMessage(msg string) *LoadingState {
	l.message = msg
	return l
}

// Init starts the spinner.
func (l *LoadingState) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the spinner.
func (l *LoadingState) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return cmd
}

// RenderLoading renders l.
func RenderLoading(l *LoadingState) string {
	if l == nil {
		return ""
	}
	return l.spinner.View() + " " + l.message
}
