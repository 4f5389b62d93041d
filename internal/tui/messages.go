package tui

import "github.com/MKhiriev/go-list-feed/models"

// signedInMsg carries the result of a login or registration request.
type signedInMsg struct {
	session models.Session
	err     error
}

// viewChangedMsg is sent when any open view changed its state.
type viewChangedMsg struct{}

// authRequiredMsg is sent when a view asked for the sign-in prompt.
type authRequiredMsg struct{}

// loadDoneMsg reports a finished network load of a screen.
type loadDoneMsg struct {
	screen screen
	err    error
}

// mutationDoneMsg reports the settled result of an optimistic action.
type mutationDoneMsg struct {
	screen screen
	op     string
	target string
	err    error
}

type refreshDoneMsg struct {
	err error
}

type copiedMsg struct {
	link string
	err  error
}

type clearStatusMsg struct{}
