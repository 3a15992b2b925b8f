package screens

import (
	"context"
	"errors"
	"strings"

	v1 "sitelink.com/sitelink/api/v1"
)

type AlertKind int

const (
	AlertError AlertKind = iota
	AlertNetwork
	AlertValidation
	AlertConflict
	AlertAuth
	AlertCancelled
)

// AlertAction is a button offered with an alert. Non-binding actions only
// acknowledge the alert.
type AlertAction struct {
	Label   string
	Binding bool
}

type Alert struct {
	Kind          AlertKind
	Title         string
	Message       string
	Actions       []AlertAction
	RedirectLogin bool
}

// Conflict is implemented by domain errors that come with their own prompt.
type Conflict interface {
	error
	Prompt() (title, message string, actions []AlertAction)
}

var dismiss = AlertAction{Label: "OK", Binding: true}

// AlertFor converts an error from any screen operation into what the user
// is shown. It never fails.
func AlertFor(err error) Alert {
	if err == nil {
		return Alert{}
	}

	if errors.Is(err, context.Canceled) {
		return Alert{Kind: AlertCancelled, Title: "Cancelled", Message: "The request was cancelled."}
	}

	var conflict Conflict
	if errors.As(err, &conflict) {
		title, message, actions := conflict.Prompt()
		return Alert{Kind: AlertConflict, Title: title, Message: message, Actions: actions}
	}

	if apiErr, ok := v1.AsAPIError(err); ok {
		switch {
		case apiErr.IsUnauthorized():
			return Alert{
				Kind:          AlertAuth,
				Title:         "Session expired",
				Message:       "Please log in again.",
				Actions:       []AlertAction{dismiss},
				RedirectLogin: true,
			}
		case apiErr.IsValidation():
			return Alert{
				Kind:    AlertValidation,
				Title:   "Please check the form",
				Message: strings.Join(apiErr.ValidationLines(), "\n"),
				Actions: []AlertAction{dismiss},
			}
		default:
			return Alert{Kind: AlertError, Title: "Error", Message: apiErr.Detail(), Actions: []AlertAction{dismiss}}
		}
	}

	var validation interface{ Fields() map[string]string }
	if errors.As(err, &validation) {
		return Alert{Kind: AlertValidation, Title: "Please check the form", Message: err.Error(), Actions: []AlertAction{dismiss}}
	}

	if isLocal(err) {
		return Alert{Kind: AlertError, Title: "Error", Message: err.Error(), Actions: []AlertAction{dismiss}}
	}

	return Alert{
		Kind:    AlertNetwork,
		Title:   "Connection problem",
		Message: "Could not reach the server. Check your connection and try again.",
		Actions: []AlertAction{dismiss},
	}
}

// LocalError marks errors raised by a controller before any I/O.
type LocalError struct {
	Err error
}

func (e *LocalError) Error() string { return e.Err.Error() }
func (e *LocalError) Unwrap() error { return e.Err }

// Local wraps err as a LocalError.
func Local(err error) error {
	return &LocalError{Err: err}
}

func isLocal(err error) bool {
	var local *LocalError
	return errors.As(err, &local)
}
