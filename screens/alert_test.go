package screens

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "sitelink.com/sitelink/api/v1"
)

type conflictErr struct{}

func (conflictErr) Error() string { return "conflict" }
func (conflictErr) Prompt() (string, string, []AlertAction) {
	return "Title", "Message", []AlertAction{{Label: "OK", Binding: true}}
}

type fieldsErr struct{}

func (fieldsErr) Error() string { return "name: required" }
func (fieldsErr) Fields() map[string]string { return map[string]string{"name": "required"} }

func TestAlertFor(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		kind     AlertKind
		message  string
		redirect bool
	}{
		{name: "cancelled", err: fmt.Errorf("load: %w", context.Canceled), kind: AlertCancelled},
		{name: "conflict", err: fmt.Errorf("wrap: %w", conflictErr{}), kind: AlertConflict, message: "Message"},
		{
			name:     "unauthorized",
			err:      &v1.APIError{StatusCode: 401, Body: []byte(`{"detail":"Token expired"}`)},
			kind:     AlertAuth,
			redirect: true,
		},
		{
			name:    "server validation",
			err:     &v1.APIError{StatusCode: 400, Body: []byte(`{"title":["This field may not be blank."],"due_date":["Invalid date."]}`)},
			kind:    AlertValidation,
			message: "due_date: Invalid date.\ntitle: This field may not be blank.",
		},
		{
			name:    "server detail",
			err:     &v1.APIError{StatusCode: 500, Body: []byte(`"Internal failure"`)},
			kind:    AlertError,
			message: "Internal failure",
		},
		{name: "local validation", err: fieldsErr{}, kind: AlertValidation, message: "name: required"},
		{name: "local sentinel", err: Local(errors.New("amount must be positive")), kind: AlertError, message: "amount must be positive"},
		{name: "network", err: errors.New("dial tcp: connection refused"), kind: AlertNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alert := AlertFor(tt.err)
			assert.Equal(t, tt.kind, alert.Kind)
			assert.Equal(t, tt.redirect, alert.RedirectLogin)
			if tt.message != "" {
				assert.Equal(t, tt.message, alert.Message)
			}
		})
	}

	assert.Equal(t, Alert{}, AlertFor(nil))
}

func TestScopeCloseCancelsAndWaits(t *testing.T) {
	scope := NewScope(context.Background())
	var finished atomic.Int32
	started := make(chan struct{})

	scope.Go(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		finished.Add(1)
	})
	<-started

	require.False(t, scope.Done())
	scope.Close()
	assert.True(t, scope.Done())
	assert.Equal(t, int32(1), finished.Load())
	assert.ErrorIs(t, scope.Context().Err(), context.Canceled)
}
