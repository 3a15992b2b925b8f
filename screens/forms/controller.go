// Package forms implements the create/edit forms. Each form is a Controller
// over a draft type; drafts carry their own validation rules and know how to
// turn themselves into a request payload.
package forms

import (
	"context"
	"fmt"
	"strings"

	v1 "sitelink.com/sitelink/api/v1"
	"sitelink.com/sitelink/utils"
)

// Draft is the editable state of a form.
type Draft interface {
	Payload() any
}

// Saver is the create/update half of a resource accessor.
type Saver[T any] interface {
	Create(ctx context.Context, payload any) (*T, error)
	Update(ctx context.Context, id int, partial any) (*T, error)
}

type Controller[D Draft, T any] struct {
	api    Saver[T]
	blank  D
	draft  D
	editID int
	errors map[string][]string
	logger *utils.Logger

	// OnSaved runs after a successful submit.
	OnSaved func(ctx context.Context, saved *T)
}

// NewController starts a create form with blank as the initial draft.
func NewController[D Draft, T any](api Saver[T], blank D) *Controller[D, T] {
	return &Controller[D, T]{api: api, blank: blank, draft: blank, logger: utils.DefaultLogger}
}

func (c *Controller[D, T]) SetLogger(l *utils.Logger) {
	c.logger = l
}

// Edit switches the form to update the record id, starting from draft.
func (c *Controller[D, T]) Edit(id int, draft D) {
	c.editID = id
	c.draft = draft
	c.errors = nil
}

// Reset returns to an empty create form.
func (c *Controller[D, T]) Reset() {
	c.editID = 0
	c.draft = c.blank
	c.errors = nil
}

func (c *Controller[D, T]) Set(draft D) {
	c.draft = draft
}

func (c *Controller[D, T]) Draft() D {
	return c.draft
}

func (c *Controller[D, T]) Editing() bool {
	return c.editID != 0
}

// Validate checks the draft locally and records any field errors.
func (c *Controller[D, T]) Validate() error {
	err := validateDraft(c.draft)
	c.errors = nil
	if ve, ok := err.(*ValidationError); ok {
		c.errors = make(map[string][]string, len(ve.fields))
		for k, msg := range ve.fields {
			c.errors[k] = []string{msg}
		}
	}
	return err
}

// Submit validates and then creates or updates the record. An invalid draft
// never reaches the server.
func (c *Controller[D, T]) Submit(ctx context.Context) (*T, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var (
		saved *T
		err   error
	)
	if c.editID != 0 {
		saved, err = c.api.Update(ctx, c.editID, c.draft.Payload())
	} else {
		saved, err = c.api.Create(ctx, c.draft.Payload())
	}
	if err != nil {
		if apiErr, ok := v1.AsAPIError(err); ok && apiErr.IsValidation() {
			c.errors = apiErr.FieldErrors()
		}
		return nil, fmt.Errorf("save: %w", err)
	}
	if ctx.Err() != nil {
		return saved, ctx.Err()
	}

	c.logger.Debugf("saved %T", c.draft)
	if c.OnSaved != nil {
		c.OnSaved(ctx, saved)
	}
	return saved, nil
}

// FieldErrors are the errors of the last validation or submit, local or
// from the server.
func (c *Controller[D, T]) FieldErrors() map[string][]string {
	return c.errors
}

// ErrorText renders FieldErrors as "field: message" lines.
func (c *Controller[D, T]) ErrorText() string {
	return strings.Join(fieldLines(c.errors), "\n")
}
