package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"sitelink.com/sitelink/api/v1/common"
)

// Resource is the getAll/getById/create/update accessor shared by every
// REST collection.
type Resource[T any] struct {
	transport *Transport
	path      string
}

func NewResource[T any](t *Transport, path string) *Resource[T] {
	return &Resource[T]{transport: t, path: path}
}

func decode[T any](resp *Response) (T, error) {
	var result common.SuccessResponse[T]
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		var zero T
		return zero, fmt.Errorf("decode response: %w", err)
	}
	return result.Data, nil
}

func (r *Resource[T]) itemPath(id int) string {
	return fmt.Sprintf("%s%d/", r.path, id)
}

func (r *Resource[T]) GetAll(ctx context.Context) ([]T, error) {
	return r.List(ctx, nil)
}

// List fetches the collection with query filters.
func (r *Resource[T]) List(ctx context.Context, query map[string]string) ([]T, error) {
	resp, err := r.transport.Get(ctx, r.path, query)
	if err != nil {
		return nil, err
	}
	return decode[[]T](resp)
}

func (r *Resource[T]) GetByID(ctx context.Context, id int) (*T, error) {
	resp, err := r.transport.Get(ctx, r.itemPath(id), nil)
	if err != nil {
		return nil, err
	}
	return decode[*T](resp)
}

func (r *Resource[T]) Create(ctx context.Context, payload any) (*T, error) {
	resp, err := r.transport.Post(ctx, r.path, payload)
	if err != nil {
		return nil, err
	}
	return decode[*T](resp)
}

// Update sends a partial update.
func (r *Resource[T]) Update(ctx context.Context, id int, partial any) (*T, error) {
	return r.update(ctx, id, partial, nil)
}

func (r *Resource[T]) update(ctx context.Context, id int, partial any, header http.Header) (*T, error) {
	resp, err := r.transport.Patch(ctx, r.itemPath(id), partial, header)
	if err != nil {
		return nil, err
	}
	return decode[*T](resp)
}
