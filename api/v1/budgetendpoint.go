package v1

import (
	"context"
	"net/http"
	"strconv"

	"sitelink.com/sitelink/model"
)

type BudgetEndpoint struct {
	*Resource[model.Budget]
}

// UpdateVersioned sends a partial update that only applies when the stored
// version still equals version. A stale version fails with 412.
func (ep *BudgetEndpoint) UpdateVersioned(ctx context.Context, id int, partial any, version int) (*model.Budget, error) {
	header := http.Header{}
	header.Set("If-Match", strconv.Quote(strconv.Itoa(version)))
	return ep.update(ctx, id, partial, header)
}
