package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"gorm.io/gorm"

	"sitelink.com/sitelink/core"
	"sitelink.com/sitelink/web/common"
)

// Resource serves list, get, create and partial update for one table.
type Resource[T any] struct {
	base common.Handler
	name string
	// defaults fills server-owned fields of a new row before validation
	defaults func(c *gin.Context, row *T)
}

func NewResource[T any](base common.Handler, name string, defaults func(c *gin.Context, row *T)) *Resource[T] {
	return &Resource[T]{base: base, name: name, defaults: defaults}
}

// Register mounts the resource under path. Handlers in write guard create and
// update.
func (res *Resource[T]) Register(r *gin.RouterGroup, path string, write ...gin.HandlerFunc) {
	g := r.Group(path)
	g.GET("/", res.List)
	g.GET("/:id/", res.Get)
	g.POST("/", slices.Concat(write, []gin.HandlerFunc{res.Create})...)
	g.PATCH("/:id/", slices.Concat(write, []gin.HandlerFunc{res.Update})...)
}

func (res *Resource[T]) List(c *gin.Context) {
	rows, err := core.List[T](res.base.GetDB(c))
	if err != nil {
		res.base.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSearchResponse(rows))
}

func (res *Resource[T]) find(c *gin.Context) (*T, bool) {
	id, ok := common.ID(c)
	if !ok {
		return nil, false
	}
	row, err := core.Find[T](res.base.GetDB(c), id)
	if err != nil {
		res.base.Fail(c, err)
		return nil, false
	}
	if row == nil {
		c.JSON(http.StatusNotFound, common.NewErrorResponse(res.name+" not found."))
		return nil, false
	}
	return row, true
}

func (res *Resource[T]) Get(c *gin.Context) {
	row, ok := res.find(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(row))
}

func (res *Resource[T]) Create(c *gin.Context) {
	var row T
	if err := decodeBody(c, &row); err != nil {
		common.BadRequest(c, err)
		return
	}
	if res.defaults != nil {
		res.defaults(c, &row)
	}
	if err := binding.Validator.ValidateStruct(&row); err != nil {
		common.BadRequest(c, err)
		return
	}

	if err := core.Create(res.base.GetDB(c), &row); err != nil {
		res.saveFailed(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(&row))
}

// Update merges the body onto the stored row, so absent fields keep their
// values.
func (res *Resource[T]) Update(c *gin.Context) {
	row, ok := res.find(c)
	if !ok {
		return
	}
	if err := decodeBody(c, row); err != nil {
		common.BadRequest(c, err)
		return
	}
	if err := binding.Validator.ValidateStruct(row); err != nil {
		common.BadRequest(c, err)
		return
	}

	if err := core.Save(res.base.GetDB(c), row); err != nil {
		res.saveFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(row))
}

func (res *Resource[T]) saveFailed(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(res.name+" with this code already exists."))
		return
	}
	res.base.Fail(c, err)
}

// decodeBody unmarshals the JSON object body onto row. The id key is ignored;
// ids come from the path or the database.
func decodeBody(c *gin.Context, row any) error {
	body, err := c.GetRawData()
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return io.EOF
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return err
	}
	delete(fields, "id")

	cleaned, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(cleaned, row)
}
