package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"sitelink.com/sitelink/core"
	"sitelink.com/sitelink/model"
	"sitelink.com/sitelink/model/role"
	"sitelink.com/sitelink/web/common"
	"sitelink.com/sitelink/web/middlewares"
)

type BudgetEndpoint struct {
	*Resource[model.Budget]
}

func RegisterBudgets(r *gin.RouterGroup, base common.Handler) {
	ep := &BudgetEndpoint{NewResource(base, "Budget", func(_ *gin.Context, b *model.Budget) {
		b.Version = 1
	})}
	write := middlewares.RequireRole(role.ProjectManager)

	g := r.Group("/budgets")
	g.GET("/", ep.List)
	g.GET("/:id/", ep.Get)
	g.POST("/", write, ep.Create)
	g.PATCH("/:id/", write, ep.Update)
}

func setETag(c *gin.Context, b *model.Budget) {
	c.Header("ETag", strconv.Quote(strconv.Itoa(b.Version)))
}

func (ep *BudgetEndpoint) Get(c *gin.Context) {
	b, ok := ep.find(c)
	if !ok {
		return
	}
	setETag(c, b)
	c.JSON(http.StatusOK, common.NewSuccessResponse(b))
}

// ifMatch reads the version from If-Match. A missing header is version 0,
// which skips the check.
func ifMatch(c *gin.Context) (int, error) {
	v := strings.TrimSpace(c.GetHeader("If-Match"))
	if v == "" || v == "*" {
		return 0, nil
	}
	v = strings.TrimPrefix(v, "W/")
	if unquoted, err := strconv.Unquote(v); err == nil {
		v = unquoted
	}
	return strconv.Atoi(v)
}

// Update applies a partial update when If-Match names the stored version and
// answers 412 otherwise.
func (ep *BudgetEndpoint) Update(c *gin.Context) {
	id, ok := common.ID(c)
	if !ok {
		return
	}
	version, err := ifMatch(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid If-Match header."))
		return
	}

	var invalid error
	b, err := core.UpdateBudget(ep.base.GetDB(c), id, version, func(b *model.Budget) error {
		if err := decodeBody(c, b); err != nil {
			invalid = err
			return err
		}
		if err := binding.Validator.ValidateStruct(b); err != nil {
			invalid = err
			return err
		}
		return nil
	})
	switch {
	case invalid != nil:
		common.BadRequest(c, invalid)
		return
	case errors.Is(err, core.ErrVersionConflict):
		ep.base.Log.Warnf("budget %d: stale version %d", id, version)
		c.JSON(http.StatusPreconditionFailed, common.NewErrorResponse(core.ErrVersionConflict.Error()))
		return
	case err != nil:
		ep.base.Fail(c, err)
		return
	case b == nil:
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Budget not found."))
		return
	}

	setETag(c, b)
	c.JSON(http.StatusOK, common.NewSuccessResponse(b))
}
