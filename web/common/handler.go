package common

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"sitelink.com/sitelink/core"
	"sitelink.com/sitelink/utils"
)

type Handler struct {
	Dm   *core.DatabaseManager
	Zone *time.Location
	Log  *utils.Logger
}

// GetDB returns the pool bound to the request context.
func (h *Handler) GetDB(c *gin.Context) *gorm.DB {
	return h.Dm.DB.WithContext(c.Request.Context())
}

// Today is the current date at the site.
func (h *Handler) Today() string {
	return time.Now().In(h.Zone).Format(utils.DateLayout)
}

// ID parses the :id path parameter and answers 404 when it is not a number.
func ID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, NewErrorResponse("Not found."))
		return 0, false
	}
	return id, true
}

// Fail answers 500 and logs err.
func (h *Handler) Fail(c *gin.Context, err error) {
	h.Log.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, NewErrorResponse(err.Error()))
}

// BadRequest answers 400 with a field map for validation errors and a
// detail otherwise.
func BadRequest(c *gin.Context, err error) {
	if fields := FieldErrors(err); fields != nil {
		c.JSON(http.StatusBadRequest, fields)
		return
	}
	c.JSON(http.StatusBadRequest, NewErrorResponse(FormatBindingError(err)))
}
