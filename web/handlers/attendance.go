package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sitelink.com/sitelink/core"
	"sitelink.com/sitelink/model"
	"sitelink.com/sitelink/model/role"
	"sitelink.com/sitelink/web/common"
	"sitelink.com/sitelink/web/middlewares"
)

type AttendanceEndpoint struct {
	base common.Handler
}

func RegisterAttendance(r *gin.RouterGroup, base common.Handler) {
	ep := &AttendanceEndpoint{base: base}
	g := r.Group("/attendance")
	g.GET("/", ep.List)
	g.GET("/:id/", ep.Get)
	g.POST("/check_in/", ep.CheckIn)
	g.PATCH("/:id/check_out/", ep.CheckOut)
}

// List filters by ?user=, ?from= and ?to= (inclusive dates).
func (ep *AttendanceEndpoint) List(c *gin.Context) {
	filter := core.AttendanceFilter{From: c.Query("from"), To: c.Query("to")}
	if u := c.Query("user"); u != "" {
		id, err := strconv.Atoi(u)
		if err != nil {
			c.JSON(http.StatusBadRequest, map[string][]string{"user": {"A valid integer is required."}})
			return
		}
		filter.User = &id
	}

	records, err := core.ListAttendance(ep.base.GetDB(c), filter)
	if err != nil {
		ep.base.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSearchResponse(records))
}

func (ep *AttendanceEndpoint) Get(c *gin.Context) {
	id, ok := common.ID(c)
	if !ok {
		return
	}
	rec, err := core.Find[model.AttendanceRecord](ep.base.GetDB(c), id)
	if err != nil {
		ep.base.Fail(c, err)
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Attendance record not found."))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(rec))
}

// CheckIn records the caller's arrival. Only admins may check in someone
// else. The date defaults to today at the site.
func (ep *AttendanceEndpoint) CheckIn(c *gin.Context) {
	var req model.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}

	identity := middlewares.Identity(c)
	if req.User == 0 || identity.Role != role.Admin {
		req.User = identity.UserID
	}
	if req.Date == "" {
		req.Date = ep.base.Today()
	}

	db := ep.base.GetDB(c)
	project, err := core.Find[model.Project](db, req.Project)
	if err != nil {
		ep.base.Fail(c, err)
		return
	}
	if project == nil {
		c.JSON(http.StatusBadRequest, map[string][]string{
			"project": {"Invalid pk \"" + strconv.Itoa(req.Project) + "\" - object does not exist."},
		})
		return
	}

	rec := &model.AttendanceRecord{
		User:        req.User,
		Project:     req.Project,
		Date:        req.Date,
		CheckInTime: req.CheckInTime,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Notes:       req.Notes,
	}
	if err := core.CheckIn(db, rec); err != nil {
		if errors.Is(err, core.ErrDuplicateCheckIn) {
			c.JSON(http.StatusConflict, common.NewErrorResponse(core.ErrDuplicateCheckIn.Error()))
			return
		}
		ep.base.Fail(c, err)
		return
	}

	ep.base.Log.Infof("user %d checked in to project %d on %s at %s", rec.User, rec.Project, rec.Date, rec.CheckInTime)
	c.JSON(http.StatusCreated, common.NewSuccessResponse(rec))
}

// CheckOut closes a record owned by the caller, or any record for admins.
func (ep *AttendanceEndpoint) CheckOut(c *gin.Context) {
	id, ok := common.ID(c)
	if !ok {
		return
	}
	var req model.CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}

	db := ep.base.GetDB(c)
	identity := middlewares.Identity(c)
	if identity.Role != role.Admin {
		rec, err := core.Find[model.AttendanceRecord](db, id)
		if err != nil {
			ep.base.Fail(c, err)
			return
		}
		if rec != nil && rec.User != identity.UserID {
			c.JSON(http.StatusForbidden, common.NewErrorResponse("You do not have permission to perform this action."))
			return
		}
	}

	rec, err := core.CheckOut(db, id, req)
	switch {
	case errors.Is(err, core.ErrAlreadyCheckedOut):
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Already checked out."))
		return
	case errors.Is(err, model.ErrCheckOutBeforeCheckIn):
		c.JSON(http.StatusBadRequest, map[string][]string{"check_out_time": {"Check-out must be after check-in."}})
		return
	case err != nil:
		ep.base.Fail(c, err)
		return
	case rec == nil:
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Attendance record not found."))
		return
	}

	ep.base.Log.Infof("user %d checked out of record %d at %s (%.2fh)", rec.User, rec.ID, req.CheckOutTime, req.HoursWorked)
	c.JSON(http.StatusOK, common.NewSuccessResponse(rec))
}
