package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sitelink.com/sitelink/core"
	"sitelink.com/sitelink/model"
	"sitelink.com/sitelink/model/role"
	"sitelink.com/sitelink/utils"
	"sitelink.com/sitelink/web/common"
	"sitelink.com/sitelink/web/middlewares"
)

type Options struct {
	Secret   []byte
	TokenTTL time.Duration
	// Zone is the site time zone used for default dates.
	Zone   *time.Location
	Logger *utils.Logger
	// Registry receives the request metrics. A new registry with the Go and
	// process collectors is used when nil.
	Registry *prometheus.Registry
}

func NewRouter(dm *core.DatabaseManager, opts Options) *gin.Engine {
	if opts.Zone == nil {
		opts.Zone = utils.SiteZone
	}
	if opts.Logger == nil {
		opts.Logger = utils.DefaultLogger
	}
	if opts.TokenTTL == 0 {
		opts.TokenTTL = 12 * time.Hour
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
		opts.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	metrics := middlewares.NewMetrics(opts.Registry)
	base := common.Handler{Dm: dm, Zone: opts.Zone, Log: opts.Logger}

	r := gin.Default()
	r.Use(metrics.Handler())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	RegisterAuth(api, base, opts.Secret, opts.TokenTTL)

	protected := api.Group("")
	protected.Use(middlewares.Authentication(opts.Secret))
	{
		managers := middlewares.RequireRole(role.ProjectManager)

		RegisterAttendance(protected, base)
		RegisterBudgets(protected, base)

		NewResource(base, "Project", func(_ *gin.Context, p *model.Project) {
			if p.Status == "" {
				p.Status = model.ProjectPlanning
			}
		}).Register(protected, "/projects", managers)

		NewResource(base, "Task", func(_ *gin.Context, t *model.Task) {
			if t.Status == "" {
				t.Status = model.TaskNotStarted
			}
			if t.Priority == "" {
				t.Priority = model.PriorityMedium
			}
		}).Register(protected, "/tasks")

		NewResource[model.Vendor](base, "Vendor", nil).Register(protected, "/vendors", managers)

		NewResource(base, "Equipment", func(_ *gin.Context, e *model.Equipment) {
			if e.Status == "" {
				e.Status = model.EquipmentAvailable
			}
		}).Register(protected, "/equipment")

		NewResource(base, "Incident", func(c *gin.Context, i *model.Incident) {
			i.Status = model.IncidentOpen
			i.ReportedBy = middlewares.Identity(c).UserID
			if i.IncidentDate == "" {
				i.IncidentDate = base.Today()
			}
		}).Register(protected, "/safety/incidents")

		NewResource(base, "Material request", func(c *gin.Context, m *model.MaterialRequest) {
			m.Status = model.MaterialPending
			m.RequestedBy = middlewares.Identity(c).UserID
		}).Register(protected, "/materials/requests")

		users := NewResource[model.User](base, "User", nil)
		g := protected.Group("/users")
		g.GET("/", users.List)
		g.GET("/:id/", users.Get)
		g.PATCH("/:id/", middlewares.RequireRole(role.Admin), users.Update)
	}

	return r
}
