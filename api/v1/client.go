package v1

import (
	"time"

	"sitelink.com/sitelink/model"
)

type Client struct {
	Transport  *Transport
	Auth       *AuthEndpoint
	Attendance *AttendanceEndpoint
	Budgets    *BudgetEndpoint
	Projects   *Resource[model.Project]
	Tasks      *Resource[model.Task]
	Vendors    *Resource[model.Vendor]
	Users      *Resource[model.User]
	Equipment  *Resource[model.Equipment]
	Safety     *SafetyEndpoint
	Materials  *MaterialEndpoint
}

// NewClient initializes the API client
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	t := NewTransport(baseURL, tokens, timeout)
	return &Client{
		Transport:  t,
		Auth:       &AuthEndpoint{transport: t},
		Attendance: &AttendanceEndpoint{NewResource[model.AttendanceRecord](t, "/api/attendance/")},
		Budgets:    &BudgetEndpoint{NewResource[model.Budget](t, "/api/budgets/")},
		Projects:   NewResource[model.Project](t, "/api/projects/"),
		Tasks:      NewResource[model.Task](t, "/api/tasks/"),
		Vendors:    NewResource[model.Vendor](t, "/api/vendors/"),
		Users:      NewResource[model.User](t, "/api/users/"),
		Equipment:  NewResource[model.Equipment](t, "/api/equipment/"),
		Safety:     &SafetyEndpoint{incidents: NewResource[model.Incident](t, "/api/safety/incidents/")},
		Materials:  &MaterialEndpoint{requests: NewResource[model.MaterialRequest](t, "/api/materials/requests/")},
	}
}
