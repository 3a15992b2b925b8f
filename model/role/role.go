package role

type Role string

const (
	Admin          Role = "admin"
	ProjectManager Role = "project_manager"
	SafetyOfficer  Role = "safety_officer"
	SiteEngineer   Role = "site_engineer"
	Worker         Role = "worker"
)

func (r Role) Valid() bool {
	switch r {
	case Admin, ProjectManager, SafetyOfficer, SiteEngineer, Worker:
		return true
	}
	return false
}
