package core

import (
	"fmt"

	"gorm.io/gorm"

	"sitelink.com/sitelink/model"
	"sitelink.com/sitelink/model/role"
	"sitelink.com/sitelink/utils"
)

// SeedUsers are created by Seed, one per role. They all share the seed
// password.
var SeedUsers = []model.User{
	{Username: "admin", FirstName: "Alex", LastName: "Admin", Role: role.Admin, Email: "admin@sitelink.dev"},
	{Username: "pm", FirstName: "Priya", LastName: "Manager", Role: role.ProjectManager, Email: "pm@sitelink.dev"},
	{Username: "safety", FirstName: "Sam", LastName: "Officer", Role: role.SafetyOfficer, Email: "safety@sitelink.dev"},
	{Username: "engineer", FirstName: "Erin", LastName: "Engineer", Role: role.SiteEngineer, Email: "engineer@sitelink.dev"},
	{Username: "worker", FirstName: "Wei", LastName: "Worker", Role: role.Worker, Email: "worker@sitelink.dev"},
}

// Seed fills an empty database with development data. It does nothing when
// any user exists.
func Seed(db *gorm.DB, password string) error {
	var count int64
	if err := db.Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		users := make(map[role.Role]int, len(SeedUsers))
		for _, u := range SeedUsers {
			if err := CreateUser(tx, &u, password); err != nil {
				return fmt.Errorf("seed user %s: %w", u.Username, err)
			}
			users[u.Role] = u.ID
		}
		pm := users[role.ProjectManager]

		projects := []model.Project{
			{Name: "Riverside Tower", Code: "RST", Location: "Brisbane", Status: model.ProjectActive, StartDate: "2024-01-15", Budget: 12500000, Manager: &pm},
			{Name: "Northgate Depot", Code: "NGD", Location: "Northgate", Status: model.ProjectPlanning, StartDate: "2024-09-01", Budget: 3200000, Manager: &pm},
		}
		if err := tx.Create(&projects).Error; err != nil {
			return fmt.Errorf("seed projects: %w", err)
		}
		tower := projects[0].ID

		rows := []any{
			&[]model.Budget{
				{Project: tower, Category: "Labour", AllocatedAmount: 500000, SpentAmount: 100000, FiscalYear: 2024, Version: 1},
				{Project: tower, Category: "Materials", AllocatedAmount: 800000, SpentAmount: 640000, CommittedAmount: 120000, FiscalYear: 2024, Version: 1},
				{Project: tower, Category: "Plant", AllocatedAmount: 150000, SpentAmount: 162000, FiscalYear: 2024, Version: 1},
			},
			&[]model.Task{
				{Project: tower, Title: "Pour level 3 slab", Status: model.TaskInProgress, Priority: model.PriorityHigh, StartDate: "2024-05-01", DueDate: "2024-05-20", EstimatedHours: 120, AssignedTo: utils.Ptr(users[role.SiteEngineer])},
				{Project: tower, Title: "Install scaffolding east face", Status: model.TaskNotStarted, Priority: model.PriorityMedium, StartDate: "2024-05-10", DueDate: "2024-06-01", EstimatedHours: 40, AssignedTo: utils.Ptr(users[role.Worker])},
				{Project: tower, Title: "Crane inspection", Status: model.TaskCompleted, Priority: model.PriorityCritical, StartDate: "2024-04-01", DueDate: "2024-04-02", EstimatedHours: 6},
			},
			&[]model.Vendor{
				{Name: "Acme Concrete", Code: "ACME", ContactPerson: "Jo Smith", Email: "orders@acme.example", Phone: "07 3000 0000", Category: "concrete", Rating: 4.5},
				{Name: "Hire Co", Code: "HIRE", ContactPerson: "Lee Wong", Email: "hire@hireco.example", Category: "plant", Rating: 3.8},
			},
			&[]model.Equipment{
				{Name: "Tower crane TC-1", Code: "TC1", Project: &tower, Status: model.EquipmentInUse, NextMaintenance: utils.Ptr("2024-06-01")},
				{Name: "Excavator 20t", Code: "EX20", Status: model.EquipmentAvailable},
			},
			&[]model.Incident{
				{Project: tower, Title: "Near miss: dropped tool", Severity: model.SeverityMedium, Status: model.IncidentInvestigating, IncidentDate: "2024-05-03", Location: "Level 3", ReportedBy: users[role.SafetyOfficer]},
			},
			&[]model.MaterialRequest{
				{Project: tower, Material: "N12 rebar", Quantity: 4, Unit: "t", Status: model.MaterialPending, RequestedBy: users[role.SiteEngineer], RequiredDate: "2024-05-15"},
			},
		}
		for _, r := range rows {
			if err := tx.Create(r).Error; err != nil {
				return fmt.Errorf("seed %T: %w", r, err)
			}
		}
		return nil
	})
}
