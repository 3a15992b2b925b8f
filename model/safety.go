package model

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severe reports whether the incident must be escalated.
func (s Severity) Severe() bool {
	return s == SeverityHigh || s == SeverityCritical
}

const (
	IncidentOpen          = "open"
	IncidentInvestigating = "investigating"
	IncidentResolved      = "resolved"
	IncidentClosed        = "closed"
)

type Incident struct {
	ID           int      `gorm:"primaryKey;column:id" json:"id"`
	Project      int      `gorm:"column:project_id" json:"project" binding:"gt=0"`
	Title        string   `gorm:"column:title" json:"title" binding:"notblank"`
	Description  string   `gorm:"column:description" json:"description"`
	Severity     Severity `gorm:"column:severity;type:varchar(20)" json:"severity" binding:"oneof=low medium high critical"`
	Status       string   `gorm:"column:status;type:varchar(20)" json:"status" binding:"omitempty,oneof=open investigating resolved closed"`
	IncidentDate string   `gorm:"column:incident_date;type:varchar(10)" json:"incident_date" binding:"omitempty,datetime=2006-01-02"`
	Location     string   `gorm:"column:location" json:"location"`
	ReportedBy   int      `gorm:"column:reported_by" json:"reported_by"`
}

func (Incident) TableName() string {
	return "safety_incidents"
}

// Unresolved reports whether the incident still needs attention.
func (i Incident) Unresolved() bool {
	return i.Status != IncidentResolved && i.Status != IncidentClosed
}

const (
	EquipmentAvailable   = "available"
	EquipmentInUse       = "in_use"
	EquipmentMaintenance = "maintenance"
	EquipmentRetired     = "retired"
)

type Equipment struct {
	ID              int     `gorm:"primaryKey;column:id" json:"id"`
	Name            string  `gorm:"column:name" json:"name" binding:"notblank"`
	Code            string  `gorm:"column:code;uniqueIndex;type:varchar(50)" json:"code" binding:"notblank"`
	Project         *int    `gorm:"column:project_id" json:"project"`
	Status          string  `gorm:"column:status;type:varchar(20)" json:"status" binding:"omitempty,oneof=available in_use maintenance retired"`
	NextMaintenance *string `gorm:"column:next_maintenance;type:varchar(10)" json:"next_maintenance"`
}

func (Equipment) TableName() string {
	return "equipment"
}

// MaintenanceDue reports whether maintenance is scheduled on or before today.
func (e Equipment) MaintenanceDue(today string) bool {
	return e.NextMaintenance != nil && *e.NextMaintenance != "" && *e.NextMaintenance <= today
}

const (
	MaterialPending   = "pending"
	MaterialApproved  = "approved"
	MaterialRejected  = "rejected"
	MaterialDelivered = "delivered"
)

type MaterialRequest struct {
	ID           int     `gorm:"primaryKey;column:id" json:"id"`
	Project      int     `gorm:"column:project_id" json:"project" binding:"gt=0"`
	Material     string  `gorm:"column:material" json:"material" binding:"notblank"`
	Quantity     float64 `gorm:"column:quantity;type:decimal(12,2)" json:"quantity" binding:"gt=0"`
	Unit         string  `gorm:"column:unit" json:"unit"`
	Status       string  `gorm:"column:status;type:varchar(20)" json:"status" binding:"omitempty,oneof=pending approved rejected delivered"`
	RequestedBy  int     `gorm:"column:requested_by" json:"requested_by"`
	RequiredDate string  `gorm:"column:required_date;type:varchar(10)" json:"required_date" binding:"omitempty,datetime=2006-01-02"`
}

func (MaterialRequest) TableName() string {
	return "material_requests"
}
