package model

type TaskStatus string

const (
	TaskNotStarted TaskStatus = "not_started"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskOnHold     TaskStatus = "on_hold"
)

// TaskStatuses lists every status in display order.
var TaskStatuses = []TaskStatus{TaskNotStarted, TaskInProgress, TaskCompleted, TaskOnHold}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskNotStarted, TaskInProgress, TaskCompleted, TaskOnHold:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

type Task struct {
	ID             int        `gorm:"primaryKey;column:id" json:"id"`
	Project        int        `gorm:"column:project_id" json:"project" binding:"gt=0"`
	Title          string     `gorm:"column:title" json:"title" binding:"notblank"`
	Description    string     `gorm:"column:description" json:"description,omitempty"`
	AssignedTo     *int       `gorm:"column:assigned_to" json:"assigned_to"`
	Status         TaskStatus `gorm:"column:status;type:varchar(20)" json:"status" binding:"omitempty,oneof=not_started in_progress completed on_hold"`
	Priority       Priority   `gorm:"column:priority;type:varchar(20)" json:"priority" binding:"omitempty,oneof=low medium high critical"`
	StartDate      string     `gorm:"column:start_date;type:varchar(10)" json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	DueDate        string     `gorm:"column:due_date;type:varchar(10)" json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	EstimatedHours float64    `gorm:"column:estimated_hours;type:decimal(8,2)" json:"estimated_hours" binding:"gte=0"`
}

func (Task) TableName() string {
	return "tasks"
}

// Overdue reports whether an unfinished task is past its due date. Dates are
// yyyy-MM-dd so they compare lexically.
func (t Task) Overdue(today string) bool {
	return t.Status != TaskCompleted && t.DueDate != "" && t.DueDate < today
}
