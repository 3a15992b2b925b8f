package model

type Project struct {
	ID        int     `gorm:"primaryKey;column:id" json:"id"`
	Name      string  `gorm:"column:name" json:"name" binding:"notblank"`
	Code      string  `gorm:"column:code;uniqueIndex;type:varchar(50)" json:"code" binding:"notblank"`
	Location  string  `gorm:"column:location" json:"location"`
	Status    string  `gorm:"column:status;type:varchar(20)" json:"status" binding:"omitempty,oneof=planning active on_hold completed"`
	StartDate string  `gorm:"column:start_date;type:varchar(10)" json:"start_date"`
	EndDate   string  `gorm:"column:end_date;type:varchar(10)" json:"end_date,omitempty"`
	Budget    float64 `gorm:"column:budget;type:decimal(15,2)" json:"budget"`
	Manager   *int    `gorm:"column:manager_id" json:"manager"`
}

func (Project) TableName() string {
	return "projects"
}

const (
	ProjectPlanning  = "planning"
	ProjectActive    = "active"
	ProjectOnHold    = "on_hold"
	ProjectCompleted = "completed"
)

type Vendor struct {
	ID            int     `gorm:"primaryKey;column:id" json:"id"`
	Name          string  `gorm:"column:name" json:"name" binding:"notblank"`
	Code          string  `gorm:"column:code;uniqueIndex;type:varchar(50)" json:"code" binding:"notblank"`
	ContactPerson string  `gorm:"column:contact_person" json:"contact_person"`
	Email         string  `gorm:"column:email" json:"email" binding:"omitempty,email"`
	Phone         string  `gorm:"column:phone" json:"phone"`
	Category      string  `gorm:"column:category" json:"category"`
	Rating        float64 `gorm:"column:rating;type:decimal(3,1)" json:"rating"`
}

func (Vendor) TableName() string {
	return "vendors"
}
