package entity

type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

type Appointment struct {
	ID          int    `gorm:"primaryKey"`
	DoctorID    int    `gorm:"not null;index"` // References: users(id)
	PatientID   int    `gorm:"not null;index"` // References: users(id)
	ScheduledAt string `gorm:"not null;index"` // Raw ISO-8601, compared lexicographically
	Status      Status `gorm:"not null;index"`
	CreatedAt   int64  `gorm:"not null"`
	UpdatedAt   int64  `gorm:"not null"`

	// Relations
	Doctor  User           `gorm:"foreignKey:DoctorID;references:ID"`
	Patient User           `gorm:"foreignKey:PatientID;references:ID"`
	Record  *MedicalRecord `gorm:"foreignKey:AppointmentID;references:ID"`
}
