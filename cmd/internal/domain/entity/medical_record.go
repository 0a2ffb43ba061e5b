package entity

// MedicalRecord holds the vitals taken during a completed appointment.
// It is written once, together with the status change, and never updated.
type MedicalRecord struct {
	ID            int `gorm:"primaryKey"`
	AppointmentID int `gorm:"not null;uniqueIndex"` // References: appointments(id)
	DoctorID      int `gorm:"not null;index"`       // References: users(id)
	BloodPressure string
	HeartRate     string
	Temperature   string
	Weight        string
	Comments      string
	CreatedAt     int64 `gorm:"not null"`
}
