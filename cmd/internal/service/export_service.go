package service

import (
	"clinic/cmd/internal/domain/entity"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/labstack/gommon/log"
)

type ExportUserSource interface {
	FindAll() ([]*entity.User, error)
}

type ExportAppointmentSource interface {
	FindAll() ([]*entity.Appointment, error)
}

type ExportRecordSource interface {
	FindAll() ([]*entity.MedicalRecord, error)
}

type AppointmentRow struct {
	ID          int           `json:"id"`
	DoctorID    int           `json:"doctor_id"`
	PatientID   int           `json:"patient_id"`
	ScheduledAt string        `json:"datetime"`
	Status      entity.Status `json:"status"`
}

type MedicalRecordRow struct {
	ID            int    `json:"id"`
	AppointmentID int    `json:"appointment_id"`
	DoctorID      int    `json:"doctor_id"`
	BloodPressure string `json:"bp"`
	HeartRate     string `json:"heart_rate"`
	Temperature   string `json:"temp"`
	Weight        string `json:"weight"`
	Comments      string `json:"comments"`
}

// Dump is the full content of the three tables. Password digests are never
// part of it.
type Dump struct {
	Timestamp      string              `json:"timestamp"`
	Users          []*UserResponse     `json:"users"`
	Appointments   []*AppointmentRow   `json:"appointments"`
	MedicalRecords []*MedicalRecordRow `json:"medical_records"`
}

type DefaultExportService struct {
	Users        ExportUserSource
	Appointments ExportAppointmentSource
	Records      ExportRecordSource
	Now          func() time.Time
}

func NewExportService(users ExportUserSource, appts ExportAppointmentSource, records ExportRecordSource) *DefaultExportService {
	return &DefaultExportService{Users: users, Appointments: appts, Records: records, Now: time.Now}
}

func (e *DefaultExportService) Snapshot() (*Dump, error) {
	users, err := e.Users.FindAll()
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}
	appts, err := e.Appointments.FindAll()
	if err != nil {
		return nil, fmt.Errorf("read appointments: %w", err)
	}
	records, err := e.Records.FindAll()
	if err != nil {
		return nil, fmt.Errorf("read medical records: %w", err)
	}

	dump := &Dump{
		Timestamp:      e.Now().UTC().Format(time.RFC3339),
		Users:          toUserResponses(users),
		Appointments:   make([]*AppointmentRow, len(appts)),
		MedicalRecords: make([]*MedicalRecordRow, len(records)),
	}
	for i, a := range appts {
		dump.Appointments[i] = &AppointmentRow{
			ID:          a.ID,
			DoctorID:    a.DoctorID,
			PatientID:   a.PatientID,
			ScheduledAt: a.ScheduledAt,
			Status:      a.Status,
		}
	}
	for i, r := range records {
		dump.MedicalRecords[i] = &MedicalRecordRow{
			ID:            r.ID,
			AppointmentID: r.AppointmentID,
			DoctorID:      r.DoctorID,
			BloodPressure: r.BloodPressure,
			HeartRate:     r.HeartRate,
			Temperature:   r.Temperature,
			Weight:        r.Weight,
			Comments:      r.Comments,
		}
	}
	return dump, nil
}

// Export encodes a fresh snapshot as indented JSON.
func (e *DefaultExportService) Export(w io.Writer) error {
	dump, err := e.Snapshot()
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dump); err != nil {
		return fmt.Errorf("encode dump: %w", err)
	}
	log.Infof("exported %d users, %d appointments, %d medical records",
		len(dump.Users), len(dump.Appointments), len(dump.MedicalRecords))
	return nil
}
