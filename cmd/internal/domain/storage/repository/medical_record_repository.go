package repository

import (
	"clinic/cmd/internal/domain/entity"
	"errors"

	"gorm.io/gorm"
)

// DefaultMedicalRecordRepository is read-only. Records are only ever written
// by DefaultAppointmentRepository.Complete.
type DefaultMedicalRecordRepository struct {
	db *gorm.DB
}

func NewMedicalRecordRepository(db *gorm.DB) *DefaultMedicalRecordRepository {
	return &DefaultMedicalRecordRepository{db: db}
}

func (m *DefaultMedicalRecordRepository) FindByAppointmentID(appointmentID int) (*entity.MedicalRecord, error) {
	var record entity.MedicalRecord
	err := m.db.Where("appointment_id = ?", appointmentID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &record, err
}

func (m *DefaultMedicalRecordRepository) FindAll() ([]*entity.MedicalRecord, error) {
	var records []*entity.MedicalRecord
	err := m.db.Order("id asc").Find(&records).Error
	return records, err
}
