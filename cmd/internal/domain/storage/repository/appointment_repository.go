package repository

import (
	"clinic/cmd/internal/domain"
	"clinic/cmd/internal/domain/entity"
	"clinic/cmd/internal/utils"
	"errors"

	"gorm.io/gorm"
)

type DefaultAppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *DefaultAppointmentRepository {
	return &DefaultAppointmentRepository{db: db}
}

func (a *DefaultAppointmentRepository) FindByID(id int) (*entity.Appointment, error) {
	var appt entity.Appointment
	err := a.db.First(&appt, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &appt, err
}

// FindAll returns bare appointment rows in id order.
func (a *DefaultAppointmentRepository) FindAll() ([]*entity.Appointment, error) {
	var appts []*entity.Appointment
	err := a.db.Order("id asc").Find(&appts).Error
	return appts, err
}

// FindAllJoined returns every appointment with its doctor, patient and
// medical record loaded, latest scheduled time first.
func (a *DefaultAppointmentRepository) FindAllJoined() ([]*entity.Appointment, error) {
	var appts []*entity.Appointment
	err := a.db.
		Preload("Doctor").
		Preload("Patient").
		Preload("Record").
		Order("scheduled_at desc").
		Order("id desc").
		Find(&appts).Error
	return appts, err
}

func (a *DefaultAppointmentRepository) Save(appointment *entity.Appointment) error {
	return a.db.Omit("Doctor", "Patient", "Record").Save(appointment).Error
}

// Cancel moves a Pending appointment to Cancelled. Cancelling a Cancelled
// appointment succeeds without changes; a Completed one is refused.
func (a *DefaultAppointmentRepository) Cancel(id int) error {
	return a.db.Transaction(func(tx *gorm.DB) error {
		status, err := statusOf(tx, id)
		if err != nil {
			return err
		}

		switch status {
		case entity.StatusCancelled:
			return nil
		case entity.StatusCompleted:
			return domain.ErrInvalidTransition
		}

		res := tx.Model(&entity.Appointment{}).
			Where("id = ? AND status = ?", id, entity.StatusPending).
			Updates(map[string]any{"status": entity.StatusCancelled, "updated_at": utils.NowUTC()})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrInvalidTransition
		}
		return nil
	})
}

// Complete stores the medical record and marks the appointment Completed in
// a single transaction. Whoever loses a race on the same appointment gets
// domain.ErrDuplicateRecord from the unique index and nothing is written.
func (a *DefaultAppointmentRepository) Complete(id int, record *entity.MedicalRecord) error {
	return a.db.Transaction(func(tx *gorm.DB) error {
		status, err := statusOf(tx, id)
		if err != nil {
			return err
		}
		if status == entity.StatusCancelled {
			return domain.ErrInvalidTransition
		}

		now := utils.NowUTC()
		record.AppointmentID = id
		record.CreatedAt = now
		err = tx.Create(record).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateRecord
		}
		if err != nil {
			return err
		}

		res := tx.Model(&entity.Appointment{}).
			Where("id = ? AND status = ?", id, entity.StatusPending).
			Updates(map[string]any{"status": entity.StatusCompleted, "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Someone moved it out of Pending after our read.
			if status, err = statusOf(tx, id); err == nil && status == entity.StatusCompleted {
				return domain.ErrDuplicateRecord
			}
			return domain.ErrInvalidTransition
		}
		return nil
	})
}

func statusOf(tx *gorm.DB, id int) (entity.Status, error) {
	var appt entity.Appointment
	err := tx.Select("id", "status").First(&appt, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", domain.ErrNotFound
	}
	return appt.Status, err
}
