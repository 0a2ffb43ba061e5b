package service

import (
	"clinic/cmd/internal/domain"
	"clinic/cmd/internal/domain/entity"
	"clinic/cmd/internal/metrics"
	"clinic/cmd/internal/utils"
	"clinic/cmd/internal/utils/apierror"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type AppointmentRepository interface {
	Save(appointment *entity.Appointment) error
	FindByID(id int) (*entity.Appointment, error)
	FindAllJoined() ([]*entity.Appointment, error)
	Cancel(id int) error
	Complete(id int, record *entity.MedicalRecord) error
}

type MedicalRecordRepository interface {
	FindByAppointmentID(appointmentID int) (*entity.MedicalRecord, error)
}

type BookRequest struct {
	DoctorID  utils.FlexibleID `json:"docId" validate:"required,gt=0"`
	PatientID utils.FlexibleID `json:"patId" validate:"omitempty,gt=0"`
	DateTime  string           `json:"datetime" validate:"required,iso8601"`
}

type CompleteRequest struct {
	DoctorID      utils.FlexibleID  `json:"docId" validate:"omitempty,gt=0"`
	BloodPressure utils.Measurement `json:"bp" validate:"max=32"`
	HeartRate     utils.Measurement `json:"heartRate" validate:"max=32"`
	Temperature   utils.Measurement `json:"temp" validate:"max=32"`
	Weight        utils.Measurement `json:"weight" validate:"max=32"`
	Comments      string            `json:"comments" validate:"max=2000"`
}

type RecordResponse struct {
	AppointmentID int    `json:"appointmentId"`
	DoctorID      int    `json:"docId"`
	BloodPressure string `json:"bp"`
	HeartRate     string `json:"heartRate"`
	Temperature   string `json:"temp"`
	Weight        string `json:"weight"`
	Comments      string `json:"comments"`
	CreatedAt     string `json:"created_at"`
}

// AppointmentResponse is an appointment joined with the names of the people
// involved and, once completed, its medical record.
type AppointmentResponse struct {
	ID          int             `json:"id"`
	DoctorID    int             `json:"docId"`
	PatientID   int             `json:"patId"`
	DateTime    string          `json:"datetime"`
	Status      entity.Status   `json:"status"`
	DoctorName  string          `json:"docName"`
	DoctorSpec  string          `json:"docSpec"`
	PatientName string          `json:"patName"`
	Record      *RecordResponse `json:"record"`
}

type DefaultAppointmentService struct {
	AppointmentRepo AppointmentRepository
	RecordRepo      MedicalRecordRepository
	UserRepo        UserRepository
	Validate        *validator.Validate
}

func NewAppointmentService(apptRepo AppointmentRepository, recordRepo MedicalRecordRepository, userRepo UserRepository, validate *validator.Validate) *DefaultAppointmentService {
	return &DefaultAppointmentService{AppointmentRepo: apptRepo, RecordRepo: recordRepo, UserRepo: userRepo, Validate: validate}
}

// GetAppointments lists every appointment, latest scheduled time first.
func (a *DefaultAppointmentService) GetAppointments() ([]*AppointmentResponse, apierror.ErrorResponse) {
	appts, err := a.AppointmentRepo.FindAllJoined()
	if err != nil {
		log.Errorf("failed to list appointments: %v", err)
		return nil, apierror.StorageUnavailableError
	}

	response := make([]*AppointmentResponse, len(appts))
	for i, appt := range appts {
		response[i] = toAppointmentResponse(appt)
	}
	return response, nil
}

// GetVisibleAppointments narrows GetAppointments to what the caller takes
// part in. Admins see everything.
func (a *DefaultAppointmentService) GetVisibleAppointments(caller Caller) ([]*AppointmentResponse, apierror.ErrorResponse) {
	appts, apierr := a.GetAppointments()
	if apierr != nil {
		return nil, apierr
	}

	switch caller.Role {
	case entity.RoleAdmin:
		return appts, nil
	case entity.RoleDoctor:
		return filterAppointments(appts, func(x *AppointmentResponse) bool { return x.DoctorID == caller.ID }), nil
	default:
		return PatientAppointments(appts, caller.ID), nil
	}
}

// Book creates a Pending appointment. Patients book for themselves, admins
// on behalf of any patient. Both ids must point at users of the right role.
func (a *DefaultAppointmentService) Book(req *BookRequest, caller Caller) (*AppointmentResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := a.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	patientID := int(req.PatientID)
	switch caller.Role {
	case entity.RolePatient:
		if patientID == 0 {
			patientID = caller.ID
		}
		if patientID != caller.ID {
			return nil, apierror.ForbiddenError
		}
	case entity.RoleAdmin:
		if patientID == 0 {
			return nil, apierror.NewMissingParamError("patId")
		}
	default:
		return nil, apierror.ForbiddenError
	}

	doctor, apierr := a.findWithRole(int(req.DoctorID), entity.RoleDoctor, "docId")
	if apierr != nil {
		return nil, apierr
	}
	patient, apierr := a.findWithRole(patientID, entity.RolePatient, "patId")
	if apierr != nil {
		return nil, apierr
	}

	now := utils.NowUTC()
	appointment := &entity.Appointment{
		DoctorID:    doctor.ID,
		PatientID:   patient.ID,
		ScheduledAt: req.DateTime,
		Status:      entity.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := a.AppointmentRepo.Save(appointment); err != nil {
		log.Errorf("failed to save appointment: %v", err)
		return nil, apierror.StorageUnavailableError
	}
	metrics.ObserveTransition("booked")

	appointment.Doctor = *doctor
	appointment.Patient = *patient
	return toAppointmentResponse(appointment), nil
}

// Cancel moves a Pending appointment to Cancelled. Patients and doctors may
// only cancel their own appointments.
func (a *DefaultAppointmentService) Cancel(id int, caller Caller) apierror.ErrorResponse {
	appt, apierr := a.findOwned(id, caller)
	if apierr != nil {
		return apierr
	}

	err := a.AppointmentRepo.Cancel(appt.ID)
	switch {
	case err == nil:
		metrics.ObserveTransition("cancelled")
		return nil
	case errors.Is(err, domain.ErrNotFound):
		return apierror.NotFoundError
	case errors.Is(err, domain.ErrInvalidTransition):
		metrics.ObserveRejection("cancel", "invalid_transition")
		return apierror.InvalidTransitionError
	default:
		log.Errorf("failed to cancel appointment %d: %v", id, err)
		return apierror.StorageUnavailableError
	}
}

// Complete records the vitals and closes the appointment. Only the doctor
// the appointment was booked with can complete it.
func (a *DefaultAppointmentService) Complete(id int, req *CompleteRequest, caller Caller) apierror.ErrorResponse {
	utils.Sanitize(req)
	if valerr := a.Validate.Struct(req); valerr != nil {
		return apierror.FromValidationError(valerr)
	}

	if !caller.Is(entity.RoleDoctor) {
		return apierror.ForbiddenError
	}
	doctorID := int(req.DoctorID)
	if doctorID == 0 {
		doctorID = caller.ID
	}
	if doctorID != caller.ID {
		return apierror.ForbiddenError
	}

	appt, apierr := a.findOwned(id, caller)
	if apierr != nil {
		return apierr
	}

	record := &entity.MedicalRecord{
		DoctorID:      doctorID,
		BloodPressure: string(req.BloodPressure),
		HeartRate:     string(req.HeartRate),
		Temperature:   string(req.Temperature),
		Weight:        string(req.Weight),
		Comments:      req.Comments,
	}

	err := a.AppointmentRepo.Complete(appt.ID, record)
	switch {
	case err == nil:
		metrics.ObserveTransition("completed")
		return nil
	case errors.Is(err, domain.ErrNotFound):
		return apierror.NotFoundError
	case errors.Is(err, domain.ErrDuplicateRecord):
		metrics.ObserveRejection("complete", "duplicate_record")
		return apierror.DuplicateRecordError
	case errors.Is(err, domain.ErrInvalidTransition):
		metrics.ObserveRejection("complete", "invalid_transition")
		return apierror.InvalidTransitionError
	default:
		log.Errorf("failed to complete appointment %d: %v", id, err)
		return apierror.StorageUnavailableError
	}
}

// GetRecord returns the medical record of an appointment the caller may see.
func (a *DefaultAppointmentService) GetRecord(id int, caller Caller) (*RecordResponse, apierror.ErrorResponse) {
	appt, apierr := a.findOwned(id, caller)
	if apierr != nil {
		return nil, apierr
	}

	record, err := a.RecordRepo.FindByAppointmentID(appt.ID)
	if err != nil {
		log.Errorf("failed to fetch record of appointment %d: %v", id, err)
		return nil, apierror.StorageUnavailableError
	}
	if record == nil {
		return nil, apierror.NotFoundError
	}
	return toRecordResponse(record), nil
}

// findOwned loads an appointment and checks the caller takes part in it.
// Strangers get NotFound rather than Forbidden.
func (a *DefaultAppointmentService) findOwned(id int, caller Caller) (*entity.Appointment, apierror.ErrorResponse) {
	appt, err := a.AppointmentRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch appointment by id %d: %v", id, err)
		return nil, apierror.StorageUnavailableError
	}
	if appt == nil {
		return nil, apierror.NotFoundError
	}

	switch caller.Role {
	case entity.RoleAdmin:
		return appt, nil
	case entity.RoleDoctor:
		if appt.DoctorID == caller.ID {
			return appt, nil
		}
	case entity.RolePatient:
		if appt.PatientID == caller.ID {
			return appt, nil
		}
	}
	return nil, apierror.NotFoundError
}

func (a *DefaultAppointmentService) findWithRole(id int, role entity.Role, param string) (*entity.User, apierror.ErrorResponse) {
	user, err := a.UserRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch user %d: %v", id, err)
		return nil, apierror.StorageUnavailableError
	}
	if user == nil || user.Role != role {
		return nil, apierror.NewInvalidInputError("'" + param + "' must reference an existing " + string(role))
	}
	return user, nil
}

func toRecordResponse(record *entity.MedicalRecord) *RecordResponse {
	return &RecordResponse{
		AppointmentID: record.AppointmentID,
		DoctorID:      record.DoctorID,
		BloodPressure: record.BloodPressure,
		HeartRate:     record.HeartRate,
		Temperature:   record.Temperature,
		Weight:        record.Weight,
		Comments:      record.Comments,
		CreatedAt:     utils.FormatEpoch(record.CreatedAt),
	}
}

func toAppointmentResponse(appt *entity.Appointment) *AppointmentResponse {
	resp := &AppointmentResponse{
		ID:          appt.ID,
		DoctorID:    appt.DoctorID,
		PatientID:   appt.PatientID,
		DateTime:    appt.ScheduledAt,
		Status:      appt.Status,
		DoctorName:  appt.Doctor.Name,
		PatientName: appt.Patient.Name,
	}
	if appt.Doctor.Specialty != nil {
		resp.DoctorSpec = *appt.Doctor.Specialty
	}
	if appt.Record != nil {
		resp.Record = toRecordResponse(appt.Record)
	}
	return resp
}
