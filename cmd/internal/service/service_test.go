package service

import (
	"clinic/cmd/internal/auth"
	"clinic/cmd/internal/domain/storage"
	"clinic/cmd/internal/domain/storage/repository"
	"clinic/cmd/internal/utils"
	"clinic/cmd/internal/utils/validators"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db         *gorm.DB
	users      *DefaultUserService
	appts      *DefaultAppointmentService
	tokens     *auth.TokenManager
	userRepo   *repository.DefaultUserRepository
	apptRepo   *repository.DefaultAppointmentRepository
	recordRepo *repository.DefaultMedicalRecordRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := storage.Init(storage.Options{
		Driver: storage.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "service.db"),
		Silent: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close(db) })

	validate := validators.New()
	userRepo := repository.NewUserRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)
	recordRepo := repository.NewMedicalRecordRepository(db)
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	return &testEnv{
		db:         db,
		users:      NewUserService(userRepo, validate, auth.NewBcryptHasher(4), tokens),
		appts:      NewAppointmentService(apptRepo, recordRepo, userRepo, validate),
		tokens:     tokens,
		userRepo:   userRepo,
		apptRepo:   apptRepo,
		recordRepo: recordRepo,
	}
}

func (e *testEnv) register(t *testing.T, name, email, role, spec string) Caller {
	t.Helper()
	resp, apierr := e.users.Register(&RegisterRequest{
		Name:      name,
		Email:     email,
		Password:  "secret123",
		Role:      role,
		Specialty: spec,
	})
	require.Nil(t, apierr)
	return Caller{ID: resp.ID, Role: resp.Role}
}

func (e *testEnv) book(t *testing.T, doctor, patient Caller, at string) *AppointmentResponse {
	t.Helper()
	appt, apierr := e.appts.Book(&BookRequest{DoctorID: utils.FlexibleID(doctor.ID), DateTime: at}, patient)
	require.Nil(t, apierr)
	return appt
}
