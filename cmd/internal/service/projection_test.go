package service

import (
	"clinic/cmd/internal/domain/entity"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appt(id, doc, pat int, at string, status entity.Status) *AppointmentResponse {
	a := &AppointmentResponse{ID: id, DoctorID: doc, PatientID: pat, DateTime: at, Status: status, DoctorName: "Dr. " + string(rune('A'+doc))}
	if status == entity.StatusCompleted {
		a.Record = &RecordResponse{AppointmentID: id, DoctorID: doc, BloodPressure: at}
	}
	return a
}

func ids(appts []*AppointmentResponse) []int {
	out := make([]int, len(appts))
	for i, a := range appts {
		out[i] = a.ID
	}
	return out
}

// Joined list as the store returns it: latest first.
func sampleAppointments() []*AppointmentResponse {
	return []*AppointmentResponse{
		appt(6, 1, 10, "2025-03-01T09:00", entity.StatusPending),
		appt(5, 2, 10, "2025-02-20T09:00", entity.StatusCompleted),
		appt(4, 1, 11, "2025-02-10T09:00", entity.StatusCompleted),
		appt(3, 1, 10, "2025-02-01T09:00", entity.StatusPending),
		appt(2, 1, 10, "2025-01-15T09:00", entity.StatusCompleted),
		appt(1, 1, 10, "2025-01-10T09:00", entity.StatusCancelled),
	}
}

func TestDoctorProjections(t *testing.T) {
	appts := sampleAppointments()

	assert.Equal(t, []int{3, 6}, ids(DoctorPending(appts, 1)))
	assert.Equal(t, []int{4, 2}, ids(DoctorCompleted(appts, 1)))
	assert.Equal(t, []int{5}, ids(DoctorCompleted(appts, 2)))
	assert.Empty(t, DoctorPending(appts, 2))
	assert.NotNil(t, DoctorPending(appts, 99))

	// Inputs are left untouched.
	assert.Equal(t, []int{6, 5, 4, 3, 2, 1}, ids(appts))
}

func TestPatientProjections(t *testing.T) {
	appts := sampleAppointments()

	assert.Equal(t, []int{6, 5, 3, 2, 1}, ids(PatientAppointments(appts, 10)))
	completed := PatientCompleted(appts, 10)
	assert.Equal(t, []int{5, 2}, ids(completed))

	latest := LatestVitals(completed)
	require.NotNil(t, latest)
	assert.Equal(t, 5, latest.AppointmentID)
	assert.Equal(t, "Dr. C", latest.DoctorName)
	assert.Equal(t, "2025-02-20T09:00", latest.Record.BloodPressure)

	assert.Nil(t, LatestVitals(PatientCompleted(appts, 42)))
}

func TestOrderingIsLexicographic(t *testing.T) {
	// Mixed representations are compared as raw strings, no parsing.
	appts := []*AppointmentResponse{
		appt(1, 1, 10, "2025-01-10T10:00:00Z", entity.StatusPending),
		appt(2, 1, 10, "2025-01-10T09:00:00+05:00", entity.StatusPending),
		appt(3, 1, 10, "2025-01-10T10:00", entity.StatusPending),
	}
	assert.Equal(t, []int{2, 3, 1}, ids(DoctorPending(appts, 1)))
}

func TestAdminRosterAndDoctors(t *testing.T) {
	spec := "Cardiology"
	users := []*UserResponse{
		{ID: 4, Name: "Pat", Email: "p@x.io", Role: entity.RolePatient},
		{ID: 3, Name: "Dr. A", Email: "a@x.io", Role: entity.RoleDoctor, Specialty: &spec},
		{ID: 2, Name: "Root", Email: "root@x.io", Role: entity.RoleAdmin},
		{ID: 1, Name: "Dr. B", Email: "b@x.io", Role: entity.RoleDoctor},
	}

	roster := AdminRoster(users)
	require.Len(t, roster.Doctors, 2)
	require.Len(t, roster.Patients, 1)
	assert.Equal(t, 3, roster.Doctors[0].ID)
	assert.Equal(t, "Cardiology", *roster.Doctors[0].Specialty)
	assert.Equal(t, 1, roster.Doctors[1].ID)
	assert.Equal(t, "p@x.io", roster.Patients[0].Email)
	assert.Nil(t, roster.Patients[0].Specialty)

	doctors := Doctors(users)
	require.Len(t, doctors, 2)
	assert.Equal(t, "Dr. A", doctors[0].Name)

	empty := AdminRoster(nil)
	assert.NotNil(t, empty.Doctors)
	assert.NotNil(t, empty.Patients)
}
