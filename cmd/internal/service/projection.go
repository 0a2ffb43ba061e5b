package service

import (
	"clinic/cmd/internal/domain/entity"
	"slices"
	"strings"
)

// The functions below derive the role dashboards from the joined appointment
// list and the user list. They never touch storage and never modify their
// inputs. Time ordering compares the stored strings as-is.

type RosterEntry struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Specialty *string `json:"spec,omitempty"`
}

type Roster struct {
	Doctors  []*RosterEntry `json:"doctors"`
	Patients []*RosterEntry `json:"patients"`
}

type VitalsSummary struct {
	AppointmentID int             `json:"appointmentId"`
	DateTime      string          `json:"datetime"`
	DoctorName    string          `json:"docName"`
	Record        *RecordResponse `json:"record"`
}

// AdminRoster splits users into doctors and patients, keeping their order.
// Admin accounts are not listed.
func AdminRoster(users []*UserResponse) *Roster {
	roster := &Roster{Doctors: []*RosterEntry{}, Patients: []*RosterEntry{}}
	for _, u := range users {
		switch u.Role {
		case entity.RoleDoctor:
			roster.Doctors = append(roster.Doctors, &RosterEntry{ID: u.ID, Name: u.Name, Email: u.Email, Specialty: u.Specialty})
		case entity.RolePatient:
			roster.Patients = append(roster.Patients, &RosterEntry{ID: u.ID, Name: u.Name, Email: u.Email})
		}
	}
	return roster
}

// Doctors lists the users that can be booked.
func Doctors(users []*UserResponse) []*UserResponse {
	return filterUsers(users, func(u *UserResponse) bool { return u.Role == entity.RoleDoctor })
}

// DoctorPending is the doctor's queue, soonest first.
func DoctorPending(appts []*AppointmentResponse, doctorID int) []*AppointmentResponse {
	out := filterAppointments(appts, func(a *AppointmentResponse) bool {
		return a.DoctorID == doctorID && a.Status == entity.StatusPending
	})
	sortByDateTime(out, false)
	return out
}

// DoctorCompleted is the doctor's history, most recent first.
func DoctorCompleted(appts []*AppointmentResponse, doctorID int) []*AppointmentResponse {
	out := filterAppointments(appts, func(a *AppointmentResponse) bool {
		return a.DoctorID == doctorID && a.Status == entity.StatusCompleted
	})
	sortByDateTime(out, true)
	return out
}

// PatientAppointments keeps every appointment of the patient in list order.
func PatientAppointments(appts []*AppointmentResponse, patientID int) []*AppointmentResponse {
	return filterAppointments(appts, func(a *AppointmentResponse) bool {
		return a.PatientID == patientID
	})
}

// PatientCompleted is the patient's completed visits, most recent first.
func PatientCompleted(appts []*AppointmentResponse, patientID int) []*AppointmentResponse {
	out := filterAppointments(appts, func(a *AppointmentResponse) bool {
		return a.PatientID == patientID && a.Status == entity.StatusCompleted
	})
	sortByDateTime(out, true)
	return out
}

// LatestVitals summarizes the head of a PatientCompleted list.
// It returns nil when there is nothing to show.
func LatestVitals(completed []*AppointmentResponse) *VitalsSummary {
	if len(completed) == 0 || completed[0].Record == nil {
		return nil
	}
	head := completed[0]
	return &VitalsSummary{
		AppointmentID: head.ID,
		DateTime:      head.DateTime,
		DoctorName:    head.DoctorName,
		Record:        head.Record,
	}
}

func filterUsers(users []*UserResponse, keep func(*UserResponse) bool) []*UserResponse {
	out := []*UserResponse{}
	for _, u := range users {
		if keep(u) {
			out = append(out, u)
		}
	}
	return out
}

func filterAppointments(appts []*AppointmentResponse, keep func(*AppointmentResponse) bool) []*AppointmentResponse {
	out := []*AppointmentResponse{}
	for _, a := range appts {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func sortByDateTime(appts []*AppointmentResponse, desc bool) {
	slices.SortStableFunc(appts, func(a, b *AppointmentResponse) int {
		if desc {
			return strings.Compare(b.DateTime, a.DateTime)
		}
		return strings.Compare(a.DateTime, b.DateTime)
	})
}
