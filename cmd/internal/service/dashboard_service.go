package service

import (
	"clinic/cmd/internal/domain/entity"
	"clinic/cmd/internal/utils/apierror"
)

type UserLister interface {
	GetUsers() ([]*UserResponse, apierror.ErrorResponse)
}

type AppointmentLister interface {
	GetAppointments() ([]*AppointmentResponse, apierror.ErrorResponse)
}

type AdminDashboard struct {
	Roster       *Roster                `json:"roster"`
	Appointments []*AppointmentResponse `json:"appointments"`
}

type DoctorDashboard struct {
	Pending   []*AppointmentResponse `json:"pending"`
	Completed []*AppointmentResponse `json:"completed"`
}

type PatientDashboard struct {
	Doctors      []*UserResponse        `json:"doctors"`
	Appointments []*AppointmentResponse `json:"appointments"`
	Completed    []*AppointmentResponse `json:"completed"`
	LatestVitals *VitalsSummary         `json:"latestVitals"`
}

type DashboardResponse struct {
	Role    entity.Role       `json:"role"`
	Admin   *AdminDashboard   `json:"admin,omitempty"`
	Doctor  *DoctorDashboard  `json:"doctor,omitempty"`
	Patient *PatientDashboard `json:"patient,omitempty"`
}

type DefaultDashboardService struct {
	Users        UserLister
	Appointments AppointmentLister
}

func NewDashboardService(users UserLister, appts AppointmentLister) *DefaultDashboardService {
	return &DefaultDashboardService{Users: users, Appointments: appts}
}

// GetDashboard builds the view for the caller's role from a single read of
// users and appointments.
func (d *DefaultDashboardService) GetDashboard(caller Caller) (*DashboardResponse, apierror.ErrorResponse) {
	appts, apierr := d.Appointments.GetAppointments()
	if apierr != nil {
		return nil, apierr
	}

	resp := &DashboardResponse{Role: caller.Role}
	switch caller.Role {
	case entity.RoleAdmin:
		users, apierr := d.Users.GetUsers()
		if apierr != nil {
			return nil, apierr
		}
		resp.Admin = &AdminDashboard{Roster: AdminRoster(users), Appointments: appts}

	case entity.RoleDoctor:
		resp.Doctor = &DoctorDashboard{
			Pending:   DoctorPending(appts, caller.ID),
			Completed: DoctorCompleted(appts, caller.ID),
		}

	default:
		users, apierr := d.Users.GetUsers()
		if apierr != nil {
			return nil, apierr
		}
		completed := PatientCompleted(appts, caller.ID)
		resp.Patient = &PatientDashboard{
			Doctors:      Doctors(users),
			Appointments: PatientAppointments(appts, caller.ID),
			Completed:    completed,
			LatestVitals: LatestVitals(completed),
		}
	}
	return resp, nil
}
