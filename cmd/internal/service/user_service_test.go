package service

import (
	"bytes"
	"clinic/cmd/internal/domain/entity"
	"clinic/cmd/internal/utils/apierror"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"testing"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterThenLogin(t *testing.T) {
	env := newTestEnv(t)

	for _, role := range []string{"admin", "doctor", "patient"} {
		t.Run(role, func(t *testing.T) {
			email := role + "@clinic.test"
			created, apierr := env.users.Register(&RegisterRequest{
				Name: "User " + role, Email: email, Password: "pa ss word", Role: role,
			})
			require.Nil(t, apierr)
			assert.Equal(t, entity.Role(role), created.Role)

			login, apierr := env.users.Login(&LoginRequest{Email: email, Password: "pa ss word"})
			require.Nil(t, apierr)
			assert.Equal(t, created.ID, login.User.ID)
			assert.NotEmpty(t, login.AccessToken)

			data, err := env.tokens.Parse(login.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, created.ID, data.ID)
			assert.Equal(t, entity.Role(role), data.Role)

			raw, err := json.Marshal(login.User)
			require.NoError(t, err)
			assert.NotContains(t, string(raw), "password")
			assert.NotContains(t, string(raw), "$2a$")
		})
	}
}

func TestRegisterEmailCasePolicy(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "Ann", "Ann@Clinic.Test", "patient", "")

	_, apierr := env.users.Register(&RegisterRequest{Name: "Ann 2", Email: "ann@clinic.TEST", Password: "secret123"})
	require.NotNil(t, apierr)
	assert.Equal(t, apierror.DuplicateEmailError, apierr)
	assert.Equal(t, http.StatusConflict, apierr.Code())

	login, apierr := env.users.Login(&LoginRequest{Email: "ANN@CLINIC.TEST", Password: "secret123"})
	require.Nil(t, apierr)
	assert.Equal(t, "ann@clinic.test", login.User.Email)
}

func TestRegisterRoleNormalization(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		raw  string
		want entity.Role
	}{
		{"", entity.RolePatient},
		{"superuser", entity.RolePatient},
		{"Doctor", entity.RoleDoctor},
		{" ADMIN ", entity.RoleAdmin},
	}
	for i, tt := range tests {
		resp, apierr := env.users.Register(&RegisterRequest{
			Name: "Someone", Email: "user" + strconv.Itoa(i) + "@clinic.test", Password: "secret123", Role: tt.raw,
		})
		require.Nil(t, apierr, tt.raw)
		assert.Equal(t, tt.want, resp.Role, tt.raw)
	}
}

func TestRegisterSpecialtyOnlyForDoctors(t *testing.T) {
	env := newTestEnv(t)

	doc, apierr := env.users.Register(&RegisterRequest{Name: "Dr. A", Email: "a@clinic.test", Password: "secret123", Role: "doctor", Specialty: " Cardiology "})
	require.Nil(t, apierr)
	require.NotNil(t, doc.Specialty)
	assert.Equal(t, "Cardiology", *doc.Specialty)

	pat, apierr := env.users.Register(&RegisterRequest{Name: "Pat", Email: "p@clinic.test", Password: "secret123", Specialty: "Cardiology"})
	require.Nil(t, apierr)
	assert.Nil(t, pat.Specialty)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		req  *RegisterRequest
	}{
		{"empty name", &RegisterRequest{Email: "a@b.io", Password: "secret123"}},
		{"empty email", &RegisterRequest{Name: "Ann", Password: "secret123"}},
		{"bad email", &RegisterRequest{Name: "Ann", Email: "not-an-email", Password: "secret123"}},
		{"empty password", &RegisterRequest{Name: "Ann", Email: "a@b.io"}},
		{"short password", &RegisterRequest{Name: "Ann", Email: "a@b.io", Password: "12345"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, apierr := env.users.Register(tt.req)
			require.NotNil(t, apierr)
			assert.Equal(t, http.StatusBadRequest, apierr.Code())
		})
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "Ann", "ann@clinic.test", "patient", "")

	_, apierr := env.users.Login(&LoginRequest{Email: "ann@clinic.test", Password: "wrong-pass"})
	assert.Equal(t, apierror.InvalidCredentialsError, apierr)

	_, apierr = env.users.Login(&LoginRequest{Email: "nobody@clinic.test", Password: "secret123"})
	assert.Equal(t, apierror.InvalidCredentialsError, apierr)
}

func TestGetUsersNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	first := env.register(t, "First", "first@clinic.test", "doctor", "GP")
	second := env.register(t, "Second", "second@clinic.test", "patient", "")

	users, apierr := env.users.GetUsers()
	require.Nil(t, apierr)
	require.Len(t, users, 2)
	assert.Equal(t, second.ID, users[0].ID)
	assert.Equal(t, first.ID, users[1].ID)

	doctors, apierr := env.users.GetDoctors()
	require.Nil(t, apierr)
	require.Len(t, doctors, 1)
	assert.Equal(t, first.ID, doctors[0].ID)
}

func TestGetUser(t *testing.T) {
	env := newTestEnv(t)
	me := env.register(t, "Me", "me@clinic.test", "patient", "")

	got, apierr := env.users.GetUser("@me", me)
	require.Nil(t, apierr)
	assert.Equal(t, "Me", got.Name)

	got, apierr = env.users.GetUser(strconv.Itoa(me.ID), Caller{ID: 999, Role: entity.RoleAdmin})
	require.Nil(t, apierr)
	assert.Equal(t, me.ID, got.ID)

	_, apierr = env.users.GetUser("4242", me)
	assert.Equal(t, apierror.NotFoundError, apierr)

	_, apierr = env.users.GetUser("abc", me)
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusBadRequest, apierr.Code())
}

func TestDeleteUserCascades(t *testing.T) {
	env := newTestEnv(t)
	doc := env.register(t, "Dr. A", "a@clinic.test", "doctor", "Cardiology")
	other := env.register(t, "Dr. B", "b@clinic.test", "doctor", "")
	pat := env.register(t, "P", "p@clinic.test", "patient", "")

	env.book(t, doc, pat, "2025-01-10T10:00")
	kept := env.book(t, other, pat, "2025-01-11T10:00")

	require.Nil(t, env.users.DeleteUser(strconv.Itoa(doc.ID)))

	appts, apierr := env.appts.GetAppointments()
	require.Nil(t, apierr)
	require.Len(t, appts, 1)
	assert.Equal(t, kept.ID, appts[0].ID)
	for _, a := range appts {
		assert.NotEqual(t, doc.ID, a.DoctorID)
		assert.NotEqual(t, doc.ID, a.PatientID)
	}

	// Idempotent.
	assert.Nil(t, env.users.DeleteUser(strconv.Itoa(doc.ID)))

	require.Nil(t, env.users.DeleteUser(strconv.Itoa(pat.ID)))
	appts, apierr = env.appts.GetAppointments()
	require.Nil(t, apierr)
	assert.Empty(t, appts)

	apierr = env.users.DeleteUser("x1")
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusBadRequest, apierr.Code())
}

func TestEnsureAdmin(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.users.EnsureAdmin("Admin User", "admin@clinic.test", "123456"))
	require.NoError(t, env.users.EnsureAdmin("Admin User", "ADMIN@clinic.test", "other"))

	users, apierr := env.users.GetUsers()
	require.Nil(t, apierr)
	require.Len(t, users, 1)
	assert.Equal(t, entity.RoleAdmin, users[0].Role)

	_, apierr = env.users.Login(&LoginRequest{Email: "admin@clinic.test", Password: "123456"})
	assert.Nil(t, apierr)
}

func TestRegisterRejectsInnerSpacesInEmail(t *testing.T) {
	env := newTestEnv(t)

	_, apierr := env.users.Register(&RegisterRequest{Name: "Ann", Email: "ann smith@clinic.test", Password: "secret123"})
	require.NotNil(t, apierr)
	simple, ok := apierr.(*apierror.SimpleError)
	require.True(t, ok)
	require.Len(t, simple.Fields, 1)
	assert.Equal(t, "email", simple.Fields[0].Field)
	assert.Equal(t, "nospaces", simple.Fields[0].Rule)

	// surrounding whitespace is trimmed before validation
	_, apierr = env.users.Register(&RegisterRequest{Name: "Ann", Email: "  ann@clinic.test ", Password: "secret123"})
	assert.Nil(t, apierr)
}

func TestEnsureAdminWarnsWhenEmailIsTaken(t *testing.T) {
	env := newTestEnv(t)
	doc := env.register(t, "Dr. A", "boss@clinic.test", "doctor", "")

	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stdout) })

	require.NoError(t, env.users.EnsureAdmin("Root", "BOSS@clinic.test", "rootpass"))
	assert.Contains(t, buf.String(), "bootstrap admin not created")

	got, apierr := env.users.GetUser(strconv.Itoa(doc.ID), doc)
	require.Nil(t, apierr)
	assert.Equal(t, entity.RoleDoctor, got.Role)

	_, apierr = env.users.Login(&LoginRequest{Email: "boss@clinic.test", Password: "rootpass"})
	assert.Equal(t, apierror.InvalidCredentialsError, apierr)
}
