package service

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport(t *testing.T) {
	env := newTestEnv(t)
	doc := env.register(t, "Dr. A", "dr.a@clinic.test", "doctor", "Cardiology")
	pat := env.register(t, "P", "p@clinic.test", "patient", "")
	done := env.book(t, doc, pat, "2025-01-10T10:00")
	env.book(t, doc, pat, "2025-01-12T10:00")
	require.Nil(t, env.appts.Complete(done.ID, &CompleteRequest{BloodPressure: "120/80", HeartRate: "72"}, doc))

	exporter := NewExportService(env.userRepo, env.apptRepo, env.recordRepo)
	exporter.Now = func() time.Time { return time.Date(2025, 1, 20, 8, 0, 0, 0, time.UTC) }

	var buf bytes.Buffer
	require.NoError(t, exporter.Export(&buf))
	assert.NotContains(t, buf.String(), "password")

	var dump struct {
		Timestamp      string           `json:"timestamp"`
		Users          []map[string]any `json:"users"`
		Appointments   []map[string]any `json:"appointments"`
		MedicalRecords []map[string]any `json:"medical_records"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &dump))

	assert.Equal(t, "2025-01-20T08:00:00Z", dump.Timestamp)
	assert.Len(t, dump.Users, 2)
	require.Len(t, dump.Appointments, 2)
	assert.Equal(t, "Completed", dump.Appointments[0]["status"])
	assert.Equal(t, "Pending", dump.Appointments[1]["status"])
	require.Len(t, dump.MedicalRecords, 1)
	assert.Equal(t, "120/80", dump.MedicalRecords[0]["bp"])
	assert.EqualValues(t, done.ID, dump.MedicalRecords[0]["appointment_id"])
}
