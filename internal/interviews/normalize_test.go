package interviews

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeInterviewModernPayload(t *testing.T) {
	raw := []byte(`{
		"id": "7b2ff723-1c66-4b2a-8a7b-2a57a98a6a10",
		"guardianId": "g1",
		"studentId": "s1",
		"educatorId": "e1",
		"subjectId": "math",
		"reasonId": "grades",
		"date": "2025-03-11",
		"startTime": "09:00",
		"endTime": "09:20",
		"virtual": true,
		"meetingLink": "https://meet.example.com/x",
		"status": "pending"
	}`)

	iv, err := NormalizeInterview(raw)
	require.NoError(t, err)
	assert.Equal(t, "g1", iv.GuardianID)
	assert.Equal(t, OwnerRef{Kind: OwnerEducator, ID: "e1"}, iv.Owner)
	assert.Equal(t, NewDate(2025, time.March, 11), iv.Date)
	assert.Equal(t, StatusPending, iv.Status)
	assert.Equal(t, "https://meet.example.com/x", iv.MeetingLink)
}

func TestNormalizeInterviewLegacySpanishPayload(t *testing.T) {
	raw := []byte(`{
		"idApoderado": "g9",
		"idEstudiante": 42,
		"idPsicologo": "p2",
		"idMateria": "orientacion",
		"idMotivo": "conducta",
		"fecha": "2025-03-11T00:00:00Z",
		"hora_inicio": "10:00:00",
		"hora_fin": "10:20:00",
		"esVirtual": "si",
		"linkReunion": "https://meet.example.com/y",
		"estado": "PENDIENTE",
		"descripcion": "seguimiento"
	}`)

	iv, err := NormalizeInterview(raw)
	require.NoError(t, err)
	assert.Equal(t, "g9", iv.GuardianID)
	assert.Equal(t, "42", iv.StudentID)
	assert.Equal(t, OwnerRef{Kind: OwnerPsychologist, ID: "p2"}, iv.Owner)
	assert.Equal(t, "2025-03-11", iv.Date.String())
	assert.Equal(t, "10:00", iv.StartTime)
	assert.Equal(t, "10:20", iv.EndTime)
	assert.True(t, iv.Virtual)
	assert.Equal(t, StatusPending, iv.Status)
	assert.Equal(t, "seguimiento", iv.Description)
}

func TestNormalizeInterviewRoundTripsCanonicalShape(t *testing.T) {
	want := Interview{
		ID:         uuid.New(),
		GuardianID: "g1",
		StudentID:  "s1",
		Owner:      OwnerRef{Kind: OwnerPsychologist, ID: "p7"},
		SubjectID:  "orientacion",
		ReasonID:   "conducta",
		Date:       NewDate(2025, time.March, 11),
		StartTime:  "09:00",
		EndTime:    "09:20",
		Status:     StatusPending,
	}
	raw, err := json.Marshal(want)
	require.NoError(t, err)

	got, err := NormalizeInterview(raw)
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Owner, got.Owner)
	assert.Equal(t, want.GuardianID, got.GuardianID)
	assert.Equal(t, want.Date, got.Date)
	assert.Equal(t, want.StartTime, got.StartTime)
	assert.Equal(t, want.EndTime, got.EndTime)
	assert.Equal(t, want.Status, got.Status)
}

func TestNormalizeInterviewFlatOwnerKeys(t *testing.T) {
	raw := []byte(`{
		"guardian_id": "g1", "student_id": "s1",
		"owner_kind": "educator", "owner_id": "e4",
		"subject_id": "math", "reason_id": "grades",
		"date": "2025-03-11", "start_time": "09:00", "end_time": "09:20",
		"status": "pending"
	}`)

	iv, err := NormalizeInterview(raw)
	require.NoError(t, err)
	assert.Equal(t, OwnerRef{Kind: OwnerEducator, ID: "e4"}, iv.Owner)
}

func TestNormalizeInterviewRejectsUnknownOwnerKind(t *testing.T) {
	raw := []byte(`{
		"guardian_id": "g1", "student_id": "s1",
		"owner_kind": "janitor", "owner_id": "j1",
		"subject_id": "math", "date": "2025-03-11",
		"start_time": "09:00", "end_time": "09:20"
	}`)

	_, err := NormalizeInterview(raw)
	assert.True(t, IsValidation(err))
}

func TestNormalizeInterviewDropsLinkWhenNotVirtual(t *testing.T) {
	raw := []byte(`{
		"guardianId": "g1", "studentId": "s1", "educatorId": "e1",
		"subjectId": "math", "reasonId": "r1",
		"date": "2025-03-11", "startTime": "09:00", "endTime": "09:20",
		"virtual": false, "link": "https://stale.example.com",
		"status": "pendiente"
	}`)

	iv, err := NormalizeInterview(raw)
	require.NoError(t, err)
	assert.False(t, iv.Virtual)
	assert.Empty(t, iv.MeetingLink)
}

func TestNormalizeInterviewRejectsTwoOwners(t *testing.T) {
	raw := []byte(`{
		"guardianId": "g1", "studentId": "s1",
		"educatorId": "e1", "psicologoId": "p1",
		"subjectId": "math", "date": "2025-03-11",
		"startTime": "09:00", "endTime": "09:20"
	}`)

	_, err := NormalizeInterview(raw)
	assert.True(t, IsValidation(err))
}

func TestNormalizeInterviewRejectsUnknownStatus(t *testing.T) {
	raw := []byte(`{
		"guardianId": "g1", "studentId": "s1", "educatorId": "e1",
		"subjectId": "math", "date": "2025-03-11",
		"startTime": "09:00", "endTime": "09:20",
		"estado": "archivada"
	}`)

	_, err := NormalizeInterview(raw)
	assert.True(t, IsValidation(err))
}

func TestNormalizeInterviewStatusAliases(t *testing.T) {
	for alias, want := range map[string]Status{
		"realizada": StatusCompleted,
		"cancelled": StatusCanceled,
		"Cancelada": StatusCanceled,
	} {
		raw := []byte(`{
			"guardianId": "g1", "studentId": "s1", "educatorId": "e1",
			"subjectId": "math", "date": "2025-03-11",
			"startTime": "09:00", "endTime": "09:20",
			"status": "` + alias + `"
		}`)
		iv, err := NormalizeInterview(raw)
		require.NoError(t, err, alias)
		assert.Equal(t, want, iv.Status, alias)
	}
}

func TestNormalizeScheduleNumericWeekday(t *testing.T) {
	owner := OwnerRef{Kind: OwnerEducator, ID: "e1"}
	raw := []byte(`{"weekday": 2, "startTime": "09:00", "endTime": "10:00", "subjectId": "math", "subjectName": "Matemáticas"}`)

	ws, err := NormalizeSchedule(raw, owner)
	require.NoError(t, err)
	assert.Equal(t, time.Tuesday, ws.Weekday)
	assert.Equal(t, owner, ws.Owner)
	assert.Equal(t, "Matemáticas", ws.SubjectName)
}

func TestNormalizeScheduleSpanishWeekdayName(t *testing.T) {
	owner := OwnerRef{Kind: OwnerPsychologist, ID: "p1"}
	raw := []byte(`{"diaSemana": "Miércoles", "hora_inicio": "14:00:00", "hora_fin": "15:00:00", "materiaId": "orientacion"}`)

	ws, err := NormalizeSchedule(raw, owner)
	require.NoError(t, err)
	assert.Equal(t, time.Wednesday, ws.Weekday)
	assert.Equal(t, "14:00", ws.StartTime)
	assert.Equal(t, "15:00", ws.EndTime)
}

func TestNormalizeScheduleMissingWeekday(t *testing.T) {
	raw := []byte(`{"startTime": "09:00", "endTime": "10:00", "subjectId": "math"}`)
	_, err := NormalizeSchedule(raw, OwnerRef{Kind: OwnerEducator, ID: "e1"})
	assert.True(t, IsValidation(err))
}
