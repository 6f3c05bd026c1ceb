package interviews

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// The portal backend has gone through several naming conventions (Spanish,
// English, snake and camel case). Each logical field keeps one ordered
// candidate list here; the first key present wins. This file is the only
// place allowed to know about legacy spellings.

var (
	idKeys          = []string{"id", "_id", "interviewId", "idEntrevista", "entrevista_id"}
	guardianKeys    = []string{"guardianId", "guardian_id", "apoderadoId", "idApoderado", "apoderado_id"}
	studentKeys     = []string{"studentId", "student_id", "estudianteId", "idEstudiante", "estudiante_id"}
	educatorKeys    = []string{"educatorId", "educator_id", "docenteId", "idDocente", "docente_id"}
	psychKeys       = []string{"psychologistId", "psychologist_id", "psicologoId", "idPsicologo", "psicologo_id"}
	ownerKindKeys   = []string{"ownerKind", "owner_kind", "tipoResponsable", "tipo_responsable"}
	ownerIDKeys     = []string{"ownerId", "owner_id", "responsableId", "responsable_id"}
	subjectKeys     = []string{"subjectId", "subject_id", "materiaId", "idMateria", "materia_id"}
	subjectNameKeys = []string{"subjectName", "subject_name", "nombreMateria", "materia"}
	reasonKeys      = []string{"reasonId", "reason_id", "motivoId", "idMotivo", "motivo_id"}
	dateKeys        = []string{"date", "fecha", "fechaEntrevista", "fecha_entrevista"}
	startKeys       = []string{"startTime", "start_time", "horaInicio", "hora_inicio", "horaIni"}
	endKeys         = []string{"endTime", "end_time", "horaFin", "hora_fin"}
	virtualKeys     = []string{"virtual", "isVirtual", "esVirtual", "es_virtual"}
	linkKeys        = []string{"meetingLink", "meeting_link", "linkReunion", "link_reunion", "link"}
	statusKeys      = []string{"status", "estado"}
	descKeys        = []string{"description", "descripcion", "detalle"}
	weekdayKeys     = []string{"weekday", "dia", "diaSemana", "dia_semana"}
)

var statusAliases = map[string]Status{
	"pending":    StatusPending,
	"pendiente":  StatusPending,
	"completed":  StatusCompleted,
	"completada": StatusCompleted,
	"realizada":  StatusCompleted,
	"canceled":   StatusCanceled,
	"cancelled":  StatusCanceled,
	"cancelada":  StatusCanceled,
}

var ownerKindAliases = map[string]OwnerKind{
	"educator": OwnerEducator, "docente": OwnerEducator,
	"psychologist": OwnerPsychologist, "psicologo": OwnerPsychologist, "psicólogo": OwnerPsychologist,
}

var weekdayAliases = map[string]time.Weekday{
	"sunday": time.Sunday, "domingo": time.Sunday,
	"monday": time.Monday, "lunes": time.Monday,
	"tuesday": time.Tuesday, "martes": time.Tuesday,
	"wednesday": time.Wednesday, "miercoles": time.Wednesday, "miércoles": time.Wednesday,
	"thursday": time.Thursday, "jueves": time.Thursday,
	"friday": time.Friday, "viernes": time.Friday,
	"saturday": time.Saturday, "sabado": time.Saturday, "sábado": time.Saturday,
}

// NormalizeInterview maps one raw backend payload into the canonical
// Interview shape and validates it.
func NormalizeInterview(raw []byte) (*Interview, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("interviews: normalize: decode payload: %w", err)
	}

	iv := &Interview{
		GuardianID:  stringField(m, guardianKeys),
		StudentID:   stringField(m, studentKeys),
		SubjectID:   stringField(m, subjectKeys),
		ReasonID:    stringField(m, reasonKeys),
		StartTime:   clockField(m, startKeys),
		EndTime:     clockField(m, endKeys),
		Virtual:     boolField(m, virtualKeys),
		MeetingLink: stringField(m, linkKeys),
		Description: stringField(m, descKeys),
	}

	if rawID := stringField(m, idKeys); rawID != "" {
		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("interviews: normalize: bad id %q: %w", rawID, err)
		}
		iv.ID = id
	}

	owner, err := ownerField(m)
	if err != nil {
		return nil, err
	}
	iv.Owner = owner

	rawDate := stringField(m, dateKeys)
	if rawDate != "" {
		d, err := ParseDate(firstDateToken(rawDate))
		if err != nil {
			return nil, err
		}
		iv.Date = d
	}

	rawStatus := strings.ToLower(strings.TrimSpace(stringField(m, statusKeys)))
	if rawStatus == "" {
		iv.Status = StatusPending
	} else if mapped, ok := statusAliases[rawStatus]; ok {
		iv.Status = mapped
	} else {
		return nil, &ValidationError{Field: "status", Reason: "unknown value " + rawStatus}
	}

	// A link on a non-virtual record is legacy noise, not a hard error on
	// ingestion: drop it so the canonical invariant holds.
	if !iv.Virtual {
		iv.MeetingLink = ""
	}

	if err := iv.Validate(); err != nil {
		return nil, err
	}
	return iv, nil
}

// NormalizeSchedule maps one raw weekly-schedule payload into the
// canonical WeeklySchedule shape.
func NormalizeSchedule(raw []byte, owner OwnerRef) (*WeeklySchedule, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("interviews: normalize schedule: decode payload: %w", err)
	}

	ws := &WeeklySchedule{
		Owner:       owner,
		StartTime:   clockField(m, startKeys),
		EndTime:     clockField(m, endKeys),
		SubjectID:   stringField(m, subjectKeys),
		SubjectName: stringField(m, subjectNameKeys),
	}

	wd, ok := weekdayField(m)
	if !ok {
		return nil, &ValidationError{Field: "weekday", Reason: "missing or unknown"}
	}
	ws.Weekday = wd

	if _, err := ClockMinutes(ws.StartTime); err != nil {
		return nil, &ValidationError{Field: "start_time", Reason: "must be HH:MM"}
	}
	if _, err := ClockMinutes(ws.EndTime); err != nil {
		return nil, &ValidationError{Field: "end_time", Reason: "must be HH:MM"}
	}
	return ws, nil
}

// ownerField resolves the interview owner. The canonical nested
// owner object wins, then flat owner_kind/owner_id pairs, then the
// legacy role-specific id keys.
func ownerField(m map[string]any) (OwnerRef, error) {
	if nested, ok := m["owner"].(map[string]any); ok {
		kind, known := ownerKindAlias(stringField(nested, []string{"kind", "tipo"}))
		if id := stringField(nested, []string{"id"}); known && id != "" {
			return OwnerRef{Kind: kind, ID: id}, nil
		}
	}

	if rawKind := stringField(m, ownerKindKeys); rawKind != "" {
		kind, known := ownerKindAlias(rawKind)
		if !known {
			return OwnerRef{}, &ValidationError{Field: "owner", Reason: "unknown kind " + rawKind}
		}
		if id := stringField(m, ownerIDKeys); id != "" {
			return OwnerRef{Kind: kind, ID: id}, nil
		}
	}

	educator := stringField(m, educatorKeys)
	psychologist := stringField(m, psychKeys)
	switch {
	case educator != "" && psychologist != "":
		return OwnerRef{}, &ValidationError{Field: "owner", Reason: "both educator and psychologist set"}
	case educator != "":
		return OwnerRef{Kind: OwnerEducator, ID: educator}, nil
	case psychologist != "":
		return OwnerRef{Kind: OwnerPsychologist, ID: psychologist}, nil
	}
	return OwnerRef{}, nil
}

func ownerKindAlias(s string) (OwnerKind, bool) {
	k, ok := ownerKindAliases[strings.ToLower(strings.TrimSpace(s))]
	return k, ok
}

func stringField(m map[string]any, keys []string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return s
			}
		case float64:
			// Legacy numeric ids arrive as JSON numbers.
			return strconv.FormatInt(int64(t), 10)
		}
	}
	return ""
}

func boolField(m map[string]any, keys []string) bool {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case bool:
			return t
		case string:
			s := strings.ToLower(strings.TrimSpace(t))
			return s == "true" || s == "1" || s == "si" || s == "sí"
		case float64:
			return t != 0
		}
	}
	return false
}

// clockField trims seconds off legacy HH:MM:SS values.
func clockField(m map[string]any, keys []string) string {
	s := stringField(m, keys)
	if len(s) > 5 && strings.Count(s, ":") == 2 {
		return s[:5]
	}
	return s
}

// firstDateToken strips a trailing time component off legacy ISO
// datetimes ("2025-03-10T00:00:00Z" -> "2025-03-10").
func firstDateToken(s string) string {
	if i := strings.IndexAny(s, "T "); i > 0 {
		return s[:i]
	}
	return s
}

func weekdayField(m map[string]any) (time.Weekday, bool) {
	for _, k := range weekdayKeys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case float64:
			n := int(t)
			if n >= 0 && n <= 6 {
				return time.Weekday(n), true
			}
		case string:
			s := strings.ToLower(strings.TrimSpace(t))
			if wd, ok := weekdayAliases[s]; ok {
				return wd, true
			}
			if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 6 {
				return time.Weekday(n), true
			}
		}
	}
	return 0, false
}
