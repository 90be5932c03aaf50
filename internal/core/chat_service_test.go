package core

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carepoint.io/care-assistant/internal/apperrors"
	"carepoint.io/care-assistant/internal/datasync"
	"carepoint.io/care-assistant/internal/store"
)

func newTestDB(t *testing.T) *store.SQLiteStore {
	t.Helper()
	db, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestChatService(t *testing.T) (*ChatService, *store.SQLiteStore, int64) {
	t.Helper()
	db := newTestDB(t)
	user, err := db.CreateUser(context.Background(), "ravi", "hash", store.RolePatient)
	require.NoError(t, err)

	quota := NewQuotaTracker(db, 50, 0, nil, zerolog.Nop())
	resolver := NewResolver(nil, nil, quota, zerolog.Nop())
	return NewChatService(db, resolver, zerolog.Nop()), db, user.ID
}

func TestChatService_CreateChatWithFirstMessage(t *testing.T) {
	ctx := context.Background()
	svc, _, userID := newTestChatService(t)

	chat, msgs, err := svc.CreateChat(ctx, userID, "I have a headache since morning")
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, store.SenderUser, msgs[0].Role)
	assert.Equal(t, store.SenderBot, msgs[1].Role)
	assert.Equal(t, SourceKnowledgeBase, msgs[1].Source)
	require.NotNil(t, msgs[1].Confidence)
	assert.Equal(t, 0.8, *msgs[1].Confidence)
	require.NotNil(t, chat.Title)
	assert.Equal(t, "I have a headache since morning", *chat.Title)

	stored, history, err := svc.GetChatDetails(ctx, chat.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, *chat.Title, *stored.Title)
	assert.Len(t, history, 2)
	assert.NotEmpty(t, history[1].Suggestions)
}

func TestChatService_EmptyChat(t *testing.T) {
	svc, _, userID := newTestChatService(t)

	chat, msgs, err := svc.CreateChat(context.Background(), userID, "  ")
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.Nil(t, chat.Title)
}

func TestChatService_InvalidImageBecomesFallbackReply(t *testing.T) {
	ctx := context.Background()
	svc, _, userID := newTestChatService(t)
	chat, _, err := svc.CreateChat(ctx, userID, "")
	require.NoError(t, err)

	ex, err := svc.PostMessage(ctx, chat.ID, userID, "what is this?", "data:image/png;base64,!!!")
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, ex.BotMessage.Source)
	assert.Contains(t, ex.BotMessage.Content, "couldn't read that image")
	assert.Empty(t, ex.UserMessage.ImageRef)
}

func TestChatService_PostMessageValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, userID := newTestChatService(t)

	_, err := svc.PostMessage(ctx, "missing", userID, "", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.PostMessage(ctx, "missing", userID, "hello", "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestChatService_SetMessageFeedback(t *testing.T) {
	ctx := context.Background()
	svc, db, userID := newTestChatService(t)
	_, msgs, err := svc.CreateChat(ctx, userID, "hello")
	require.NoError(t, err)
	botID := msgs[1].ID

	msg, err := svc.SetMessageFeedback(ctx, botID, userID, FeedbackLike)
	require.NoError(t, err)
	assert.True(t, msg.Liked)
	assert.False(t, msg.Disliked)

	msg, err = svc.SetMessageFeedback(ctx, botID, userID, FeedbackDislike)
	require.NoError(t, err)
	assert.False(t, msg.Liked)
	assert.True(t, msg.Disliked)

	msg, err = svc.SetMessageFeedback(ctx, botID, userID, FeedbackNone)
	require.NoError(t, err)
	assert.False(t, msg.Liked || msg.Disliked)

	_, err = svc.SetMessageFeedback(ctx, botID, userID, "love")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	other, err := db.CreateUser(ctx, "someone-else", "hash", store.RolePatient)
	require.NoError(t, err)
	_, err = svc.SetMessageFeedback(ctx, botID, other.ID, FeedbackLike)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestChatTitle(t *testing.T) {
	assert.Equal(t, "Hello", chatTitle("  \"Hello.\"\nsecond line"))
	long := strings.Repeat("a", 80)
	title := chatTitle(long)
	assert.Equal(t, strings.Repeat("a", maxTitleRunes)+"…", title)
}

type refreshRecorder struct {
	calls [][]datasync.DataType
}

func (r *refreshRecorder) Refresh(dts ...datasync.DataType) {
	r.calls = append(r.calls, dts)
}

func TestClinicService_MutationsTriggerRefresh(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	rec := &refreshRecorder{}
	svc := NewClinicService(db, rec, zerolog.Nop())

	patient := &store.Patient{Name: "Asha Rao"}
	require.NoError(t, svc.CreatePatient(ctx, patient))
	doctor := &store.Doctor{Name: "Dr. Menon", Specialty: "Neurology", Available: true}
	require.NoError(t, svc.CreateDoctor(ctx, doctor))

	appt := &store.Appointment{PatientID: patient.ID, DoctorID: doctor.ID, Reason: "headache"}
	require.NoError(t, svc.BookAppointment(ctx, appt))
	assert.Equal(t, store.AppointmentScheduled, appt.Status)

	updated, err := svc.SetAppointmentStatus(ctx, appt.ID, store.AppointmentCompleted)
	require.NoError(t, err)
	assert.Equal(t, store.AppointmentCompleted, updated.Status)

	require.NoError(t, svc.DeletePatient(ctx, patient.ID))

	assert.Equal(t, [][]datasync.DataType{
		{datasync.Patients},
		{datasync.Doctors},
		{datasync.Appointments},
		{datasync.Appointments},
		{datasync.Patients, datasync.Appointments},
	}, rec.calls)
}

func TestClinicService_BookingRules(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	rec := &refreshRecorder{}
	svc := NewClinicService(db, rec, zerolog.Nop())

	patient := &store.Patient{Name: "Asha Rao"}
	require.NoError(t, svc.CreatePatient(ctx, patient))
	away := &store.Doctor{Name: "Dr. Away", Specialty: "Cardiology", Available: false}
	require.NoError(t, svc.CreateDoctor(ctx, away))
	rec.calls = nil

	err := svc.BookAppointment(ctx, &store.Appointment{PatientID: patient.ID, DoctorID: "nope"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	err = svc.BookAppointment(ctx, &store.Appointment{PatientID: patient.ID, DoctorID: away.ID})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = svc.SetAppointmentStatus(ctx, "missing", "done")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	assert.Empty(t, rec.calls, "failed writes do not notify")
}

func TestClinicService_PatientBooksOnlyOwnRecord(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	rec := &refreshRecorder{}
	svc := NewClinicService(db, rec, zerolog.Nop())

	own := &store.Patient{Name: "Asha Rao", AccountID: "asha"}
	require.NoError(t, svc.CreatePatient(ctx, own))
	unlinked := &store.Patient{Name: "Ravi Kumar"}
	require.NoError(t, svc.CreatePatient(ctx, unlinked))
	doctor := &store.Doctor{Name: "Dr. Menon", Available: true}
	require.NoError(t, svc.CreateDoctor(ctx, doctor))
	rec.calls = nil

	err := svc.BookAppointmentFor(ctx, "asha", &store.Appointment{PatientID: unlinked.ID, DoctorID: doctor.ID})
	assert.ErrorIs(t, err, apperrors.ErrPermission)

	err = svc.BookAppointmentFor(ctx, "", &store.Appointment{PatientID: unlinked.ID, DoctorID: doctor.ID})
	assert.ErrorIs(t, err, apperrors.ErrPermission)

	err = svc.BookAppointmentFor(ctx, "asha", &store.Appointment{PatientID: "missing", DoctorID: doctor.ID})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Empty(t, rec.calls)

	appt := &store.Appointment{PatientID: own.ID, DoctorID: doctor.ID}
	require.NoError(t, svc.BookAppointmentFor(ctx, "asha", appt))
	assert.Equal(t, store.AppointmentScheduled, appt.Status)
	assert.Equal(t, [][]datasync.DataType{{datasync.Appointments}}, rec.calls)
}

func TestClinicService_FinishedAppointmentIsFinal(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewClinicService(db, &refreshRecorder{}, zerolog.Nop())

	patient := &store.Patient{Name: "Asha Rao"}
	require.NoError(t, svc.CreatePatient(ctx, patient))
	doctor := &store.Doctor{Name: "Dr. Menon", Available: true}
	require.NoError(t, svc.CreateDoctor(ctx, doctor))
	appt := &store.Appointment{PatientID: patient.ID, DoctorID: doctor.ID}
	require.NoError(t, svc.BookAppointment(ctx, appt))

	_, err := svc.SetAppointmentStatus(ctx, appt.ID, store.AppointmentCancelled)
	require.NoError(t, err)
	_, err = svc.SetAppointmentStatus(ctx, appt.ID, store.AppointmentScheduled)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}
