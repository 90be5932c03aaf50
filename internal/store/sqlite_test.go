package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carepoint.io/care-assistant/internal/apperrors"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestForeignKeysOnEveryConnection(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "fk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	s.db.SetMaxOpenConns(2)
	first, err := s.db.Conn(ctx)
	require.NoError(t, err)
	defer first.Close()
	second, err := s.db.Conn(ctx)
	require.NoError(t, err)
	defer second.Close()

	for _, c := range []*sql.Conn{first, second} {
		var on int
		require.NoError(t, c.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&on))
		assert.Equal(t, 1, on)
	}
}

func TestWithForeignKeys(t *testing.T) {
	assert.Equal(t, ":memory:?_foreign_keys=on", withForeignKeys(":memory:"))
	assert.Equal(t, "file:care.db?cache=shared&_foreign_keys=on", withForeignKeys("file:care.db?cache=shared"))
	assert.Equal(t, "care.db?_fk=0", withForeignKeys("care.db?_fk=0"))
}

func TestKV_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "a", "1"))
	require.NoError(t, s.Set(ctx, "a", "2"))
	require.NoError(t, s.Set(ctx, "b", "x"))

	v, ok, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", v)

	require.NoError(t, s.Delete(ctx, "a", "b"))
	_, ok, _ = s.Get(ctx, "a")
	assert.False(t, ok)
	_, ok, _ = s.Get(ctx, "b")
	assert.False(t, ok)
}

func TestMessages_FeedbackIsExclusiveAndOwned(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	owner, err := s.CreateUser(ctx, "alice", "hash", RolePatient)
	require.NoError(t, err)
	other, err := s.CreateUser(ctx, "bob", "hash", RolePatient)
	require.NoError(t, err)

	chat, err := s.CreateChat(ctx, owner.ID, nil)
	require.NoError(t, err)

	conf := 0.8
	msg := &Message{
		ChatID:      chat.ID,
		Role:        SenderBot,
		Content:     "reply",
		Confidence:  &conf,
		Source:      "knowledge_base",
		Suggestions: []string{"Book an appointment"},
	}
	require.NoError(t, s.CreateMessage(ctx, msg))

	updated, err := s.UpdateMessageFeedback(ctx, msg.ID, owner.ID, true, false)
	require.NoError(t, err)
	assert.True(t, updated.Liked)
	assert.False(t, updated.Disliked)

	updated, err = s.UpdateMessageFeedback(ctx, msg.ID, owner.ID, false, true)
	require.NoError(t, err)
	assert.False(t, updated.Liked)
	assert.True(t, updated.Disliked)

	_, err = s.UpdateMessageFeedback(ctx, msg.ID, other.ID, true, false)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.UpdateMessageFeedback(ctx, msg.ID, owner.ID, true, true)
	assert.Error(t, err)

	messages, err := s.GetMessagesByChatID(ctx, chat.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, []string{"Book an appointment"}, messages[0].Suggestions)
	require.NotNil(t, messages[0].Confidence)
	assert.InDelta(t, 0.8, *messages[0].Confidence, 1e-9)
	assert.Equal(t, "knowledge_base", messages[0].Source)
}

func TestChats_NotFoundForOtherUser(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	owner, err := s.CreateUser(ctx, "alice", "hash", RolePatient)
	require.NoError(t, err)
	chat, err := s.CreateChat(ctx, owner.ID, nil)
	require.NoError(t, err)

	_, err = s.GetChatByID(ctx, chat.ID, owner.ID+1)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.UpdateChatTitle(ctx, chat.ID, owner.ID, "Headache questions"))
	got, err := s.GetChatByID(ctx, chat.ID, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Title)
	assert.Equal(t, "Headache questions", *got.Title)
}

func TestClinic_PatientAccountLink(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	linked := &Patient{Name: "Asha Rao", AccountID: "asha"}
	require.NoError(t, s.CreatePatient(ctx, linked))
	require.NoError(t, s.CreatePatient(ctx, &Patient{Name: "Ravi Kumar"}))
	require.NoError(t, s.CreatePatient(ctx, &Patient{Name: "Meera Iyer"}))

	got, err := s.GetPatient(ctx, linked.ID)
	require.NoError(t, err)
	assert.Equal(t, "asha", got.AccountID)

	err = s.CreatePatient(ctx, &Patient{Name: "Asha R.", AccountID: "asha"})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	list, err := s.ListPatients(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestClinic_AppointmentLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p := &Patient{Name: "Ravi Kumar", Email: "ravi@example.com"}
	require.NoError(t, s.CreatePatient(ctx, p))
	d := &Doctor{Name: "Dr. Meera Rao", Specialty: "Neurology", Available: true}
	require.NoError(t, s.CreateDoctor(ctx, d))

	when := time.Date(2026, 11, 2, 10, 30, 0, 0, time.UTC)
	a := &Appointment{PatientID: p.ID, DoctorID: d.ID, ScheduledAt: when, Reason: "migraine"}
	require.NoError(t, s.CreateAppointment(ctx, a))
	assert.Equal(t, AppointmentScheduled, a.Status)

	list, err := s.ListAppointments(ctx, AppointmentFilter{PatientID: p.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, when.Equal(list[0].ScheduledAt))

	require.NoError(t, s.UpdateAppointmentStatus(ctx, a.ID, AppointmentCancelled))
	got, err := s.GetAppointment(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, AppointmentCancelled, got.Status)

	neuro, err := s.ListDoctors(ctx, "neurology")
	require.NoError(t, err)
	assert.Len(t, neuro, 1)

	require.NoError(t, s.DeletePatient(ctx, p.ID))
	_, err = s.GetAppointment(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound, "appointments cascade with their patient")

	assert.ErrorIs(t, s.DeleteDoctor(ctx, "nope"), ErrNotFound)
}

func TestIngestKnowledgeFromFile(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	table := `| key | kind | title | description | items | seek_care | remedies |
|---|---|---|---|---|---|---|
| backPain | symptom | Back pain | Pain in the lower or upper back. | Poor posture; Muscle strain | See an orthopedist if pain lasts over two weeks. | Gentle stretching; Warm compress |
| broken row |
| mri | procedure | MRI scan | Magnetic imaging. | Remove metal objects | Ask your doctor about contrast allergies. | |
| x | unknown | X | X | X | X | X |
`
	path := filepath.Join(t.TempDir(), "kb.md")
	require.NoError(t, os.WriteFile(path, []byte(table), 0o600))

	n, err := s.IngestKnowledgeFromFile(ctx, path, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	entries, err := s.ListKnowledgeEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "backPain", entries[0].Key)
	assert.Equal(t, []string{"Poor posture", "Muscle strain"}, entries[0].Items)
	assert.Equal(t, []string{"Gentle stretching", "Warm compress"}, entries[0].Remedies)
	assert.Equal(t, "mri", entries[1].Key)
	assert.Empty(t, entries[1].Remedies)
}

func TestParseKnowledgeTable_RejectsWrongHeader(t *testing.T) {
	_, err := ParseKnowledgeTable("| text |\n|---|\n| a |\n", zerolog.Nop())
	assert.Error(t, err)
}

func TestGetPatient_DBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	s := NewSQLiteStoreFromDB(db)
	mock.ExpectQuery(regexp.QuoteMeta("FROM patients WHERE id = ?")).
		WithArgs("p1").
		WillReturnError(errors.New("disk I/O error"))

	_, err = s.GetPatient(context.Background(), "p1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKVSet_DBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	s := NewSQLiteStoreFromDB(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv")).
		WillReturnError(errors.New("database is locked"))

	err = s.Set(context.Background(), "ai_quota_count", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ai_quota_count")
	assert.NoError(t, mock.ExpectationsWereMet())
}
