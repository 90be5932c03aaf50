package store

import "time"

const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

type User struct {
	ID             int64     `json:"id"`
	ExternalUserID string    `json:"external_user_id"`
	PasswordHash   string    `json:"-"` // Do not expose this in JSON responses
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}

type Chat struct {
	ID        string    `json:"id"` // Using UUID for external ID
	UserID    int64     `json:"user_id"`
	Title     *string   `json:"title"` // Nullable
	CreatedAt time.Time `json:"created_at"`
}

const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Message is one chat turn. Only the Liked/Disliked pair changes after insert,
// and at most one of them is true.
type Message struct {
	ID          string    `json:"id"` // Using UUID for external ID
	ChatID      string    `json:"chat_id"`
	Role        string    `json:"role"` // "user" or "bot"
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	Language    string    `json:"language,omitempty"`
	Liked       bool      `json:"liked"`
	Disliked    bool      `json:"disliked"`
	Confidence  *float64  `json:"confidence,omitempty"`
	Source      string    `json:"source,omitempty"`
	Suggestions []string  `json:"suggestions,omitempty"`
	ImageRef    string    `json:"image_ref,omitempty"`
}

const (
	KindSymptom   = "symptom"
	KindProcedure = "procedure"
	KindSpecialty = "specialty"
)

// KnowledgeEntry is a hand-written symptom, procedure or specialty record.
// Key is camelCase ("chestPain"); lookups also try the spaced form.
type KnowledgeEntry struct {
	ID          int64    `json:"id"`
	Key         string   `json:"key"`
	Kind        string   `json:"kind"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Items       []string `json:"items"`
	SeekCare    string   `json:"seek_care"`
	Remedies    []string `json:"remedies,omitempty"`
}

type Patient struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	DateOfBirth string    `json:"date_of_birth"`
	Gender      string    `json:"gender"`
	// AccountID is the external user id of the account that owns this record.
	AccountID   string    `json:"account_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Doctor struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Specialty string    `json:"specialty"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Available bool      `json:"available"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

type Appointment struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patient_id"`
	DoctorID    string    `json:"doctor_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Reason      string    `json:"reason"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
