package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"carepoint.io/care-assistant/internal/store"
)

type PatientRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"omitempty,max=32"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender      string `json:"gender" validate:"omitempty,max=32"`
	AccountID   string `json:"account_id" validate:"omitempty,min=3,max=64"`
}

func (p PatientRequest) toPatient(id string) *store.Patient {
	return &store.Patient{
		ID:          id,
		Name:        p.Name,
		Email:       p.Email,
		Phone:       p.Phone,
		DateOfBirth: p.DateOfBirth,
		Gender:      p.Gender,
		AccountID:   p.AccountID,
	}
}

func (h *APIHandler) ListPatientsHandler(w http.ResponseWriter, r *http.Request) {
	patients, err := h.clinic.ListPatients(r.Context())
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, patients)
}

func (h *APIHandler) GetPatientHandler(w http.ResponseWriter, r *http.Request) {
	p, err := h.clinic.GetPatient(r.Context(), chi.URLParam(r, "patientID"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, p)
}

func (h *APIHandler) CreatePatientHandler(w http.ResponseWriter, r *http.Request) {
	var req PatientRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	p := req.toPatient("")
	if err := h.clinic.CreatePatient(r.Context(), p); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusCreated, p)
}

func (h *APIHandler) UpdatePatientHandler(w http.ResponseWriter, r *http.Request) {
	var req PatientRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	p := req.toPatient(chi.URLParam(r, "patientID"))
	if err := h.clinic.UpdatePatient(r.Context(), p); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	updated, err := h.clinic.GetPatient(r.Context(), p.ID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, updated)
}

func (h *APIHandler) DeletePatientHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.clinic.DeletePatient(r.Context(), chi.URLParam(r, "patientID")); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type DoctorRequest struct {
	Name      string `json:"name" validate:"required,max=120"`
	Specialty string `json:"specialty" validate:"required,max=64"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"omitempty,max=32"`
	Available *bool  `json:"available"`
}

func (d DoctorRequest) toDoctor(id string) *store.Doctor {
	available := true
	if d.Available != nil {
		available = *d.Available
	}
	return &store.Doctor{
		ID:        id,
		Name:      d.Name,
		Specialty: d.Specialty,
		Email:     d.Email,
		Phone:     d.Phone,
		Available: available,
	}
}

func (h *APIHandler) ListDoctorsHandler(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.clinic.ListDoctors(r.Context(), r.URL.Query().Get("specialty"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, doctors)
}

func (h *APIHandler) GetDoctorHandler(w http.ResponseWriter, r *http.Request) {
	d, err := h.clinic.GetDoctor(r.Context(), chi.URLParam(r, "doctorID"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, d)
}

func (h *APIHandler) CreateDoctorHandler(w http.ResponseWriter, r *http.Request) {
	var req DoctorRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	d := req.toDoctor("")
	if err := h.clinic.CreateDoctor(r.Context(), d); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusCreated, d)
}

func (h *APIHandler) UpdateDoctorHandler(w http.ResponseWriter, r *http.Request) {
	var req DoctorRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	d := req.toDoctor(chi.URLParam(r, "doctorID"))
	if err := h.clinic.UpdateDoctor(r.Context(), d); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	updated, err := h.clinic.GetDoctor(r.Context(), d.ID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, updated)
}

func (h *APIHandler) DeleteDoctorHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.clinic.DeleteDoctor(r.Context(), chi.URLParam(r, "doctorID")); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type AppointmentRequest struct {
	PatientID   string    `json:"patient_id" validate:"required"`
	DoctorID    string    `json:"doctor_id" validate:"required"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Reason      string    `json:"reason" validate:"max=500"`
}

type AppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled completed cancelled"`
}

func (h *APIHandler) ListAppointmentsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.clinic.ListAppointments(r.Context(), store.AppointmentFilter{
		PatientID: q.Get("patient_id"),
		DoctorID:  q.Get("doctor_id"),
		Status:    q.Get("status"),
	})
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, list)
}

func (h *APIHandler) GetAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	a, err := h.clinic.GetAppointment(r.Context(), chi.URLParam(r, "appointmentID"))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, a)
}

func (h *APIHandler) BookAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	var req AppointmentRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	a := &store.Appointment{
		PatientID:   req.PatientID,
		DoctorID:    req.DoctorID,
		ScheduledAt: req.ScheduledAt.UTC(),
		Reason:      req.Reason,
	}
	var err error
	if roleFrom(r.Context()) == store.RolePatient {
		err = h.clinic.BookAppointmentFor(r.Context(), externalUserIDFrom(r.Context()), a)
	} else {
		err = h.clinic.BookAppointment(r.Context(), a)
	}
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusCreated, a)
}

func (h *APIHandler) SetAppointmentStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req AppointmentStatusRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	a, err := h.clinic.SetAppointmentStatus(r.Context(), chi.URLParam(r, "appointmentID"), req.Status)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, a)
}

func (h *APIHandler) DeleteAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.clinic.DeleteAppointment(r.Context(), chi.URLParam(r, "appointmentID")); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
