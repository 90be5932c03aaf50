package api

import (
	"fmt"
	"net/http"
	"time"

	"carepoint.io/care-assistant/internal/apperrors"
	"carepoint.io/care-assistant/internal/core"
	"carepoint.io/care-assistant/internal/speech"
)

type ResolveRequest struct {
	Message string `json:"message" validate:"max=4000"`
	Image   string `json:"image,omitempty"`
}

// ResolveHandler answers a single message without storing it.
func (h *APIHandler) ResolveHandler(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	if req.Message == "" && req.Image == "" {
		respondWithError(w, h.logger, fmt.Errorf("%w: message or image is required", apperrors.ErrValidation))
		return
	}

	var img *core.Image
	if req.Image != "" {
		decoded, err := core.DecodeDataURL(req.Image)
		if err != nil {
			h.logger.Warn().Err(err).Msg("Rejected image on resolve")
			respondWithJSON(w, h.logger, http.StatusOK, core.InvalidImageReply(core.DetectLanguage(req.Message)))
			return
		}
		img = decoded
	}

	respondWithJSON(w, h.logger, http.StatusOK, h.resolver.Resolve(r.Context(), req.Message, img))
}

type LanguageRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
}

type LanguageResponse struct {
	Language string `json:"language"`
	Locale   string `json:"locale"`
}

func (h *APIHandler) DetectLanguageHandler(w http.ResponseWriter, r *http.Request) {
	var req LanguageRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	lang := core.DetectLanguage(req.Text)
	respondWithJSON(w, h.logger, http.StatusOK, LanguageResponse{Language: lang, Locale: speech.LocaleFor(lang)})
}

type QuotaResponse struct {
	core.QuotaState
	AIEnabled bool   `json:"ai_enabled"`
	ResetsIn  string `json:"resets_in,omitempty"`
}

func (h *APIHandler) QuotaHandler(w http.ResponseWriter, r *http.Request) {
	st, err := h.resolver.QuotaStatus(r.Context())
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	resp := QuotaResponse{QuotaState: st, AIEnabled: h.resolver.AIEnabled()}
	if !st.ResetAt.IsZero() {
		if d := time.Until(st.ResetAt); d > 0 {
			resp.ResetsIn = d.Round(time.Minute).String()
		}
	}
	respondWithJSON(w, h.logger, http.StatusOK, resp)
}

type VoiceRequest struct {
	Language string        `json:"language" validate:"required,max=16"`
	Voices   []speech.Voice `json:"voices" validate:"omitempty,dive"`
}

type VoiceResponse struct {
	Locale string        `json:"locale"`
	Voice  *speech.Voice `json:"voice"`
}

// ChooseVoiceHandler picks a voice from the list the browser reported. A
// null voice means the client should let the platform decide.
func (h *APIHandler) ChooseVoiceHandler(w http.ResponseWriter, r *http.Request) {
	var req VoiceRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	resp := VoiceResponse{Locale: speech.LocaleFor(req.Language)}
	if v, ok := speech.ChooseVoiceForLanguage(req.Voices, req.Language); ok {
		resp.Voice = &v
	}
	respondWithJSON(w, h.logger, http.StatusOK, resp)
}
