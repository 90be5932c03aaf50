package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"carepoint.io/care-assistant/internal/apperrors"
	"carepoint.io/care-assistant/internal/auth"
	"carepoint.io/care-assistant/internal/core"
	"carepoint.io/care-assistant/internal/datasync"
	"carepoint.io/care-assistant/internal/store"
)

// UserStore is the account storage the handlers need.
type UserStore interface {
	GetUserByExternalID(ctx context.Context, externalUserID string) (*store.User, error)
	CreateUser(ctx context.Context, externalUserID, passwordHash, role string) (*store.User, error)
}

type APIHandler struct {
	users    UserStore
	tokens   *auth.Tokens
	chat     *core.ChatService
	clinic   *core.ClinicService
	resolver *core.Resolver
	notifier *datasync.Notifier
	logger   zerolog.Logger

	// done is closed when the server shuts down so open streams return.
	done      chan struct{}
	closeOnce sync.Once
}

func NewAPIHandler(
	users UserStore,
	tokens *auth.Tokens,
	chat *core.ChatService,
	clinic *core.ClinicService,
	resolver *core.Resolver,
	notifier *datasync.Notifier,
	logger zerolog.Logger,
) *APIHandler {
	return &APIHandler{
		users:    users,
		tokens:   tokens,
		chat:     chat,
		clinic:   clinic,
		resolver: resolver,
		notifier: notifier,
		logger:   logger.With().Str("component", "api").Logger(),
		done:     make(chan struct{}),
	}
}

// CloseStreams ends every open sync stream. http.Server.Shutdown does not
// interrupt active handlers, so register this with RegisterOnShutdown.
func (h *APIHandler) CloseStreams() {
	h.closeOnce.Do(func() { close(h.done) })
}

type SignupRequest struct {
	UserID   string `json:"user_id" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// SignupHandler registers a patient account. Staff accounts are created from
// the command line.
func (h *APIHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	if _, err := h.users.GetUserByExternalID(r.Context(), req.UserID); err == nil {
		respondWithError(w, h.logger, fmt.Errorf("%w: user %s already exists", apperrors.ErrConflict, req.UserID))
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		respondWithError(w, h.logger, err)
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		respondWithError(w, h.logger, fmt.Errorf("hash password: %w", err))
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.UserID, hashedPassword, store.RolePatient)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	h.logger.Info().Str("user_id", user.ExternalUserID).Msg("User signed up")
	respondWithJSON(w, h.logger, http.StatusCreated, user)
}

type LoginRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	user, err := h.users.GetUserByExternalID(r.Context(), req.UserID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		respondWithError(w, h.logger, err)
		return
	}
	if user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		respondWithError(w, h.logger, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized))
		return
	}

	token, err := h.tokens.GenerateJWT(user.ExternalUserID, user.Role)
	if err != nil {
		respondWithError(w, h.logger, fmt.Errorf("generate token: %w", err))
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, LoginResponse{Token: token, Role: user.Role})
}

type CreateChatRequest struct {
	FirstMessage string `json:"first_message,omitempty" validate:"max=4000"`
}

type ChatResponse struct {
	*store.Chat
	Messages []store.Message `json:"messages"`
}

func (h *APIHandler) CreateChatHandler(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())

	var req CreateChatRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	chat, messages, err := h.chat.CreateChat(r.Context(), userID, req.FirstMessage)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusCreated, ChatResponse{Chat: chat, Messages: messages})
}

func (h *APIHandler) ListChatsHandler(w http.ResponseWriter, r *http.Request) {
	chats, err := h.chat.GetChats(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, chats)
}

func (h *APIHandler) GetChatDetailsHandler(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	chat, messages, err := h.chat.GetChatDetails(r.Context(), chatID, userIDFrom(r.Context()))
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, ChatResponse{Chat: chat, Messages: messages})
}

type PostMessageRequest struct {
	Content string `json:"content" validate:"max=4000"`
	Image   string `json:"image,omitempty"`
}

func (h *APIHandler) PostMessageHandler(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	var req PostMessageRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	ex, err := h.chat.PostMessage(r.Context(), chatID, userIDFrom(r.Context()), req.Content, req.Image)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, ex)
}

type FeedbackRequest struct {
	Feedback string `json:"feedback" validate:"required,oneof=like dislike none"`
}

func (h *APIHandler) MessageFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	messageID := chi.URLParam(r, "messageID")

	var req FeedbackRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	msg, err := h.chat.SetMessageFeedback(r.Context(), messageID, userIDFrom(r.Context()), req.Feedback)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, msg)
}
