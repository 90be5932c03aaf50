package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"carepoint.io/care-assistant/internal/apperrors"
	"carepoint.io/care-assistant/internal/store"
)

// Feedback values accepted by SetMessageFeedback.
const (
	FeedbackLike    = "like"
	FeedbackDislike = "dislike"
	FeedbackNone    = "none"
)

const (
	maxTitleRunes   = 60
	historyPageSize = 100
)

var invalidImageText = map[string]string{
	"en": "I couldn't read that image. Please upload a clear JPEG or PNG photo under 4 MB, or describe what you see in words.",
	"hi": "मैं वह तस्वीर पढ़ नहीं पाया। कृपया 4 MB से छोटी साफ़ JPEG या PNG फ़ोटो भेजें, या शब्दों में बताइए।",
	"te": "ఆ చిత్రాన్ని చదవలేకపోయాను. దయచేసి 4 MB కంటే చిన్న స్పష్టమైన JPEG లేదా PNG ఫోటోను పంపండి, లేదా మాటల్లో వివరించండి.",
}

// ChatService persists conversations and asks the resolver for each reply.
type ChatService struct {
	dbStore  *store.SQLiteStore
	resolver *Resolver
	logger   zerolog.Logger
}

func NewChatService(db *store.SQLiteStore, resolver *Resolver, logger zerolog.Logger) *ChatService {
	return &ChatService{
		dbStore:  db,
		resolver: resolver,
		logger:   logger.With().Str("component", "chat").Logger(),
	}
}

// Exchange is one user turn and the reply it produced.
type Exchange struct {
	UserMessage *store.Message `json:"user_message"`
	BotMessage  *store.Message `json:"bot_message"`
}

// CreateChat opens a chat and, when firstMessage is set, answers it straight away.
func (s *ChatService) CreateChat(ctx context.Context, userID int64, firstMessage string) (*store.Chat, []store.Message, error) {
	chat, err := s.dbStore.CreateChat(ctx, userID, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create chat in DB: %w", err)
	}

	messages := []store.Message{}
	if strings.TrimSpace(firstMessage) == "" {
		return chat, messages, nil
	}

	ex, err := s.PostMessage(ctx, chat.ID, userID, firstMessage, "")
	if err != nil {
		return nil, nil, err
	}
	title := chatTitle(firstMessage)
	chat.Title = &title
	return chat, append(messages, *ex.UserMessage, *ex.BotMessage), nil
}

func (s *ChatService) GetChats(ctx context.Context, userID int64) ([]store.Chat, error) {
	return s.dbStore.GetChatsByUserID(ctx, userID)
}

func (s *ChatService) GetChatDetails(ctx context.Context, chatID string, userID int64) (*store.Chat, []store.Message, error) {
	chat, err := s.dbStore.GetChatByID(ctx, chatID, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get chat: %w", err)
	}
	messages, err := s.dbStore.GetMessagesByChatID(ctx, chatID, historyPageSize, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get messages for chat: %w", err)
	}
	return chat, messages, nil
}

// PostMessage stores the user's turn, resolves a reply and stores that too.
// A malformed image does not fail the request; it becomes a fallback reply.
func (s *ChatService) PostMessage(ctx context.Context, chatID string, userID int64, content, imageDataURL string) (*Exchange, error) {
	if strings.TrimSpace(content) == "" && imageDataURL == "" {
		return nil, fmt.Errorf("%w: message content or image is required", apperrors.ErrValidation)
	}

	chat, err := s.dbStore.GetChatByID(ctx, chatID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify chat: %w", err)
	}

	lang := DetectLanguage(content)

	var (
		img    *Image
		imgErr error
	)
	if imageDataURL != "" {
		img, imgErr = DecodeDataURL(imageDataURL)
	}

	userMsg := store.Message{
		ChatID:   chatID,
		Role:     store.SenderUser,
		Content:  content,
		Language: lang,
	}
	if img != nil {
		userMsg.ImageRef = img.Ref()
	}
	if err := s.dbStore.CreateMessage(ctx, &userMsg); err != nil {
		return nil, fmt.Errorf("failed to store user message: %w", err)
	}

	var reply ChatReply
	if imgErr != nil {
		s.logger.Warn().Err(imgErr).Str("chat_id", chatID).Msg("Rejected chat image")
		reply = InvalidImageReply(lang)
	} else {
		reply = s.resolver.Resolve(ctx, content, img)
	}

	confidence := reply.Confidence
	botMsg := store.Message{
		ChatID:      chatID,
		Role:        store.SenderBot,
		Content:     reply.Text,
		Language:    reply.Language,
		Confidence:  &confidence,
		Source:      reply.Source,
		Suggestions: reply.Suggestions,
	}
	if err := s.dbStore.CreateMessage(ctx, &botMsg); err != nil {
		return nil, fmt.Errorf("failed to store bot message: %w", err)
	}

	if chat.Title == nil || *chat.Title == "" {
		basis := content
		if strings.TrimSpace(basis) == "" {
			basis = "Image consultation"
		}
		if err := s.dbStore.UpdateChatTitle(ctx, chatID, userID, chatTitle(basis)); err != nil {
			s.logger.Warn().Err(err).Str("chat_id", chatID).Msg("Failed to save chat title")
		}
	}

	s.logger.Debug().Str("chat_id", chatID).Str("source", reply.Source).Str("language", reply.Language).Msg("Reply stored")
	return &Exchange{UserMessage: &userMsg, BotMessage: &botMsg}, nil
}

// SetMessageFeedback applies like, dislike or none. Setting one flag clears
// the other.
func (s *ChatService) SetMessageFeedback(ctx context.Context, messageID string, userID int64, feedback string) (*store.Message, error) {
	var liked, disliked bool
	switch feedback {
	case FeedbackLike:
		liked = true
	case FeedbackDislike:
		disliked = true
	case FeedbackNone:
	default:
		return nil, fmt.Errorf("%w: feedback must be one of like, dislike, none", apperrors.ErrValidation)
	}

	msg, err := s.dbStore.UpdateMessageFeedback(ctx, messageID, userID, liked, disliked)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update feedback: %w", err)
	}
	return msg, nil
}

// InvalidImageReply answers a message whose image could not be decoded.
func InvalidImageReply(lang string) ChatReply {
	text, ok := invalidImageText[lang]
	if !ok {
		text = invalidImageText[DefaultLanguage]
	}
	return ChatReply{
		Text:        text,
		Confidence:  0.7,
		Source:      SourceFallback,
		Suggestions: textsFor(lang).suggestions,
		Language:    lang,
	}
}

// chatTitle is the first line of the message, cut to a readable length.
func chatTitle(content string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(content), "\n")
	line = strings.Trim(line, "\"'\r\t .")
	if utf8.RuneCountInString(line) <= maxTitleRunes {
		return line
	}
	runes := []rune(line)
	return strings.TrimSpace(string(runes[:maxTitleRunes])) + "…"
}
