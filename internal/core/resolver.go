package core

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// Reply sources.
const (
	SourceAI            = "ai"
	SourceKnowledgeBase = "knowledge_base"
	SourceFallback      = "fallback"
)

const aiConfidence = 0.9

// ChatReply is what the assistant says back.
type ChatReply struct {
	Text        string   `json:"text"`
	Confidence  float64  `json:"confidence"`
	Source      string   `json:"source"`
	Suggestions []string `json:"suggestions"`
	Language    string   `json:"language"`
}

var aiSuggestions = []string{"Book an appointment", "Find a specialist", "When should I see a doctor?"}

// Resolver picks a reply strategy for each message: emergency guidance first,
// then the AI endpoint while quota allows, then the knowledge base, canned
// patterns and finally a localized generic reply.
type Resolver struct {
	gen    Generator
	kb     *KnowledgeBase
	quota  *QuotaTracker
	logger zerolog.Logger
}

// NewResolver builds a resolver. gen may be nil, in which case the AI step is
// always skipped.
func NewResolver(gen Generator, kb *KnowledgeBase, quota *QuotaTracker, logger zerolog.Logger) *Resolver {
	if kb == nil {
		kb = NewKnowledgeBase(DefaultKnowledge)
	}
	return &Resolver{
		gen:    gen,
		kb:     kb,
		quota:  quota,
		logger: logger.With().Str("component", "resolver").Logger(),
	}
}

func (r *Resolver) AIEnabled() bool { return r.gen != nil }

func (r *Resolver) KnowledgeBase() *KnowledgeBase { return r.kb }

// QuotaStatus reports the current AI quota usage.
func (r *Resolver) QuotaStatus(ctx context.Context) (QuotaState, error) {
	return r.quota.State(ctx)
}

// Resolve never fails; every error path degrades to a local reply.
func (r *Resolver) Resolve(ctx context.Context, message string, img *Image) ChatReply {
	lang := DetectLanguage(message)
	norm := normalize(message)
	tokens := tokenize(norm)

	if emergencyTerms.match(norm, tokens) {
		r.logger.Info().Str("language", lang).Msg("Emergency keywords detected")
		return ChatReply{
			Text:        textsFor(lang).emergency,
			Confidence:  0.95,
			Source:      SourceKnowledgeBase,
			Suggestions: emergencySuggestions,
			Language:    lang,
		}
	}

	if reply, ok := r.resolveAI(ctx, message, lang, img); ok {
		return reply
	}

	if entry, ok := r.kb.Lookup(norm); ok {
		r.logger.Debug().Str("key", entry.Key).Msg("Knowledge base match")
		return r.kb.Reply(entry, lang)
	}

	if rule, ok := matchPattern(norm, tokens); ok {
		r.logger.Debug().Str("pattern", rule.name).Msg("Pattern match")
		return ChatReply{
			Text:        rule.text,
			Confidence:  rule.confidence,
			Source:      SourceKnowledgeBase,
			Suggestions: rule.suggestions,
			Language:    lang,
		}
	}

	return fallbackReply(norm, tokens, lang, r.quota.TimeUntilReset(ctx))
}

func (r *Resolver) resolveAI(ctx context.Context, message, lang string, img *Image) (ChatReply, bool) {
	if r.gen == nil {
		return ChatReply{}, false
	}
	if strings.TrimSpace(message) == "" && img == nil {
		return ChatReply{}, false
	}
	if r.quota.Exceeded(ctx) {
		r.logger.Debug().Msg("AI quota exceeded; using local responses")
		return ChatReply{}, false
	}

	prompt := buildTextPrompt(message, lang)
	if img != nil {
		prompt = buildImagePrompt(message, lang)
	}

	text, err := r.gen.Generate(ctx, prompt, img)
	if err != nil {
		text, err = r.retryAfter(ctx, err, prompt, img)
		if err != nil {
			return ChatReply{}, false
		}
	}

	if err := r.quota.Record(ctx); err != nil {
		r.logger.Warn().Err(err).Msg("Failed to record AI quota usage")
	}
	return ChatReply{
		Text:        text,
		Confidence:  aiConfidence,
		Source:      SourceAI,
		Suggestions: aiSuggestions,
		Language:    lang,
	}, true
}

// retryAfter handles a failed generation. Quota errors mark the quota spent; an
// unavailable model gets exactly one switch to the next fallback model and
// one retry.
func (r *Resolver) retryAfter(ctx context.Context, err error, prompt string, img *Image) (string, error) {
	kind := ClassifyError(err)
	r.logger.Warn().Err(err).Str("kind", kind.String()).Str("model", r.gen.Model()).Msg("AI request failed")

	switch kind {
	case ErrKindQuota:
		r.markExceeded(ctx)
		return "", err
	case ErrKindModelUnavailable:
		next := nextModel(r.gen.Model())
		if next == "" {
			return "", err
		}
		if rerr := r.gen.Reinitialize(next); rerr != nil {
			r.logger.Warn().Err(rerr).Str("model", next).Msg("Failed to switch AI model")
			return "", err
		}
		text, retryErr := r.gen.Generate(ctx, prompt, img)
		if retryErr != nil {
			r.logger.Warn().Err(retryErr).Str("model", next).Msg("AI retry failed")
			if ClassifyError(retryErr) == ErrKindQuota {
				r.markExceeded(ctx)
			}
			return "", retryErr
		}
		return text, nil
	default:
		return "", err
	}
}

func (r *Resolver) markExceeded(ctx context.Context) {
	if err := r.quota.MarkExceeded(ctx); err != nil {
		r.logger.Error().Err(err).Msg("Failed to persist AI quota state")
	}
}
