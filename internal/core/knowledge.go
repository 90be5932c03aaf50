package core

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"carepoint.io/care-assistant/internal/store"
)

const knowledgeConfidence = 0.8

// KnowledgeSource is where persisted entries come from.
type KnowledgeSource interface {
	ListKnowledgeEntries(ctx context.Context) ([]store.KnowledgeEntry, error)
}

// KnowledgeBase is an immutable, ordered set of entries matched by substring.
type KnowledgeBase struct {
	entries []knowledgeIndex
}

type knowledgeIndex struct {
	entry    store.KnowledgeEntry
	patterns []string
}

func NewKnowledgeBase(entries []store.KnowledgeEntry) *KnowledgeBase {
	kb := &KnowledgeBase{entries: make([]knowledgeIndex, 0, len(entries))}
	for _, e := range entries {
		kb.entries = append(kb.entries, knowledgeIndex{entry: e, patterns: keyPatterns(e.Key)})
	}
	return kb
}

// LoadKnowledgeBase uses the imported entries when there are any and the
// built-in set otherwise.
func LoadKnowledgeBase(ctx context.Context, src KnowledgeSource, logger zerolog.Logger) (*KnowledgeBase, error) {
	entries, err := src.ListKnowledgeEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge entries: %w", err)
	}
	if len(entries) == 0 {
		logger.Info().Int("entries", len(DefaultKnowledge)).Msg("Using built-in knowledge base")
		return NewKnowledgeBase(DefaultKnowledge), nil
	}
	logger.Info().Int("entries", len(entries)).Msg("Loaded knowledge base from store")
	return NewKnowledgeBase(entries), nil
}

func (kb *KnowledgeBase) Len() int { return len(kb.entries) }

// Entries returns a copy of the entries in match order.
func (kb *KnowledgeBase) Entries() []store.KnowledgeEntry {
	out := make([]store.KnowledgeEntry, len(kb.entries))
	for i, ix := range kb.entries {
		out[i] = ix.entry
	}
	return out
}

// Lookup returns the first entry whose key phrase appears in the normalized
// message.
func (kb *KnowledgeBase) Lookup(normalized string) (store.KnowledgeEntry, bool) {
	for _, ix := range kb.entries {
		for _, p := range ix.patterns {
			if strings.Contains(normalized, p) {
				return ix.entry, true
			}
		}
	}
	return store.KnowledgeEntry{}, false
}

// Reply renders the entry. SeekCare is included verbatim.
func (kb *KnowledgeBase) Reply(e store.KnowledgeEntry, lang string) ChatReply {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n\n%s\n", e.Title, e.Description)

	if len(e.Items) > 0 {
		fmt.Fprintf(&b, "\n**%s:**\n", itemsHeading(e.Kind))
		for _, item := range e.Items {
			fmt.Fprintf(&b, "• %s\n", item)
		}
	}
	if len(e.Remedies) > 0 {
		b.WriteString("\n**Home care tips:**\n")
		for _, r := range e.Remedies {
			fmt.Fprintf(&b, "• %s\n", r)
		}
	}
	fmt.Fprintf(&b, "\n**When to seek care:** %s\n", e.SeekCare)
	b.WriteString("\n_This is general information, not a diagnosis. Please consult a doctor for advice about your situation._")

	return ChatReply{
		Text:        b.String(),
		Confidence:  knowledgeConfidence,
		Source:      SourceKnowledgeBase,
		Suggestions: kindSuggestions(e.Kind),
		Language:    lang,
	}
}

func itemsHeading(kind string) string {
	switch kind {
	case store.KindProcedure:
		return "How to prepare"
	case store.KindSpecialty:
		return "Conditions treated"
	default:
		return "Common causes"
	}
}

func kindSuggestions(kind string) []string {
	switch kind {
	case store.KindProcedure:
		return []string{"How do I book this test?", "When will my report be ready?", "Talk to a doctor"}
	case store.KindSpecialty:
		return []string{"Find a doctor in this department", "Book an appointment", "What are the consultation hours?"}
	default:
		return []string{"Book an appointment", "Find a specialist", "What are the warning signs?"}
	}
}

// keyPatterns yields the lowercased key and, for camelCase keys, the spaced
// variant ("bloodTest" -> "bloodtest", "blood test").
func keyPatterns(key string) []string {
	lower := strings.ToLower(key)
	spaced := strings.ToLower(splitCamel(key))
	if spaced == lower {
		return []string{lower}
	}
	return []string{lower, spaced}
}

func splitCamel(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// normalize lowercases the message, treats hyphens as spaces and collapses
// whitespace so "X-Ray" and "x  ray" match the same key.
func normalize(message string) string {
	lower := strings.ToLower(message)
	lower = strings.ReplaceAll(lower, "-", " ")
	return strings.Join(strings.Fields(lower), " ")
}
