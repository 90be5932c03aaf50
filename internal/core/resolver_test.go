package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type resolverFixture struct {
	gen      *mockGenerator
	kv       *memKV
	clock    *testClock
	quota    *QuotaTracker
	resolver *Resolver
}

func newResolverFixture(t *testing.T, limit int) *resolverFixture {
	t.Helper()
	f := &resolverFixture{gen: &mockGenerator{}, kv: newMemKV(), clock: newTestClock()}
	f.quota = newTestQuota(f.kv, f.clock, limit)
	f.resolver = NewResolver(f.gen, NewKnowledgeBase(DefaultKnowledge), f.quota, zerolog.Nop())
	t.Cleanup(func() { f.gen.AssertExpectations(t) })
	return f
}

func TestResolve_AISuccessRecordsQuota(t *testing.T) {
	ctx := context.Background()
	f := newResolverFixture(t, 50)
	f.gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "never provide a diagnosis") && strings.Contains(p, "Language code: en")
	}), (*Image)(nil)).Return("Drink water and rest.", nil).Once()

	reply := f.resolver.Resolve(ctx, "How much water should I drink daily?", nil)

	assert.Equal(t, SourceAI, reply.Source)
	assert.Equal(t, 0.9, reply.Confidence)
	assert.Equal(t, "Drink water and rest.", reply.Text)
	assert.NotEmpty(t, reply.Suggestions)

	st, err := f.quota.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Count)
}

func TestResolve_QuotaErrorFallsBackToKnowledgeBase(t *testing.T) {
	ctx := context.Background()
	f := newResolverFixture(t, 50)
	f.gen.On("Model").Return("gemini-1.5-flash-latest").Maybe()
	f.gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("googleapi: Error 429: Quota exceeded for quota metric")).Once()

	reply := f.resolver.Resolve(ctx, "I have a severe headache", nil)

	assert.Equal(t, SourceKnowledgeBase, reply.Source)
	assert.Equal(t, 0.8, reply.Confidence)
	assert.Contains(t, reply.Text, "neurologist")

	st, err := f.quota.State(ctx)
	require.NoError(t, err)
	assert.True(t, st.Exceeded)
	assert.Equal(t, f.clock.Now().Add(24*time.Hour), st.ResetAt)

	// The next message must not reach the generator at all.
	reply = f.resolver.Resolve(ctx, "I have a headache again", nil)
	assert.Equal(t, SourceKnowledgeBase, reply.Source)
}

func TestResolve_QuotaExceededSkipsGenerator(t *testing.T) {
	ctx := context.Background()
	f := newResolverFixture(t, 1)
	require.NoError(t, f.quota.Record(ctx))

	reply := f.resolver.Resolve(ctx, "tell me about fever", nil)
	assert.Equal(t, SourceKnowledgeBase, reply.Source)
	f.gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolve_StopsCallingAIAfterDailyLimit(t *testing.T) {
	ctx := context.Background()
	f := newResolverFixture(t, 2)
	f.gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("Stay hydrated.", nil).Twice()

	for i := 0; i < 2; i++ {
		reply := f.resolver.Resolve(ctx, "Is walking good for me?", nil)
		require.Equal(t, SourceAI, reply.Source, "call %d", i+1)
	}

	st, err := f.quota.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Count)
	assert.True(t, st.Exceeded)

	reply := f.resolver.Resolve(ctx, "Is walking good for me?", nil)
	assert.Equal(t, SourceFallback, reply.Source)
	assert.Contains(t, reply.Text, "resets in 24 hours")
	f.gen.AssertNumberOfCalls(t, "Generate", 2)
}

func TestResolve_ResumesAIAfterReset(t *testing.T) {
	ctx := context.Background()
	f := newResolverFixture(t, 50)
	require.NoError(t, f.quota.MarkExceeded(ctx))
	f.clock.Advance(24*time.Hour + time.Second)

	f.gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("Here is some advice.", nil).Once()
	reply := f.resolver.Resolve(ctx, "what should I eat after a cold?", nil)
	assert.Equal(t, SourceAI, reply.Source)
}

func TestResolve_ModelUnavailableRetriesOnce(t *testing.T) {
	ctx := context.Background()
	f := newResolverFixture(t, 50)
	f.gen.On("Model").Return("gemini-1.5-flash-latest")
	f.gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("googleapi: Error 404: models/gemini-1.5-flash-latest is not found")).Once()
	f.gen.On("Reinitialize", "gemini-1.5-flash").Return(nil).Once()
	f.gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("Retry worked.", nil).Once()

	reply := f.resolver.Resolve(ctx, "Is walking good for health?", nil)
	assert.Equal(t, SourceAI, reply.Source)
	assert.Equal(t, "Retry worked.", reply.Text)
}

func TestResolve_ModelUnavailableTwiceDegrades(t *testing.T) {
	ctx := context.Background()
	f := newResolverFixture(t, 50)
	notFound := errors.New("rpc error: code = NotFound desc = Publisher Model was not found")
	f.gen.On("Model").Return("gemini-1.5-flash-latest")
	f.gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", notFound).Twice()
	f.gen.On("Reinitialize", "gemini-1.5-flash").Return(nil).Once()

	reply := f.resolver.Resolve(ctx, "Where is the billing counter?", nil)
	assert.Equal(t, SourceKnowledgeBase, reply.Source, "insurance/billing pattern")
	assert.Equal(t, 0.8, reply.Confidence)
	f.gen.AssertNumberOfCalls(t, "Generate", 2)
}

func TestResolve_OtherErrorDegradesWithoutQuotaChange(t *testing.T) {
	ctx := context.Background()
	f := newResolverFixture(t, 50)
	f.gen.On("Model").Return("gemini-1.5-flash-latest").Maybe()
	f.gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("connection reset by peer")).Once()

	reply := f.resolver.Resolve(ctx, "hello", nil)
	assert.Equal(t, SourceFallback, reply.Source)
	assert.Equal(t, 0.95, reply.Confidence)

	st, err := f.quota.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Count)
	assert.False(t, st.Exceeded)
}

func TestResolve_EmergencyPreemptsAI(t *testing.T) {
	f := newResolverFixture(t, 50)

	reply := f.resolver.Resolve(context.Background(), "My father has chest pain and is sweating", nil)
	assert.Equal(t, 0.95, reply.Confidence)
	assert.Equal(t, SourceKnowledgeBase, reply.Source)
	assert.Equal(t, emergencySuggestions, reply.Suggestions)
	assert.Contains(t, reply.Text, "108")
	f.gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func TestEmergencyHandledOnlyByResolve(t *testing.T) {
	norm := normalize("Call an ambulance, it is an emergency")
	tokens := tokenize(norm)

	_, ok := matchPattern(norm, tokens)
	assert.False(t, ok, "pattern rules carry no emergency entry")

	reply := fallbackReply(norm, tokens, "en", 0)
	assert.Equal(t, fallbackTexts["en"].defaultText, reply.Text)
	assert.Equal(t, 0.7, reply.Confidence)
}

func TestResolve_EmergencyLocalized(t *testing.T) {
	f := newResolverFixture(t, 50)

	reply := f.resolver.Resolve(context.Background(), "मुझे सीने में दर्द है", nil)
	assert.Equal(t, "hi", reply.Language)
	assert.Contains(t, reply.Text, "108")
	assert.Contains(t, reply.Text, "इमरजेंसी")
}

func TestResolve_ImageUsesStructuredPrompt(t *testing.T) {
	f := newResolverFixture(t, 50)
	img := &Image{MIMEType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}
	f.gen.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		for _, section := range []string{"Findings", "Possible causes", "Red flags", "Care tips", "When to seek care"} {
			if !strings.Contains(p, section) {
				return false
			}
		}
		return true
	}), img).Return("**Findings:** a small red patch", nil).Once()

	reply := f.resolver.Resolve(context.Background(), "what is this rash?", img)
	assert.Equal(t, SourceAI, reply.Source)
}

func TestResolve_WithoutGenerator(t *testing.T) {
	ctx := context.Background()
	quota := newTestQuota(newMemKV(), newTestClock(), 50)
	r := NewResolver(nil, nil, quota, zerolog.Nop())
	assert.False(t, r.AIEnabled())

	tests := []struct {
		name       string
		message    string
		source     string
		confidence float64
		contains   string
	}{
		{"knowledge base camelCase key", "how do I prepare for a blood test", SourceKnowledgeBase, 0.8, "Fast for 8 to 12 hours"},
		{"knowledge base hyphenated", "Do I need to remove jewellery for an X-Ray?", SourceKnowledgeBase, 0.8, "Remove jewellery"},
		{"appointment pattern", "I want to book an appointment", SourceKnowledgeBase, 0.9, "Booking an appointment"},
		{"symptom pattern", "my knee hurts when I walk", SourceKnowledgeBase, 0.85, "not feeling well"},
		{"report pattern", "where can I find my lab results", SourceKnowledgeBase, 0.85, "Medical records"},
		{"insurance pattern", "do you accept my insurance", SourceKnowledgeBase, 0.8, "Cashless"},
		{"greeting fallback", "Hello there", SourceFallback, 0.95, "virtual assistant"},
		{"thanks fallback", "thanks a lot", SourceFallback, 0.95, "welcome"},
		{"default fallback", "what is the wifi password", SourceFallback, 0.7, "rephrase"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := r.Resolve(ctx, tt.message, nil)
			assert.Equal(t, tt.source, reply.Source)
			assert.Equal(t, tt.confidence, reply.Confidence)
			assert.Contains(t, reply.Text, tt.contains)
			assert.Equal(t, "en", reply.Language)
		})
	}
}

func TestResolve_LocalizedFallback(t *testing.T) {
	quota := newTestQuota(newMemKV(), newTestClock(), 50)
	r := NewResolver(nil, nil, quota, zerolog.Nop())

	hi := r.Resolve(context.Background(), "नमस्ते", nil)
	assert.Equal(t, "hi", hi.Language)
	assert.Equal(t, SourceFallback, hi.Source)
	assert.Contains(t, hi.Text, "वर्चुअल सहायक")

	te := r.Resolve(context.Background(), "ధన్యవాదాలు", nil)
	assert.Equal(t, "te", te.Language)
	assert.Contains(t, te.Text, "స్వాగతం")

	ta := r.Resolve(context.Background(), "வணக்கம்", nil)
	assert.Equal(t, "ta", ta.Language)
	assert.Contains(t, ta.Text, "rephrase", "unsupported locales use English templates")
}

func TestResolve_DefaultFallbackReportsQuota(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()
	quota := newTestQuota(newMemKV(), clock, 50)
	require.NoError(t, quota.MarkExceeded(ctx))
	clock.Advance(90 * time.Minute)

	r := NewResolver(&mockGenerator{}, nil, quota, zerolog.Nop())
	reply := r.Resolve(ctx, "what is the wifi password", nil)
	assert.Equal(t, SourceFallback, reply.Source)
	assert.Contains(t, reply.Text, "AI responses temporarily limited, resets in 23 hours")
}
