package core

import "strings"

// ErrorKind classifies a generator failure so the resolver can pick a
// recovery path.
type ErrorKind int

const (
	ErrKindOther ErrorKind = iota
	ErrKindQuota
	ErrKindModelUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case ErrKindQuota:
		return "quota"
	case ErrKindModelUnavailable:
		return "model_unavailable"
	default:
		return "other"
	}
}

var (
	quotaMarkers = []string{"quota", "429", "rate limit", "limit exceeded", "resource_exhausted", "resource has been exhausted"}
	modelMarkers = []string{"404", "not found", "publisher model", "is not supported for generatecontent"}
)

// ClassifyError inspects the error text. The Gemini SDK surfaces HTTP and gRPC
// failures with the status embedded in the message, so markers are enough.
func ClassifyError(err error) ErrorKind {
	if err == nil {
		return ErrKindOther
	}
	msg := strings.ToLower(err.Error())
	for _, m := range quotaMarkers {
		if strings.Contains(msg, m) {
			return ErrKindQuota
		}
	}
	for _, m := range modelMarkers {
		if strings.Contains(msg, m) {
			return ErrKindModelUnavailable
		}
	}
	return ErrKindOther
}
