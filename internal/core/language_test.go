package core

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectLanguage(t *testing.T) {
	tests := map[string]string{
		"I have a fever":          "en",
		"":                        "en",
		"मुझे बुखार है":           "hi",
		"నాకు జ్వరం ఉంది":         "te",
		"ನನಗೆ ಜ್ವರ ಇದೆ":           "kn",
		"எனக்கு காய்ச்சல்":        "ta",
		"എനിക്ക് പനി ഉണ്ട്":        "ml",
		"મને તાવ છે":              "gu",
		"আমার জ্বর হয়েছে":         "bn",
		"ਮੈਨੂੰ ਬੁਖਾਰ ਹੈ":            "pa",
		"fever since monday ज":    "hi",
		"telugu first: జ then ज": "hi",
	}
	for text, want := range tests {
		assert.Equal(t, want, DetectLanguage(text), text)
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{errors.New("googleapi: Error 429: Resource has been exhausted (e.g. check quota)."), ErrKindQuota},
		{errors.New("rpc error: code = ResourceExhausted desc = RESOURCE_EXHAUSTED"), ErrKindQuota},
		{errors.New("rate limit reached"), ErrKindQuota},
		{errors.New("googleapi: Error 404: models/gemini-pro is not found for API version v1beta"), ErrKindModelUnavailable},
		{errors.New("Publisher Model `projects/x/models/y` was not found"), ErrKindModelUnavailable},
		{errors.New("context deadline exceeded"), ErrKindOther},
		{errors.New("connection refused"), ErrKindOther},
		{nil, ErrKindOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyError(tt.err), "%v", tt.err)
	}
}

func TestNextModel(t *testing.T) {
	assert.Equal(t, "gemini-1.5-flash", nextModel("gemini-1.5-flash-latest"))
	assert.Equal(t, "gemini-pro", nextModel("gemini-1.5-pro-latest"))
	assert.Equal(t, "", nextModel("gemini-pro"))
	assert.Equal(t, "gemini-1.5-flash-latest", nextModel("gemini-2.0-custom"))
}

func TestDecodeDataURL(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	payload := base64.StdEncoding.EncodeToString(png)

	img, err := DecodeDataURL("data:image/png;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIMEType)
	assert.Equal(t, png, img.Data)
	assert.Contains(t, img.Ref(), "image/png;sha256:")

	sniffed, err := DecodeDataURL("data:;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, "image/png", sniffed.MIMEType)

	for _, bad := range []string{
		"image/png;base64," + payload,
		"data:image/png;base64",
		"data:image/png," + payload,
		"data:image/png;base64,@@@not-base64@@@",
		"data:image/png;base64,",
		"data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte("hello")),
	} {
		_, err := DecodeDataURL(bad)
		assert.ErrorIs(t, err, ErrInvalidImage, bad)
	}
}
