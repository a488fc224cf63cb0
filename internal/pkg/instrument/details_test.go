package instrument

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type imagePayload struct {
	details Details
}

func (p imagePayload) Describe() Details { return p.details }

func TestLogDetails(t *testing.T) {
	l, hook := testLogger()
	clock := steppingClock(time.Second)

	called := false
	op := LogDetails("generate", func(ctx context.Context, req imagePayload) (string, error) {
		called = true
		return "ok", nil
	}, WithLogger(l), WithMethod("POST"), withClock(clock))

	ctx := WithMeta(context.Background(), RequestMeta{
		UserAgent: strings.Repeat("a", 150),
		ClientIP:  "10.0.0.7",
	})
	prompt := strings.Repeat("é", 60)

	got, err := op(ctx, imagePayload{details: Details{RequestID: "rid", Prompt: prompt, Width: "640"}})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.True(t, called)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "REQUEST DETAILS", entry.Message)
	assert.Equal(t, "generate", entry.Data["endpoint"])
	assert.Equal(t, "POST", entry.Data["method"])
	assert.Equal(t, "rid", entry.Data["request_id"])
	assert.Equal(t, 60, entry.Data["prompt_length"])
	assert.Equal(t, strings.Repeat("é", 50)+"...", entry.Data["prompt_preview"])
	assert.Equal(t, "640xunknown", entry.Data["dimensions"])
	assert.Equal(t, strings.Repeat("a", 100), entry.Data["user_agent"])
	assert.Equal(t, "10.0.0.7", entry.Data["ip_address"])
	assert.Equal(t, "2026-01-01T00:00:00Z", entry.Data["timestamp"])
}

func TestLogDetails_ShortPromptAndMissingMeta(t *testing.T) {
	l, hook := testLogger()

	op := LogDetails("generate", func(ctx context.Context, req imagePayload) (int, error) {
		return 0, nil
	}, WithLogger(l))

	_, err := op(context.Background(), imagePayload{details: Details{Prompt: "a red fox", Width: "512", Height: "512"}})
	require.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "a red fox", entry.Data["prompt_preview"])
	assert.Equal(t, "512x512", entry.Data["dimensions"])
	assert.Equal(t, UnknownRequestID, entry.Data["request_id"])
	assert.Equal(t, "unknown", entry.Data["user_agent"])
	assert.Equal(t, UnknownMethod, entry.Data["method"])
}

func TestLogDetails_SkipsOpaquePayload(t *testing.T) {
	l, hook := testLogger()

	op := LogDetails("convert_html_to_pdf", func(ctx context.Context, req payload) (int, error) {
		return 7, nil
	}, WithLogger(l))

	got, err := op(context.Background(), payload{ID: "x"})
	require.NoError(t, err)
	assert.Equal(t, 7, got)
	assert.Empty(t, hook.AllEntries())
}

func TestLogDetails_ComposesWithWrap(t *testing.T) {
	l, hook := testLogger()
	spy := &spyRecorder{}

	inner := func(ctx context.Context, req imagePayload) (string, error) { return "done", nil }
	op := Wrap("generate", spy, LogDetails("generate", inner, WithLogger(l)), WithLogger(l))

	got, err := op(context.Background(), imagePayload{})
	require.NoError(t, err)
	assert.Equal(t, "done", got)
	assert.Equal(t, []string{"request", "response"}, spy.ops())

	entries := hook.AllEntries()
	require.Len(t, entries, 3)
	assert.Equal(t, "REQUEST DETAILS", entries[1].Message)
}
