package instrument

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

const (
	previewRunes   = 50
	userAgentRunes = 100
)

// Details is the payload summary logged before a request is handled.
// Empty Width or Height are logged as "unknown".
type Details struct {
	RequestID string
	Prompt    string
	Width     string
	Height    string
}

// Describer is implemented by payloads whose details are worth logging.
type Describer interface {
	Describe() Details
}

// LogDetails logs a summary of every Describer payload and then calls op.
// It keeps no state and never changes the outcome of op.
func LogDetails[Req, Resp any](endpoint string, op Operation[Req, Resp], opts ...Option) Operation[Req, Resp] {
	o := newOptions(opts)

	return func(ctx context.Context, req Req) (Resp, error) {
		if fields, ok := detailFields(ctx, endpoint, o, req); ok {
			o.logger(ctx).WithFields(fields).Info("REQUEST DETAILS")
		}
		return op(ctx, req)
	}
}

func detailFields(ctx context.Context, endpoint string, o options, payload any) (fields logrus.Fields, ok bool) {
	defer func() {
		if recover() != nil {
			fields, ok = nil, false
		}
	}()

	d, isDescriber := payload.(Describer)
	if !isDescriber {
		return nil, false
	}
	details := d.Describe()
	meta := MetaFromContext(ctx)

	requestID := details.RequestID
	if requestID == "" {
		requestID = UnknownRequestID
	}

	return logrus.Fields{
		"timestamp":      o.now().Format(time.RFC3339Nano),
		"endpoint":       endpoint,
		"method":         o.methodFor(ctx),
		"request_id":     requestID,
		"prompt_length":  utf8.RuneCountInString(details.Prompt),
		"prompt_preview": preview(details.Prompt, previewRunes),
		"dimensions":     orUnknown(details.Width) + "x" + orUnknown(details.Height),
		"user_agent":     truncate(orUnknown(meta.UserAgent), userAgentRunes),
		"ip_address":     meta.ClientIP,
	}, true
}

func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return truncate(s, n) + "..."
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
