package instrument

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/finbox-in/imagegen/internal/pkg/apperr"
)

type panickyPayload struct{}

func (panickyPayload) GetRequestID() string { panic("unreadable") }

type pointerPayload struct{ id string }

func (p *pointerPayload) GetRequestID() string { return p.id }

func TestRequestID(t *testing.T) {
	var nilPayload *pointerPayload

	tests := []struct {
		name    string
		payload any
		want    string
	}{
		{name: "identifier", payload: payload{ID: "3f2c"}, want: "3f2c"},
		{name: "empty id", payload: payload{}, want: UnknownRequestID},
		{name: "raw json", payload: json.RawMessage(`{"request_id":"from-json","prompt":"x"}`), want: "from-json"},
		{name: "bytes", payload: []byte(`{"request_id":"from-bytes"}`), want: "from-bytes"},
		{name: "malformed json", payload: []byte(`{"request_id":`), want: UnknownRequestID},
		{name: "non string id", payload: []byte(`{"request_id":42}`), want: UnknownRequestID},
		{name: "accessor panics", payload: panickyPayload{}, want: UnknownRequestID},
		{name: "nil pointer", payload: nilPayload, want: UnknownRequestID},
		{name: "nil", payload: nil, want: UnknownRequestID},
		{name: "opaque", payload: 12, want: UnknownRequestID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RequestID(tt.payload))
		})
	}
}

type kindlessError struct{}

func (kindlessError) Error() string { return "kindless" }
func (kindlessError) ErrorKind() string { return "" }

func TestErrorKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "pointer type", err: &ValueError{msg: "bad"}, want: "ValueError"},
		{name: "value type", err: kindlessError{}, want: "kindlessError"},
		{name: "classified", err: apperr.New(apperr.KindPDF, "exit status 1"), want: apperr.KindPDF},
		{name: "classified wrapped", err: fmt.Errorf("upload: %w", apperr.Wrap(apperr.KindBlob, errors.New("denied"))), want: apperr.KindBlob},
		{name: "stdlib", err: errors.New("plain"), want: "errorString"},
		{name: "canceled", err: fmt.Errorf("render: %w", context.Canceled), want: "Canceled"},
		{name: "deadline", err: context.DeadlineExceeded, want: "DeadlineExceeded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorKind(tt.err))
		})
	}
}
