package instrument

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
)

// RequestIdentifier is implemented by payloads that carry a request id.
type RequestIdentifier interface {
	GetRequestID() string
}

// RequestID extracts the request id from payload. Raw JSON payloads are read
// for a string "request_id" field. Anything unreadable, including a payload
// whose accessor panics, yields UnknownRequestID.
func RequestID(payload any) (id string) {
	defer func() {
		if recover() != nil {
			id = UnknownRequestID
		}
	}()

	switch p := payload.(type) {
	case RequestIdentifier:
		id = p.GetRequestID()
	case json.RawMessage:
		id = requestIDFromJSON(p)
	case []byte:
		id = requestIDFromJSON(p)
	}

	if id == "" {
		return UnknownRequestID
	}
	return id
}

func requestIDFromJSON(data []byte) string {
	var body struct {
		RequestID string `json:"request_id"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return body.RequestID
}

type kinded interface {
	ErrorKind() string
}

// ErrorKind classifies err. An error in the chain that reports its own kind
// wins; otherwise the dynamic type name of err is used, so a *ValueError is
// "ValueError".
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}

	var k kinded
	if errors.As(err, &k) {
		if kind := k.ErrorKind(); kind != "" {
			return kind
		}
	}

	switch {
	case errors.Is(err, context.Canceled):
		return "Canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "DeadlineExceeded"
	}

	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}
