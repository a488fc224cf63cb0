// Package instrument wraps operations so that every call is timed, counted
// and classified without changing what the operation returns.
package instrument

import (
	"context"
	"fmt"
	"time"

	"github.com/finbox-in/imagegen/internal/pkg/logger"
)

const (
	UnknownRequestID = "unknown"
	UnknownMethod    = "UNKNOWN"

	// PanicKind is recorded when an operation panics, with the panic value
	// as the message. The same value is panicked again once recorded.
	PanicKind = "panic"
)

// Operation is the shape every instrumented handler operation has.
type Operation[Req, Resp any] func(ctx context.Context, req Req) (Resp, error)

// Recorder receives the measurements of a wrapped call.
type Recorder interface {
	RecordRequest(endpoint, method string)
	RecordResponseTime(duration float64, success bool)
	RecordError(kind, message string)
}

type multiRecorder []Recorder

// Multi fans every call out to recs in order.
func Multi(recs ...Recorder) Recorder {
	return multiRecorder(recs)
}

func (m multiRecorder) RecordRequest(endpoint, method string) {
	for _, r := range m {
		r.RecordRequest(endpoint, method)
	}
}

func (m multiRecorder) RecordResponseTime(duration float64, success bool) {
	for _, r := range m {
		r.RecordResponseTime(duration, success)
	}
}

func (m multiRecorder) RecordError(kind, message string) {
	for _, r := range m {
		r.RecordError(kind, message)
	}
}

type options struct {
	method string
	log    *logger.Logger
	now    func() time.Time
}

type Option func(*options)

// WithMethod sets the transport method used when the context carries none.
func WithMethod(method string) Option {
	return func(o *options) {
		o.method = method
	}
}

// WithLogger pins the logger instead of taking it from the call context.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

func withClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func newOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) logger(ctx context.Context) *logger.Logger {
	if o.log != nil {
		return o.log
	}
	return logger.LoggerFromContext(ctx)
}

func (o options) methodFor(ctx context.Context) string {
	if m := MetaFromContext(ctx).Method; m != "" {
		return m
	}
	if o.method != "" {
		return o.method
	}
	return UnknownMethod
}

// Wrap returns op instrumented under name. Each call records one request
// and exactly one response time. Failures additionally record their kind
// and message. Results, errors and panics reach the caller untouched.
func Wrap[Req, Resp any](name string, rec Recorder, op Operation[Req, Resp], opts ...Option) Operation[Req, Resp] {
	o := newOptions(opts)

	return func(ctx context.Context, req Req) (resp Resp, err error) {
		requestID := RequestID(req)
		log := o.logger(ctx).WithRequestID(requestID)

		start := o.now()
		rec.RecordRequest(name, o.methodFor(ctx))
		log.Infof("STARTING %s - Request ID: %s", name, requestID)

		completed := false
		defer func() {
			duration := o.now().Sub(start).Seconds()
			entry := log.WithField("duration_seconds", duration)

			switch {
			case !completed:
				// A nil value means the goroutine is exiting through
				// runtime.Goexit, which must not be turned into a panic.
				v := recover()
				message := name + " exited"
				if v != nil {
					message = fmt.Sprint(v)
				}
				rec.RecordResponseTime(duration, false)
				rec.RecordError(PanicKind, message)
				entry.Errorf("FAILED %s - Duration: %.2fs - Error: %s: %s - Request ID: %s", name, duration, PanicKind, message, requestID)
				if v != nil {
					panic(v)
				}
			case err != nil:
				kind := ErrorKind(err)
				rec.RecordResponseTime(duration, false)
				rec.RecordError(kind, err.Error())
				entry.WithField("error_kind", kind).
					Errorf("FAILED %s - Duration: %.2fs - Error: %s: %s - Request ID: %s", name, duration, kind, err.Error(), requestID)
			default:
				rec.RecordResponseTime(duration, true)
				entry.Infof("SUCCESS %s - Duration: %.2fs - Request ID: %s", name, duration, requestID)
			}
		}()

		resp, err = op(ctx, req)
		completed = true
		return resp, err
	}
}
