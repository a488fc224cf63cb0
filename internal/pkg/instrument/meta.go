package instrument

import "context"

// MetaContextKey is a plain string so gin.Context.Value resolves it from the
// keys set by the HTTP middleware.
const MetaContextKey = "request-meta"

// RequestMeta is the transport information the wrappers read from the call
// context.
type RequestMeta struct {
	Method    string
	Endpoint  string
	UserAgent string
	ClientIP  string
}

func WithMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, MetaContextKey, meta)
}

func MetaFromContext(ctx context.Context) RequestMeta {
	if ctx == nil {
		return RequestMeta{}
	}
	if meta, ok := ctx.Value(MetaContextKey).(RequestMeta); ok {
		return meta
	}
	return RequestMeta{}
}
