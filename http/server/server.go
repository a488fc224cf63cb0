package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	imagemodels "github.com/finbox-in/imagegen/internal/models/imagegen"
	"github.com/finbox-in/imagegen/internal/pkg/apperr"
	"github.com/finbox-in/imagegen/internal/pkg/instrument"
	"github.com/finbox-in/imagegen/internal/pkg/logger"
	"github.com/finbox-in/imagegen/internal/pkg/metrics"
	"github.com/finbox-in/imagegen/internal/service/imagegen"
	"github.com/finbox-in/imagegen/internal/service/wkhtmltopdf"
)

const (
	GenerateOperation = "generate_image"
	ConvertOperation  = "convert_html_to_pdf"
)

// BadRequest is the failure of an instrumented call whose body could not be
// read or decoded.
type BadRequest struct {
	Err error
}

func (e *BadRequest) Error() string {
	return "Failed to decode JSON object: " + e.Err.Error()
}

func (e *BadRequest) Unwrap() error { return e.Err }

// requestBody is the payload of the instrumented calls: the raw JSON body,
// or the error that stopped it from being read.
type requestBody struct {
	raw json.RawMessage
	err error
}

func (b requestBody) GetRequestID() string { return instrument.RequestID(b.raw) }

func (b requestBody) decode(obj any) error {
	if b.err != nil {
		return &BadRequest{Err: b.err}
	}
	if err := binding.JSON.BindBody(b.raw, obj); err != nil {
		return &BadRequest{Err: err}
	}
	return nil
}

func readBody(c *gin.Context) requestBody {
	raw, err := c.GetRawData()
	return requestBody{raw: raw, err: err}
}

// reply is a response the handler chose to send, error responses included.
type reply struct {
	code int
	body any
}

// ServerHandler holds the instrumented operations behind every route.
type ServerHandler struct {
	Registry           *metrics.Registry
	ImageGenService    imagegen.ImageGenServiceProvider
	WkHTMLtoPDFService wkhtmltopdf.WkHTMLtoPDFServiceProvider

	recorder       instrument.Recorder
	requestTimeout time.Duration

	generateImage instrument.Operation[imagemodels.ImageRequest, imagemodels.ImageResponse]

	generate instrument.Operation[requestBody, reply]
	convert  instrument.Operation[requestBody, reply]
}

// NewServerHandler builds the instrumented operations once. rec receives
// every measurement; it normally fans out to reg and the prometheus
// collectors.
func NewServerHandler(
	reg *metrics.Registry,
	rec instrument.Recorder,
	images imagegen.ImageGenServiceProvider,
	pdfs wkhtmltopdf.WkHTMLtoPDFServiceProvider,
	requestTimeout time.Duration,
) *ServerHandler {
	s := &ServerHandler{
		Registry:           reg,
		ImageGenService:    images,
		WkHTMLtoPDFService: pdfs,
		recorder:           rec,
		requestTimeout:     requestTimeout,
	}

	s.generateImage = instrument.LogDetails(GenerateOperation, images.Generate, instrument.WithMethod(http.MethodPost))
	s.generate = instrument.Wrap(GenerateOperation, rec, s.handleGenerate, instrument.WithMethod(http.MethodPost))
	s.convert = instrument.Wrap(ConvertOperation, rec, s.handleConvert, instrument.WithMethod(http.MethodPost))
	return s
}

// requestContext bounds an operation by the configured timeout. The gin
// context stays the parent so logger and request meta lookups still work.
func (s *ServerHandler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if s.requestTimeout <= 0 {
		return context.WithCancel(c)
	}
	return context.WithTimeout(c, s.requestTimeout)
}

// serve runs an instrumented operation and writes whatever it produced.
func (s *ServerHandler) serve(c *gin.Context, op instrument.Operation[requestBody, reply]) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	r, err := op(ctx, readBody(c))
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(r.code, r.body)
}

// handledError turns a classified error into an error response. The call
// itself completed: only the error kind is recorded. Timeouts and
// unclassified errors are returned as failures of the call.
func (s *ServerHandler) handledError(ctx context.Context, requestID string, err error) (reply, error) {
	var appErr *apperr.Error
	if isContextErr(err) || !errors.As(err, &appErr) {
		return reply{}, err
	}

	s.recorder.RecordError(appErr.Kind, appErr.Error())
	logger.LoggerFromContext(ctx).WithRequestID(requestID).
		Warnf("Request rejected - %s: %s", appErr.Kind, appErr.Error())

	switch appErr.Kind {
	case apperr.KindValidation:
		return reply{http.StatusBadRequest, gin.H{"status": "error", "message": appErr.PublicMessage()}}, nil
	case apperr.KindConfig:
		var missing *imagegen.MissingConfigError
		missingConfig := []string{}
		if errors.As(err, &missing) {
			missingConfig = missing.Missing
		}
		return reply{http.StatusServiceUnavailable, gin.H{
			"status":         "error",
			"message":        appErr.PublicMessage(),
			"user_message":   "Missing: " + strings.Join(missingConfig, ", "),
			"error_code":     "CONFIG_MISSING",
			"request_id":     requestID,
			"missing_config": missingConfig,
		}}, nil
	case apperr.KindBlob:
		return reply{http.StatusBadGateway, gin.H{"status": "error", "message": appErr.PublicMessage()}}, nil
	default:
		return reply{http.StatusInternalServerError, gin.H{"status": "error", "message": appErr.PublicMessage()}}, nil
	}
}

// respondFailure answers a call that failed outright.
func respondFailure(c *gin.Context, err error) {
	var badRequest *BadRequest
	switch {
	case errors.As(err, &badRequest):
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Request body must be a JSON object"})
	case isContextErr(err):
		c.JSON(http.StatusRequestTimeout, gin.H{"status": "error", "message": "Request timed out"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Internal server error"})
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
