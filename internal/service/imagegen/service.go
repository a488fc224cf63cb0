package imagegen

import (
	"context"
	"fmt"
	"os"
	"strings"

	models "github.com/finbox-in/imagegen/internal/models/imagegen"
	"github.com/finbox-in/imagegen/internal/pkg/apperr"
	logger "github.com/finbox-in/imagegen/internal/pkg/logger"
)

const promptLogLimit = 100

// Generator calls the outbound image API and returns where the image is.
type Generator interface {
	Generate(ctx context.Context, prompt string, width, height int) (imageURL string, err error)
}

// MissingConfigError lists required settings that are not present. It is
// carried as the cause of a CONFIG_ERROR.
type MissingConfigError struct {
	Missing []string
}

func (e *MissingConfigError) Error() string {
	return "Missing config: " + strings.Join(e.Missing, ", ")
}

type ImageGenService struct {
	requiredEnv []string
	lookupEnv   func(string) (string, bool)
	generator   Generator
}

type Option func(*ImageGenService)

// WithGenerator plugs in the image backend. Without one, Generate only
// describes the generation it would run.
func WithGenerator(g Generator) Option {
	return func(s *ImageGenService) {
		s.generator = g
	}
}

func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(s *ImageGenService) {
		s.lookupEnv = lookup
	}
}

func InitImageGenService(requiredEnv []string, opts ...Option) *ImageGenService {
	s := &ImageGenService{
		requiredEnv: requiredEnv,
		lookupEnv:   os.LookupEnv,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MissingConfig returns the required environment keys that are unset or empty.
func (s *ImageGenService) MissingConfig() []string {
	missing := []string{}
	for _, key := range s.requiredEnv {
		if v, ok := s.lookupEnv(key); !ok || v == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

func (s *ImageGenService) Generate(ctx context.Context, req models.ImageRequest) (models.ImageResponse, error) {
	logger := logger.LoggerFromContext(ctx)

	if err := req.Validate(); err != nil {
		return models.ImageResponse{}, err
	}

	if missing := s.MissingConfig(); len(missing) > 0 {
		cause := &MissingConfigError{Missing: missing}
		return models.ImageResponse{}, apperr.Wrap(apperr.KindConfig, cause).WithPublic("Service configuration incomplete")
	}

	width, height := req.Dimensions()
	dimensions := fmt.Sprintf("%dx%d", width, height)
	logger.Infof("IMAGE GENERATION REQUEST: ID=%s, Prompt='%s', Dimensions=%s", req.RequestID, clip(req.Prompt, promptLogLimit), dimensions)

	resp := models.ImageResponse{
		RequestID:  req.RequestID,
		Prompt:     req.Prompt,
		Dimensions: dimensions,
	}

	if s.generator == nil {
		logger.Infof("Would generate image with prompt: '%s' at %s", req.Prompt, dimensions)
		resp.Status = "info"
		resp.Message = "Image generation would proceed here (API keys needed)"
		return resp, nil
	}

	imageURL, err := s.generator.Generate(ctx, req.Prompt, width, height)
	if err != nil {
		return models.ImageResponse{}, fmt.Errorf("image generation failed: %w", err)
	}

	resp.Status = "success"
	resp.Message = "Image generated"
	resp.ImageURL = imageURL
	return resp, nil
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
