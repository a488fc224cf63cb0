package imagegen

import (
	"context"

	models "github.com/finbox-in/imagegen/internal/models/imagegen"
)

type ImageGenServiceProvider interface {
	Generate(ctx context.Context, req models.ImageRequest) (models.ImageResponse, error)
	MissingConfig() []string
}

var _ ImageGenServiceProvider = (*ImageGenService)(nil)
