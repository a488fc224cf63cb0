package models

import (
	"strconv"

	"github.com/finbox-in/imagegen/internal/pkg/apperr"
	"github.com/finbox-in/imagegen/internal/pkg/instrument"
	"github.com/finbox-in/imagegen/internal/pkg/validate"
)

const DefaultDimension = 512

type ImageRequest struct {
	RequestID string `json:"request_id"`
	Prompt    string `json:"prompt"`
	Width     *int   `json:"width,omitempty"`
	Height    *int   `json:"height,omitempty"`
}

// ImageResponse describes a generation. Status is "info" while no
// image backend is configured to actually run it.
type ImageResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id"`
	Prompt     string `json:"prompt"`
	Dimensions string `json:"dimensions"`
	ImageURL   string `json:"image_url,omitempty"`
}

func (r ImageRequest) GetRequestID() string { return r.RequestID }

func (r ImageRequest) Dimensions() (width, height int) {
	width, height = DefaultDimension, DefaultDimension
	if r.Width != nil {
		width = *r.Width
	}
	if r.Height != nil {
		height = *r.Height
	}
	return width, height
}

func (r ImageRequest) Describe() instrument.Details {
	return instrument.Details{
		RequestID: r.RequestID,
		Prompt:    r.Prompt,
		Width:     optionalInt(r.Width),
		Height:    optionalInt(r.Height),
	}
}

func (r ImageRequest) Validate() error {
	if r.RequestID == "" || r.Prompt == "" {
		return apperr.Validation("Missing required fields").WithPublic("Missing request_id or prompt")
	}
	if !validate.GUID(r.RequestID) {
		return apperr.Validation("Invalid GUID format").WithPublic("request_id must be a valid GUID")
	}
	width, height := r.Dimensions()
	if width <= 0 || height <= 0 {
		return apperr.Newf(apperr.KindValidation, "Invalid dimensions %dx%d", width, height)
	}
	return nil
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
