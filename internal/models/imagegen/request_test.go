package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/finbox-in/imagegen/internal/pkg/apperr"
	"github.com/finbox-in/imagegen/internal/pkg/instrument"
)

func intPtr(v int) *int { return &v }

func TestImageRequest_Validate(t *testing.T) {
	id := uuid.NewString()

	tests := []struct {
		name    string
		req     ImageRequest
		wantErr string
	}{
		{name: "valid", req: ImageRequest{RequestID: id, Prompt: "a lighthouse"}},
		{name: "missing prompt", req: ImageRequest{RequestID: id}, wantErr: "Missing required fields"},
		{name: "missing id", req: ImageRequest{Prompt: "a lighthouse"}, wantErr: "Missing required fields"},
		{name: "bad guid", req: ImageRequest{RequestID: "req-1", Prompt: "x"}, wantErr: "Invalid GUID format"},
		{name: "zero width", req: ImageRequest{RequestID: id, Prompt: "x", Width: intPtr(0)}, wantErr: "Invalid dimensions 0x512"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestImageRequest_DimensionsAndDescribe(t *testing.T) {
	req := ImageRequest{RequestID: "r", Prompt: "p", Width: intPtr(1024)}

	w, h := req.Dimensions()
	assert.Equal(t, 1024, w)
	assert.Equal(t, DefaultDimension, h)

	assert.Equal(t, instrument.Details{RequestID: "r", Prompt: "p", Width: "1024"}, req.Describe())
	assert.Equal(t, "r", instrument.RequestID(req))
}
