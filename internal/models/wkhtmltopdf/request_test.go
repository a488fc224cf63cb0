package models

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbox-in/imagegen/internal/pkg/apperr"
)

func TestPDFRequest_Validate(t *testing.T) {
	id := uuid.NewString()

	assert.NoError(t, PDFRequest{RequestID: id, HTML: "<p>hi</p>"}.Validate())

	err := PDFRequest{RequestID: id, HTML: "   "}.Validate()
	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Equal(t, "Missing PDF conversion fields", appErr.Error())
	assert.Equal(t, "Missing request_id or html", appErr.PublicMessage())

	err = PDFRequest{RequestID: "not-a-guid", HTML: "<p>hi</p>"}.Validate()
	assert.EqualError(t, err, "Invalid GUID for PDF")
}

func TestPDFRequest_FileName(t *testing.T) {
	assert.Equal(t, "abc.pdf", PDFRequest{RequestID: "abc"}.FileName())
}

func TestPDFRequest_ValidateOptions(t *testing.T) {
	id := uuid.NewString()

	ok := PDFRequest{RequestID: id, HTML: "<p/>", ExtraArgs: map[string]string{"page-size": "A4", "grayscale": ""}}
	assert.NoError(t, ok.Validate())

	for _, key := range []string{"allow", "cache-dir", "--page-size", "Page-Size", ""} {
		req := PDFRequest{RequestID: id, HTML: "<p/>", ExtraArgs: map[string]string{key: "x"}}
		err := req.Validate()
		assert.Error(t, err, key)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err), key)
	}
}
