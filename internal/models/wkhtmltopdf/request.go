package models

import (
	"regexp"
	"strings"

	"github.com/finbox-in/imagegen/internal/pkg/apperr"
	"github.com/finbox-in/imagegen/internal/pkg/validate"
)

var optionPattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// Options that read or write local files are never passed through.
var blockedOptions = map[string]bool{
	"allow":                     true,
	"cache-dir":                 true,
	"cookie-jar":                true,
	"dump-outline":              true,
	"enable-local-file-access":  true,
	"read-args-from-stdin":      true,
	"user-style-sheet":          true,
	"header-html":               true,
	"footer-html":               true,
	"disable-local-file-access": true,
}

type PDFRequest struct {
	RequestID string            `json:"request_id"`
	HTML      string            `json:"html"`
	ExtraArgs map[string]string `json:"options,omitempty"`
}

type PDFResponse struct {
	PDF      []byte `json:"-"`
	FileName string `json:"file_name"`
	BlobURL  string `json:"pdf_blob_url"`
}

func (r PDFRequest) GetRequestID() string { return r.RequestID }

// FileName is the name the rendered document is stored under.
func (r PDFRequest) FileName() string { return r.RequestID + ".pdf" }

func (r PDFRequest) Validate() error {
	if r.RequestID == "" || strings.TrimSpace(r.HTML) == "" {
		return apperr.Validation("Missing PDF conversion fields").WithPublic("Missing request_id or html")
	}
	if !validate.GUID(r.RequestID) {
		return apperr.Validation("Invalid GUID for PDF").WithPublic("request_id must be a valid GUID")
	}
	for key := range r.ExtraArgs {
		if !optionPattern.MatchString(key) || blockedOptions[key] {
			return apperr.Newf(apperr.KindValidation, "Unsupported wkhtmltopdf option %q", key)
		}
	}
	return nil
}
