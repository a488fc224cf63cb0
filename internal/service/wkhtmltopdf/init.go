package wkhtmltopdf

import (
	"time"

	"github.com/finbox-in/imagegen/internal/service/blob"
)

const (
	defaultBin = "wkhtmltopdf"

	// defaultWaitDelay bounds how long a finished or killed render may
	// hold on to its output pipes.
	defaultWaitDelay = 500 * time.Millisecond
)

// SizeObserver receives the size of every rendered document.
type SizeObserver interface {
	ObservePDFSize(size float64)
}

type WkHTMLtoPDFService struct {
	metrics SizeObserver
	store   blob.Store
	bin     string

	waitDelay time.Duration
}

func InitWKHTMLtoPDFService(metrics SizeObserver, store blob.Store, bin string) *WkHTMLtoPDFService {
	if bin == "" {
		bin = defaultBin
	}
	return &WkHTMLtoPDFService{
		metrics: metrics,
		store:   store,
		bin:     bin,

		waitDelay: defaultWaitDelay,
	}
}
