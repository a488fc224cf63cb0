package wkhtmltopdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	models "github.com/finbox-in/imagegen/internal/models/wkhtmltopdf"
	"github.com/finbox-in/imagegen/internal/pkg/apperr"
	"github.com/finbox-in/imagegen/internal/pkg/logger"
)

// Convert validates req, renders it and uploads the document to blob
// storage. Failures come back classified as validation, PDF or blob errors,
// except that a done ctx yields the bare context error.
func (s *WkHTMLtoPDFService) Convert(ctx context.Context, req models.PDFRequest) (resp models.PDFResponse, err error) {
	logger := logger.LoggerFromContext(ctx)

	if err := req.Validate(); err != nil {
		return models.PDFResponse{}, err
	}

	pdfBytes, err := s.Render(ctx, req)
	if err != nil {
		logger.Errorf("PDF CONVERSION FAILED - ID: %s: %v", req.RequestID, err)
		return models.PDFResponse{}, classify(apperr.KindPDF, err)
	}

	fileName := req.FileName()
	blobURL, err := s.store.Upload(ctx, fileName, pdfBytes)
	if err != nil {
		logger.Errorf("PDF upload failed - ID: %s: %v", req.RequestID, err)
		return models.PDFResponse{}, classify(apperr.KindBlob, err)
	}

	logger.Infof("PDF CREATED - %s, Blob URL: %s", fileName, blobURL)
	return models.PDFResponse{PDF: pdfBytes, FileName: fileName, BlobURL: blobURL}, nil
}

// classify wraps err as kind unless the request context ended, in which case
// the bare context error is returned so callers see a timeout, not a failure
// of the renderer or the store.
func classify(kind string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return context.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		return context.Canceled
	}
	return apperr.Wrap(kind, err)
}

// Render runs wkhtmltopdf over req.HTML and returns the document bytes.
func (s *WkHTMLtoPDFService) Render(ctx context.Context, req models.PDFRequest) ([]byte, error) {
	logger := logger.LoggerFromContext(ctx)

	tmpdir, err := os.MkdirTemp("", "kwk")
	if err != nil {
		logger.Errorf("Failed to create temp directory: %v", err)
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tmpdir)

	logger.Debugf("Temporary directory created: %s", tmpdir)

	args, err := s.prepareFilesAndArgs(ctx, tmpdir, req)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare files: %w", err)
	}

	pdfBytes, err := s.executeWkHTMLtoPDF(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	if s.metrics != nil {
		s.metrics.ObservePDFSize(float64(len(pdfBytes)))
	}
	logger.WithField("size_bytes", len(pdfBytes)).Info("PDF generation completed successfully")

	return pdfBytes, nil
}

func (s *WkHTMLtoPDFService) prepareFilesAndArgs(ctx context.Context, tmpdir string, req models.PDFRequest) ([]string, error) {
	logger := logger.LoggerFromContext(ctx)

	var args []string

	indexPath := filepath.Join(tmpdir, "index.html")
	if err := os.WriteFile(indexPath, []byte(req.HTML), 0644); err != nil {
		return nil, fmt.Errorf("failed to write index.html: %w", err)
	}

	keys := make([]string, 0, len(req.ExtraArgs))
	for key := range req.ExtraArgs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if value := req.ExtraArgs[key]; value == "" {
			args = append(args, "--"+key)
		} else {
			args = append(args, "--"+key, value)
		}
	}

	args = append(args,
		"--quiet",
		"--enable-local-file-access", // https://github.com/wkhtmltopdf/wkhtmltopdf/issues/4460#issuecomment-661345113
		indexPath,
		"-", // stdout
	)

	logger.WithField("args", args).Debug("Prepared wkhtmltopdf arguments")
	return args, nil
}

func (s *WkHTMLtoPDFService) executeWkHTMLtoPDF(ctx context.Context, args []string) ([]byte, error) {
	logger := logger.LoggerFromContext(ctx)

	cmd := exec.Command(s.bin, args...)

	var outputBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &outputBuf
	cmd.Stderr = &stderrBuf
	// Children of a killed wkhtmltopdf may keep stdout open; stop waiting
	// for them shortly after the process itself is gone.
	cmd.WaitDelay = s.waitDelay

	if err := cmd.Start(); err != nil {
		logger.Errorf("Failed to start wkhtmltopdf: %v", err)
		return nil, fmt.Errorf("failed to start wkhtmltopdf: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case <-ctx.Done():
		logger.WithField("pid", cmd.Process.Pid).Warn("Context cancelled, killing wkhtmltopdf process")
		if err := cmd.Process.Kill(); err != nil {
			logger.Errorf("Failed to kill process after context cancellation: %v", err)
		}
		<-done
		return nil, ctx.Err()

	case err := <-done:
		if err != nil {
			stderr := stderrBuf.String()
			logger.WithField("stderr", stderr).Errorf("wkhtmltopdf process failed: %v", err)

			if stderrBuf.Len() > 0 {
				return nil, fmt.Errorf("wkhtmltopdf failed: %w, stderr: %s", err, stderr)
			}
			return nil, fmt.Errorf("wkhtmltopdf failed: %w", err)
		}
	}

	if outputBuf.Len() == 0 {
		logger.Error("wkhtmltopdf produced no output")
		return nil, fmt.Errorf("wkhtmltopdf produced no output")
	}

	return outputBuf.Bytes(), nil
}
