package scan

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pharmadesk/m/domain"
)

// Extractor turns a stored image into text.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// InvoiceStore is the persistence the scanner needs.
type InvoiceStore interface {
	Create(ctx context.Context, filename, text string) (domain.Invoice, error)
	List(ctx context.Context) ([]domain.Invoice, error)
}

// Result is the outcome of a successful scan.
type Result struct {
	Invoice       domain.Invoice `json:"invoice"`
	ExtractedText string         `json:"extracted_text"`
}

// Service stores uploaded invoice images, runs OCR over them and records the
// extracted text. The file write and the insert are not transactional: a
// crash between them leaves a stored file with no invoice row.
type Service struct {
	uploadDir string
	extractor Extractor
	invoices  InvoiceStore
	logger    *zap.Logger
}

func NewService(uploadDir string, extractor Extractor, invoices InvoiceStore, logger *zap.Logger) *Service {
	return &Service{uploadDir: uploadDir, extractor: extractor, invoices: invoices, logger: logger}
}

func (s *Service) Scan(ctx context.Context, image io.Reader, filename string) (Result, error) {
	safe := SanitizeFilename(filename)
	if safe == "" {
		safe = "invoice-" + uuid.NewString()
	}

	path, err := s.store(image, safe)
	if err != nil {
		s.logger.Error("failed to store invoice image", zap.String("filename", safe), zap.Error(err))
		return Result{}, err
	}

	text, err := s.extractor.Extract(ctx, path)
	if err != nil {
		s.logger.Error("ocr failed", zap.String("filename", safe), zap.Error(err))
		return Result{}, &domain.ExtractionError{Filename: safe, Err: err}
	}

	inv, err := s.invoices.Create(ctx, safe, text)
	if err != nil {
		s.logger.Error("failed to record invoice", zap.String("filename", safe), zap.Error(err))
		return Result{}, &domain.StorageError{Op: "record invoice", Err: err}
	}
	s.logger.Info("invoice scanned", zap.Int64("invoice_id", inv.ID), zap.String("filename", safe), zap.Int("chars", len(text)))
	return Result{Invoice: inv, ExtractedText: text}, nil
}

func (s *Service) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	return s.invoices.List(ctx)
}

func (s *Service) store(image io.Reader, name string) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", &domain.StorageError{Op: "create upload dir", Err: err}
	}
	path := filepath.Join(s.uploadDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", &domain.StorageError{Op: "create upload file", Err: err}
	}
	if _, err := io.Copy(f, image); err != nil {
		f.Close()
		return "", &domain.StorageError{Op: "write upload file", Err: err}
	}
	if err := f.Close(); err != nil {
		return "", &domain.StorageError{Op: "close upload file", Err: fmt.Errorf("%s: %w", path, err)}
	}
	return path, nil
}
