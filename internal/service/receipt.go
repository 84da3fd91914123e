package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"coaching-checkout/internal/apperror"
	"coaching-checkout/internal/client"
	"coaching-checkout/internal/dto"
	"coaching-checkout/internal/metrics"
	"coaching-checkout/internal/model"
	"coaching-checkout/internal/repository"

	"gorm.io/gorm"
)

const (
	// MaxReceiptSize caps uploads at 8 MB.
	MaxReceiptSize = 8 << 20

	signedURLTTL = 15 * time.Minute
)

var allowedReceiptMimes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
	"image/webp":      true,
}

// ReceiptUpload carries the uploaded file's stream and metadata.
type ReceiptUpload struct {
	Body         io.Reader
	ContentType  string
	Size         int64
	OriginalName string
}

type ReceiptService interface {
	Attach(ctx context.Context, orderID, email string, upload *ReceiptUpload, referenceText string) error
	ListForOrder(ctx context.Context, orderID string) ([]*dto.ReceiptResponse, error)
}

type receiptServiceImpl struct {
	storageClient client.StorageClient
	orderRepo     repository.OrderRepository
	receiptRepo   repository.ReceiptRepository
}

func NewReceiptService(
	storageClient client.StorageClient,
	orderRepo repository.OrderRepository,
	receiptRepo repository.ReceiptRepository,
) ReceiptService {
	return &receiptServiceImpl{
		storageClient: storageClient,
		orderRepo:     orderRepo,
		receiptRepo:   receiptRepo,
	}
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
	if name == "" || name == "." {
		name = "receipt"
	}
	return name
}

// Attach validates the upload, stores the file, records the receipt row and
// moves the order to under_review unless it already reached a terminal state.
// The email gate is the only access control on this public path.
func (s *receiptServiceImpl) Attach(ctx context.Context, orderID, email string, upload *ReceiptUpload, referenceText string) error {
	order, err := s.orderRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("%w: order %q", apperror.ErrNotFound, orderID)
		}
		return fmt.Errorf("%w: find order: %v", apperror.ErrUpstream, err)
	}

	if !strings.EqualFold(order.CustomerEmail, strings.TrimSpace(email)) {
		metrics.ReceiptUploads.WithLabelValues("forbidden").Inc()
		return fmt.Errorf("%w: email does not match order", apperror.ErrForbidden)
	}

	if upload.Size <= 0 || upload.Size > MaxReceiptSize {
		return fmt.Errorf("%w: file size %d out of range", apperror.ErrValidation, upload.Size)
	}
	mimeType := strings.ToLower(strings.TrimSpace(strings.Split(upload.ContentType, ";")[0]))
	if !allowedReceiptMimes[mimeType] {
		return fmt.Errorf("%w: file type %q not allowed", apperror.ErrValidation, upload.ContentType)
	}

	// Key is namespaced by order id with a timestamp suffix so resubmissions
	// never collide.
	key := fmt.Sprintf("receipts/%s/%d_%s", order.OrderID, time.Now().UnixNano(), sanitizeFilename(upload.OriginalName))

	if err := s.storageClient.Upload(ctx, key, mimeType, io.LimitReader(upload.Body, MaxReceiptSize)); err != nil {
		metrics.ReceiptUploads.WithLabelValues("error").Inc()
		return fmt.Errorf("%w: store receipt file: %v", apperror.ErrUpstream, err)
	}

	receipt := &model.Receipt{
		OrderRef:      order.ID,
		FilePath:      key,
		FileMime:      mimeType,
		FileSize:      upload.Size,
		OriginalName:  upload.OriginalName,
		ReferenceText: strings.TrimSpace(referenceText),
	}

	if err := s.receiptRepo.Create(ctx, receipt); err != nil {
		// Compensate: the file is already in the bucket, remove it so no
		// orphaned object survives the failed insert.
		if delErr := s.storageClient.Delete(ctx, key); delErr != nil {
			log.Println("delete orphaned receipt file:", delErr)
		}
		metrics.ReceiptUploads.WithLabelValues("error").Inc()
		return fmt.Errorf("%w: store receipt row: %v", apperror.ErrUpstream, err)
	}

	if !order.Status.IsTerminal() {
		if err := s.orderRepo.MarkUnderReview(ctx, order.OrderID); err != nil {
			return fmt.Errorf("%w: mark under review: %v", apperror.ErrUpstream, err)
		}
	}

	metrics.ReceiptUploads.WithLabelValues("ok").Inc()
	return nil
}

func (s *receiptServiceImpl) ListForOrder(ctx context.Context, orderID string) ([]*dto.ReceiptResponse, error) {
	order, err := s.orderRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: order %q", apperror.ErrNotFound, orderID)
		}
		return nil, fmt.Errorf("%w: find order: %v", apperror.ErrUpstream, err)
	}

	receipts, err := s.receiptRepo.ListByOrderRef(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: list receipts: %v", apperror.ErrUpstream, err)
	}

	out := make([]*dto.ReceiptResponse, len(receipts))
	for i, r := range receipts {
		signed, err := s.storageClient.SignedURL(ctx, r.FilePath, signedURLTTL)
		if err != nil {
			return nil, fmt.Errorf("%w: sign receipt url: %v", apperror.ErrUpstream, err)
		}

		out[i] = &dto.ReceiptResponse{
			ID:            r.ID,
			OriginalName:  r.OriginalName,
			FileMime:      r.FileMime,
			FileSize:      r.FileSize,
			ReferenceText: r.ReferenceText,
			SignedURL:     signed,
			CreatedAt:     r.CreatedAt,
		}
	}

	return out, nil
}
