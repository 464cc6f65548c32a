// Package validate implements the order-batch validation and enrichment
// pipeline: every field of every header and line is checked against the
// reference catalog, all findings are reported in one pass, and the batch is
// accepted or rejected as a whole.
package validate

import (
	"context"
	"log/slog"
	"time"

	"github.com/hartono/salesimport/internal/catalog"
	"github.com/hartono/salesimport/internal/domain"
	"github.com/hartono/salesimport/internal/telemetry"
)

// Status is the terminal state of one validation call.
type Status string

const (
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Result is the outcome of validating one batch. Orders is populated only on
// acceptance and Errors only on rejection; a rejected batch is discarded
// wholesale, so no partially enriched data ever leaves the pipeline.
type Result struct {
	Status Status
	Orders domain.Batch
	Errors []domain.FieldError
}

// Service validates and enriches order batches against a reference catalog.
type Service struct {
	catalog catalog.Provider
	logger  *slog.Logger
}

// NewService creates a validation service.
func NewService(provider catalog.Provider, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		catalog: provider,
		logger:  logger,
	}
}

// ValidateBatch checks every order in the batch exhaustively and either
// accepts it (returning the enriched, sanitized batch) or rejects it
// (returning the complete error list). A non-nil error means the validator
// itself failed — catalog unreachable or similar — and says nothing about the
// quality of the input.
//
// One catalog session is acquired for the whole call and released on every
// exit path.
func (s *Service) ValidateBatch(ctx context.Context, batch domain.Batch) (*Result, error) {
	start := time.Now()

	sess, err := s.catalog.Session(ctx)
	if err != nil {
		telemetry.Business.BatchesValidated.WithLabelValues("failed").Inc()
		return nil, domain.Unavailable(err, "validate.batch", "reference catalog unavailable")
	}
	defer sess.Close()

	var errs []domain.FieldError
	enriched := make(domain.Batch, 0, len(batch))

	for sheet, order := range batch {
		header, headerErrs, err := validateHeader(ctx, sess, order.Header, domain.HeaderLocation(sheet))
		if err != nil {
			telemetry.Business.BatchesValidated.WithLabelValues("failed").Inc()
			return nil, err
		}
		errs = append(errs, headerErrs...)

		lines := make([]domain.Line, 0, len(order.Lines))
		for _, line := range order.Lines {
			enrichedLine, lineErrs, err := validateLine(ctx, sess, line, header)
			if err != nil {
				telemetry.Business.BatchesValidated.WithLabelValues("failed").Inc()
				return nil, err
			}
			errs = append(errs, lineErrs...)
			lines = append(lines, enrichedLine)
		}

		enriched = append(enriched, domain.Order{Header: header, Lines: lines})
	}

	telemetry.Business.BatchOrders.Observe(float64(len(batch)))

	if len(errs) > 0 {
		domain.SortFieldErrors(errs)
		for _, fe := range errs {
			telemetry.Business.ValidationErrors.WithLabelValues(string(fe.Type)).Inc()
		}
		telemetry.Business.BatchesValidated.WithLabelValues("rejected").Inc()
		telemetry.Business.BatchDuration.WithLabelValues("rejected").Observe(time.Since(start).Seconds())
		s.logger.Info("batch rejected",
			slog.Int("orders", len(batch)),
			slog.Int("errors", len(errs)))
		return &Result{Status: StatusRejected, Errors: errs}, nil
	}

	sanitize(enriched)

	telemetry.Business.BatchesValidated.WithLabelValues("accepted").Inc()
	telemetry.Business.BatchDuration.WithLabelValues("accepted").Observe(time.Since(start).Seconds())
	s.logger.Info("batch accepted", slog.Int("orders", len(batch)))
	return &Result{Status: StatusAccepted, Orders: enriched}, nil
}

// sanitize strips the fields that exist only to drive lookups. The raw product
// code has served its purpose once m_product_id is attached; downstream order
// creation must not see it.
func sanitize(batch domain.Batch) {
	for oi := range batch {
		for li := range batch[oi].Lines {
			batch[oi].Lines[li].Product = ""
		}
	}
}
