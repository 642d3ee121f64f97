package ordering

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/printease/backend/internal/application/printjob"
	"github.com/printease/backend/internal/domain/printing"
	"github.com/printease/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Order errors
var (
	ErrUnplaceable = shared.NewDomainError("UNPLACEABLE",
		"Some files cannot be printed by any online printer")
	ErrPriceMismatch = shared.NewDomainError("PRICE_MISMATCH",
		"Paid amount does not match the order total")
	ErrPaperSizeUnavailable = shared.NewDomainError("PAPER_SIZE_UNAVAILABLE",
		"Paper size is not available")
	ErrPaymentInProgress = shared.NewDomainError("PAYMENT_IN_PROGRESS",
		"Payment is already being committed")
	ErrUnknownCheckout = shared.NewDomainError("PAYMENT_INVALID",
		"Payment does not belong to an open checkout")
)

// UnplaceableError carries the files that found no printer
type UnplaceableError struct {
	Failures []printing.PlacementFailure
}

func (e *UnplaceableError) Error() string {
	return fmt.Sprintf("%s (%d files)", ErrUnplaceable.Message, len(e.Failures))
}

func (e *UnplaceableError) Unwrap() error {
	return ErrUnplaceable
}

// PoolSource supplies the current printer pool in stable order
type PoolSource interface {
	Pool(ctx context.Context) (printing.PrinterPool, error)
}

// SettingsSource supplies the pricing schedule and paper-size availability
type SettingsSource interface {
	GetPricing(ctx context.Context) (printing.PricingSchedule, error)
	GetPaperSizes(ctx context.Context) (printing.PaperSizeAvailability, error)
}

// OrderServiceConfig tunes the commit path
type OrderServiceConfig struct {
	// MaxCommitRetries bounds re-assembly after a rotation conflict
	MaxCommitRetries int
	// IdempotencyTTL is how long a committed payment id is remembered
	IdempotencyTTL time.Duration
	// CheckoutTTL is how long an opened gateway order can be paid
	CheckoutTTL time.Duration
}

// DefaultOrderServiceConfig returns default configuration
func DefaultOrderServiceConfig() OrderServiceConfig {
	return OrderServiceConfig{
		MaxCommitRetries: 5,
		IdempotencyTTL:   24 * time.Hour,
		CheckoutTTL:      30 * time.Minute,
	}
}

// OrderService quotes orders and commits paid orders into print jobs
type OrderService struct {
	assembler   *Assembler
	pool        PoolSource
	settings    SettingsSource
	rotation    printing.RotationStore
	jobRepo     printing.PrintJobRepository
	verifier    printing.PaymentVerifier
	idempotency shared.IdempotencyStore
	checkout    printing.CheckoutStore
	config      OrderServiceConfig
	logger      *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	assembler *Assembler,
	pool PoolSource,
	settings SettingsSource,
	rotation printing.RotationStore,
	jobRepo printing.PrintJobRepository,
	verifier printing.PaymentVerifier,
	idempotency shared.IdempotencyStore,
	checkout printing.CheckoutStore,
	config OrderServiceConfig,
	logger *zap.Logger,
) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxCommitRetries <= 0 {
		config.MaxCommitRetries = DefaultOrderServiceConfig().MaxCommitRetries
	}
	if config.IdempotencyTTL <= 0 {
		config.IdempotencyTTL = DefaultOrderServiceConfig().IdempotencyTTL
	}
	if config.CheckoutTTL <= 0 {
		config.CheckoutTTL = DefaultOrderServiceConfig().CheckoutTTL
	}
	return &OrderService{
		assembler:   assembler,
		pool:        pool,
		settings:    settings,
		rotation:    rotation,
		jobRepo:     jobRepo,
		verifier:    verifier,
		idempotency: idempotency,
		checkout:    checkout,
		config:      config,
		logger:      logger,
	}
}

// Quote prices and places an order against a snapshot of the rotation.
// Nothing is persisted and the shared rotation does not move.
func (s *OrderService) Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	input, err := s.buildInput(ctx, req)
	if err != nil {
		return nil, err
	}
	alloc, err := s.allocate(ctx, input)
	if err != nil {
		return nil, err
	}
	resp := ToQuoteResponse(alloc)
	return &resp, nil
}

// Checkout allocates the order and opens a gateway order for its total.
// The recorded total is what a later Commit must reproduce; the client's
// own figure is never trusted.
func (s *OrderService) Checkout(ctx context.Context, req QuoteRequest) (*CheckoutResponse, error) {
	input, err := s.buildInput(ctx, req)
	if err != nil {
		return nil, err
	}
	alloc, err := s.allocate(ctx, input)
	if err != nil {
		return nil, err
	}
	if !alloc.Placed() {
		return nil, &UnplaceableError{Failures: alloc.Failures}
	}

	gatewayOrderID := "order_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := s.checkout.Record(ctx, gatewayOrderID, alloc.Total, s.config.CheckoutTTL); err != nil {
		return nil, fmt.Errorf("failed to open checkout: %w", err)
	}

	s.logger.Info("Checkout opened",
		zap.String("gateway_order_id", gatewayOrderID),
		zap.String("total", alloc.Total.String()),
	)
	return &CheckoutResponse{
		GatewayOrderID: gatewayOrderID,
		Amount:         alloc.Total,
		ExpiresAt:      time.Now().Add(s.config.CheckoutTTL),
		Quote:          ToQuoteResponse(alloc),
	}, nil
}

// Commit verifies the payment, allocates the order and advances the shared
// rotation. The allocated total must equal the amount recorded when the
// gateway order was opened by Checkout. A conflicting concurrent commit causes a fresh snapshot and
// allocation, up to MaxCommitRetries attempts. Committing the same payment
// twice returns the jobs of the first commit.
func (s *OrderService) Commit(ctx context.Context, req CommitRequest) (*CommitResponse, error) {
	input, err := s.buildInput(ctx, req.QuoteRequest)
	if err != nil {
		return nil, err
	}

	if err := s.verifier.Verify(ctx, printing.PaymentConfirmation{
		GatewayOrderID: req.GatewayOrderID,
		PaymentID:      req.PaymentID,
		Signature:      req.Signature,
	}); err != nil {
		s.logger.Warn("Payment verification failed",
			zap.String("payment_id", req.PaymentID),
			zap.Error(err),
		)
		return nil, err
	}

	key := idempotencyKey(req.PaymentID)
	first, err := s.idempotency.MarkProcessed(ctx, key, s.config.IdempotencyTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to claim payment: %w", err)
	}
	if !first {
		return s.replay(ctx, req.PaymentID)
	}

	resp, err := s.commit(ctx, input, req)
	if err != nil {
		if relErr := s.idempotency.Release(context.WithoutCancel(ctx), key); relErr != nil {
			s.logger.Error("Failed to release payment claim",
				zap.String("payment_id", req.PaymentID),
				zap.Error(relErr),
			)
		}
		return nil, err
	}
	return resp, nil
}

func (s *OrderService) commit(ctx context.Context, input OrderInput, req CommitRequest) (*CommitResponse, error) {
	paid, err := s.checkout.Amount(ctx, req.GatewayOrderID)
	if errors.Is(err, shared.ErrNotFound) {
		s.logger.Warn("Commit for unknown gateway order",
			zap.String("gateway_order_id", req.GatewayOrderID),
			zap.String("payment_id", req.PaymentID),
		)
		return nil, ErrUnknownCheckout
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load checkout: %w", err)
	}

	for attempt := 1; attempt <= s.config.MaxCommitRetries; attempt++ {
		alloc, err := s.allocate(ctx, input)
		if err != nil {
			return nil, err
		}
		if !alloc.Placed() {
			return nil, &UnplaceableError{Failures: alloc.Failures}
		}
		if !alloc.Total.Equal(paid) {
			s.logger.Warn("Paid amount differs from order total",
				zap.String("payment_id", req.PaymentID),
				zap.String("gateway_order_id", req.GatewayOrderID),
				zap.String("paid", paid.String()),
				zap.String("total", alloc.Total.String()),
			)
			return nil, ErrPriceMismatch
		}

		err = s.rotation.CompareAndAdvance(ctx, alloc.Advances)
		if errors.Is(err, printing.ErrRotationConflict) {
			s.logger.Debug("Rotation changed during commit, retrying",
				zap.String("payment_id", req.PaymentID),
				zap.Int("attempt", attempt),
			)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to advance rotation: %w", err)
		}

		return s.persist(ctx, alloc, req)
	}
	s.logger.Warn("Giving up commit after rotation conflicts",
		zap.String("payment_id", req.PaymentID),
		zap.Int("attempts", s.config.MaxCommitRetries),
	)
	return nil, printing.ErrRotationConflict
}

func (s *OrderService) persist(ctx context.Context, alloc printing.OrderAllocation, req CommitRequest) (*CommitResponse, error) {
	orderID := uuid.New().String()
	jobs := make([]*printing.PrintJob, 0, len(alloc.Jobs))
	for _, aj := range alloc.Jobs {
		job, err := printing.NewPrintJobFromAllocation(orderID, aj, req.PaymentID, req.PhoneNumber)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := s.jobRepo.SaveBatch(ctx, jobs); err != nil {
		// The rotation already moved; the next order simply starts one printer later.
		s.logger.Error("Failed to save jobs after rotation advanced",
			zap.String("order_id", orderID),
			zap.String("payment_id", req.PaymentID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to save print jobs: %w", err)
	}

	s.logger.Info("Order committed",
		zap.String("order_id", orderID),
		zap.String("payment_id", req.PaymentID),
		zap.Int("jobs", len(jobs)),
		zap.String("total", alloc.Total.String()),
	)
	return &CommitResponse{
		OrderID: orderID,
		Jobs:    printjob.ToJobResponses(jobs),
		Total:   alloc.Total,
	}, nil
}

func (s *OrderService) replay(ctx context.Context, paymentID string) (*CommitResponse, error) {
	jobs, err := s.jobRepo.FindByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load committed jobs: %w", err)
	}
	if len(jobs) == 0 {
		return nil, ErrPaymentInProgress
	}
	resp := &CommitResponse{
		OrderID:  jobs[0].OrderID,
		Jobs:     printjob.ToJobResponses(jobs),
		Replayed: true,
	}
	for _, j := range jobs {
		resp.Total = resp.Total.Add(j.Cost)
	}
	return resp, nil
}

// Jobs lists the jobs of a committed order
func (s *OrderService) Jobs(ctx context.Context, orderID string) ([]printjob.JobResponse, error) {
	jobs, err := s.jobRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order jobs: %w", err)
	}
	if len(jobs) == 0 {
		return nil, shared.ErrNotFound
	}
	return printjob.ToJobResponses(jobs), nil
}

func (s *OrderService) allocate(ctx context.Context, input OrderInput) (printing.OrderAllocation, error) {
	schedule, err := s.settings.GetPricing(ctx)
	if err != nil {
		return printing.OrderAllocation{}, fmt.Errorf("failed to load pricing: %w", err)
	}
	pool, err := s.pool.Pool(ctx)
	if err != nil {
		return printing.OrderAllocation{}, fmt.Errorf("failed to load printer pool: %w", err)
	}
	rotation, err := s.rotation.Snapshot(ctx)
	if err != nil {
		return printing.OrderAllocation{}, fmt.Errorf("failed to read rotation: %w", err)
	}
	return s.assembler.Assemble(input, pool, schedule, rotation), nil
}

func (s *OrderService) buildInput(ctx context.Context, req QuoteRequest) (OrderInput, error) {
	if len(req.Files) == 0 {
		return OrderInput{}, shared.NewDomainError("EMPTY_ORDER", "Order has no files")
	}
	sizes, err := s.settings.GetPaperSizes(ctx)
	if err != nil {
		return OrderInput{}, fmt.Errorf("failed to load paper sizes: %w", err)
	}
	return BuildInput(req, sizes)
}

// BuildInput validates a request against the enabled paper sizes and builds
// the domain order
func BuildInput(req QuoteRequest, sizes printing.PaperSizeAvailability) (OrderInput, error) {
	if len(req.Files) == 0 {
		return OrderInput{}, shared.NewDomainError("EMPTY_ORDER", "Order has no files")
	}
	binding := printing.BindingMode(req.Binding)
	if binding == "" {
		binding = printing.BindingNone
	}
	if !binding.IsValid() {
		return OrderInput{}, shared.NewDomainError("INVALID_BINDING", "Invalid binding: "+req.Binding)
	}

	input := OrderInput{
		Files:        make([]printing.FileSpec, 0, len(req.Files)),
		Binding:      binding,
		BindSelector: req.BindFiles,
		EditService:  req.EditService,
	}
	seen := make(map[string]bool, len(req.Files))
	for _, f := range req.Files {
		if seen[f.ID] {
			return OrderInput{}, shared.NewDomainError("DUPLICATE_FILE", "Duplicate file id: "+f.ID)
		}
		seen[f.ID] = true

		file, err := f.ToFileSpec()
		if err != nil {
			return OrderInput{}, err
		}
		if !sizes.Enabled(file.PaperSize()) {
			return OrderInput{}, shared.NewDomainError(ErrPaperSizeUnavailable.Code,
				"Paper size "+string(file.PaperSize())+" is not available")
		}
		input.Files = append(input.Files, file)
	}
	return input, nil
}

func idempotencyKey(paymentID string) string {
	return "payment:" + paymentID
}
