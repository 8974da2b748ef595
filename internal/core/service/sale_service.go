package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/salesdesk/sales-management/internal/core/domain"
	"github.com/salesdesk/sales-management/internal/core/ports"
)

type SaleService struct {
	repo      ports.SaleRepository
	customers ports.CustomerDirectory
	idem      ports.IdempotencyStore
	logger    zerolog.Logger
	now       func() time.Time
}

// NewSaleService wires the sale use cases. idem may be nil, in which case
// Idempotency-Key headers are ignored.
func NewSaleService(repo ports.SaleRepository, customers ports.CustomerDirectory, idem ports.IdempotencyStore, logger zerolog.Logger) *SaleService {
	return &SaleService{repo: repo, customers: customers, idem: idem, logger: logger, now: time.Now}
}

// CreateSale records a sale. The idempotency key is claimed before the sale
// is written, so concurrent retries produce one sale: later callers get the
// first sale back, or ErrIdempotencyInFlight while it is still being stored.
func (s *SaleService) CreateSale(ctx context.Context, input ports.CreateSaleInput) (*ports.CreateSaleResult, error) {
	status := domain.SaleStatus(input.Status)
	if status == "" {
		status = domain.SaleStatusPending
	}
	total := domain.ProductsTotal(input.Products)
	if input.TotalAmount != nil {
		total = *input.TotalAmount
	}

	now := s.now().UTC()
	sale := &domain.Sale{
		CustomerID:    input.CustomerID,
		UserID:        input.UserID,
		Products:      input.Products,
		TotalAmount:   total,
		PaymentMethod: domain.PaymentMethod(input.PaymentMethod),
		Status:        status,
		StatusHistory: []domain.StatusChange{{Status: status, Date: now, Notes: "created"}},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := sale.Validate(); err != nil {
		return nil, err
	}

	key := input.IdempotencyKey
	if s.idem == nil {
		key = ""
	}
	if key != "" {
		claimed, saleID, err := s.idem.Claim(ctx, key)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency claim failed, creating without key")
			key = ""
		case !claimed:
			return s.replay(ctx, key, saleID)
		}
	}

	if err := s.repo.Create(ctx, sale); err != nil {
		s.logger.Error().Err(err).Msg("failed to create sale")
		if key != "" {
			if rerr := s.idem.Release(ctx, key); rerr != nil {
				s.logger.Warn().Err(rerr).Str("idempotency_key", key).Msg("could not release idempotency key")
			}
		}
		return nil, err
	}

	if key != "" {
		if err := s.idem.Complete(ctx, key, sale.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", key).Str("sale_id", sale.ID).Msg("could not record idempotency key")
		}
	}

	s.logger.Info().Str("sale_id", sale.ID).Str("customer_id", sale.CustomerID).Str("user_id", sale.UserID).Msg("sale created")
	return &ports.CreateSaleResult{Sale: sale}, nil
}

// replay answers a submission whose key was already claimed.
func (s *SaleService) replay(ctx context.Context, key, saleID string) (*ports.CreateSaleResult, error) {
	if saleID == "" {
		return nil, domain.ErrIdempotencyInFlight
	}
	existing, err := s.repo.FindByID(ctx, saleID)
	if errors.Is(err, domain.ErrSaleNotFound) {
		return nil, domain.ErrIdempotencyStale
	}
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("idempotency_key", key).Str("sale_id", saleID).Msg("idempotent replay")
	return &ports.CreateSaleResult{Sale: existing, Replayed: true}, nil
}

// GetSale returns the sale with its customer resolved. A customer that no
// longer exists yields a nil Customer; any other lookup failure is returned.
func (s *SaleService) GetSale(ctx context.Context, id string) (*domain.SaleDetail, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &domain.SaleDetail{Sale: *sale}
	customer, err := s.customers.Lookup(ctx, sale.CustomerID)
	switch {
	case err == nil:
		detail.Customer = customer
	case errors.Is(err, domain.ErrCustomerNotFound):
		s.logger.Warn().Str("sale_id", sale.ID).Str("customer_id", sale.CustomerID).Msg("sale references missing customer")
	default:
		return nil, err
	}
	return detail, nil
}

func (s *SaleService) ListSales(ctx context.Context, filter ports.SaleListFilter) (*domain.Page[*domain.Sale], error) {
	if err := validateSaleFilter(filter.Filter); err != nil {
		return nil, err
	}
	filter.Page = filter.Page.Normalize()

	sales, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if sales == nil {
		sales = []*domain.Sale{}
	}
	return &domain.Page[*domain.Sale]{Data: sales, Pagination: domain.NewPagination(total, filter.Page)}, nil
}

func (s *SaleService) UpdateSale(ctx context.Context, id string, input ports.UpdateSaleInput) (*domain.Sale, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.CustomerID != nil {
		sale.CustomerID = *input.CustomerID
	}
	if input.Products != nil {
		sale.Products = input.Products
		if input.TotalAmount == nil {
			sale.TotalAmount = domain.ProductsTotal(sale.Products)
		}
	}
	if input.TotalAmount != nil {
		sale.TotalAmount = *input.TotalAmount
	}
	if input.PaymentMethod != nil {
		sale.PaymentMethod = domain.PaymentMethod(*input.PaymentMethod)
	}

	now := s.now().UTC()
	var change *domain.StatusChange
	if input.Status != nil && domain.SaleStatus(*input.Status) != sale.Status {
		sale.Status = domain.SaleStatus(*input.Status)
		change = &domain.StatusChange{Status: sale.Status, Date: now, Notes: input.StatusNotes}
	}
	if err := sale.Validate(); err != nil {
		return nil, err
	}

	sale.UpdatedAt = now
	if err := s.repo.Update(ctx, sale, change); err != nil {
		return nil, err
	}
	if change != nil {
		sale.StatusHistory = append(sale.StatusHistory, *change)
		s.logger.Info().Str("sale_id", sale.ID).Str("status", string(sale.Status)).Msg("sale status changed")
	}
	return sale, nil
}

func (s *SaleService) DeleteSale(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("sale_id", id).Msg("sale deleted")
	return nil
}

func (s *SaleService) SalesByCustomer(ctx context.Context, customerID string) ([]*domain.Sale, error) {
	return s.findAll(ctx, domain.SaleFilter{CustomerID: customerID})
}

func (s *SaleService) SalesByUser(ctx context.Context, userID string) ([]*domain.Sale, error) {
	return s.findAll(ctx, domain.SaleFilter{UserID: userID})
}

func (s *SaleService) findAll(ctx context.Context, filter domain.SaleFilter) ([]*domain.Sale, error) {
	sales, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	if sales == nil {
		sales = []*domain.Sale{}
	}
	return sales, nil
}

func validateSaleFilter(f domain.SaleFilter) error {
	if f.Status != "" && !f.Status.Valid() {
		return domain.Invalid("status must be one of: pending completed cancelled")
	}
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return domain.Invalid("endDate must not be before startDate")
	}
	return nil
}
