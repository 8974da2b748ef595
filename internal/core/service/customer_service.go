package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/salesdesk/sales-management/internal/core/domain"
	"github.com/salesdesk/sales-management/internal/core/ports"
)

const searchLimit = 10

type CustomerService struct {
	repo   ports.CustomerRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewCustomerService(repo ports.CustomerRepository, logger zerolog.Logger) *CustomerService {
	return &CustomerService{repo: repo, logger: logger, now: time.Now}
}

func (s *CustomerService) CreateCustomer(ctx context.Context, input ports.CreateCustomerInput) (*domain.Customer, error) {
	now := s.now().UTC()
	c := &domain.Customer{
		Name:      strings.TrimSpace(input.Name),
		Email:     normalizeEmail(input.Email),
		Phone:     strings.TrimSpace(input.Phone),
		Company:   strings.TrimSpace(input.Company),
		Address:   strings.TrimSpace(input.Address),
		Notes:     []domain.Note{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info().Str("customer_id", c.ID).Msg("customer created")
	return c, nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CustomerService) ListCustomers(ctx context.Context, filter ports.CustomerListFilter) (*domain.Page[*domain.Customer], error) {
	filter.Page = filter.Page.Normalize()
	if filter.Filter.Email != "" {
		filter.Filter.Email = normalizeEmail(filter.Filter.Email)
	}

	customers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []*domain.Customer{}
	}
	return &domain.Page[*domain.Customer]{Data: customers, Pagination: domain.NewPagination(total, filter.Page)}, nil
}

func (s *CustomerService) SearchCustomers(ctx context.Context, query string) ([]*domain.Customer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.Invalid("query is required")
	}
	customers, err := s.repo.Search(ctx, query, searchLimit)
	if err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []*domain.Customer{}
	}
	return customers, nil
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, id string, input ports.UpdateCustomerInput) (*domain.Customer, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		c.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		c.Email = normalizeEmail(*input.Email)
	}
	if input.Phone != nil {
		c.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Company != nil {
		c.Company = strings.TrimSpace(*input.Company)
	}
	if input.Address != nil {
		c.Address = strings.TrimSpace(*input.Address)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	c.UpdatedAt = s.now().UTC()
	if err := s.repo.Replace(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CustomerService) DeleteCustomer(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("customer_id", id).Msg("customer deleted")
	return nil
}

// AddNote appends a note and re-saves the customer.
func (s *CustomerService) AddNote(ctx context.Context, customerID, content string) (*domain.Customer, error) {
	c, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if _, err := c.AddNote(uuid.NewString(), strings.TrimSpace(content), s.now().UTC()); err != nil {
		return nil, err
	}
	if err := s.repo.Replace(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CustomerService) UpdateNote(ctx context.Context, customerID, noteID, content string) (*domain.Customer, error) {
	c, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if _, err := c.UpdateNote(noteID, strings.TrimSpace(content), s.now().UTC()); err != nil {
		return nil, err
	}
	if err := s.repo.Replace(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CustomerService) DeleteNote(ctx context.Context, customerID, noteID string) error {
	c, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return err
	}
	if err := c.DeleteNote(noteID, s.now().UTC()); err != nil {
		return err
	}
	return s.repo.Replace(ctx, c)
}
