package company

import (
	"context"
	"strings"

	"salescrm/internal/domain"
	"salescrm/internal/pkg/validator"
	"salescrm/internal/repository"
)

type Service struct {
	companies *repository.CompanyRepository
}

func NewService(companies *repository.CompanyRepository) *Service {
	return &Service{companies: companies}
}

func (s *Service) CreateCompany(ctx context.Context, req CreateCompanyRequest, ownerID int64) (*domain.Company, error) {
	c := &domain.Company{
		Name:     strings.TrimSpace(req.Name),
		Industry: req.Industry,
		Website:  req.Website,
		Phone:    req.Phone,
		Address:  req.Address,
		OwnerID:  ownerID,
	}
	if errs := validator.Validate(c); errs != nil {
		return nil, ErrValidation
	}
	if err := s.companies.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) GetCompany(ctx context.Context, id int64) (*domain.Company, error) {
	c, err := s.companies.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *Service) ListCompanies(ctx context.Context, search string, limit, offset int) ([]domain.Company, int64, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.companies.List(ctx, search, limit, offset)
}

func (s *Service) UpdateCompany(ctx context.Context, id int64, req UpdateCompanyRequest) (*domain.Company, error) {
	c, err := s.companies.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}

	if req.Name != "" {
		c.Name = strings.TrimSpace(req.Name)
	}
	if req.Industry != nil {
		c.Industry = *req.Industry
	}
	if req.Website != nil {
		c.Website = *req.Website
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.Address != nil {
		c.Address = *req.Address
	}

	if err := s.companies.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) DeleteCompany(ctx context.Context, id int64) error {
	if _, err := s.companies.GetByID(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrCompanyNotFound
		}
		return err
	}
	return s.companies.Delete(ctx, id)
}
