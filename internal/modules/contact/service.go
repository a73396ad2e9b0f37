package contact

import (
	"context"
	"strings"

	"salescrm/internal/domain"
	"salescrm/internal/pkg/validator"
	"salescrm/internal/repository"
)

type Service struct {
	contacts  *repository.ContactRepository
	companies *repository.CompanyRepository
}

func NewService(contacts *repository.ContactRepository, companies *repository.CompanyRepository) *Service {
	return &Service{contacts: contacts, companies: companies}
}

func (s *Service) CreateContact(ctx context.Context, req CreateContactRequest, ownerID int64) (*domain.Contact, error) {
	if req.CompanyID != nil {
		if _, err := s.companies.GetByID(ctx, *req.CompanyID); err != nil {
			if repository.IsNotFound(err) {
				return nil, ErrCompanyNotFound
			}
			return nil, err
		}
	}

	c := &domain.Contact{
		Name:      strings.TrimSpace(req.Name),
		Email:     req.Email,
		Phone:     req.Phone,
		Position:  req.Position,
		CompanyID: req.CompanyID,
		OwnerID:   ownerID,
		Notes:     req.Notes,
	}
	if errs := validator.Validate(c); errs != nil {
		return nil, ErrValidation
	}
	if err := s.contacts.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) GetContact(ctx context.Context, id int64) (*domain.Contact, error) {
	c, err := s.contacts.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *Service) ListContacts(ctx context.Context, search string, companyID int64, limit, offset int) ([]domain.Contact, int64, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.contacts.List(ctx, search, companyID, limit, offset)
}

func (s *Service) UpdateContact(ctx context.Context, id int64, req UpdateContactRequest) (*domain.Contact, error) {
	c, err := s.contacts.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}

	if req.Name != "" {
		c.Name = strings.TrimSpace(req.Name)
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.Position != nil {
		c.Position = *req.Position
	}
	if req.CompanyID != nil {
		if _, err := s.companies.GetByID(ctx, *req.CompanyID); err != nil {
			if repository.IsNotFound(err) {
				return nil, ErrCompanyNotFound
			}
			return nil, err
		}
		c.CompanyID = req.CompanyID
	}
	if req.Notes != nil {
		c.Notes = *req.Notes
	}

	if errs := validator.Validate(c); errs != nil {
		return nil, ErrValidation
	}
	if err := s.contacts.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) DeleteContact(ctx context.Context, id int64) error {
	if _, err := s.contacts.GetByID(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrContactNotFound
		}
		return err
	}
	return s.contacts.Delete(ctx, id)
}
