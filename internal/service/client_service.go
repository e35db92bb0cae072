package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"eventdesk/internal/apierror"
	"eventdesk/internal/dto"
	"eventdesk/internal/model"
	"eventdesk/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ClientService interface {
	Create(ctx context.Context, req dto.CreateClientRequest) (*dto.ClientResponse, error)
	Get(ctx context.Context, id uint) (*dto.ClientResponse, error)
	List(ctx context.Context, filter dto.ListFilter) (*dto.ClientListResponse, error)
	// Update applies req to the client. With full set (PUT) name, email and
	// phone must all be present.
	Update(ctx context.Context, id uint, req dto.UpdateClientRequest, full bool) (*dto.ClientResponse, error)
	Delete(ctx context.Context, id uint) error
}

type clientService struct {
	repo repository.ClientRepository
}

func NewClientService(repo repository.ClientRepository) ClientService {
	return &clientService{repo: repo}
}

var errClientNotFound = apierror.NotFound("Client not found")

func (s *clientService) Create(ctx context.Context, req dto.CreateClientRequest) (*dto.ClientResponse, error) {
	email := strings.TrimSpace(req.Email)
	if err := s.checkEmail(ctx, email, 0); err != nil {
		return nil, err
	}
	c := &model.Client{
		Name:    strings.TrimSpace(req.Name),
		Email:   email,
		Phone:   strings.TrimSpace(req.Phone),
		Address: req.Address,
		Company: req.Company,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, mapClientWriteErr(err)
	}
	log.Info().Uint("client_id", c.ID).Msg("client created")
	return clientToResponse(c), nil
}

func (s *clientService) Get(ctx context.Context, id uint) (*dto.ClientResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errClientNotFound
		}
		return nil, err
	}
	return clientToResponse(c), nil
}

func (s *clientService) List(ctx context.Context, filter dto.ListFilter) (*dto.ClientListResponse, error) {
	filter.Normalize()
	clients, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ClientResponse, len(clients))
	for i := range clients {
		data[i] = *clientToResponse(&clients[i])
	}
	return &dto.ClientListResponse{Results: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *clientService) Update(ctx context.Context, id uint, req dto.UpdateClientRequest, full bool) (*dto.ClientResponse, error) {
	if full {
		var missing []string
		if req.Name == nil {
			missing = append(missing, "name: this field is required")
		}
		if req.Email == nil {
			missing = append(missing, "email: this field is required")
		}
		if req.Phone == nil {
			missing = append(missing, "phone: this field is required")
		}
		if len(missing) > 0 {
			return nil, apierror.Validation("Invalid request body", missing...)
		}
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errClientNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if !strings.EqualFold(email, c.Email) {
			if err := s.checkEmail(ctx, email, c.ID); err != nil {
				return nil, err
			}
		}
		c.Email = email
	}
	if req.Phone != nil {
		c.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		c.Address = *req.Address
	}
	if req.Company != nil {
		c.Company = *req.Company
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, mapClientWriteErr(err)
	}
	return clientToResponse(c), nil
}

func (s *clientService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errClientNotFound
		}
		return err
	}
	log.Info().Uint("client_id", id).Msg("client deleted with its documents")
	return nil
}

func (s *clientService) checkEmail(ctx context.Context, email string, excludeID uint) error {
	taken, err := s.repo.EmailTaken(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apierror.Conflict("Client already exists", "email: client with this email already exists")
	}
	return nil
}

func mapClientWriteErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apierror.Conflict("Client already exists", "email: client with this email already exists")
	}
	return err
}

func clientToResponse(c *model.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Company:   c.Company,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}
