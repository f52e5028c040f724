package directory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sandboxsec/awaretrack/internal/domain"
	"github.com/sandboxsec/awaretrack/internal/pkg/emailutil"
)

// Service implements directory business logic.
type Service struct {
	repo Repository
}

// NewService creates a directory service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateCampaign validates and persists a new campaign in active status.
func (s *Service) CreateCampaign(ctx context.Context, name, description string) (*domain.Campaign, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name", ErrMissingFields)
	}

	now := time.Now().UTC()
	c := &domain.Campaign{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Status:      domain.CampaignActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateCampaign(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetCampaign returns one campaign definition.
func (s *Service) GetCampaign(ctx context.Context, id string) (*domain.Campaign, error) {
	return s.repo.GetCampaign(ctx, id)
}

// ListCampaigns returns all campaign definitions, newest first.
func (s *Service) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	return s.repo.ListCampaigns(ctx)
}

// SetCampaignStatus moves a campaign between lifecycle states.
func (s *Service) SetCampaignStatus(ctx context.Context, id string, status domain.CampaignStatus) error {
	switch status {
	case domain.CampaignActive, domain.CampaignPaused, domain.CampaignArchived:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrMissingFields, status)
	}
	return s.repo.UpdateCampaignStatus(ctx, id, status)
}

// DeleteCampaign removes a campaign definition. Recorded clicks keep
// referencing the campaign by name, so history survives the delete.
func (s *Service) DeleteCampaign(ctx context.Context, id string) error {
	return s.repo.DeleteCampaign(ctx, id)
}

// CreateTemplate validates and persists a new email template.
func (s *Service) CreateTemplate(ctx context.Context, t domain.Template) (*domain.Template, error) {
	if strings.TrimSpace(t.Name) == "" || strings.TrimSpace(t.Body) == "" {
		return nil, fmt.Errorf("%w: name and body", ErrMissingFields)
	}

	now := time.Now().UTC()
	t.ID = uuid.New().String()
	t.CreatedAt = now
	t.UpdatedAt = now
	if err := s.repo.CreateTemplate(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTemplate returns one template.
func (s *Service) GetTemplate(ctx context.Context, id string) (*domain.Template, error) {
	return s.repo.GetTemplate(ctx, id)
}

// ListTemplates returns all templates.
func (s *Service) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	return s.repo.ListTemplates(ctx)
}

// UpdateTemplate replaces a template's mutable fields.
func (s *Service) UpdateTemplate(ctx context.Context, t domain.Template) error {
	if t.ID == "" || strings.TrimSpace(t.Name) == "" || strings.TrimSpace(t.Body) == "" {
		return fmt.Errorf("%w: id, name, and body", ErrMissingFields)
	}
	t.UpdatedAt = time.Now().UTC()
	return s.repo.UpdateTemplate(ctx, &t)
}

// DeleteTemplate removes one template.
func (s *Service) DeleteTemplate(ctx context.Context, id string) error {
	return s.repo.DeleteTemplate(ctx, id)
}

// AddEmployee validates and persists a roster entry.
func (s *Service) AddEmployee(ctx context.Context, e domain.Employee) (*domain.Employee, error) {
	if strings.TrimSpace(e.Name) == "" || strings.TrimSpace(e.Email) == "" {
		return nil, fmt.Errorf("%w: name and email", ErrMissingFields)
	}
	if !emailutil.Validate(e.Email) {
		return nil, fmt.Errorf("%w: invalid email %q", ErrMissingFields, e.Email)
	}

	e.ID = uuid.New().String()
	if err := s.repo.CreateEmployee(ctx, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// ListEmployees returns the full roster.
func (s *Service) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	return s.repo.ListEmployees(ctx)
}

// RemoveEmployee deletes one roster entry.
func (s *Service) RemoveEmployee(ctx context.Context, id string) error {
	return s.repo.DeleteEmployee(ctx, id)
}
