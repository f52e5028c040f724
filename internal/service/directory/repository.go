package directory

import (
	"context"

	"github.com/sandboxsec/awaretrack/internal/domain"
)

// CampaignRepository defines data access for campaign definitions.
// Implementations must be safe for concurrent use.
type CampaignRepository interface {
	// GetCampaign returns one campaign by id. Returns ErrNotFound if
	// it doesn't exist.
	GetCampaign(ctx context.Context, id string) (*domain.Campaign, error)

	// ListCampaigns returns all campaigns, newest first.
	ListCampaigns(ctx context.Context) ([]domain.Campaign, error)

	// CreateCampaign inserts a campaign. Returns ErrNameTaken when
	// the name is already used.
	CreateCampaign(ctx context.Context, c *domain.Campaign) error

	// UpdateCampaignStatus changes a campaign's lifecycle status.
	UpdateCampaignStatus(ctx context.Context, id string, status domain.CampaignStatus) error

	// DeleteCampaign removes a campaign definition. Click history for
	// the campaign is kept.
	DeleteCampaign(ctx context.Context, id string) error
}

// TemplateRepository defines data access for email templates.
type TemplateRepository interface {
	GetTemplate(ctx context.Context, id string) (*domain.Template, error)
	ListTemplates(ctx context.Context) ([]domain.Template, error)
	CreateTemplate(ctx context.Context, t *domain.Template) error
	UpdateTemplate(ctx context.Context, t *domain.Template) error
	DeleteTemplate(ctx context.Context, id string) error
}

// EmployeeRepository defines data access for the employee roster.
type EmployeeRepository interface {
	ListEmployees(ctx context.Context) ([]domain.Employee, error)
	CreateEmployee(ctx context.Context, e *domain.Employee) error
	DeleteEmployee(ctx context.Context, id string) error
}

// Repository bundles the three record stores behind one dependency.
type Repository interface {
	CampaignRepository
	TemplateRepository
	EmployeeRepository
}
