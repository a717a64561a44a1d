package services

import (
	"context"

	"github.com/hh727w/portfolio-api/internal/models"
)

// ContactServiceInterface defines the interface for contact intake operations
type ContactServiceInterface interface {
	Submit(ctx context.Context, raw models.RawSubmission) error
}

// CatalogServiceInterface defines the interface for portfolio catalog operations
type CatalogServiceInterface interface {
	ListProjects(ctx context.Context, query models.CatalogQuery) (*models.ProjectListResponse, error)
	FeaturedProjects(ctx context.Context, limit int) ([]models.Project, error)
	GetProject(ctx context.Context, ref string) (*models.Project, error)
	ListExperience(ctx context.Context, query models.CatalogQuery) (*models.ExperienceListResponse, error)
	GetExperience(ctx context.Context, id string) (*models.Experience, error)
	IsReady() bool
}
