package repository

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"github.com/hh727w/portfolio-api/internal/models"
	apperrors "github.com/hh727w/portfolio-api/pkg/errors"
	"github.com/hh727w/portfolio-api/pkg/logger"
	"github.com/hh727w/portfolio-api/pkg/slug"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var defaultCatalog []byte

// CatalogRepositoryInterface defines read access to the portfolio catalog.
type CatalogRepositoryInterface interface {
	Projects(ctx context.Context) ([]models.Project, error)
	ProjectByID(ctx context.Context, id int) (*models.Project, error)
	ProjectBySlug(ctx context.Context, slug string) (*models.Project, error)
	Experience(ctx context.Context) ([]models.Experience, error)
	ExperienceByID(ctx context.Context, id string) (*models.Experience, error)
	IsReady() bool
}

type catalogFile struct {
	Projects   []models.Project    `yaml:"projects"`
	Experience []models.Experience `yaml:"experience"`
}

// CatalogRepository serves the static portfolio catalog from memory
type CatalogRepository struct {
	mu         sync.RWMutex
	projects   []models.Project
	experience []models.Experience
	ready      bool
}

// NewCatalogRepository creates an empty repository; call Load or LoadDefault before use.
func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{}
}

// LoadDefault loads the catalog embedded in the binary
func (r *CatalogRepository) LoadDefault() error {
	return r.Load(defaultCatalog)
}

// Load parses a YAML catalog and replaces the current contents
func (r *CatalogRepository) Load(data []byte) error {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse catalog: %w", err)
	}

	if err := validateCatalog(file); err != nil {
		return err
	}

	for i := range file.Projects {
		p := &file.Projects[i]
		p.Slug = slug.Make(p.Title)
		if p.StartDate != "" {
			p.DateRange = models.FormatDateRange(p.StartDate, p.EndDate)
		}
	}
	for i := range file.Experience {
		e := &file.Experience[i]
		e.DateRange = models.FormatDateRange(e.StartDate, e.EndDate)
	}

	r.mu.Lock()
	r.projects = file.Projects
	r.experience = file.Experience
	r.ready = true
	r.mu.Unlock()

	logger.Info("Portfolio catalog loaded",
		zap.Int("projects", len(file.Projects)),
		zap.Int("experience", len(file.Experience)))
	return nil
}

func validateCatalog(file catalogFile) error {
	projectIDs := make(map[int]struct{}, len(file.Projects))
	projectSlugs := make(map[string]int, len(file.Projects))
	for _, p := range file.Projects {
		if p.Title == "" {
			return fmt.Errorf("project %d has no title", p.ID)
		}
		if _, dup := projectIDs[p.ID]; dup {
			return fmt.Errorf("duplicate project id %d", p.ID)
		}
		projectIDs[p.ID] = struct{}{}

		s := slug.Make(p.Title)
		if other, dup := projectSlugs[s]; dup {
			return fmt.Errorf("projects %d and %d share slug %q", other, p.ID, s)
		}
		projectSlugs[s] = p.ID
	}

	experienceIDs := make(map[string]struct{}, len(file.Experience))
	for _, e := range file.Experience {
		if e.ID == "" {
			return fmt.Errorf("experience entry %q has no id", e.Title)
		}
		if _, dup := experienceIDs[e.ID]; dup {
			return fmt.Errorf("duplicate experience id %q", e.ID)
		}
		experienceIDs[e.ID] = struct{}{}
	}
	return nil
}

// IsReady returns true once a catalog has been loaded
func (r *CatalogRepository) IsReady() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ready
}

// Projects returns a copy of all projects in catalog order
func (r *CatalogRepository) Projects(ctx context.Context) ([]models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.ready {
		return nil, apperrors.InternalError("catalog not loaded")
	}
	out := make([]models.Project, len(r.projects))
	copy(out, r.projects)
	return out, nil
}

// ProjectByID returns the project with the given id
func (r *CatalogRepository) ProjectByID(ctx context.Context, id int) (*models.Project, error) {
	projects, err := r.Projects(ctx)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		if projects[i].ID == id {
			return &projects[i], nil
		}
	}
	return nil, apperrors.NotFoundError(fmt.Sprintf("project %d", id))
}

// ProjectBySlug returns the project whose title slug matches
func (r *CatalogRepository) ProjectBySlug(ctx context.Context, projectSlug string) (*models.Project, error) {
	projects, err := r.Projects(ctx)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		if projects[i].Slug == projectSlug {
			return &projects[i], nil
		}
	}
	return nil, apperrors.NotFoundError(fmt.Sprintf("project %q", projectSlug))
}

// Experience returns a copy of all experience entries in catalog order
func (r *CatalogRepository) Experience(ctx context.Context) ([]models.Experience, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.ready {
		return nil, apperrors.InternalError("catalog not loaded")
	}
	out := make([]models.Experience, len(r.experience))
	copy(out, r.experience)
	return out, nil
}

// ExperienceByID returns the experience entry with the given id
func (r *CatalogRepository) ExperienceByID(ctx context.Context, id string) (*models.Experience, error) {
	entries, err := r.Experience(ctx)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].ID == id {
			return &entries[i], nil
		}
	}
	return nil, apperrors.NotFoundError(fmt.Sprintf("experience %q", id))
}
