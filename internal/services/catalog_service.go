package services

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/hh727w/portfolio-api/internal/cache"
	"github.com/hh727w/portfolio-api/internal/models"
	"github.com/hh727w/portfolio-api/internal/repository"
	"github.com/hh727w/portfolio-api/pkg/metrics"
)

// DefaultFeaturedLimit is the number of projects shown on the home page
const DefaultFeaturedLimit = 3

// CatalogService answers project and experience queries
type CatalogService struct {
	repo  repository.CatalogRepositoryInterface
	cache *cache.CatalogCache
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(repo repository.CatalogRepositoryInterface, catalogCache *cache.CatalogCache) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: catalogCache,
	}
}

func (s *CatalogService) IsReady() bool {
	return s.repo.IsReady()
}

func (s *CatalogService) ListProjects(ctx context.Context, query models.CatalogQuery) (*models.ProjectListResponse, error) {
	metrics.CatalogQueries.WithLabelValues("projects").Inc()

	key := cache.Key("projects", query.Query, query.Tag)
	return cache.GetOrLoad(s.cache, key, func() (*models.ProjectListResponse, error) {
		projects, err := s.repo.Projects(ctx)
		if err != nil {
			return nil, err
		}

		matched := SearchProjects(projects, query.Query, query.Tag)
		return &models.ProjectListResponse{
			Projects: matched,
			Tags:     ProjectTags(projects),
			Total:    len(matched),
		}, nil
	})
}

func (s *CatalogService) FeaturedProjects(ctx context.Context, limit int) ([]models.Project, error) {
	metrics.CatalogQueries.WithLabelValues("featured").Inc()

	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}

	projects, err := s.repo.Projects(ctx)
	if err != nil {
		return nil, err
	}
	return Featured(projects, limit), nil
}

// GetProject looks a project up by numeric id or by slug
func (s *CatalogService) GetProject(ctx context.Context, ref string) (*models.Project, error) {
	metrics.CatalogQueries.WithLabelValues("project").Inc()

	if id, err := strconv.Atoi(ref); err == nil {
		return s.repo.ProjectByID(ctx, id)
	}
	return s.repo.ProjectBySlug(ctx, strings.ToLower(ref))
}

func (s *CatalogService) ListExperience(ctx context.Context, query models.CatalogQuery) (*models.ExperienceListResponse, error) {
	metrics.CatalogQueries.WithLabelValues("experience").Inc()

	key := cache.Key("experience", query.Query, query.Tag)
	return cache.GetOrLoad(s.cache, key, func() (*models.ExperienceListResponse, error) {
		entries, err := s.repo.Experience(ctx)
		if err != nil {
			return nil, err
		}

		matched := SearchExperience(entries, query.Query, query.Tag)
		return &models.ExperienceListResponse{
			Experience: matched,
			Tags:       ExperienceTags(entries),
			Total:      len(matched),
		}, nil
	})
}

func (s *CatalogService) GetExperience(ctx context.Context, id string) (*models.Experience, error) {
	metrics.CatalogQueries.WithLabelValues("experience_entry").Inc()
	return s.repo.ExperienceByID(ctx, id)
}

// SearchProjects keeps projects whose title or description contains query
// (case-insensitive) and, when tag is set, whose categories include tag.
// Catalog order is preserved.
func SearchProjects(projects []models.Project, query, tag string) []models.Project {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []models.Project{}
	for _, p := range projects {
		if !matchesText(q, p.Title, p.Description) || !hasTag(p.Categories, tag) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SearchExperience is SearchProjects for experience entries; company names
// are searched too.
func SearchExperience(entries []models.Experience, query, tag string) []models.Experience {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []models.Experience{}
	for _, e := range entries {
		if !matchesText(q, e.Title, e.Description, e.Company) || !hasTag(e.Categories, tag) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ProjectTags returns the unique project categories in first-seen order
func ProjectTags(projects []models.Project) []string {
	var seen []string
	for _, p := range projects {
		seen = appendUnique(seen, p.Categories...)
	}
	return nonNil(seen)
}

// ExperienceTags returns the unique experience categories in first-seen order
func ExperienceTags(entries []models.Experience) []string {
	var seen []string
	for _, e := range entries {
		seen = appendUnique(seen, e.Categories...)
	}
	return nonNil(seen)
}

// Featured returns up to limit projects, most recent start date first.
// Projects without a start date sort last.
func Featured(projects []models.Project, limit int) []models.Project {
	sorted := slices.Clone(projects)
	// DateLayout sorts lexically in date order.
	slices.SortStableFunc(sorted, func(a, b models.Project) int {
		switch {
		case a.StartDate == b.StartDate:
			return 0
		case a.StartDate == "":
			return 1
		case b.StartDate == "":
			return -1
		default:
			return strings.Compare(b.StartDate, a.StartDate)
		}
	})

	if limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return nonNil(sorted)
}

func matchesText(query string, fields ...string) bool {
	if query == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

func hasTag(categories []string, tag string) bool {
	tag = strings.TrimSpace(tag)
	return tag == "" || slices.Contains(categories, tag)
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		if !slices.Contains(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
