package models

import (
	"time"
)

// DateLayout is the calendar date format used by catalog entries
const DateLayout = "2006-01-02"

// Project is a portfolio project shown on the projects pages
type Project struct {
	ID              int      `json:"id" yaml:"id"`
	Slug            string   `json:"slug" yaml:"-"`
	Title           string   `json:"title" yaml:"title"`
	Description     string   `json:"description" yaml:"description"`
	LongDescription string   `json:"longDescription,omitempty" yaml:"longDescription"`
	Image           string   `json:"image,omitempty" yaml:"image"`
	Status          string   `json:"status,omitempty" yaml:"status"`
	StartDate       string   `json:"startDate,omitempty" yaml:"startDate"`
	EndDate         string   `json:"endDate,omitempty" yaml:"endDate"`
	Categories      []string `json:"categories" yaml:"categories"`
	Tools           []string `json:"tools" yaml:"tools"`
	Takeaways       []string `json:"takeaways,omitempty" yaml:"takeaways"`
	GithubURL       string   `json:"githubUrl,omitempty" yaml:"githubUrl"`
	LiveURL         string   `json:"liveUrl,omitempty" yaml:"liveUrl"`
	DateRange       string   `json:"dateRange,omitempty" yaml:"-"`
}

// Experience is a position shown on the experience page
type Experience struct {
	ID              string   `json:"id" yaml:"id"`
	Title           string   `json:"title" yaml:"title"`
	Company         string   `json:"company" yaml:"company"`
	Location        string   `json:"location" yaml:"location"`
	StartDate       string   `json:"startDate" yaml:"startDate"`
	EndDate         string   `json:"endDate,omitempty" yaml:"endDate"`
	Description     string   `json:"description" yaml:"description"`
	LongDescription string   `json:"longDescription" yaml:"longDescription"`
	Image           string   `json:"image,omitempty" yaml:"image"`
	Status          string   `json:"status" yaml:"status"`
	Categories      []string `json:"categories" yaml:"categories"`
	Tools           []string `json:"tools" yaml:"tools"`
	Achievements    []string `json:"achievements" yaml:"achievements"`
	GithubURL       string   `json:"githubUrl,omitempty" yaml:"githubUrl"`
	LiveURL         string   `json:"liveUrl,omitempty" yaml:"liveUrl"`
	WebsiteURL      string   `json:"websiteUrl,omitempty" yaml:"websiteUrl"`
	DateRange       string   `json:"dateRange,omitempty" yaml:"-"`
}

// CatalogQuery filters catalog listings. An empty Query matches everything;
// an empty Tag disables tag filtering.
type CatalogQuery struct {
	Query string `form:"q" binding:"max=200"`
	Tag   string `form:"tag" binding:"max=100"`
}

// ProjectListResponse is returned by the project listing endpoint
type ProjectListResponse struct {
	Projects []Project `json:"projects"`
	Tags     []string  `json:"tags"`
	Total    int       `json:"total"`
}

// ExperienceListResponse is returned by the experience listing endpoint
type ExperienceListResponse struct {
	Experience []Experience `json:"experience"`
	Tags       []string     `json:"tags"`
	Total      int          `json:"total"`
}

// FormatDateRange renders "Feb 2025 - Present" for open ranges, a single
// month when both ends fall in the same month, and "Feb 2025 - May 2025"
// otherwise. Unparsable dates are returned as given.
func FormatDateRange(startDate, endDate string) string {
	start := formatMonth(startDate)
	if endDate == "" {
		return start + " - Present"
	}

	end := formatMonth(endDate)
	if start == end {
		return start
	}
	return start + " - " + end
}

func formatMonth(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2006")
}
