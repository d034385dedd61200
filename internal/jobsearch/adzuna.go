// Package jobsearch queries the upstream job-search API and normalizes
// its results into job postings.
package jobsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jonathan/apply-pilot/internal/classify"
	"github.com/jonathan/apply-pilot/internal/cvparse"
	"github.com/jonathan/apply-pilot/internal/match"
	"github.com/jonathan/apply-pilot/internal/types"
)

const defaultBaseURL = "https://api.adzuna.com/v1/api"

// Client is an Adzuna job-search API client.
type Client struct {
	appID      string
	appKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a job-search client with the given credentials.
func NewClient(appID, appKey string) *Client {
	return &Client{
		appID:   appID,
		appKey:  appKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// searchResponse mirrors the subset of the upstream payload we consume.
type searchResponse struct {
	Results []struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Company struct {
			DisplayName string `json:"display_name"`
		} `json:"company"`
		Location struct {
			DisplayName string `json:"display_name"`
		} `json:"location"`
		RedirectURL  string  `json:"redirect_url"`
		SalaryMin    float64 `json:"salary_min"`
		SalaryMax    float64 `json:"salary_max"`
		Description  string  `json:"description"`
		ContractTime string  `json:"contract_time"`
	} `json:"results"`
}

// Search queries postings matching the given role and location, tagging
// each result with its application type and, when a CV is provided, a
// match score.
func (c *Client) Search(ctx context.Context, what, where string, cv *types.CVProfile) ([]types.JobPosting, error) {
	endpoint := fmt.Sprintf("%s/jobs/gb/search/1?%s", c.baseURL, url.Values{
		"app_id":           {c.appID},
		"app_key":          {c.appKey},
		"what":             {what},
		"where":            {where},
		"results_per_page": {"20"},
		"content-type":     {"application/json"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("job search request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("job search returned status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	postings := make([]types.JobPosting, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		posting := types.JobPosting{
			ID:           r.ID,
			Title:        r.Title,
			Company:      r.Company.DisplayName,
			URL:          r.RedirectURL,
			Location:     r.Location.DisplayName,
			SalaryMin:    r.SalaryMin,
			SalaryMax:    r.SalaryMax,
			JobType:      r.ContractTime,
			Description:  r.Description,
			Requirements: cvparse.ExtractSkills(r.Description),
		}
		posting.ApplicationType = classify.Classify(&posting)
		if cv != nil {
			posting.MatchScore = match.Score(cv, &posting)
		}
		postings = append(postings, posting)
	}
	return postings, nil
}
