package match

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/apply-pilot/internal/types"
)

func job(reqs ...string) *types.JobPosting {
	return &types.JobPosting{
		ID:           "j1",
		Title:        "Backend Engineer",
		Company:      "Acme",
		Requirements: reqs,
	}
}

// TestScore_Base verifies the score with no matches is the base
func TestScore_Base(t *testing.T) {
	cv := &types.CVProfile{Skills: []string{"go", "postgres"}}
	assert.Equal(t, 70, Score(cv, job("kubernetes", "terraform")))
}

// TestScore_PerMatchBonus verifies +10 per matched requirement
func TestScore_PerMatchBonus(t *testing.T) {
	cv := &types.CVProfile{Skills: []string{"Go", "PostgreSQL"}}

	assert.Equal(t, 80, Score(cv, job("go")))
	assert.Equal(t, 90, Score(cv, job("go", "postgresql")))
}

// TestScore_Clamped verifies the 98 cap
func TestScore_Clamped(t *testing.T) {
	cv := &types.CVProfile{Skills: []string{"go"}}
	j := job("go services", "go tooling", "go apis", "go infra", "go everything")
	assert.Equal(t, 98, Score(cv, j))
}

// TestScore_Monotonic verifies score increases with match count until the cap
func TestScore_Monotonic(t *testing.T) {
	cv := &types.CVProfile{Skills: []string{"go"}}
	prev := 0
	for n := 0; n <= 5; n++ {
		reqs := make([]string, n)
		for i := range reqs {
			reqs[i] = "go"
		}
		score := Score(cv, job(reqs...))
		assert.GreaterOrEqual(t, score, prev)
		assert.GreaterOrEqual(t, score, 70)
		assert.LessOrEqual(t, score, 98)
		prev = score
	}
}

// TestScore_CaseInsensitive verifies matching is case-insensitive both ways
func TestScore_CaseInsensitive(t *testing.T) {
	cv := &types.CVProfile{Skills: []string{"TypeScript"}}
	assert.Equal(t, 80, Score(cv, job("typescript experience")))
}

// TestMatchedRequirements_Order verifies matches preserve requirement order
func TestMatchedRequirements_Order(t *testing.T) {
	cv := &types.CVProfile{Skills: []string{"go", "sql"}}
	matched := MatchedRequirements(cv, job("sql fluency", "kubernetes", "go services"))
	assert.Equal(t, []string{"sql fluency", "go services"}, matched)
}

// TestCoverLetter_ReferencesCompany verifies the non-empty contract
func TestCoverLetter_ReferencesCompany(t *testing.T) {
	profile := &types.UserProfile{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		CV:       types.CVProfile{Skills: []string{"go"}},
	}
	letter := CoverLetter(profile, job("go services"))

	assert.NotEmpty(t, letter)
	assert.True(t, strings.Contains(letter, "Acme"))
	assert.True(t, strings.Contains(letter, "Jane Doe"))
}

// TestCoverLetter_Deterministic verifies two calls produce identical text
func TestCoverLetter_Deterministic(t *testing.T) {
	profile := &types.UserProfile{FullName: "Jane Doe", Email: "jane@example.com"}
	j := job("go")
	assert.Equal(t, CoverLetter(profile, j), CoverLetter(profile, j))
}
