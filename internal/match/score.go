// Package match computes heuristic match scores between a candidate's
// parsed CV and a job posting, and produces cover-letter text.
package match

import (
	"fmt"
	"strings"

	"github.com/jonathan/apply-pilot/internal/types"
)

// Scoring constants. The score starts at the base and gains a fixed
// bonus per requirement matched by a CV skill, clamped to the cap.
const (
	baseScore     = 70
	perMatchBonus = 10
	maxScore      = 98
)

// Score computes a match percentage in [baseScore, maxScore] for a
// CV/job pair. A requirement counts as matched when its lowercase form
// is a substring match against any skill in the CV's skill set, in
// either direction. Deterministic and side-effect free.
func Score(cv *types.CVProfile, job *types.JobPosting) int {
	score := baseScore
	for _, req := range job.Requirements {
		if matchesAnySkill(req, cv.Skills) {
			score += perMatchBonus
		}
		if score >= maxScore {
			return maxScore
		}
	}
	return score
}

// MatchedRequirements returns the subset of job requirements matched by
// the CV's skills, preserving requirement order.
func MatchedRequirements(cv *types.CVProfile, job *types.JobPosting) []string {
	var matched []string
	for _, req := range job.Requirements {
		if matchesAnySkill(req, cv.Skills) {
			matched = append(matched, req)
		}
	}
	return matched
}

func matchesAnySkill(requirement string, skills []string) bool {
	req := strings.ToLower(strings.TrimSpace(requirement))
	if req == "" {
		return false
	}
	for _, skill := range skills {
		s := strings.ToLower(strings.TrimSpace(skill))
		if s == "" {
			continue
		}
		if strings.Contains(req, s) || strings.Contains(s, req) {
			return true
		}
	}
	return false
}

// CoverLetter produces deterministic cover-letter text for a posting.
// The only contract is a non-empty string referencing the company name;
// content quality is out of scope.
func CoverLetter(profile *types.UserProfile, job *types.JobPosting) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Dear %s Hiring Team,\n\n", job.Company)
	fmt.Fprintf(&b, "I am writing to apply for the %s position at %s.", job.Title, job.Company)

	if matched := MatchedRequirements(&profile.CV, job); len(matched) > 0 {
		fmt.Fprintf(&b, " My background aligns with your requirements, including %s.",
			strings.Join(matched, ", "))
	}

	fmt.Fprintf(&b, "\n\nI would welcome the opportunity to discuss how I can contribute to %s.\n\n", job.Company)
	fmt.Fprintf(&b, "Best regards,\n%s", profile.FullName)

	return b.String()
}
