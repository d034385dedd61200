package cvparse

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/apply-pilot/internal/types"
)

// skillDictionary lists the technologies the extractor recognizes.
// Matching is word-boundary based and case-insensitive; the canonical
// casing below is what ends up in the profile.
var skillDictionary = []string{
	"Go", "Golang", "Python", "Java", "JavaScript", "TypeScript", "Rust",
	"C++", "C#", "Ruby", "PHP", "Swift", "Kotlin", "Scala",
	"React", "Angular", "Vue", "Node.js", "Django", "Rails", "Spring",
	"SQL", "PostgreSQL", "MySQL", "MongoDB", "Redis", "Kafka",
	"Elasticsearch", "GraphQL", "gRPC", "REST",
	"AWS", "GCP", "Azure", "Docker", "Kubernetes", "Terraform",
	"Linux", "Git", "CI/CD", "HTML", "CSS",
}

// roleDictionary lists the job titles the extractor recognizes, longest
// first so "senior software engineer" wins over "software engineer".
var roleDictionary = []string{
	"Senior Software Engineer", "Staff Software Engineer",
	"Principal Engineer", "Software Engineer", "Backend Engineer",
	"Frontend Engineer", "Full Stack Developer", "Full Stack Engineer",
	"DevOps Engineer", "Site Reliability Engineer", "Data Engineer",
	"Data Scientist", "Machine Learning Engineer", "Engineering Manager",
	"Product Manager", "QA Engineer", "Web Developer",
	"Software Developer", "Mobile Developer",
}

var seniorityMarkers = []struct {
	marker string
	level  string
}{
	{"principal", "principal"},
	{"staff", "staff"},
	{"senior", "senior"},
	{"lead", "senior"},
	{"junior", "junior"},
	{"intern", "entry"},
	{"graduate", "entry"},
}

// Parse derives a structured candidate profile from extracted CV text.
func Parse(text string) types.CVProfile {
	return types.CVProfile{
		Skills:    ExtractSkills(text),
		Roles:     extractRoles(text),
		Summary:   summarize(text),
		Seniority: detectSeniority(text),
	}
}

// ExtractSkills returns the recognized technologies mentioned in the
// text, in dictionary order, deduplicated.
func ExtractSkills(text string) []string {
	lower := strings.ToLower(text)
	var skills []string
	seen := make(map[string]bool)
	for _, skill := range skillDictionary {
		canonical := skill
		if skill == "Golang" {
			// Golang is an alias; report it as Go.
			canonical = "Go"
		}
		key := strings.ToLower(canonical)
		if seen[key] {
			continue
		}
		if containsWord(lower, strings.ToLower(skill)) {
			skills = append(skills, canonical)
			seen[key] = true
		}
	}
	return skills
}

// containsWord tests a word-boundary match; symbols like "c++" fall
// back to plain substring search since \b does not apply.
func containsWord(haystack, needle string) bool {
	if regexp.QuoteMeta(needle) != needle {
		return strings.Contains(haystack, needle)
	}
	matched, err := regexp.MatchString(`\b`+needle+`\b`, haystack)
	return err == nil && matched
}

func extractRoles(text string) []string {
	lower := strings.ToLower(text)
	var roles []string
	seen := make(map[string]bool)
	for _, role := range roleDictionary {
		if strings.Contains(lower, strings.ToLower(role)) && !seen[role] {
			roles = append(roles, role)
			seen[role] = true
		}
	}
	return roles
}

func detectSeniority(text string) string {
	lower := strings.ToLower(text)
	for _, m := range seniorityMarkers {
		if strings.Contains(lower, m.marker) {
			return m.level
		}
	}
	return "mid"
}

// summarize returns the first paragraph of the CV, truncated to a
// display-friendly length.
func summarize(text string) string {
	const maxSummary = 280

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(strings.ReplaceAll(para, "\n", " "))
		if para == "" {
			continue
		}
		if len(para) > maxSummary {
			cut := maxSummary
			for cut > 0 && !utf8.RuneStart(para[cut]) {
				cut--
			}
			return para[:cut] + "..."
		}
		return para
	}
	return ""
}
