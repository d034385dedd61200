package types

import "strconv"

// JobPosting represents one job to be applied to. Immutable once
// fetched; produced by job search/matching, consumed by dispatch.
type JobPosting struct {
	ID              string          `json:"id" validate:"required"`
	Title           string          `json:"title" validate:"required"`
	Company         string          `json:"company" validate:"required"`
	URL             string          `json:"url" validate:"required,url"`
	Location        string          `json:"location,omitempty"`
	SalaryMin       float64         `json:"salary_min,omitempty"`
	SalaryMax       float64         `json:"salary_max,omitempty"`
	JobType         string          `json:"job_type,omitempty"`
	Description     string          `json:"description,omitempty"`
	Requirements    []string        `json:"requirements,omitempty"`
	MatchScore      int             `json:"match_score,omitempty"`
	ApplicationType ApplicationType `json:"application_type,omitempty"`
}

// SalaryRange formats the posting's salary band for display and record
// keeping. Empty when the posting carries no salary data.
func (j *JobPosting) SalaryRange() string {
	switch {
	case j.SalaryMin > 0 && j.SalaryMax > 0:
		return formatSalary(j.SalaryMin) + " - " + formatSalary(j.SalaryMax)
	case j.SalaryMin > 0:
		return "from " + formatSalary(j.SalaryMin)
	case j.SalaryMax > 0:
		return "up to " + formatSalary(j.SalaryMax)
	}
	return ""
}

func formatSalary(v float64) string {
	if v >= 1000 {
		return "$" + strconv.Itoa(int(v/1000)) + "k"
	}
	return "$" + strconv.Itoa(int(v))
}

// CVProfile is the parsed-CV subset of a user profile.
type CVProfile struct {
	Skills    []string `json:"skills"`
	Roles     []string `json:"roles"`
	Summary   string   `json:"summary,omitempty"`
	Seniority string   `json:"seniority,omitempty"`
}

// UserProfile is the application-facing subset of a user's profile.
// Read-only input to dispatch; owned by the user.
type UserProfile struct {
	FullName  string    `json:"full_name" validate:"required"`
	Email     string    `json:"email" validate:"required,email"`
	Phone     string    `json:"phone,omitempty"`
	Location  string    `json:"location,omitempty"`
	Portfolio string    `json:"portfolio,omitempty"`
	LinkedIn  string    `json:"linkedin,omitempty"`
	CV        CVProfile `json:"cv,omitempty"`
}

// Field returns the profile value for a canonical form-field name.
// Unknown names return the empty string, which dispatchers treat as
// "leave the input untouched".
func (p *UserProfile) Field(canonical string) string {
	switch canonical {
	case "full_name":
		return p.FullName
	case "email":
		return p.Email
	case "phone":
		return p.Phone
	case "location":
		return p.Location
	case "portfolio":
		return p.Portfolio
	case "linkedin":
		return p.LinkedIn
	}
	return ""
}
