// Package classify assigns an application type to job postings based on
// attributes of the posting's source URL.
package classify

import (
	"net/url"
	"strings"

	"github.com/jonathan/apply-pilot/internal/types"
)

// rule maps a host fragment to an application type. Rules are checked
// in order; the first match wins.
type rule struct {
	hostContains string
	appType      types.ApplicationType
}

// ruleTable covers the job boards and applicant tracking systems the
// dispatchers know how to drive. Board-native flows (LinkedIn, Indeed,
// Xing) are easy-apply; single-page ATS forms (Greenhouse, Lever,
// Ashby) are simple forms; multi-step ATS portals (Workday, Taleo,
// iCIMS, SuccessFactors) are complex forms.
var ruleTable = []rule{
	{"linkedin.com", types.TypeEasyApply},
	{"indeed.com", types.TypeEasyApply},
	{"xing.com", types.TypeEasyApply},
	{"greenhouse.io", types.TypeFormSimple},
	{"lever.co", types.TypeFormSimple},
	{"ashbyhq.com", types.TypeFormSimple},
	{"workday.com", types.TypeFormComplex},
	{"myworkdayjobs.com", types.TypeFormComplex},
	{"taleo.net", types.TypeFormComplex},
	{"icims.com", types.TypeFormComplex},
	{"successfactors.com", types.TypeFormComplex},
}

// Classify assigns an application type to a job posting. It is pure,
// deterministic, and total: every posting maps to exactly one type,
// defaulting to unknown when no rule matches. A posting that already
// carries a valid tag keeps it.
func Classify(job *types.JobPosting) types.ApplicationType {
	if job.ApplicationType != "" && job.ApplicationType.Valid() {
		return job.ApplicationType
	}

	parsed, err := url.Parse(job.URL)
	if err != nil || parsed.Host == "" {
		return types.TypeUnknown
	}

	host := strings.ToLower(parsed.Host)
	for _, r := range ruleTable {
		if strings.Contains(host, r.hostContains) {
			return r.appType
		}
	}

	// Direct-API hosts advertise themselves by subdomain.
	if strings.HasPrefix(host, "api.") {
		return types.TypeAPIDirect
	}

	return types.TypeUnknown
}
