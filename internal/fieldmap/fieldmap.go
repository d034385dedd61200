// Package fieldmap maps form-input descriptors to canonical profile
// field names using a fixed variant table.
package fieldmap

import "strings"

// Descriptor carries the identifying attributes of one form input as
// seen in the page DOM.
type Descriptor struct {
	ID          string
	Name        string
	Placeholder string
	AriaLabel   string
	LabelText   string
}

// Haystack builds the lowercase concatenation the variant table is
// tested against.
func (d Descriptor) Haystack() string {
	return strings.ToLower(strings.Join([]string{
		d.ID, d.Name, d.Placeholder, d.AriaLabel, d.LabelText,
	}, " "))
}

// variants maps each canonical profile field to the strings that
// identify it in the wild. Order matters: the first canonical field
// whose variant list matches wins.
var variants = []struct {
	canonical string
	matches   []string
}{
	{"full_name", []string{"full name", "full_name", "fullname", "your name", "first and last", "name"}},
	{"email", []string{"email", "e-mail", "email_address"}},
	{"phone", []string{"phone", "phone_number", "mobile", "telephone", "cell"}},
	{"location", []string{"location", "city", "address", "where are you based"}},
	{"linkedin", []string{"linkedin", "linked_in", "linkedin_url"}},
	{"portfolio", []string{"portfolio", "website", "personal site", "github", "url"}},
}

// Match returns the canonical profile field for a form input, or false
// when no variant matches. Inputs with no match are left untouched by
// the dispatchers.
func Match(d Descriptor) (string, bool) {
	haystack := d.Haystack()
	if strings.TrimSpace(haystack) == "" {
		return "", false
	}
	for _, v := range variants {
		for _, m := range v.matches {
			if strings.Contains(haystack, m) {
				return v.canonical, true
			}
		}
	}
	return "", false
}

// Canonical lists the canonical field names in matching-priority order.
func Canonical() []string {
	names := make([]string, len(variants))
	for i, v := range variants {
		names[i] = v.canonical
	}
	return names
}
