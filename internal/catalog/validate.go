package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/mod/semver"
)

// validateDocument performs all structural checks on a decoded catalog.
// Returns a combined error describing all problems found, or nil if valid.
func validateDocument(doc document) error {
	var errs []string

	if doc.Version == "" {
		errs = append(errs, "missing catalog version")
	} else if !semver.IsValid(doc.Version) {
		errs = append(errs, fmt.Sprintf("catalog version %q is not a semantic version (want vMAJOR.MINOR.PATCH)", doc.Version))
	}

	if len(doc.Questions) == 0 {
		errs = append(errs, "catalog has no questions")
	}

	seen := make(map[int]bool, len(doc.Questions))
	for i, r := range doc.Questions {
		if err := validate.Struct(r); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				for _, fe := range verrs {
					errs = append(errs, fmt.Sprintf("question #%d: field %s failed %q", i+1, fe.Field(), fe.Tag()))
				}
			} else {
				errs = append(errs, fmt.Sprintf("question #%d: %v", i+1, err))
			}
		}

		if r.ID > 0 {
			if seen[r.ID] {
				errs = append(errs, fmt.Sprintf("duplicate question ID: %d", r.ID))
			}
			seen[r.ID] = true
		}

		if r.Category != "" && !Category(r.Category).Valid() {
			errs = append(errs, fmt.Sprintf("question %d has unknown category %q", r.ID, r.Category))
		}
		if r.Level != "" && !Level(r.Level).Valid() {
			errs = append(errs, fmt.Sprintf("question %d has unknown level %q", r.ID, r.Level))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
