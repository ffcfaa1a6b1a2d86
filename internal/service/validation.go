package service

import (
	"strings"

	"github.com/Clark-Hu/cinema-catalog/internal/domain"
)

// violations collects rule failures in the order they are checked.
type violations []string

func (v *violations) check(ok bool, message string) {
	if !ok {
		*v = append(*v, message)
	}
}

func (v violations) err() error {
	if len(v) == 0 {
		return nil
	}
	return domain.NewValidationError(v...)
}

func hasText(s string) bool {
	return strings.TrimSpace(s) != ""
}

func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	val := strings.TrimSpace(*s)
	if val == "" {
		return nil
	}
	return &val
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
