package output

import (
	"regexp"
	"strings"
)

// modelIDs lists the Claude id layouts, newest first. The trailing
// YYYYMMDD snapshot date is optional.
var modelIDs = []struct {
	re      *regexp.Regexp
	family  int
	version []int
}{
	// claude-opus-4-1-20250805
	{regexp.MustCompile(`^claude-([a-z]+)-(\d{1,2})-(\d{1,2})(?:-\d{8})?$`), 1, []int{2, 3}},
	// claude-sonnet-4-20250514
	{regexp.MustCompile(`^claude-([a-z]+)-(\d{1,2})(?:-\d{8})?$`), 1, []int{2}},
	// claude-3-5-sonnet-20241022
	{regexp.MustCompile(`^claude-(\d{1,2})-(\d{1,2})-([a-z]+)(?:-\d{8})?$`), 3, []int{1, 2}},
	// claude-3-opus-20240229
	{regexp.MustCompile(`^claude-(\d{1,2})-([a-z]+)(?:-\d{8})?$`), 2, []int{1}},
}

const maxModelLabel = 12

// ShortenModelName turns a Claude model id into a label such as Opus-4.1
// or Sonnet-3.5. Unrecognised ids are cut to maxModelLabel bytes.
func ShortenModelName(model string) string {
	id := strings.ToLower(model)
	for _, m := range modelIDs {
		groups := m.re.FindStringSubmatch(id)
		if groups == nil {
			continue
		}
		parts := make([]string, 0, len(m.version))
		for _, i := range m.version {
			parts = append(parts, groups[i])
		}
		return title(groups[m.family]) + "-" + strings.Join(parts, ".")
	}

	if len(model) > maxModelLabel {
		return model[:maxModelLabel]
	}
	return model
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
