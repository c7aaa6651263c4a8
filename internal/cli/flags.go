package cli

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/tasuku43/ghpick/internal/domain/filter"
)

type issueFlags struct {
	since     string
	createdBy string
	assignee  string
	mentioned string
	milestone string
	labels    []string
	states    []string
}

func (f *issueFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.since, "since", "", "only issues updated since this ISO 8601 timestamp")
	fs.StringVar(&f.createdBy, "created-by", "", "filter by author login")
	fs.StringVarP(&f.assignee, "assignee", "a", "", "filter by assignee login")
	fs.StringVar(&f.mentioned, "mentioned", "", "filter by mentioned login")
	fs.StringVarP(&f.milestone, "milestone", "m", "", "filter by milestone number or title")
	fs.StringSliceVarP(&f.labels, "label", "l", nil, "filter by label (repeatable)")
	fs.StringSliceVarP(&f.states, "state", "s", nil, "open, closed (default: open)")
}

func (f *issueFlags) spec() filter.Spec {
	spec := filter.Spec{}
	spec.Set("since", f.since)
	spec.Set("createdBy", f.createdBy)
	spec.Set("assignee", f.assignee)
	spec.Set("mentioned", f.mentioned)
	spec.Set("milestone", f.milestone)
	spec.Set("labels", joinValues(f.labels, false))
	spec.Set("states", joinValues(f.states, true))
	return spec
}

type pullRequestFlags struct {
	base   string
	head   string
	labels []string
	states []string
}

func (f *pullRequestFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.base, "base", "B", "", "filter by base branch")
	fs.StringVarP(&f.head, "head", "H", "", "filter by head branch")
	fs.StringSliceVarP(&f.labels, "label", "l", nil, "filter by label (repeatable)")
	fs.StringSliceVarP(&f.states, "state", "s", nil, "open, closed, merged (default: open)")
}

func (f *pullRequestFlags) spec() filter.Spec {
	spec := filter.Spec{}
	spec.Set("baseRefName", f.base)
	spec.Set("headRefName", f.head)
	spec.Set("labels", joinValues(f.labels, false))
	spec.Set("states", joinValues(f.states, true))
	return spec
}

// joinValues drops blanks and joins with commas, which the filter builder
// reads back as a list.
func joinValues(values []string, upper bool) string {
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if upper {
			v = strings.ToUpper(v)
		}
		out = append(out, v)
	}
	return strings.Join(out, ",")
}
