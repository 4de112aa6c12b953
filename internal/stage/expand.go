package stage

import (
	"strings"

	"github.com/mrz1836/qgate/internal/constants"
)

// Vars holds the values substituted for stage command placeholders.
type Vars struct {
	Source  string
	Reports string
	JUnit   string
}

// Expand returns a copy of argv with {src}, {reports} and {junit} substituted.
func Expand(argv []string, vars Vars) []string {
	r := strings.NewReplacer(
		constants.PlaceholderSource, vars.Source,
		constants.PlaceholderReports, vars.Reports,
		constants.PlaceholderJUnit, vars.JUnit,
	)
	out := make([]string, len(argv))
	for i, arg := range argv {
		out[i] = r.Replace(arg)
	}
	return out
}
