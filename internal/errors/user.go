package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to their user-facing messages.
// Using a slice (not a map) because errors.Is() requires proper error chain traversal.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	{
		err: ErrPipelineFailed,
		info: ErrorInfo{
			Message: "The quality gate pipeline failed.",
			Action:  "Inspect the CSV and log files in the reports directory for the failing checks.",
		},
	},
	{
		err: ErrStageLaunch,
		info: ErrorInfo{
			Message: "A required external tool could not be started.",
			Action:  "Run 'qgate doctor' to see which tools are missing from PATH.",
		},
	},
	{
		err: ErrEmptyCommand,
		info: ErrorInfo{
			Message: "A stage has no command configured.",
			Action:  "Check the 'stages' section in .qgate/config.yaml.",
		},
	},
	{
		err: ErrCloneFailed,
		info: ErrorInfo{
			Message: "Could not clone the repository given by REPO_URL.",
			Action:  "Verify the URL, your network access and credentials.",
		},
	},
	{
		err: ErrSourceNotFound,
		info: ErrorInfo{
			Message: "No source tree was found to analyze.",
			Action:  "Run from a project containing a 'src' directory or set REPO_URL.",
		},
	},
	{
		err: ErrReportWrite,
		info: ErrorInfo{
			Message: "A report file could not be written.",
			Action:  "Check permissions and free space for the reports directory.",
		},
	},
	{
		err: ErrConfigNil,
		info: ErrorInfo{
			Message: "Configuration is not loaded.",
			Action:  "Ensure .qgate/config.yaml is valid YAML.",
		},
	},
	{
		err: ErrConfigInvalidSource,
		info: ErrorInfo{
			Message: "Invalid source configuration.",
			Action:  "Check the 'source' section in .qgate/config.yaml.",
		},
	},
	{
		err: ErrConfigInvalidReports,
		info: ErrorInfo{
			Message: "Invalid reports configuration.",
			Action:  "Check the 'reports' section in .qgate/config.yaml.",
		},
	},
	{
		err: ErrConfigInvalidStages,
		info: ErrorInfo{
			Message: "Invalid stage command configuration.",
			Action:  "Every stage needs a program name; check the 'stages' section.",
		},
	},
	{
		err: ErrConfigInvalidAggregate,
		info: ErrorInfo{
			Message: "Invalid aggregate pipeline configuration.",
			Action:  "Each entry in 'aggregate.pipelines' needs a name and a command.",
		},
	},
	{
		err: ErrNoPipelines,
		info: ErrorInfo{
			Message: "No sibling pipelines are configured.",
			Action:  "Add entries under 'aggregate.pipelines' in .qgate/config.yaml.",
		},
	},
	{
		err: ErrSummaryNotFound,
		info: ErrorInfo{
			Message: "No pipeline summary exists yet.",
			Action:  "Run 'qgate run' first.",
		},
	},
}

//nolint:gochecknoglobals // Pre-built mapping for O(1) lookup performance
var errorInfoMap = buildErrorInfoMap()

func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error.
// It first tries a direct map lookup for unwrapped sentinel errors,
// then falls back to errors.Is() traversal for wrapped errors.
func getErrorInfo(err error) ErrorInfo {
	if info, ok := errorInfoMap[err]; ok {
		return info
	}

	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}

	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve or work around the issue.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
