package audit

import (
	"context"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// Auditor applies declaration checks to Python files.
type Auditor struct {
	checks   []Check
	progress ProgressManager
}

// NewAuditor creates an Auditor with the default checks and no progress output.
func NewAuditor() *Auditor {
	return &Auditor{checks: DefaultChecks(), progress: NoOpProgressManager{}}
}

// SetProgress configures where audit progress is reported.
func (a *Auditor) SetProgress(pm ProgressManager) {
	if pm == nil {
		pm = NoOpProgressManager{}
	}
	a.progress = pm
}

// AuditFiles audits every file in order. A file that cannot be read or parsed
// contributes exactly one violation with Symbol "<parse>" and the audit moves on.
func (a *Auditor) AuditFiles(ctx context.Context, files []string) []Violation {
	log := zerolog.Ctx(ctx).With().Str("component", "audit").Logger()

	parser := NewParser()
	defer parser.Close()

	task := a.progress.StartTask("Auditing declarations", len(files))
	defer task.Complete()

	var violations []Violation
	for _, file := range files {
		task.Describe(filepath.Base(file))

		found := a.auditFile(ctx, parser, file)
		if len(found) > 0 {
			log.Debug().Str("file", file).Int("violations", len(found)).Msg("declaration violations")
		}
		violations = append(violations, found...)

		task.Increment(1)
	}

	log.Info().Int("files", len(files)).Int("violations", len(violations)).Msg("declaration audit complete")
	return violations
}

func (a *Auditor) auditFile(ctx context.Context, parser *Parser, file string) []Violation {
	source, err := os.ReadFile(file) //nolint:gosec // file comes from the source walk
	if err != nil {
		return []Violation{parseViolation(file, err.Error())}
	}
	return a.auditSource(ctx, parser, file, source)
}

// AuditSource audits one file's contents.
func (a *Auditor) AuditSource(ctx context.Context, file string, source []byte) []Violation {
	parser := NewParser()
	defer parser.Close()
	return a.auditSource(ctx, parser, file, source)
}

func (a *Auditor) auditSource(ctx context.Context, parser *Parser, file string, source []byte) []Violation {
	if !utf8.Valid(source) {
		return []Violation{parseViolation(file, "file is not valid UTF-8")}
	}

	decls, err := parser.Parse(ctx, source)
	if err != nil {
		return []Violation{parseViolation(file, err.Error())}
	}

	v := &checkVisitor{checks: a.checks}
	Walk(file, decls, v)
	return v.violations
}

func parseViolation(file, msg string) Violation {
	return Violation{File: file, Symbol: ParseSymbol, Issue: "Parse error: " + msg}
}
