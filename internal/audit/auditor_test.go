package audit_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/qgate/internal/audit"
	"github.com/mrz1836/qgate/internal/testutil"
)

const cleanFunction = `def add(a: int, b: int) -> int:
    """Add two numbers. Args: a, b. Returns: the sum."""
    return a + b
`

func auditString(t *testing.T, src string) []audit.Violation {
	t.Helper()
	return audit.NewAuditor().AuditSource(testutil.TestContext(), "mod.py", []byte(src))
}

func issues(violations []audit.Violation) []string {
	out := make([]string, 0, len(violations))
	for _, v := range violations {
		out = append(out, v.Symbol+": "+v.Issue)
	}
	return out
}

func TestAuditSource_CleanDeclarationHasNoViolations(t *testing.T) {
	t.Parallel()
	assert.Empty(t, auditString(t, cleanFunction))
}

func TestAuditSource_EachConditionYieldsOneViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		src   string
		issue string
	}{
		{
			name: "docstring longer than two lines",
			src: `def add(a: int, b: int) -> int:
    """Add two numbers.

    Args: a, b. Returns: the sum.
    """
    return a + b
`,
			issue: audit.IssueShortDescription,
		},
		{
			name: "no parameters marker",
			src: `def add(a: int, b: int) -> int:
    """Add two numbers. Returns: the sum."""
    return a + b
`,
			issue: audit.IssueMissingArgs,
		},
		{
			name: "no returns marker",
			src: `def add(a: int, b: int) -> int:
    """Add two numbers. Args: a, b."""
    return a + b
`,
			issue: audit.IssueMissingReturns,
		},
		{
			name: "unannotated parameter",
			src: `def add(a, b: int) -> int:
    """Add two numbers. Args: a, b. Returns: the sum."""
    return a + b
`,
			issue: audit.IssueMissingTypeHints,
		},
		{
			name: "no return annotation",
			src: `def add(a: int, b: int):
    """Add two numbers. Args: a, b. Returns: the sum."""
    return a + b
`,
			issue: audit.IssueMissingTypeHints,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			violations := auditString(t, tt.src)
			require.Len(t, violations, 1, issues(violations))
			assert.Equal(t, audit.Violation{File: "mod.py", Symbol: "add", Issue: tt.issue}, violations[0])
		})
	}
}

func TestAuditSource_MissingDocstring(t *testing.T) {
	t.Parallel()

	violations := auditString(t, "def run(x: int) -> None:\n    pass\n")
	assert.Equal(t, []string{
		"run: " + audit.IssueShortDescription,
		"run: " + audit.IssueMissingArgs,
		"run: " + audit.IssueMissingReturns,
	}, issues(violations))
}

func TestAuditSource_ClassesOnlyNeedShortDescription(t *testing.T) {
	t.Parallel()

	src := `class Good:
    """A documented class."""


class Bad:
    pass
`
	assert.Equal(t, []string{"Bad: " + audit.IssueShortDescription}, issues(auditString(t, src)))
}

func TestAuditSource_MethodsReceiverAndInitializer(t *testing.T) {
	t.Parallel()

	src := `class Account:
    """Bank account."""

    def __init__(self, owner: str):
        """Create. Args: owner. Returns: nothing."""
        self.owner = owner

    @classmethod
    def empty(cls) -> "Account":
        """Build. Args: none. Returns: account."""
        return cls("")

    async def fetch(self, key: str, *args: int, **kwargs: str) -> bytes:
        """Fetch. Args: key. Returns: data."""
        return b""

    def untyped(self, *args) -> None:
        """Bad. Args: args. Returns: None."""
`
	assert.Equal(t, []string{"untyped: " + audit.IssueMissingTypeHints}, issues(auditString(t, src)))
}

func TestAuditSource_DocumentOrderIncludesNested(t *testing.T) {
	t.Parallel()

	src := `def outer() -> None:
    """Outer. Args: none. Returns: none."""

    def inner():
        pass

    return None


class Later:
    pass
`
	got := issues(auditString(t, src))
	require.Len(t, got, 5)
	assert.True(t, strings.HasPrefix(got[0], "inner: "))
	assert.Equal(t, "Later: "+audit.IssueShortDescription, got[4])
}

func TestAuditSource_ParseError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{name: "unbalanced parameter list", src: "def broken(:\n    pass\n"},
		{name: "python 2 print statement", src: "print 'x'\n"},
		{name: "python 2 exec statement", src: "exec 'x = 1'\n"},
		{name: "unindented function body", src: "def f():\nreturn 1\n"},
		{name: "comment-only class body", src: "class C:\n    # nothing here\nx = 1\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			violations := auditString(t, tt.src)
			require.Len(t, violations, 1)
			assert.Equal(t, audit.ParseSymbol, violations[0].Symbol)
			assert.True(t, strings.HasPrefix(violations[0].Issue, "Parse error: "), violations[0].Issue)
		})
	}
}

func TestAuditSource_ParenthesizedPrintIsValid(t *testing.T) {
	t.Parallel()
	assert.Empty(t, auditString(t, "print('x')\n"))
}

func TestAuditSource_InvalidUTF8(t *testing.T) {
	t.Parallel()

	violations := audit.NewAuditor().AuditSource(testutil.TestContext(), "bin.py", []byte{0xff, 0xfe, 'x'})
	require.Len(t, violations, 1)
	assert.Equal(t, audit.ParseSymbol, violations[0].Symbol)
}

func TestAuditFiles_ParseErrorDoesNotStopOtherFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	broken := filepath.Join(dir, "a_broken.py")
	clean := filepath.Join(dir, "b_clean.py")
	undocumented := filepath.Join(dir, "c_undocumented.py")
	require.NoError(t, os.WriteFile(broken, []byte("class (:\n"), 0o600))
	require.NoError(t, os.WriteFile(clean, []byte(cleanFunction), 0o600))
	require.NoError(t, os.WriteFile(undocumented, []byte("class C:\n    pass\n"), 0o600))

	violations := audit.NewAuditor().AuditFiles(testutil.TestContext(), []string{broken, clean, undocumented, filepath.Join(dir, "gone.py")})

	require.Len(t, violations, 3)
	assert.Equal(t, broken, violations[0].File)
	assert.Equal(t, audit.ParseSymbol, violations[0].Symbol)
	assert.Equal(t, audit.Violation{File: undocumented, Symbol: "C", Issue: audit.IssueShortDescription}, violations[1])
	assert.Equal(t, audit.ParseSymbol, violations[2].Symbol, "unreadable files count as parse errors")
}
