package junit_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qgerrors "github.com/mrz1836/qgate/internal/errors"
	"github.com/mrz1836/qgate/internal/junit"
)

const pytestReport = `<?xml version="1.0" encoding="utf-8"?>
<testsuites>
  <testsuite name="pytest" errors="0" failures="1" skipped="1" tests="5" time="9.1">
    <testcase classname="tests.test_math" name="test_add[2-3-5]" time="0.012"/>
    <testcase classname="tests.test_math" name="test_div" time="0.5">
      <failure message="ZeroDivisionError">trace</failure>
    </testcase>
    <testcase classname="tests.test_io" name="test_slow" time="3.01"/>
    <testcase classname="tests.test_io" name="test_edge" time="3.0"/>
    <testcase classname="tests.test_io" name="test_skipped_slow" time="5.2">
      <skipped message="no network"/>
    </testcase>
    <testcase classname="tests.test_io" name="test_errored" time="">
      <error message="fixture"/>
    </testcase>
  </testsuite>
</testsuites>
`

func TestInterpretReader(t *testing.T) {
	t.Parallel()

	out := junit.InterpretReader(strings.NewReader(pytestReport))
	require.NoError(t, out.ParseErr)

	assert.Equal(t, []junit.Record{
		{ClassOrFile: "tests.test_math", TestName: "test_add[2-3-5]", ParamsHint: "2-3-5", Result: junit.ResultPass, ElapsedSeconds: 0.012},
		{ClassOrFile: "tests.test_math", TestName: "test_div", Result: junit.ResultFail, ElapsedSeconds: 0.5},
		{ClassOrFile: "tests.test_io", TestName: "test_slow", Result: junit.ResultFail, ElapsedSeconds: 3.01},
		{ClassOrFile: "tests.test_io", TestName: "test_edge", Result: junit.ResultPass, ElapsedSeconds: 3.0},
		{ClassOrFile: "tests.test_io", TestName: "test_skipped_slow", Result: junit.ResultSkip, ElapsedSeconds: 5.2},
		{ClassOrFile: "tests.test_io", TestName: "test_errored", Result: junit.ResultFail},
	}, out.Records)
	assert.Equal(t, 1, out.DurationViolations)
	assert.True(t, out.Failed())
}

func TestInterpretReader_SingleSuiteRoot(t *testing.T) {
	t.Parallel()

	out := junit.InterpretReader(strings.NewReader(`<testsuite><testcase classname="c" name="t" time="0.1"/></testsuite>`))
	require.NoError(t, out.ParseErr)
	require.Len(t, out.Records, 1)
	assert.False(t, out.Failed())
}

func TestInterpretReader_ParseFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		xml  string
	}{
		{"empty", ""},
		{"truncated", `<testsuite><testcase name="a" time="0.1">`},
		{"bad time", `<testsuite><testcase name="a" time="0.1"/><testcase name="b" time="fast"/></testsuite>`},
		{"mismatched tags", `<testsuite><testcase name="a"></testsuite>`},
		{"two roots", `<testsuite><testcase name="a" time="0.1"/></testsuite><testsuite/>`},
		{"testcase after root", `<testsuite/><testcase name="a" time="0.1"/>`},
		{"trailing text", `<testsuite><testcase name="a" time="0.1"/></testsuite>garbage`},
		{"leading text", `garbage<testsuite><testcase name="a" time="0.1"/></testsuite>`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out := junit.InterpretReader(strings.NewReader(tt.xml))

			require.Error(t, out.ParseErr)
			require.ErrorIs(t, out.ParseErr, qgerrors.ErrJUnitParse)
			assert.Equal(t, []junit.Record{junit.SentinelRecord()}, out.Records)
			assert.Zero(t, out.DurationViolations)
			assert.True(t, out.Failed())
		})
	}
}

func TestInterpretReader_TrailingWhitespaceAndComments(t *testing.T) {
	t.Parallel()

	out := junit.InterpretReader(strings.NewReader("<?xml version=\"1.0\"?>\n<testsuite><testcase name=\"a\" time=\"0.1\"/></testsuite>\n<!-- done -->\n\n"))
	require.NoError(t, out.ParseErr)
	require.Len(t, out.Records, 1)
	assert.Equal(t, "a", out.Records[0].TestName)
}

func TestInterpret_MissingFile(t *testing.T) {
	t.Parallel()

	out := junit.Interpret(filepath.Join(t.TempDir(), "junit.xml"))
	require.ErrorIs(t, out.ParseErr, qgerrors.ErrJUnitParse)
	assert.Equal(t, []junit.Record{junit.SentinelRecord()}, out.Records)
}

func TestInterpret_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "junit.xml")
	require.NoError(t, os.WriteFile(path, []byte(pytestReport), 0o600))

	out := junit.Interpret(path)
	require.NoError(t, out.ParseErr)
	assert.Len(t, out.Records, 6)
}

func TestParamsHint(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"test_add[2-3-5]":        "2-3-5",
		"test_add":               "",
		"test_x[a][b]":           "a][b",
		"test_nested[f[1]]":      "f[1]",
		"test_open[":             "",
		"test_reversed]x[":       "",
		"test_empty[]":           "",
		"TestApi::test_get[v1-]": "v1-",
	}
	for name, want := range tests {
		assert.Equal(t, want, junit.ParamsHint(name), name)
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		failure  bool
		skip     bool
		elapsed  float64
		want     junit.Result
		wantSlow bool
	}{
		{"fast pass", false, false, 0.2, junit.ResultPass, false},
		{"exactly at threshold", false, false, 3.0, junit.ResultPass, false},
		{"just over threshold", false, false, 3.01, junit.ResultFail, true},
		{"slow failure still counts", true, false, 4, junit.ResultFail, true},
		{"slow skip is exempt", false, true, 10, junit.ResultSkip, false},
		{"failure wins over skip", true, true, 0.1, junit.ResultFail, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, slow := junit.Classify(tt.failure, tt.skip, tt.elapsed)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantSlow, slow)
		})
	}
}
