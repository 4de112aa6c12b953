// Package junit interprets a JUnit-style XML test report: every <testcase>
// becomes a Record, and slow tests are reclassified as failures.
package junit

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mrz1836/qgate/internal/constants"
	qgerrors "github.com/mrz1836/qgate/internal/errors"
)

// Result is the interpreted outcome of one test case.
type Result string

// Test case results.
const (
	ResultPass Result = "PASS"
	ResultFail Result = "FAIL"
	ResultSkip Result = "SKIP"
)

// Record is one interpreted test case.
type Record struct {
	ClassOrFile    string  `json:"class_or_file"`
	TestName       string  `json:"test_name"`
	ParamsHint     string  `json:"params_hint"`
	Result         Result  `json:"result"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

// ParseErrorMarker fills the name columns of the sentinel record.
const ParseErrorMarker = "<parse_error>"

// SentinelRecord stands in for all test cases when the report cannot be parsed.
func SentinelRecord() Record {
	return Record{ClassOrFile: ParseErrorMarker, TestName: ParseErrorMarker, Result: ResultFail}
}

// Outcome is the interpretation of a whole report.
type Outcome struct {
	Records            []Record
	DurationViolations int

	// ParseErr is set when the report could not be parsed; Records then holds
	// only the sentinel.
	ParseErr error
}

// Failed reports whether the outcome sets the run's failed flag.
func (o Outcome) Failed() bool {
	return o.ParseErr != nil || o.DurationViolations > 0
}

// testCase mirrors the attributes and direct children of <testcase>.
type testCase struct {
	ClassName string     `xml:"classname,attr"`
	Name      string     `xml:"name,attr"`
	Time      string     `xml:"time,attr"`
	Failures  []struct{} `xml:"failure"`
	Errors    []struct{} `xml:"error"`
	Skipped   []struct{} `xml:"skipped"`
}

// ParamsHint returns the text between the first "[" and the last "]" of a
// test name, or "" when either bracket is absent or they are out of order.
func ParamsHint(name string) string {
	open := strings.Index(name, "[")
	end := strings.LastIndex(name, "]")
	if open < 0 || end < 0 || end <= open {
		return ""
	}
	return name[open+1 : end]
}

// Classify applies the result rules to one test case: FAIL when a failure or
// error child is present, SKIP when a skipped child is present, PASS otherwise.
// A non-skipped case strictly slower than the threshold is forced to FAIL and
// reported as a duration violation.
func Classify(hasFailure, hasSkip bool, elapsed float64) (Result, bool) {
	result := ResultPass
	switch {
	case hasFailure:
		result = ResultFail
	case hasSkip:
		result = ResultSkip
	}
	if elapsed > constants.MaxTestDurationSeconds && result != ResultSkip {
		return ResultFail, true
	}
	return result, false
}

// Interpret parses the report at path. Any read or parse failure yields the
// sentinel outcome.
func Interpret(path string) Outcome {
	f, err := os.Open(path) //nolint:gosec // path is the configured report location
	if err != nil {
		return failed(err)
	}
	defer func() { _ = f.Close() }()

	return InterpretReader(f)
}

// InterpretReader parses a report from r. Parsing is all or nothing.
func InterpretReader(r io.Reader) Outcome {
	records, violations, err := decode(r)
	if err != nil {
		return failed(err)
	}
	return Outcome{Records: records, DurationViolations: violations}
}

func failed(err error) Outcome {
	return Outcome{
		Records:  []Record{SentinelRecord()},
		ParseErr: fmt.Errorf("%w: %w", qgerrors.ErrJUnitParse, err),
	}
}

// decode streams every <testcase> element at any depth. The document must
// have exactly one root element and no text outside it.
func decode(r io.Reader) ([]Record, int, error) {
	dec := xml.NewDecoder(r)

	var (
		records    []Record
		violations int
		depth      int
		sawRoot    bool
		rootClosed bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}

		var start xml.StartElement
		switch t := tok.(type) {
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				return nil, 0, fmt.Errorf("unexpected text outside the root element at offset %d", dec.InputOffset())
			}
			continue
		case xml.EndElement:
			depth--
			rootClosed = depth == 0
			continue
		case xml.StartElement:
			start = t
		default:
			continue
		}

		if rootClosed {
			return nil, 0, fmt.Errorf("unexpected second root element <%s>", start.Name.Local)
		}
		sawRoot = true
		if start.Name.Local != "testcase" {
			depth++
			continue
		}

		var tc testCase
		if err := dec.DecodeElement(&tc, &start); err != nil {
			return nil, 0, err
		}
		if depth == 0 {
			rootClosed = true
		}
		record, slow, err := toRecord(tc)
		if err != nil {
			return nil, 0, err
		}
		if slow {
			violations++
		}
		records = append(records, record)
	}

	if !sawRoot {
		return nil, 0, io.ErrUnexpectedEOF
	}
	return records, violations, nil
}

func toRecord(tc testCase) (Record, bool, error) {
	elapsed := 0.0
	if s := strings.TrimSpace(tc.Time); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Record{}, false, fmt.Errorf("testcase %q: invalid time %q", tc.Name, tc.Time)
		}
		elapsed = v
	}

	result, slow := Classify(len(tc.Failures) > 0 || len(tc.Errors) > 0, len(tc.Skipped) > 0, elapsed)
	return Record{
		ClassOrFile:    tc.ClassName,
		TestName:       tc.Name,
		ParamsHint:     ParamsHint(tc.Name),
		Result:         result,
		ElapsedSeconds: elapsed,
	}, slow, nil
}
