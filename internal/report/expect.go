package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/gjson"

	"tempo/internal/scenario"
)

// CheckResult is the outcome of one expectation.
type CheckResult struct {
	Path   string
	Want   string
	Got    string
	Passed bool
}

// Check evaluates expectations against a JSON report. Paths use JSONPath
// syntax ($.fires[0].timer) which is converted to gjson format. A missing
// path is a failed check, not an error.
func Check(doc []byte, expects []scenario.Expectation) ([]CheckResult, error) {
	if len(expects) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(doc) {
		return nil, fmt.Errorf("invalid JSON report")
	}

	results := make([]CheckResult, 0, len(expects))
	for _, ex := range expects {
		value := gjson.GetBytes(doc, convertJSONPath(ex.Path))
		result := CheckResult{Path: ex.Path, Want: ex.Equals}
		if !value.Exists() {
			result.Got = "<missing>"
		} else {
			result.Got = value.String()
			result.Passed = result.Got == ex.Equals
		}
		results = append(results, result)
	}
	return results, nil
}

// AllPassed reports whether every check passed.
func AllPassed(results []CheckResult) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

// WriteChecks writes check outcomes in human-readable form.
func WriteChecks(w io.Writer, results []CheckResult) {
	if len(results) == 0 {
		return
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Expectations:")
	for _, r := range results {
		symbol := "✓"
		if !r.Passed {
			symbol = "✗"
		}
		fmt.Fprintf(w, "  %s %s == %s (actual: %s)\n", symbol, r.Path, r.Want, r.Got)
	}
}

// convertJSONPath converts JSONPath syntax to gjson path format.
// $.foo.bar -> foo.bar
// $.fires[0].timer -> fires.0.timer
// $.fires[*].timer -> fires.#.timer
func convertJSONPath(path string) string {
	if strings.HasPrefix(path, "$.") {
		path = path[2:]
	} else if strings.HasPrefix(path, "$") {
		path = path[1:]
	}

	var result strings.Builder
	i := 0
	for i < len(path) {
		if path[i] == '[' {
			j := i + 1
			for j < len(path) && path[j] != ']' {
				j++
			}
			if j < len(path) {
				content := path[i+1 : j]
				if content == "*" {
					result.WriteString(".#")
				} else {
					result.WriteByte('.')
					result.WriteString(content)
				}
				i = j + 1
				continue
			}
		}
		result.WriteByte(path[i])
		i++
	}

	return result.String()
}
