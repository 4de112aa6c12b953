// Package deps audits the installed Python packages: it flags overlapping
// libraries from fixed reference sets and captures a dependency tree.
package deps

import (
	"fmt"
	"sort"
	"strings"
)

// ReferenceSet is a group of libraries that serve the same purpose.
// Having more than one of them installed is reported as redundancy.
type ReferenceSet struct {
	Area    string
	Members []string
}

// ReferenceSets returns the fixed reference sets in reporting order.
func ReferenceSets() []ReferenceSet {
	return []ReferenceSet{
		{Area: "HTTP Clients", Members: []string{"requests", "httpx", "urllib3"}},
		{Area: "REST Frameworks", Members: []string{"flask", "flask-restful", "fastapi"}},
	}
}

// Finding is one redundancy flag.
type Finding struct {
	Area  string `json:"area"`
	Item  string `json:"item"`
	Issue string `json:"issue"`
}

// ParseFreeze returns the lowercased package names of every pinned
// requirement ("name==version") in a frozen requirements listing.
// Other lines (editable installs, "@ file://" references, comments) are ignored.
func ParseFreeze(output string) map[string]bool {
	pkgs := make(map[string]bool)
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if !strings.Contains(line, "==") {
			continue
		}
		name, _, _ := strings.Cut(line, "==")
		pkgs[strings.ToLower(name)] = true
	}
	return pkgs
}

// FindRedundancies intersects installed with every reference set and returns
// one Finding per set with more than one member installed.
func FindRedundancies(installed map[string]bool) []Finding {
	var findings []Finding
	for _, set := range ReferenceSets() {
		var hits []string
		for _, member := range set.Members {
			if installed[member] {
				hits = append(hits, member)
			}
		}
		if len(hits) < 2 {
			continue
		}
		sort.Strings(hits)
		findings = append(findings, Finding{
			Area:  set.Area,
			Item:  "-",
			Issue: "Multiple detected: " + pyList(hits),
		})
	}
	return findings
}

// pyList renders names as a bracketed, single-quoted list: ['httpx', 'requests'].
func pyList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("'%s'", n)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// SortedNames returns the keys of a package set in order.
func SortedNames(pkgs map[string]bool) []string {
	names := make([]string, 0, len(pkgs))
	for n := range pkgs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
