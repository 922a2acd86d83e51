package planner

import (
	"regexp"
	"strings"

	"metasearch/search"
)

// queryPattern matches one list item: `3. [Reddit] "query text"`. Several
// items may share a line.
var queryPattern = regexp.MustCompile(`[0-9]+\. \[(\w+)\] "(.*?)"`)

// ParseQueries extracts the tagged queries from a model reply. Items with an
// unknown engine tag or an empty query are dropped.
func ParseQueries(reply string) []search.TaggedQuery {
	var queries []search.TaggedQuery
	for _, m := range queryPattern.FindAllStringSubmatch(reply, -1) {
		engine, ok := search.ParseEngine(m[1])
		if !ok {
			continue
		}
		text := strings.TrimSpace(m[2])
		if text == "" {
			continue
		}
		queries = append(queries, search.TaggedQuery{Engine: engine, Text: text})
	}
	return queries
}

// Classify picks the branch from the first reply.
func Classify(reply string) Branch {
	if strings.Contains(strings.ToLower(reply), textBranchPhrase) {
		return TextBranch
	}
	return VisualBranch
}
