package evertext

import (
	"regexp"
	"strings"
)

const (
	defaultServerIndex = "1"
	allServersTarget   = "all"
	allServersLabel    = "All of them"
)

// serverEntryPattern matches list lines shaped like "2--> Bob (E-15)".
var serverEntryPattern = regexp.MustCompile(`(\d+)-->.*?\((.*?)\)`)

type serverEntry struct {
	Index string
	Name  string
}

func parseServerList(text string) []serverEntry {
	matches := serverEntryPattern.FindAllStringSubmatch(text, -1)
	entries := make([]serverEntry, 0, len(matches))
	for _, match := range matches {
		entries = append(entries, serverEntry{Index: match[1], Name: match[2]})
	}

	return entries
}

// selectServerIndex picks the list index to answer the server prompt with.
// The target matches case-sensitively as a substring of the server name;
// "all" in any case selects the "All of them" entry. The first entry wins
// and "1" is the fallback.
func selectServerIndex(text string, target string) (string, bool) {
	if target == "" {
		return defaultServerIndex, false
	}

	wantsAll := strings.EqualFold(target, allServersTarget)
	for _, entry := range parseServerList(text) {
		if strings.Contains(entry.Name, target) || (wantsAll && strings.Contains(entry.Name, allServersLabel)) {
			return entry.Index, true
		}
	}

	return defaultServerIndex, false
}
