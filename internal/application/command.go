package application

import (
	"strconv"
	"strings"
)

// commandKind tags a parsed inbound message with the operation it requests.
type commandKind int

const (
	kindAdd commandKind = iota
	kindDelete
	kindList
	kindMapRotation
	kindLegend
	kindWeapon
	kindLookup
)

// String is the metrics label for the kind.
func (k commandKind) String() string {
	switch k {
	case kindAdd:
		return "add"
	case kindDelete:
		return "delete"
	case kindList:
		return "list"
	case kindMapRotation:
		return "map"
	case kindLegend:
		return "legend"
	case kindWeapon:
		return "weapon"
	case kindLookup:
		return "lookup"
	}
	return "unknown"
}

// command is the tagged variant produced by parseCommand and consumed by a
// single dispatch step. Only the fields relevant to the kind are set.
type command struct {
	kind      commandKind
	malformed bool // Shape recognized but required parts missing.

	term    string // add, delete, lookup
	content string // add
	private bool   // add

	prefix string // list
	page   int    // list, 1-based

	name string // legend, weapon
}

// Tokens are separated by ASCII space/tab or the full-width space commonly
// typed on Japanese keyboards.
const tokenSeparators = " \t　"

// Privacy marker suffixes accepted on the add command's content.
var privacyMarkers = []string{"--s", "--secret"}

// parseCommand classifies an inbound message. Checks run in priority order:
// dictionary commands, the map-rotation query, stat-sheet queries, then the
// exact-lookup fallback which treats the whole text as a term.
func parseCommand(text string) command {
	text = strings.Trim(text, tokenSeparators)

	head, rest := nextToken(text)
	switch head {
	case "辞書":
		return parseDictionary(rest)
	case "?マップ", "？マップ":
		if rest == "" {
			return command{kind: kindMapRotation}
		}
	case "?レジェンド", "？レジェンド":
		return command{kind: kindLegend, name: rest, malformed: rest == ""}
	case "?武器", "？武器":
		return command{kind: kindWeapon, name: rest, malformed: rest == ""}
	}

	return command{kind: kindLookup, term: text}
}

// parseDictionary handles everything after the 辞書 keyword.
func parseDictionary(rest string) command {
	kw, args := nextToken(rest)
	switch kw {
	case "追加":
		term, content := nextToken(args)
		if term == "" || content == "" {
			return command{kind: kindAdd, malformed: true}
		}
		content, private := stripPrivacyMarker(content)
		if content == "" {
			return command{kind: kindAdd, malformed: true}
		}
		return command{kind: kindAdd, term: term, content: content, private: private}

	case "削除":
		term, _ := nextToken(args)
		if term == "" {
			return command{kind: kindDelete, malformed: true}
		}
		return command{kind: kindDelete, term: term}
	}

	// Bare 辞書 with optional prefix filter and/or page number, either order.
	cmd := command{kind: kindList, page: 1}
	for _, tok := range splitTokens(rest) {
		if n, err := strconv.Atoi(tok); err == nil && n >= 0 {
			cmd.page = n
			continue
		}
		cmd.prefix = tok
	}
	return cmd
}

// stripPrivacyMarker removes a trailing privacy marker token from content and
// reports whether one was present.
func stripPrivacyMarker(content string) (string, bool) {
	for _, marker := range privacyMarkers {
		if content == marker {
			return "", true
		}
		for _, sep := range []string{" ", "\t", "　"} {
			if strings.HasSuffix(content, sep+marker) {
				return strings.TrimRight(content[:len(content)-len(marker)], tokenSeparators), true
			}
		}
	}
	return content, false
}

// nextToken returns the first token of s and the remainder with leading
// separators trimmed.
func nextToken(s string) (string, string) {
	s = strings.TrimLeft(s, tokenSeparators)
	if s == "" {
		return "", ""
	}
	if i := strings.IndexAny(s, tokenSeparators); i >= 0 {
		return s[:i], strings.TrimLeft(s[i:], tokenSeparators)
	}
	return s, ""
}

// splitTokens splits s into all of its tokens.
func splitTokens(s string) []string {
	var toks []string
	for s != "" {
		var tok string
		tok, s = nextToken(s)
		if tok != "" {
			toks = append(toks, tok)
		}
	}
	return toks
}
