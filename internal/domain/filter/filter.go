package filter

import (
	"bytes"
	"encoding/json"
	"strings"
)

type Kind string

const (
	KindIssue       Kind = "issue"
	KindPullRequest Kind = "pull_request"
)

// allowLists fixes both the accepted keys and the emission order per kind.
var allowLists = map[Kind][]string{
	KindIssue:       {"since", "createdBy", "assignee", "mentioned", "labels", "milestone", "states"},
	KindPullRequest: {"baseRefName", "headRefName", "labels", "states"},
}

// GraphQL expects bare enum literals for state values.
var enumUnquoter = strings.NewReplacer(
	`"OPEN"`, "OPEN",
	`"CLOSED"`, "CLOSED",
	`"MERGED"`, "MERGED",
)

// Value is either a scalar string or a list of strings.
type Value struct {
	scalar string
	list   []string
	isList bool
}

func Scalar(value string) Value {
	return Value{scalar: value}
}

func List(values ...string) Value {
	return Value{list: append([]string(nil), values...), isList: true}
}

func (v Value) empty() bool {
	if v.isList {
		return len(v.list) == 0
	}
	return len(v.tokens()) == 0
}

// tokens splits a scalar on commas. Tokens are trimmed and blanks dropped,
// so "bug," is one token and "bug, ui" is two.
func (v Value) tokens() []string {
	var out []string
	for _, part := range strings.Split(v.scalar, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// encoded returns the JSON form of the value. A scalar carrying more than
// one comma-delimited token is emitted as a list.
func (v Value) encoded() string {
	var payload any
	switch tokens := v.tokens(); {
	case v.isList:
		payload = v.list
	case len(tokens) == 1:
		payload = tokens[0]
	default:
		payload = tokens
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

type Spec map[string]Value

// Set stores a raw option value, ignoring blanks.
func (s Spec) Set(key, raw string) {
	if strings.TrimSpace(raw) == "" {
		return
	}
	s[key] = Scalar(raw)
}

// Keys returns the allow-list for kind in emission order.
func Keys(kind Kind) []string {
	return append([]string(nil), allowLists[kind]...)
}

// Build renders spec as a `key:value,` sequence following the allow-list
// order of kind. Keys outside the allow-list and empty values are skipped.
func Build(spec Spec, kind Kind) string {
	var b strings.Builder
	for _, key := range allowLists[kind] {
		value, ok := spec[key]
		if !ok || value.empty() {
			continue
		}
		encoded := value.encoded()
		if encoded == "" {
			continue
		}
		b.WriteString(key)
		b.WriteString(":")
		b.WriteString(enumUnquoter.Replace(encoded))
		b.WriteString(",")
	}
	return b.String()
}
