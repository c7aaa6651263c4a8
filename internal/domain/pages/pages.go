package pages

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrMalformedPage = errors.New("malformed page")

// MalformedPageError reports a page that could not be decoded.
type MalformedPageError struct {
	Index int
	Err   error
}

func (e *MalformedPageError) Error() string {
	return fmt.Sprintf("malformed page %d: %v", e.Index, e.Err)
}

func (e *MalformedPageError) Unwrap() error {
	return e.Err
}

func (e *MalformedPageError) Is(target error) bool {
	return target == ErrMalformedPage
}

// Split breaks the output of `gh api --paginate`, which prints one JSON
// document per page back to back, into raw pages.
func Split(output []byte) ([]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(output))
	var out []json.RawMessage
	for {
		var raw json.RawMessage
		err := dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, &MalformedPageError{Index: len(out), Err: err}
		}
		out = append(out, raw)
	}
}

// State accumulates nodes across pages. The envelope of the most recent
// page is kept to shape the final payload.
type State struct {
	path     []string
	nodes    []any
	envelope any
	seen     int
}

func NewState(path string) *State {
	return &State{path: splitPath(path), nodes: []any{}}
}

// Add decodes the next page and appends its nodes. A page without the node
// list contributes nothing.
func (s *State) Add(page []byte) error {
	index := s.seen
	s.seen++
	value, err := decode(page)
	if err != nil {
		return &MalformedPageError{Index: index, Err: err}
	}
	if nodes, ok := lookup(value, s.path).([]any); ok {
		s.nodes = append(s.nodes, nodes...)
	}
	s.envelope = value
	return nil
}

// Result returns the last envelope with its node list replaced by every
// node seen so far.
func (s *State) Result() any {
	nodes := append([]any{}, s.nodes...)
	if len(s.path) == 0 {
		return nodes
	}
	root, ok := s.envelope.(map[string]any)
	if !ok {
		root = map[string]any{}
	}
	current := root
	for _, key := range s.path[:len(s.path)-1] {
		next, ok := current[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[key] = next
		}
		current = next
	}
	current[s.path[len(s.path)-1]] = nodes
	return root
}

// Aggregate merges pages in arrival order. path is dotted (for example
// "data.repository.issues.nodes"); an empty path means each page is itself
// the node list.
func Aggregate(pages []json.RawMessage, path string) (any, error) {
	state := NewState(path)
	for _, page := range pages {
		if err := state.Add(page); err != nil {
			return nil, err
		}
	}
	return state.Result(), nil
}

// Nodes reads the node list at path, or nil when absent.
func Nodes(envelope any, path string) []any {
	nodes, _ := lookup(envelope, splitPath(path)).([]any)
	return nodes
}

func decode(page []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(page))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after page")
	}
	return value, nil
}

func lookup(value any, path []string) any {
	current := value
	for _, key := range path {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = obj[key]
		if !ok {
			return nil
		}
	}
	return current
}

func splitPath(path string) []string {
	path = strings.Trim(strings.TrimSpace(path), ".")
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}
