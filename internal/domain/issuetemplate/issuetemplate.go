package issuetemplate

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Dir is the repository-relative directory holding issue templates.
const Dir = ".github/ISSUE_TEMPLATE"

type Template struct {
	Name   string
	About  string
	Title  string
	Labels []string
	Body   string
	Path   string
}

// Labels accepts both `labels: bug, docs` and a YAML list.
type Labels []string

func (l *Labels) UnmarshalYAML(value *yaml.Node) error {
	var list []string
	if err := value.Decode(&list); err == nil {
		*l = trimAll(list)
		return nil
	}
	var single string
	if err := value.Decode(&single); err != nil {
		return err
	}
	*l = trimAll(strings.Split(single, ","))
	return nil
}

type frontMatter struct {
	Name   string `yaml:"name"`
	About  string `yaml:"about"`
	Title  string `yaml:"title"`
	Labels Labels `yaml:"labels"`
}

type formElement struct {
	Type       string `yaml:"type"`
	Attributes struct {
		Label       string `yaml:"label"`
		Description string `yaml:"description"`
		Value       string `yaml:"value"`
	} `yaml:"attributes"`
}

type form struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Title       string        `yaml:"title"`
	Labels      Labels        `yaml:"labels"`
	Body        []formElement `yaml:"body"`
}

// Load reads every template under <repoRoot>/.github/ISSUE_TEMPLATE sorted
// by file name. The chooser config file is skipped.
func Load(repoRoot string) ([]Template, error) {
	if strings.TrimSpace(repoRoot) == "" {
		return nil, fmt.Errorf("repository root is required")
	}
	dir := filepath.Join(repoRoot, Dir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("issue template directory not found: %s", dir)
		}
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var out []Template
	for _, name := range names {
		lower := strings.ToLower(name)
		if lower == "config.yml" || lower == "config.yaml" {
			continue
		}
		path := filepath.Join(dir, name)
		var tpl Template
		switch filepath.Ext(lower) {
		case ".md":
			tpl, err = loadMarkdown(path)
		case ".yml", ".yaml":
			tpl, err = loadForm(path)
		default:
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		out = append(out, tpl)
	}
	return out, nil
}

func loadMarkdown(path string) (Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Template{}, err
	}
	header, body := splitFrontMatter(data)
	var fm frontMatter
	if len(header) > 0 {
		if err := yaml.Unmarshal(header, &fm); err != nil {
			return Template{}, err
		}
	}
	return Template{
		Name:   strings.TrimSpace(fm.Name),
		About:  strings.TrimSpace(fm.About),
		Title:  fm.Title,
		Labels: fm.Labels,
		Body:   strings.TrimLeft(string(body), "\n"),
		Path:   path,
	}, nil
}

func loadForm(path string) (Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Template{}, err
	}
	var f form
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Template{}, err
	}
	return Template{
		Name:   strings.TrimSpace(f.Name),
		About:  strings.TrimSpace(f.Description),
		Title:  f.Title,
		Labels: f.Labels,
		Body:   renderForm(f.Body),
		Path:   path,
	}, nil
}

// renderForm flattens an issue form into markdown the editor can start from.
func renderForm(elements []formElement) string {
	var parts []string
	for _, el := range elements {
		switch el.Type {
		case "markdown":
			if v := strings.TrimSpace(el.Attributes.Value); v != "" {
				parts = append(parts, v)
			}
		default:
			label := strings.TrimSpace(el.Attributes.Label)
			if label == "" {
				continue
			}
			section := "### " + label
			if desc := strings.TrimSpace(el.Attributes.Description); desc != "" {
				section += "\n\n" + desc
			}
			if v := strings.TrimSpace(el.Attributes.Value); v != "" {
				section += "\n\n" + v
			}
			parts = append(parts, section)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n\n") + "\n"
}

func splitFrontMatter(data []byte) ([]byte, []byte) {
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(data, []byte("---\n")) {
		return nil, data
	}
	rest := data[len("---\n"):]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return nil, data
	}
	header := rest[:end]
	body := rest[end+len("\n---"):]
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = nil
	}
	return header, body
}

// Map returns the template in the raw shape the picker normalizes.
func (t Template) Map(repo string) map[string]any {
	labels := make([]any, 0, len(t.Labels))
	for _, l := range t.Labels {
		labels = append(labels, l)
	}
	return map[string]any{
		"name":       t.Name,
		"about":      t.About,
		"title":      t.Title,
		"body":       t.Body,
		"labels":     labels,
		"path":       t.Path,
		"repository": repo,
	}
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
