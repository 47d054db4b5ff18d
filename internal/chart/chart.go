// Package chart rewrites chart sources for a resolved version and
// publishes packaged charts to a repository branch.
//
// Edits to Chart.yaml and values.yaml go through the yaml AST so
// comments and formatting in the checked-in files survive the rewrite.
package chart

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
)

// SetVersion rewrites the version field of the Chart.yaml under
// chartDir.
func SetVersion(chartDir, version string) error {
	path := filepath.Join(chartDir, "Chart.yaml")
	file, err := parseFile(path)
	if err != nil {
		return err
	}
	if err := replaceAt(file, Path{{key: "version"}}, version); err != nil {
		return fmt.Errorf("set version in %s: %w", path, err)
	}
	return writeFile(path, file)
}

// Segment is one step of a values path: either a mapping key or a
// sequence index.
type Segment struct {
	key     string
	index   uint
	isIndex bool
}

// Path addresses one value inside values.yaml.
type Path []Segment

// ParsePath turns a configured dot expression into typed segments;
// purely numeric segments address sequence elements.
func ParsePath(expr string) (Path, error) {
	if expr == "" {
		return nil, fmt.Errorf("empty values path")
	}
	var p Path
	for _, seg := range strings.Split(expr, ".") {
		if seg == "" {
			return nil, fmt.Errorf("values path %q has an empty segment", expr)
		}
		if idx, err := strconv.ParseUint(seg, 10, 32); err == nil {
			p = append(p, Segment{index: uint(idx), isIndex: true})
		} else {
			p = append(p, Segment{key: seg})
		}
	}
	return p, nil
}

func (p Path) child(key string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, Segment{key: key})
}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, seg := range p {
		if seg.isIndex {
			parts[i] = strconv.FormatUint(uint64(seg.index), 10)
		} else {
			parts[i] = seg.key
		}
	}
	return strings.Join(parts, ".")
}

func (p Path) yamlPath() *yaml.Path {
	b := (&yaml.PathBuilder{}).Root()
	for _, seg := range p {
		if seg.isIndex {
			b = b.Index(seg.index)
		} else {
			b = b.Child(seg.key)
		}
	}
	return b.Build()
}

// repositoryKeys are the mapping keys that may carry an image
// repository in values.yaml.
var repositoryKeys = []string{"name", "repository"}

// SetImage points the value at path inside the values.yaml under
// chartDir at repository:tag. A mapping value gets its tag key and
// every present repository key (name or repository) set separately;
// anything else is replaced with the combined reference string.
func SetImage(chartDir string, path Path, repository, tag string) error {
	values := filepath.Join(chartDir, "values.yaml")
	file, err := parseFile(values)
	if err != nil {
		return err
	}

	node, err := path.yamlPath().FilterFile(file)
	if err != nil {
		return fmt.Errorf("values path %q in %s: %w", path, values, err)
	}

	if node.Type() == ast.MappingType {
		// ReplaceWithReader on an absent key is a silent no-op, so
		// every key is checked for existence before writing.
		keys := mappingKeys(node)
		found := false
		for _, key := range repositoryKeys {
			if !keys[key] {
				continue
			}
			found = true
			if err := replaceAt(file, path.child(key), repository); err != nil {
				return fmt.Errorf("values path %q in %s: %w", path.child(key), values, err)
			}
		}
		if !found {
			return fmt.Errorf("values path %q in %s: mapping has neither a name nor a repository key", path, values)
		}
		if !keys["tag"] {
			return fmt.Errorf("values path %q in %s: mapping has no tag key", path, values)
		}
		if err := replaceAt(file, path.child("tag"), tag); err != nil {
			return fmt.Errorf("values path %q in %s: %w", path.child("tag"), values, err)
		}
	} else {
		if err := replaceAt(file, path, repository+":"+tag); err != nil {
			return fmt.Errorf("values path %q in %s: %w", path, values, err)
		}
	}
	return writeFile(values, file)
}

func mappingKeys(node ast.Node) map[string]bool {
	m, ok := node.(*ast.MappingNode)
	if !ok {
		return nil
	}
	keys := make(map[string]bool, len(m.Values))
	for _, v := range m.Values {
		keys[v.Key.String()] = true
	}
	return keys
}

func parseFile(path string) (*ast.File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	file, err := parser.ParseBytes(b, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return file, nil
}

func writeFile(path string, file *ast.File) error {
	return os.WriteFile(path, []byte(file.String()+"\n"), 0o644)
}

func replaceAt(file *ast.File, path Path, value string) error {
	encoded, err := yaml.Marshal(value)
	if err != nil {
		return err
	}
	return path.yamlPath().ReplaceWithReader(file, bytes.NewReader(bytes.TrimSuffix(encoded, []byte("\n"))))
}

// ImageRef composes the full repository reference for one image.
func ImageRef(prefix, name string) string {
	return prefix + name
}

// RenderBuildArgs expands the {LAST_COMMIT} and {TAG} placeholders in
// configured build arguments.
func RenderBuildArgs(args map[string]string, lastCommit, tag string) map[string]string {
	if len(args) == 0 {
		return nil
	}
	r := strings.NewReplacer("{LAST_COMMIT}", lastCommit, "{TAG}", tag)
	out := make(map[string]string, len(args))
	for k, v := range args {
		out[k] = r.Replace(v)
	}
	return out
}
