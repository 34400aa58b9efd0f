package rngschema

import (
	"os"

	"go.yaml.in/yaml/v4"

	"github.com/relaxwalk/rngcore/internal/fileutil"
	"github.com/relaxwalk/rngcore/pattern"
)

// dumpNode is a human-readable projection of one arena node, used only
// for debug output (DumpYAML); it is never read back in.
type dumpNode struct {
	Index     int      `yaml:"index"`
	Kind      string   `yaml:"kind"`
	XMLPath   string   `yaml:"xmlPath,omitempty"`
	Children  []int    `yaml:"children,omitempty"`
	NameClass string   `yaml:"nameClass,omitempty"`
	Datatype  string   `yaml:"datatype,omitempty"`
	RawValue  string   `yaml:"value,omitempty"`
	RefTarget string   `yaml:"ref,omitempty"`
	Define    string   `yaml:"define,omitempty"`
	HasAttrs  bool     `yaml:"hasAttrs,omitempty"`
	Nullable  bool     `yaml:"nullable,omitempty"`
}

// DumpYAML renders every node reachable from the grammar's start
// pattern as YAML, primarily so a developer can eyeball what a compact
// schema actually simplified to without writing a throwaway debugger.
func DumpYAML(g *pattern.Grammar) ([]byte, error) {
	visited := make(map[pattern.ID]bool)
	var nodes []dumpNode
	var walk func(pattern.ID)
	walk = func(id pattern.ID) {
		if id == pattern.InvalidID || visited[id] {
			return
		}
		visited[id] = true
		n := g.Node(id)
		dn := dumpNode{
			Index:     int(id),
			Kind:      n.Kind.String(),
			XMLPath:   n.XMLPath,
			RawValue:  n.RawValue,
			RefTarget: n.RefTarget,
			Define:    n.DefineName,
			HasAttrs:  g.HasAttrs(id),
			Nullable:  g.HasEmptyPattern(id),
		}
		if n.DatatypeName != "" {
			dn.Datatype = n.DatatypeName
		}
		if n.Kind == pattern.KindAttribute || n.Kind == pattern.KindElement {
			dn.NameClass = n.NameClass.String()
		}
		if n.Child1 != pattern.InvalidID {
			dn.Children = append(dn.Children, int(n.Child1))
		}
		if n.Child2 != pattern.InvalidID {
			dn.Children = append(dn.Children, int(n.Child2))
		}
		nodes = append(nodes, dn)

		if n.Kind == pattern.KindRef {
			if target, ok := g.ResolveRef(n.RefTarget); ok {
				walk(target)
			}
			return
		}
		walk(n.Child1)
		walk(n.Child2)
	}
	walk(g.Start())

	return yaml.Marshal(nodes)
}

// DumpYAMLToFile writes DumpYAML's output to path, world-readable like
// any other generated debug artifact (it never contains document data,
// only schema structure, so it carries no need for the restrictive
// owner-only mode).
func DumpYAMLToFile(g *pattern.Grammar, path string) error {
	data, err := DumpYAML(g)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, fileutil.ReadableByAll)
}
