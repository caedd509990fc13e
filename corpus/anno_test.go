package corpus

import (
	"errors"
	"strings"
	"testing"
)

func TestIndexRegisterDuplicatePath(t *testing.T) {
	ix := Index{}
	if err := ix.Register(&Node{Path: "*.0"}); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	err := ix.Register(&Node{Path: "*.0"})
	var dup *DuplicatePathError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicatePathError, got %v", err)
	}
	if dup.Path != "*.0" {
		t.Fatalf("error carries wrong path: %q", dup.Path)
	}
}

func TestLeavesPreOrder(t *testing.T) {
	//      *
	//     / \
	//   *.0 *.1
	//        / \
	//     *.1.0 *.1.1
	root := &Node{Path: "*", Tag: NodeRoot, Children: []*Node{
		{Path: "*.0", Tag: NodeLeaf, IsLeaf: true},
		{Path: "*.1", Tag: NodeTopic, Children: []*Node{
			{Path: "*.1.0", Tag: NodeLeaf, IsLeaf: true},
			{Path: "*.1.1", Tag: NodeLeaf, IsLeaf: true},
		}},
	}}

	var got []string
	for _, leaf := range Leaves(root) {
		got = append(got, leaf.Path)
	}
	want := "*.0 *.1.0 *.1.1"
	if strings.Join(got, " ") != want {
		t.Fatalf("leaf order: got %q want %q", strings.Join(got, " "), want)
	}
}

func placeholder(key string) *Node {
	return &Node{Tag: NodeUtterance, Key: key}
}

func TestNormalizeLeafKeepsPayload(t *testing.T) {
	tree := &Node{Tag: NodeTopic, Children: []*Node{
		placeholder("A:u1"), placeholder("A:u2"),
	}}

	ix := Index{}
	node, err := Normalize("*", tree, ix)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if !node.IsLeaf {
		t.Fatal("node with only placeholder children must become a leaf")
	}
	if len(node.Children) != 0 {
		t.Fatal("leaf must not keep placeholder children")
	}
	if strings.Join(node.Keys, " ") != "A:u1 A:u2" {
		t.Fatalf("leaf keys: %v", node.Keys)
	}
}

func TestNormalizeSynthesizesLeafForRunUnderInteriorNode(t *testing.T) {
	tree := &Node{Tag: NodeRoot, Children: []*Node{
		{Tag: NodeTopic, Children: []*Node{placeholder("A:u1")}},
		placeholder("A:u2"),
		placeholder("A:u3"),
		{Tag: NodeTopic, Children: []*Node{placeholder("B:u1")}},
	}}

	ix := Index{}
	root, err := Normalize("*", tree, ix)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if root.IsLeaf {
		t.Fatal("root must stay interior")
	}
	if len(root.Children) != 3 {
		t.Fatalf("got %d children, want 3", len(root.Children))
	}

	synthetic := root.Children[1]
	if !synthetic.IsLeaf || !synthetic.Composed {
		t.Fatalf("middle child should be a synthetic leaf: %+v", synthetic)
	}
	if synthetic.Path != "*.1" {
		t.Fatalf("synthetic leaf path: %q", synthetic.Path)
	}
	if strings.Join(synthetic.Keys, " ") != "A:u2 A:u3" {
		t.Fatalf("synthetic leaf keys: %v", synthetic.Keys)
	}

	// Every node and its parent lineage must be registered.
	for _, path := range []string{"*", "*.0", "*.1", "*.2"} {
		if ix[path] == nil {
			t.Fatalf("path %q missing from index", path)
		}
	}
	for path := range ix {
		if path == "*" {
			continue
		}
		parent := parentPath(path)
		if ix[parent] == nil {
			t.Fatalf("node %q has unregistered parent %q", path, parent)
		}
		if strings.Count(path, ".") != strings.Count(parent, ".")+1 {
			t.Fatalf("path %q is not one dot-segment below %q", path, parent)
		}
	}
}

func uttIndex(meeting string, speakers map[string][]string) map[string]map[string]*Utterance {
	out := map[string]map[string]*Utterance{}
	for speaker, keys := range speakers {
		out[speaker] = map[string]*Utterance{}
		for _, k := range keys {
			out[speaker][k] = &Utterance{Key: k, Speaker: speaker, Meeting: meeting, Text: k}
		}
	}
	return out
}

func TestResolveLeavesDropsUnresolvableKeys(t *testing.T) {
	leaf := &Node{Path: "*.0", IsLeaf: true, Keys: []string{"A:u1", "A:gone", "B:u1"}}
	root := &Node{Path: "*", Tag: NodeRoot, Children: []*Node{leaf}}

	resolveLeaves(root, uttIndex("m", map[string][]string{
		"A": {"u1"},
		"B": {"u1"},
	}))

	if strings.Join(leaf.Keys, " ") != "A:u1 B:u1" {
		t.Fatalf("kept keys: %v", leaf.Keys)
	}
	if len(leaf.Convo) != 2 {
		t.Fatalf("resolved %d utterances, want 2", len(leaf.Convo))
	}
}

func TestResolveLeavesKeepsDuplicateKeyOnBothLeaves(t *testing.T) {
	first := &Node{Path: "*.0", IsLeaf: true, Keys: []string{"A:u1"}}
	second := &Node{Path: "*.1", IsLeaf: true, Keys: []string{"A:u1"}}
	root := &Node{Path: "*", Tag: NodeRoot, Children: []*Node{first, second}}

	resolveLeaves(root, uttIndex("m", map[string][]string{"A": {"u1"}}))

	if len(first.Convo) != 1 || len(second.Convo) != 1 {
		t.Fatal("duplicate key must stay attached to both leaves")
	}
}

func TestFinalizePrunesEmptyLeaves(t *testing.T) {
	empty := &Node{Path: "*.0", IsLeaf: true}
	kept := &Node{Path: "*.1", IsLeaf: true, Keys: []string{"A:u1"}}
	root := &Node{Path: "*", Tag: NodeRoot, Children: []*Node{empty, kept}}

	ix := Index{"*": root, "*.0": empty, "*.1": kept}
	Finalize(ix, root)

	if _, ok := ix["*.0"]; ok {
		t.Fatal("pruned leaf still in index")
	}
	if len(root.Children) != 1 || root.Children[0].Path != "*.1" {
		t.Fatalf("pruned leaf still in tree: %v", root.Children)
	}
	for _, leaf := range Leaves(root) {
		if leaf.Path == "*.0" {
			t.Fatal("pruned leaf still discoverable")
		}
	}
}
