package corpus

import (
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Annotation node kinds.
const (
	NodeRoot  = "root"
	NodeTopic = "topic"
	NodeLeaf  = "leaf"
	// NodeUtterance is an unresolved utterance placeholder, produced by the
	// dialect whose references point at whole utterances. Runs of these are
	// folded into synthetic leaves during normalization.
	NodeUtterance = "utterance"
)

// ErrNoResolvedKeys marks an annotation leaf whose span produced no
// resolvable keys, which would make it an empty topic segment.
var ErrNoResolvedKeys = errors.New("no resolvable keys for span")

// Node is one annotation-tree node. Path is the dot-separated ordinal
// lineage assigned during construction or normalization and is unique
// within one meeting's Index. A node owns its children exclusively.
type Node struct {
	Path     string
	Tag      string
	Children []*Node
	IsLeaf   bool

	// Composed marks leaves synthesized from a reference run under an
	// interior node, as opposed to leaves present in the markup.
	Composed bool

	// Key is set on unresolved utterance placeholders only.
	Key string

	// Keys and Convo are the leaf payload: utterance keys in document
	// order and the utterances they resolved to.
	Keys  []string
	Convo []*Utterance
}

// Index maps path to node for one meeting's annotation tree.
type Index map[string]*Node

// DuplicatePathError reports a path collision during node registration.
type DuplicatePathError struct {
	Path string
}

func (e *DuplicatePathError) Error() string {
	return fmt.Sprintf("duplicate annotation node path %q", e.Path)
}

// Register adds a node under its path, failing on collision.
func (ix Index) Register(n *Node) error {
	if _, ok := ix[n.Path]; ok {
		return &DuplicatePathError{Path: n.Path}
	}
	ix[n.Path] = n
	return nil
}

func parentPath(path string) string {
	i := strings.LastIndex(path, ".")
	if i < 0 {
		return ""
	}
	return path[:i]
}

// DeleteLeaf unlinks the node at path from its parent's child list and from
// the index. A parent left with no children is a corpus inconsistency that
// is reported but not corrected.
func (ix Index) DeleteLeaf(path string) {
	node := ix[path]
	if node == nil {
		return
	}
	log.WithField("path", path).Info("deleting empty annotation leaf")

	if parent := ix[parentPath(path)]; parent != nil {
		var kept []*Node
		for _, child := range parent.Children {
			if child.Path != path {
				kept = append(kept, child)
			}
		}
		parent.Children = kept
		if len(parent.Children) == 0 {
			log.WithField("path", parent.Path).Error("parent node left with no children after pruning")
		}
	}
	delete(ix, path)
}

// Leaves returns the tree's leaves in pre-order, left to right. Children
// are pushed in reverse so the pop order matches document order; this
// ordering is the ground truth for time order.
func Leaves(root *Node) []*Node {
	if root == nil {
		return nil
	}

	stack := []*Node{root}
	var leaves []*Node

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if node.IsLeaf {
			leaves = append(leaves, node)
		}
		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, node.Children[i])
		}
	}
	return leaves
}
