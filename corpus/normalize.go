package corpus

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Normalize reconciles a placeholder-dialect tree into the canonical
// shape: it assigns paths as <parentPath>.<ordinal>, registers every node,
// and folds each maximal run of utterance placeholders into either the
// enclosing leaf's own payload or, under an interior node, a synthetic
// leaf topic child. Interior nodes never carry utterances directly.
func Normalize(path string, node *Node, ix Index) (*Node, error) {
	node.Path = path
	if err := ix.Register(node); err != nil {
		return nil, err
	}

	nn := node.Children
	node.IsLeaf = true
	for _, child := range nn {
		if child.Tag != NodeUtterance {
			node.IsLeaf = false
			break
		}
	}

	var normalized []*Node
	branch := 0

	for len(nn) > 0 {
		if nn[0].Tag == NodeUtterance {
			var keys []string
			for len(nn) > 0 && nn[0].Tag == NodeUtterance {
				keys = append(keys, nn[0].Key)
				nn = nn[1:]
			}

			if node.IsLeaf {
				// A leaf has exactly one payload run.
				node.Keys = keys
				node.Children = nil
				return node, nil
			}

			topic := &Node{
				Tag:      NodeTopic,
				Composed: true,
				Path:     fmt.Sprintf("%s.%d", path, branch),
				IsLeaf:   true,
				Keys:     keys,
			}
			if err := ix.Register(topic); err != nil {
				return nil, err
			}
			branch++
			normalized = append(normalized, topic)
			continue
		}

		child, err := Normalize(fmt.Sprintf("%s.%d", path, branch), nn[0], ix)
		if err != nil {
			return nil, err
		}
		nn = nn[1:]
		normalized = append(normalized, child)
		branch++
		node.IsLeaf = false
	}

	node.Children = normalized
	return node, nil
}

// resolveLeaves maps every leaf key to a concrete utterance via
// speaker-scoped lookup. Keys carry a speaker prefix ("A:segkey"). Keys
// that fail to resolve are dropped (a known corpus inconsistency); a key
// already claimed by another leaf is kept but warned about.
func resolveLeaves(root *Node, index map[string]map[string]*Utterance) {
	claimed := map[string]string{}

	for _, leaf := range Leaves(root) {
		var kept []string
		var convo []*Utterance

		for _, key := range leaf.Keys {
			speaker, uttKey, ok := strings.Cut(key, ":")
			if !ok {
				log.WithField("key", key).Warn("utterance key without speaker prefix")
				continue
			}
			utt := index[speaker][uttKey]
			if utt == nil {
				log.WithField("key", key).Debug("pruning unresolvable utterance key")
				continue
			}
			if prev, dup := claimed[key]; dup {
				log.WithFields(log.Fields{
					"key":   key,
					"leaf":  leaf.Path,
					"first": prev,
				}).Warn("utterance key claimed by two leaves")
			}
			kept = append(kept, key)
			claimed[key] = leaf.Path
			convo = append(convo, utt)
		}

		leaf.Keys = kept
		leaf.Convo = convo
	}
}

// Finalize prunes leaves whose keys all failed to resolve, removing them
// from both the tree and the index.
func Finalize(ix Index, root *Node) {
	for _, leaf := range Leaves(root) {
		if len(leaf.Keys) == 0 {
			ix.DeleteLeaf(leaf.Path)
		}
	}
}
