package corpus

import (
	"os"
	"path/filepath"
	"testing"
)

// writeCorpus materializes a miniature corpus tree under a temp root.
func writeCorpus(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", path, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return root
}

func noteTexts(notes []*Utterance) []string {
	out := make([]string, 0, len(notes))
	for _, u := range notes {
		out = append(out, u.Text)
	}
	return out
}

func leafPaths(root *Node) []string {
	var out []string
	for _, leaf := range Leaves(root) {
		out = append(out, leaf.Path)
	}
	return out
}
