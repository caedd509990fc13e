package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/maastricht-university/topicseg/corpus"
	"github.com/maastricht-university/topicseg/eval"
	"github.com/maastricht-university/topicseg/store"
)

// runSummary is the YAML document written beside the label file.
type runSummary struct {
	RunID       string    `yaml:"run_id"`
	GeneratedAt time.Time `yaml:"generated_at"`
	Dataset     string    `yaml:"dataset"`
	Meeting     string    `yaml:"meeting"`
	Model       string    `yaml:"model"`
	Utterances  int       `yaml:"utterances"`
	TrueK       int       `yaml:"true_k"`
	PredictedK  int       `yaml:"predicted_k"`
	Window      int       `yaml:"window"`
	WindowDiff  float64   `yaml:"windowdiff"`
}

// labelsDoc carries the three boundary sequences as '0'/'1' strings.
type labelsDoc struct {
	Raw       string `json:"raw"`
	Smoothed  string `json:"smoothed"`
	Predicted string `json:"predicted"`
}

func mkRunDir(outputsRoot string) (string, error) {
	ts := time.Now().Format("20060102-150405")
	dir := filepath.Join(outputsRoot, "run_"+ts)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := yaml.NewEncoder(f)
	defer enc.Close()
	return enc.Encode(v)
}

// persistRun writes the label sequences and a run summary into a fresh
// run directory, minting the run id if needed.
func persistRun(outputsRoot string, run *store.Run, tr corpus.Transitions, pred []int) (labelsPath, summaryPath string, err error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	dir, err := mkRunDir(outputsRoot)
	if err != nil {
		return "", "", err
	}

	labelsPath = filepath.Join(dir, "labels.json")
	if err = writeJSON(labelsPath, labelsDoc{
		Raw:       eval.LabelString(tr.Raw),
		Smoothed:  eval.LabelString(tr.Smoothed),
		Predicted: eval.LabelString(pred),
	}); err != nil {
		return "", "", err
	}

	summaryPath = filepath.Join(dir, "summary.yaml")
	if err = writeYAML(summaryPath, runSummary{
		RunID:       run.ID,
		GeneratedAt: time.Now(),
		Dataset:     run.Dataset,
		Meeting:     run.Meeting,
		Model:       run.Model,
		Utterances:  run.Utterances,
		TrueK:       run.TrueK,
		PredictedK:  run.PredictedK,
		Window:      run.Window,
		WindowDiff:  run.WindowDiff,
	}); err != nil {
		return "", "", err
	}
	return labelsPath, summaryPath, nil
}
