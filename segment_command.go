package main

import (
	"fmt"
	"math"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/maastricht-university/topicseg/clients"
	"github.com/maastricht-university/topicseg/config"
	"github.com/maastricht-university/topicseg/eval"
	"github.com/maastricht-university/topicseg/segment"
	"github.com/maastricht-university/topicseg/store"
)

func newSegmentCommand() *cobra.Command {
	var dataset, model string
	var meetingIdx int

	cmd := &cobra.Command{
		Use:   "segment",
		Short: "Run a segmentation model on one meeting and evaluate it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			setupLogging(cfg)

			ds, err := loadDataset(cfg, dataset)
			if err != nil {
				return err
			}
			ds.ComposeNotes()

			meeting, err := pickMeeting(ds, meetingIdx)
			if err != nil {
				return err
			}
			log.WithField("meeting", meeting).Info("segmenting meeting")

			notes := ds.Notes[meeting]
			tr := ds.Transitions[meeting]

			entries := make([]segment.Entry, 0, len(notes))
			for _, u := range notes {
				entries = append(entries, segment.Entry{
					Speaker: u.Speaker,
					Start:   u.Start,
					End:     u.End,
					Text:    u.Text,
				})
			}

			trueK := countOnes(tr.Smoothed) + 1

			m, err := newModel(cfg, model, entries)
			if err != nil {
				return err
			}
			pred, err := m.SegmentMeeting(cmd.Context(), trueK)
			if err != nil {
				return err
			}
			if err := segment.Validate(pred, len(entries), trueK); err != nil {
				return err
			}

			window := windowSize(tr.Smoothed)
			loss, err := eval.WindowDiff(eval.LabelString(tr.Smoothed), eval.LabelString(pred), window)
			if err != nil {
				return err
			}

			log.WithFields(log.Fields{
				"true_k":      trueK,
				"predicted_k": countOnes(pred) + 1,
				"windowdiff":  loss,
			}).Info("evaluated meeting")

			run := &store.Run{
				Dataset:    dataset,
				Meeting:    meeting,
				Model:      model,
				Utterances: len(entries),
				TrueK:      trueK,
				PredictedK: countOnes(pred) + 1,
				Window:     window,
				WindowDiff: loss,
			}

			labelsPath, summaryPath, err := persistRun(cfg.Paths.Outputs, run, tr, pred)
			if err != nil {
				return err
			}
			log.WithFields(log.Fields{"labels": labelsPath, "summary": summaryPath}).Info("persisted run outputs")

			st, err := store.Open(cfg.Paths.ResultsDB)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.SaveRun(cmd.Context(), run); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Dataset", "Meeting", "Model", "Utterances", "True K", "Predicted K", "WindowDiff"},
				[][]string{{
					dataset,
					meeting,
					model,
					strconv.Itoa(len(entries)),
					strconv.Itoa(trueK),
					strconv.Itoa(countOnes(pred) + 1),
					fmt.Sprintf("%.4f", loss),
				}},
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", "icsi", "corpus to load (icsi|ami)")
	cmd.Flags().IntVar(&meetingIdx, "meeting", 0, "meeting index")
	cmd.Flags().StringVar(&model, "model", "random", "segmentation model (random|equi|embed)")
	return cmd
}

func newModel(cfg *config.Root, name string, entries []segment.Entry) (segment.Model, error) {
	switch name {
	case "random":
		seed := cfg.Segmentation.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		return segment.NewRandom(entries, seed), nil
	case "equi":
		return segment.NewEqui(entries), nil
	case "embed":
		emb := cfg.Embeddings
		return segment.NewEmbed(entries, clients.NewEmbeddings(emb.Endpoint, emb.Model, emb.APIKey)), nil
	}
	return nil, fmt.Errorf("unsupported model %q", name)
}

// windowSize is half the average ground-truth segment length.
func windowSize(smoothed []int) int {
	boundaries := countOnes(smoothed)
	if boundaries == 0 {
		return 1
	}
	k := int(math.Round(float64(len(smoothed)) / (float64(boundaries) * 2.0)))
	if k < 1 {
		k = 1
	}
	return k
}
