package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maastricht-university/topicseg/config"
	"github.com/maastricht-university/topicseg/corpus"
)

func newViewCommand() *cobra.Command {
	var dataset string
	var meetingIdx int

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Print a meeting's topic leaves and their transcripts",
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

			out := cmd.OutOrStdout()
			for _, leaf := range corpus.Leaves(ds.Annos[meeting]) {
				fmt.Fprintf(out, "\n=== segment %s ===\n", leaf.Path)
				for _, utt := range leaf.Convo {
					fmt.Fprintln(out, utt.Composite)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", "icsi", "corpus to load (icsi|ami)")
	cmd.Flags().IntVar(&meetingIdx, "meeting", 0, "meeting index")
	return cmd
}
