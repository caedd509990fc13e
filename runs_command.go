package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/maastricht-university/topicseg/config"
	"github.com/maastricht-university/topicseg/store"
)

func newRunsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List persisted evaluation runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			setupLogging(cfg)

			st, err := store.Open(cfg.Paths.ResultsDB)
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.ListRuns(cmd.Context())
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.CreatedAt.Format("2006-01-02 15:04:05"),
					run.Dataset,
					run.Meeting,
					run.Model,
					strconv.Itoa(run.Utterances),
					strconv.Itoa(run.TrueK),
					strconv.Itoa(run.PredictedK),
					fmt.Sprintf("%.4f", run.WindowDiff),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"When", "Dataset", "Meeting", "Model", "Utterances", "True K", "Predicted K", "WindowDiff"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}
	return cmd
}
