package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/maastricht-university/topicseg/config"
	"github.com/maastricht-university/topicseg/corpus"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "topicseg",
		Short:         "Ground-truth topic boundaries for the ICSI and AMI meeting corpora",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newViewCommand(), newSegmentCommand(), newRunsCommand())
	return cmd
}

func setupLogging(cfg *config.Root) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	lvl, err := log.ParseLevel(cfg.Pipeline.LogLvl)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

func loadDataset(cfg *config.Root, name string) (*corpus.Dataset, error) {
	seg := cfg.Segmentation
	switch name {
	case "icsi":
		return corpus.LoadICSI(cfg.Corpora.ICSI.Root, seg.MinSegmentSize, seg.TimedUtterances, seg.Restricted)
	case "ami":
		return corpus.LoadAMI(cfg.Corpora.AMI.Root, seg.MinSegmentSize, seg.TimedUtterances, seg.Restricted)
	}
	return nil, fmt.Errorf("unsupported dataset %q", name)
}

func pickMeeting(ds *corpus.Dataset, idx int) (string, error) {
	if idx < 0 || idx >= len(ds.Meetings) {
		return "", fmt.Errorf("meeting index %d out of range (%d meetings)", idx, len(ds.Meetings))
	}
	return ds.Meetings[idx], nil
}

func countOnes(labels []int) int {
	ones := 0
	for _, lab := range labels {
		if lab == 1 {
			ones++
		}
	}
	return ones
}
