package main

import (
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise recorded detections",
	Long: `Print the method and confidence distributions, verification rate and
correction rate over every detection in the feedback store.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx, a, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.Close(); err == nil {
				err = cerr
			}
		}()

		if err := a.openRecorder(ctx); err != nil {
			return err
		}
		return printOutput(cmd.OutOrStdout(), a.recorder.Statistics())
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
