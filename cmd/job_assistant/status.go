package main

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check that the backend is reachable and healthy",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	rt.session.Start(cmd.Context())
	rt.session.Wait()

	state := rt.session.Snapshot().Status
	rt.printer.PrintStatus(state)
	if state.Err != nil {
		return state.Err
	}
	return nil
}
