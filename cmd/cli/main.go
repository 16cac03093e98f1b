package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)

	rootCmd := &cobra.Command{
		Use:           "goexpense-cli",
		Short:         "GoExpense CLI tool",
		Long:          `A command line interface for interacting with the GoExpense API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the GoExpense API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	client := func() *apiClient { return newAPIClient(baseURL, timeout) }

	rootCmd.AddCommand(
		listCmd(client),
		addCmd(client),
		removeCmd(client),
		balanceCmd(client),
		refreshCmd(client),
		exportCmd(client),
	)

	return rootCmd
}
