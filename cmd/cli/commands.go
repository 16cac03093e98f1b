package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const titleWidth = 32

func listCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := client().List(cmd.Context())
			if err != nil {
				return err
			}
			printList(cmd.OutOrStdout(), list)
			return nil
		},
	}
}

func addCmd(client func() *apiClient) *cobra.Command {
	var title, amount string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a transaction (negative amounts are expenses)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tx, err := client().Add(cmd.Context(), title, amount)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s %s %s\n", tx.ID, tx.Amount.StringFixed(2), tx.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Transaction title")
	cmd.Flags().StringVar(&amount, "amount", "", "Signed amount, e.g. 20000 or -5000.50")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func removeCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove a transaction",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client().Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		},
	}
}

func balanceCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the balance header",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := client().Balance(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Balance: %s\n", b.Balance.StringFixed(2))
			fmt.Fprintf(out, "Income:  %s\n", b.Income.StringFixed(2))
			fmt.Fprintf(out, "Expense: %s\n", b.Expense.StringFixed(2))
			fmt.Fprintf(out, "Count:   %d\n", b.Count)
			if b.Celebrate {
				fmt.Fprintf(out, "Balance reached %s!\n", b.Threshold.String())
			}
			return nil
		},
	}
}

func refreshCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Reload transactions from the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := client().Refresh(cmd.Context())
			if err != nil {
				return err
			}
			printList(cmd.OutOrStdout(), list)
			return nil
		},
	}
}

func exportCmd(client func() *apiClient) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all transactions as json or yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unsupported format %q, use json or yaml", format)
			}

			list, err := client().List(cmd.Context())
			if err != nil {
				return err
			}

			if format == "yaml" {
				return printYAML(cmd.OutOrStdout(), list)
			}
			return printJSON(cmd.OutOrStdout(), list)
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or yaml")

	return cmd
}

func printList(w io.Writer, list *transactionList) {
	fmt.Fprintf(w, "Balance: %s (%d transactions)\n", list.Balance.StringFixed(2), list.Count)
	if len(list.Transactions) == 0 {
		fmt.Fprintln(w, "No transactions yet.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAMOUNT")
	for _, tx := range list.Transactions {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", tx.ID, truncate(tx.Title, titleWidth), tx.Amount.StringFixed(2))
	}
	tw.Flush()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printYAML writes amounts as strings so no precision is lost.
func printYAML(w io.Writer, list *transactionList) error {
	type yamlTx struct {
		ID     string `yaml:"id"`
		Title  string `yaml:"title"`
		Amount string `yaml:"amount"`
		Kind   string `yaml:"kind"`
	}
	doc := struct {
		Balance      string   `yaml:"balance"`
		Count        int      `yaml:"count"`
		Transactions []yamlTx `yaml:"transactions"`
	}{
		Balance:      list.Balance.String(),
		Count:        list.Count,
		Transactions: make([]yamlTx, len(list.Transactions)),
	}
	for i, tx := range list.Transactions {
		doc.Transactions[i] = yamlTx{ID: tx.ID, Title: tx.Title, Amount: tx.Amount.String(), Kind: tx.Kind}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
