package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "Inspect and invoke the action registry",
}

var actionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the registered actions",
	RunE:  runActionsList,
}

var invokeInput string

var actionsInvokeCmd = &cobra.Command{
	Use:   "invoke <name>",
	Short: "Invoke one action with JSON input and print the envelope",
	Long: `Invoke one action by name. Input comes from --input, either
inline JSON or @file. The full response envelope prints to stdout, so
failures land in .error rather than a non-zero exit.`,
	Args: cobra.ExactArgs(1),
	RunE: runActionsInvoke,
}

func init() {
	actionsInvokeCmd.Flags().StringVarP(&invokeInput, "input", "i", "{}", "JSON input, or @file")
	actionsCmd.AddCommand(actionsListCmd)
	actionsCmd.AddCommand(actionsInvokeCmd)
	rootCmd.AddCommand(actionsCmd)
}

func runActionsList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := newService(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	reg, err := svc.Registry()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, a := range reg.List() {
		fmt.Fprintf(w, "%s\t%s\n", a.Name, a.Description)
	}
	return w.Flush()
}

func runActionsInvoke(cmd *cobra.Command, args []string) error {
	input := []byte(invokeInput)
	if strings.HasPrefix(invokeInput, "@") {
		data, err := os.ReadFile(invokeInput[1:])
		if err != nil {
			return err
		}
		input = data
	}
	if !json.Valid(input) {
		return fmt.Errorf("input is not valid JSON")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := newService(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	reg, err := svc.Registry()
	if err != nil {
		return err
	}

	resp := reg.Invoke(cmd.Context(), args[0], input)
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
