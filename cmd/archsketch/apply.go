package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/archsketch/engine/apply"
)

var (
	applySpecFile   string
	applyOpsFile    string
	applyOutputFile string
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a diff operation list to a spec",
	Long: `Apply executes an operation list (replace, add, remove, modify, connect,
disconnect) against a spec. Execution is best-effort: failed operations are
reported and skipped, the rest still run.`,
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().StringVarP(&applySpecFile, "spec", "s", "", "spec file to mutate (YAML or JSON)")
	applyCmd.Flags().StringVar(&applyOpsFile, "ops", "", "operation list file (YAML or JSON)")
	applyCmd.Flags().StringVarP(&applyOutputFile, "output", "o", "", "write the result here instead of stdout")
	applyCmd.MarkFlagRequired("spec")
	applyCmd.MarkFlagRequired("ops")
}

func runApply(cmd *cobra.Command, args []string) error {
	eng, err := newEngine()
	if err != nil {
		return err
	}

	g, err := loadGraph(applySpecFile)
	if err != nil {
		return err
	}
	ops, err := loadOperations(applyOpsFile)
	if err != nil {
		return err
	}

	res := eng.ApplyOperations(cmd.Context(), g, ops)

	for _, e := range res.Errors {
		fmt.Fprintln(os.Stderr, warnStyle.Render(e))
	}
	fmt.Fprintln(os.Stderr, successStyle.Render(fmt.Sprintf("%d/%d operations applied", res.AppliedOps, len(ops))))

	return writeOutput(res, applyOutputFile)
}

func loadOperations(path string) ([]apply.Operation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read operations %s: %w", path, err)
	}
	var ops []apply.Operation
	if isJSON(path) {
		err = json.Unmarshal(data, &ops)
	} else {
		err = yaml.Unmarshal(data, &ops)
	}
	if err != nil {
		return nil, fmt.Errorf("parse operations %s: %w", path, err)
	}
	return ops, nil
}
