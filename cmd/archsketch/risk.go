package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/archsketch/engine/risk"
)

var (
	riskBeforeFile string
	riskAfterFile  string
	riskOutputFile string
	riskJSONOnly   bool
)

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Assess how risky a spec change is",
	Long: `Risk compares a before and after spec and reports the triggered risk
factors, the overall level, and a handling recommendation (auto-apply,
confirm, review-required).`,
	RunE: runRisk,
}

func init() {
	rootCmd.AddCommand(riskCmd)

	riskCmd.Flags().StringVar(&riskBeforeFile, "before", "", "spec before the change (YAML or JSON)")
	riskCmd.Flags().StringVar(&riskAfterFile, "after", "", "spec after the change (YAML or JSON)")
	riskCmd.Flags().StringVarP(&riskOutputFile, "output", "o", "", "write the assessment here instead of stdout")
	riskCmd.Flags().BoolVar(&riskJSONOnly, "json", false, "suppress the styled report, emit only the payload")
	riskCmd.MarkFlagRequired("before")
	riskCmd.MarkFlagRequired("after")
}

func runRisk(cmd *cobra.Command, args []string) error {
	eng, err := newEngine()
	if err != nil {
		return err
	}

	before, err := loadGraph(riskBeforeFile)
	if err != nil {
		return err
	}
	after, err := loadGraph(riskAfterFile)
	if err != nil {
		return err
	}

	assessment := eng.AssessChange(cmd.Context(), before, after)

	if !riskJSONOnly {
		printAssessment(assessment)
	}
	return writeOutput(assessment, riskOutputFile)
}

func printAssessment(a risk.Assessment) {
	fmt.Fprintf(os.Stderr, "Risk level: %s   recommendation: %s\n\n",
		renderLevel(a.Level), string(a.Recommendation))
	fmt.Fprintf(os.Stderr, "Nodes: +%d/-%d   Connections: +%d/-%d\n\n",
		a.Summary.AddedNodes, a.Summary.RemovedNodes,
		a.Summary.AddedConnections, a.Summary.RemovedConnections)

	for _, f := range a.Factors {
		line := fmt.Sprintf("%s  %s", renderLevel(f.Level), f.Description)
		if f.Details != "" {
			line += dimStyle.Render(" (" + f.Details + ")")
		}
		fmt.Fprintln(os.Stderr, line)
	}
}
