package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	engine "github.com/archsketch/engine"
)

var (
	parseCurrentFile  string
	parseOutputFile   string
	parseNoTemplates  bool
	parseNoDetection  bool
	parseShowAdvisory bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <prompt>",
	Short: "Parse a natural-language request into a topology spec",
	Long: `Parse classifies the prompt (create, add, remove, modify, connect,
disconnect, query) and produces the resulting spec. Mutating commands need
--current pointing at the spec to edit.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseCurrentFile, "current", "c", "", "current spec file to edit (YAML or JSON)")
	parseCmd.Flags().StringVarP(&parseOutputFile, "output", "o", "", "write the result here instead of stdout")
	parseCmd.Flags().BoolVar(&parseNoTemplates, "no-templates", false, "skip the template matching tier")
	parseCmd.Flags().BoolVar(&parseNoDetection, "no-detection", false, "skip the component detection tier")
	parseCmd.Flags().BoolVar(&parseShowAdvisory, "advisories", true, "print validator warnings and suggestions to stderr")
}

func runParse(cmd *cobra.Command, args []string) error {
	eng, err := newEngine()
	if err != nil {
		return err
	}

	req := engine.ParseRequest{Prompt: strings.Join(args, " ")}
	if parseCurrentFile != "" {
		if req.CurrentSpec, err = loadGraph(parseCurrentFile); err != nil {
			return err
		}
	}
	if parseNoTemplates || parseNoDetection {
		useTemplates := !parseNoTemplates
		useDetection := !parseNoDetection
		req.Options = &engine.ParseOptions{
			UseTemplates:          &useTemplates,
			UseComponentDetection: &useDetection,
		}
	}

	res := eng.Parse(cmd.Context(), req)

	if parseShowAdvisory {
		printAdvisories(res.Warnings, res.Suggestions)
	}
	if !res.Success {
		fmt.Fprintln(os.Stderr, warnStyle.Render(res.Error))
	}
	if res.IsFallback {
		fmt.Fprintln(os.Stderr, hintStyle.Render("(기본 구성으로 대체되었습니다)"))
	}

	return writeOutput(res, parseOutputFile)
}
