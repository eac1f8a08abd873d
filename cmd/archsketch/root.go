package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	engine "github.com/archsketch/engine"
	"github.com/archsketch/engine/graph"
	"github.com/archsketch/engine/knowledge"
)

var knowledgeFile string

var rootCmd = &cobra.Command{
	Use:   "archsketch",
	Short: "Turn natural-language requests into infrastructure topology specs",
	Long: `archsketch parses short Korean/English requests ("3티어 웹 만들어줘",
"add a WAF in front of the web server") into an editable topology graph,
applies diff operations to existing graphs, and scores how risky a change is.

Specs are plain YAML or JSON files; the format follows the file extension.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprint(os.Stderr, formatError(err))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&knowledgeFile, "knowledge", "", "knowledge artifact YAML overriding the built-in rules")
}

// newEngine builds the engine, honoring the --knowledge override.
func newEngine() (*engine.Engine, error) {
	if knowledgeFile == "" {
		return engine.New(), nil
	}
	base, err := knowledge.LoadArtifact(knowledgeFile)
	if err != nil {
		return nil, err
	}
	return engine.New(engine.WithKnowledgeBase(base)), nil
}

// loadGraph reads a spec file as YAML or JSON depending on its extension.
func loadGraph(path string) (*graph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec %s: %w", path, err)
	}
	var g graph.Graph
	if isJSON(path) {
		err = json.Unmarshal(data, &g)
	} else {
		err = yaml.Unmarshal(data, &g)
	}
	if err != nil {
		return nil, fmt.Errorf("parse spec %s: %w", path, err)
	}
	return &g, nil
}

// writeOutput marshals v to the given path, or to stdout when path is empty.
// Stdout defaults to JSON; files follow their extension.
func writeOutput(v any, path string) error {
	var (
		data []byte
		err  error
	)
	if path == "" || isJSON(path) {
		data, err = json.MarshalIndent(v, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	} else {
		data, err = yaml.Marshal(v)
	}
	if err != nil {
		return err
	}
	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
