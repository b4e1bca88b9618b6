package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/actionbridge"
	"github.com/aretw0/actionbridge/internal/presentation/tui"
	bridgehttp "github.com/aretw0/actionbridge/pkg/adapters/http"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var evalCmd = &cobra.Command{
	Use:   "eval <script.json>",
	Short: "Evaluate a script against the sample application",
	Long: `Evaluates a script file in-process and prints the outcome.
Use "-" to read the script from standard input.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := settings(cmd)
		if err != nil {
			return err
		}
		dataPath, _ := cmd.Flags().GetString("data")

		bridge, err := newBridge(cfg, logger)
		if err != nil {
			return err
		}

		out, err := runEval(cmd.Context(), bridge, args[0], dataPath)
		if err != nil {
			return err
		}

		tty := term.IsTerminal(int(os.Stdout.Fd()))
		if err := printOutcome(cmd.OutOrStdout(), out, tty); err != nil {
			return err
		}
		if out.Status != 200 {
			return fmt.Errorf("evaluation finished with status %d", out.Status)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringP("data", "d", "", "JSON file with the data referenced by $data")
}

func runEval(ctx context.Context, bridge *actionbridge.Bridge, scriptPath, dataPath string) (bridgehttp.Outcome, error) {
	src, err := readJSON(scriptPath)
	if err != nil {
		return bridgehttp.Outcome{}, err
	}
	var data any
	if dataPath != "" {
		if data, err = readJSON(dataPath); err != nil {
			return bridgehttp.Outcome{}, err
		}
	}
	return bridge.Handle(ctx, bridgehttp.Payload{Script: src, Data: data}), nil
}

// printOutcome renders the outcome with glamour on a terminal and as plain
// indented JSON otherwise.
func printOutcome(w io.Writer, out bridgehttp.Outcome, tty bool) error {
	if tty {
		block, err := tui.JSONBlock(fmt.Sprintf("Status %d", out.Status), out.Body)
		if err != nil {
			return err
		}
		render, err := tui.NewRenderer()
		if err != nil {
			return err
		}
		rendered, err := render(block)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, rendered)
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out.Body)
}

func readJSON(path string) (any, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var v any
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return v, nil
}
