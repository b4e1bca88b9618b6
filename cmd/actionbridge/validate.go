package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/actionbridge/internal/presentation/tui"
	"github.com/aretw0/actionbridge/pkg/script"
	"github.com/spf13/cobra"
)

var errInvalid = errors.New("validation failed")

var validateCmd = &cobra.Command{
	Use:   "validate <script.json>",
	Short: "Check a script without evaluating it",
	Long:  `Validates the script against the grammar and the registered executors. No action is dispatched.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := settings(cmd)
		if err != nil {
			return err
		}
		bridge, err := newBridge(cfg, logger)
		if err != nil {
			return err
		}
		src, err := readJSON(args[0])
		if err != nil {
			return err
		}
		return runValidate(cmd.OutOrStdout(), bridge.Engine(), src)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(w io.Writer, engine *script.Engine, src any) error {
	err := engine.Validate(src)
	if err == nil {
		tui.PrintVerdict(w, true, "script is valid")
		return nil
	}

	tui.PrintVerdict(w, false, err.Error())
	var il script.IssueLister
	if errors.As(err, &il) {
		for _, issue := range il.IssueList() {
			fmt.Fprintf(w, "  - [%s] %s\n", issue.Keyword, issue)
		}
	}
	return errInvalid
}
