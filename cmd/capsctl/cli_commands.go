/*
   Copyright 2025 The TOLA Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "capsctl",
		Short: "Inspect capability routing, sets, and queries",
		Long: `capsctl is a read-only debugging tool for capability sets. It shows how
capability names are hashed and routed, evaluates boolean capability
expressions against explicit sets, and lists the built-in detectable
capability table.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging()
		},
	}

	verbose bool

	// exitCode is what main exits with when command execution itself
	// succeeds. eval sets it to 1 when the expression does not hold.
	exitCode int

	routeCmd = &cobra.Command{
		Use:   "route NAME...",
		Short: "Show routing key, trie path, and identity tier for names",
		Long: `Encodes each name the way capability sets do: the FNV-1a 64 routing
key, the sixteen 4-bit trie symbols in consumption order, and the
identity tier the name's length selects.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRoute,
	}

	evalExpr     string
	evalCaps     []string
	evalManifest string
	evalSet      string

	evalCmd = &cobra.Command{
		Use:   "eval -e EXPR (--caps A,B,... | --manifest FILE --set NAME)",
		Short: "Evaluate a boolean capability expression against a set",
		Long: `Parses EXPR ("a & !b | (c)") and evaluates it against the given set.
The set comes either from --caps directly or from a named set in a
YAML manifest.

Prints "true" or "false". Exits 0 when the expression holds, 1 when
it does not, and 2 on any error.`,
		Args: cobra.NoArgs,
		RunE: runEval,
	}

	inspectCaps     []string
	inspectManifest string
	inspectSet      string

	inspectCmd = &cobra.Command{
		Use:   "inspect (--caps A,B,... | --manifest FILE --set NAME)",
		Short: "Walk a capability set and report its routing details",
		Args:  cobra.NoArgs,
		RunE:  runInspect,
	}

	traitsCmd = &cobra.Command{
		Use:   "traits",
		Short: "List the built-in detectable capability table",
		Args:  cobra.NoArgs,
		RunE:  runTraits,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable diagnostic logging")

	rootCmd.AddCommand(routeCmd)

	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringVarP(&evalExpr, "expr", "e", "", "boolean capability expression (required)")
	evalCmd.Flags().StringSliceVar(&evalCaps, "caps", nil, "capability names forming the set")
	evalCmd.Flags().StringVar(&evalManifest, "manifest", "", "YAML manifest holding named sets")
	evalCmd.Flags().StringVar(&evalSet, "set", "", "set name inside the manifest")
	_ = evalCmd.MarkFlagRequired("expr")

	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringSliceVar(&inspectCaps, "caps", nil, "capability names forming the set")
	inspectCmd.Flags().StringVar(&inspectManifest, "manifest", "", "YAML manifest holding named sets")
	inspectCmd.Flags().StringVar(&inspectSet, "set", "", "set name inside the manifest")

	rootCmd.AddCommand(traitsCmd)
}

// configureLogging installs the slog handler: debug-level text on stderr
// when verbose, discarded otherwise.
func configureLogging() {
	if verbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		return
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// stdoutIsTTY gates decorative output; piped output stays machine-friendly.
func stdoutIsTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
