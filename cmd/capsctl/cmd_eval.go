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
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"tola.dev/caps/query"
)

func runEval(cmd *cobra.Command, args []string) error {
	set, err := resolveSet(evalCaps, evalManifest, evalSet)
	if err != nil {
		return err
	}
	q, err := query.Parse(evalExpr)
	if err != nil {
		return err
	}
	slog.Debug("evaluating", "query", q.String(), "set", set.Names())

	res := q.Eval(set)
	fmt.Fprintln(cmd.OutOrStdout(), res)
	if !res {
		exitCode = 1
	}
	return nil
}
