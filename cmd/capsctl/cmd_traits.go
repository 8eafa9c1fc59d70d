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
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tola.dev/caps/traits"
)

func runTraits(cmd *cobra.Command, args []string) error {
	table := traits.Builtin()
	out := cmd.OutOrStdout()
	if stdoutIsTTY() {
		fmt.Fprintf(out, "%d built-in detectable capabilities\n", len(table))
	}

	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDETECTS")
	for _, tr := range table {
		fmt.Fprintf(w, "%s\t%s\n", tr.Name, tr.Doc)
	}
	return w.Flush()
}
