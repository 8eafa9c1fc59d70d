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
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tola.dev/caps/capset"
)

func runInspect(cmd *cobra.Command, args []string) error {
	set, err := resolveSet(inspectCaps, inspectManifest, inspectSet)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if stdoutIsTTY() {
		fmt.Fprintf(out, "%d capabilities\n", set.Size())
	}

	var entries []capset.Capability
	set.Walk(func(c capset.Capability) bool {
		entries = append(entries, c)
		return true
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKEY\tTIER")
	for _, c := range entries {
		fmt.Fprintf(w, "%s\t0x%016x\t%s\n", c.Name(), uint64(c.Key()), c.Identity().Tier())
	}
	return w.Flush()
}
