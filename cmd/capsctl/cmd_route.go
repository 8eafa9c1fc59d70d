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
	"strings"

	"github.com/spf13/cobra"

	"tola.dev/caps/identity"
)

func runRoute(cmd *cobra.Command, args []string) error {
	pretty := stdoutIsTTY()
	out := cmd.OutOrStdout()
	for _, name := range args {
		key := identity.Route(name)
		id := identity.Identify(name)
		if pretty {
			fmt.Fprintf(out, "%s\n", name)
			fmt.Fprintf(out, "  key   0x%016x\n", uint64(key))
			fmt.Fprintf(out, "  path  %s\n", formatPath(key.Path(identity.KeyNibbles)))
			fmt.Fprintf(out, "  tier  %s\n", id.Tier())
		} else {
			fmt.Fprintf(out, "%s\t0x%016x\t%s\n", name, uint64(key), id.Tier())
		}
	}
	return nil
}

// formatPath renders trie symbols as space-separated hex digits, in
// consumption order.
func formatPath(nibbles []uint8) string {
	var b strings.Builder
	for i, n := range nibbles {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%x", n)
	}
	return b.String()
}
