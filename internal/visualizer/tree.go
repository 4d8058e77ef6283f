// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package visualizer

import (
	"fmt"
	"io"
	"strings"

	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/decoder"
)

// PrintCallTree writes the call tree rooted at root, one line per event
// and nested call.
func PrintCallTree(w io.Writer, root *decoder.CallNode) {
	fmt.Fprintln(w, Colorize(root.Function, "bold"))
	printChildren(w, root, "")
}

func printChildren(w io.Writer, node *decoder.CallNode, prefix string) {
	total := len(node.Events) + len(node.SubCalls)
	i := 0
	next := func() (string, string) {
		i++
		if i == total {
			return prefix + Symbol("last"), prefix + Symbol("space")
		}
		return prefix + Symbol("branch"), prefix + Symbol("pipe")
	}

	for _, ev := range node.Events {
		head, _ := next()
		fmt.Fprintf(w, "%s %s\n", head, formatEvent(ev))
	}
	for _, sub := range node.SubCalls {
		head, childPrefix := next()
		fmt.Fprintf(w, "%s %s\n", head, Colorize(sub.Function, "cyan"))
		printChildren(w, sub, childPrefix+" ")
	}
}

func formatEvent(ev decoder.DecodedEvent) string {
	var b strings.Builder
	b.WriteString(Colorize(strings.ToLower(ev.Type), "dim"))
	if len(ev.Topics) > 0 {
		b.WriteString(" [")
		b.WriteString(strings.Join(ev.Topics, ", "))
		b.WriteString("]")
	}
	if ev.Data != "" && ev.Data != "void" {
		b.WriteString(" " + Symbol("arrow") + " ")
		b.WriteString(ev.Data)
	}
	if !ev.InSuccess {
		b.WriteString(" " + Warning())
	}
	return b.String()
}
