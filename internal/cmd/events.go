// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/decoder"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/txn"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/visualizer"
	"github.com/spf13/cobra"
	"github.com/stellar/go/xdr"
)

const (
	eventsTopN = 5

	// Weights for ranking contracts by how much they did in a transaction
	weightContractEvent = 3
	weightCall          = 2
	weightDefault       = 1
)

var (
	eventsTree  bool
	eventsStats bool
)

type contractStat struct {
	contractID     string
	eventCount     int
	contractEvents int
	calls          int
	weight         uint64
	maxDepth       int
}

var txEventsCmd = &cobra.Command{
	Use:   "events <hash>",
	Short: "Decode the events of a transaction",
	Long: `Prints the contract events a transaction emitted. With --tree the
diagnostic events are grouped into a call tree; with --stats the contracts
that did the most work are ranked by weighted event count:
  - Contract events: weight 3
  - Function calls: weight 2
  - Other events: weight 1`,
	Args: cobra.ExactArgs(1),
	RunE: runEvents,
}

func runEvents(cmd *cobra.Command, args []string) error {
	res, err := current.pipeline.Status(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if res.Status == txn.FinalityNotFound {
		return fmt.Errorf("transaction %s not found", args[0])
	}
	out := cmd.OutOrStdout()

	meta, err := res.Meta()
	if err != nil {
		return err
	}

	if !eventsTree && !eventsStats {
		return printContractEvents(out, meta)
	}

	root, err := callTree(res, meta)
	if err != nil {
		return err
	}
	if eventsTree {
		visualizer.PrintCallTree(out, root)
	}
	if eventsStats {
		stats := buildContractStats(root)
		if len(stats) == 0 {
			_, _ = fmt.Fprintln(out, "No contract activity found in the diagnostic events.")
			return nil
		}
		printStatsTable(out, stats)
	}
	return nil
}

func printContractEvents(w io.Writer, meta xdr.TransactionMeta) error {
	events, _, err := decoder.ContractEvents(meta)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		_, _ = fmt.Fprintln(w, "No contract events.")
		return nil
	}
	for i, raw := range events {
		ev := decoder.RenderEvent(raw)
		_, _ = fmt.Fprintf(w, "%d. %s %s\n", i+1, visualizer.Colorize(ev.ContractID, "cyan"), strings.Join(ev.Topics, " "))
		_, _ = fmt.Fprintf(w, "   %s %s\n", visualizer.Symbol("arrow"), ev.Data)
	}
	return nil
}

// callTree prefers the diagnostic events reported by getTransaction and
// falls back to the ones recorded in the meta.
func callTree(res *txn.FinalityResult, meta xdr.TransactionMeta) (*decoder.CallNode, error) {
	raw := res.DiagnosticEventsXDR
	if len(raw) == 0 {
		for _, ev := range decoder.DiagnosticEvents(meta) {
			b64, err := xdr.MarshalBase64(ev)
			if err != nil {
				return nil, fmt.Errorf("encode diagnostic event: %w", err)
			}
			raw = append(raw, b64)
		}
	}
	return decoder.DecodeEvents(raw)
}

func buildContractStats(root *decoder.CallNode) []contractStat {
	index := make(map[string]*contractStat)

	var walk func(node *decoder.CallNode, depth int)
	walk = func(node *decoder.CallNode, depth int) {
		for _, ev := range node.Events {
			if ev.ContractID == "" {
				continue
			}
			s, ok := index[ev.ContractID]
			if !ok {
				s = &contractStat{contractID: ev.ContractID}
				index[ev.ContractID] = s
			}
			s.eventCount++
			switch {
			case len(ev.Topics) > 0 && ev.Topics[0] == "fn_call":
				s.calls++
				s.weight += weightCall
			case ev.Type == "Contract":
				s.contractEvents++
				s.weight += weightContractEvent
			default:
				s.weight += weightDefault
			}
			if depth > s.maxDepth {
				s.maxDepth = depth
			}
		}
		for _, sub := range node.SubCalls {
			walk(sub, depth+1)
		}
	}
	walk(root, 0)

	result := make([]contractStat, 0, len(index))
	for _, s := range index {
		result = append(result, *s)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].weight != result[j].weight {
			return result[i].weight > result[j].weight
		}
		return result[i].contractID < result[j].contractID
	})

	if len(result) > eventsTopN {
		result = result[:eventsTopN]
	}
	return result
}

func printStatsTable(w io.Writer, stats []contractStat) {
	const (
		colContract = 56
		colWeight   = 8
		colEvents   = 6
		colDepth    = 5
	)

	_, _ = fmt.Fprintf(w, "Top %d contracts by activity\n\n", eventsTopN)
	_, _ = fmt.Fprintf(w, "%-59s | %-8s | %-6s | %-5s\n", "Contract ID", "Weight", "Events", "Depth")
	_, _ = fmt.Fprintln(w, strings.Repeat("-", colContract+colWeight+colEvents+colDepth+12))

	for i, s := range stats {
		_, _ = fmt.Fprintf(w, "%d. %-56s | %-8d | %-6d | %-5d\n", i+1, s.contractID, s.weight, s.eventCount, s.maxDepth)
	}
}

func init() {
	txEventsCmd.Flags().BoolVar(&eventsTree, "tree", false, "print diagnostic events as a call tree")
	txEventsCmd.Flags().BoolVar(&eventsStats, "stats", false, "rank contracts by weighted event count")

	txCmd.AddCommand(txEventsCmd)
}
