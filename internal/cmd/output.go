// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/txn"
	"github.com/Tico4Chain-Coders/Trustless-Backend/internal/visualizer"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printFinality(w io.Writer, res *txn.FinalityResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "Status:\t%s\n", visualizer.Status(res.Status.String()))
	_, _ = fmt.Fprintf(tw, "Hash:\t%s\n", res.Hash)
	if res.Ledger != 0 {
		_, _ = fmt.Fprintf(tw, "Ledger:\t%d\n", res.Ledger)
	}
	if !res.CreatedAt.IsZero() {
		_, _ = fmt.Fprintf(tw, "Closed:\t%s\n", res.CreatedAt.UTC().Format(time.RFC3339))
	}
	if res.Attempts > 0 {
		_, _ = fmt.Fprintf(tw, "Polls:\t%d\n", res.Attempts)
	}
	_ = tw.Flush()
}
