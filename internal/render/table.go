// Package render formats admitted blocks for human inspection. It only
// reads fields the chain has already computed.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/LodestoneLabs/lodestone/internal/blockchain"
)

const rule = "----------------------------------------------------------------"

// Block writes one block as a small field table.
func Block(w io.Writer, b *blockchain.Block) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Index\t%d\n", b.Index)
	fmt.Fprintf(tw, "Nonce\t%d\n", b.Nonce)
	fmt.Fprintf(tw, "Previous\t%s\n", b.PrevDigest)
	fmt.Fprintf(tw, "Hash\t%s\n", b.Digest)
	fmt.Fprintf(tw, "Content\t%s\n", strings.TrimRight(b.Content, "\n"))

	return tw.Flush()
}

// Chain writes every block in index order, separated by a rule.
func Chain(w io.Writer, blocks []*blockchain.Block) error {
	for i, b := range blocks {
		if i > 0 {
			if _, err := fmt.Fprintln(w, rule); err != nil {
				return err
			}
		}
		if err := Block(w, b); err != nil {
			return err
		}
	}
	return nil
}
