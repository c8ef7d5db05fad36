package fuzztests

import (
	"bytes"
	"context"
	"testing"
	"time"

	"syntex/internal/ast"
	"syntex/internal/builtin"
	"syntex/internal/expand"
	"syntex/internal/treeio"
)

const maxFuzzInput = 1 << 16 // 64 KiB

// expandTimeout is the maximum time allowed for one decoded crate. A longer
// run points at a scheduler loop that ignores the recursion limit.
const expandTimeout = 5 * time.Second

func FuzzTreeDecode(f *testing.F) {
	addTreeSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		if len(input) > maxFuzzInput {
			input = input[:maxFuzzInput]
		}
		c, fs, err := treeio.Decode(bytes.NewReader(input))
		if err != nil {
			return
		}
		// всё, что декодировалось, должно кодироваться обратно
		var buf bytes.Buffer
		if err := treeio.Encode(&buf, c, fs, "fuzz"); err != nil {
			t.Fatalf("re-encode of decoded crate failed: %v", err)
		}
	})
}

func FuzzExpandDecoded(f *testing.F) {
	addTreeSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		if len(input) > maxFuzzInput {
			input = input[:maxFuzzInput]
		}
		c, _, err := treeio.Decode(bytes.NewReader(input))
		if err != nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), expandTimeout)
		defer cancel()

		done := make(chan *expand.Result, 1)
		go func() {
			conf := expand.DefaultConfig("fuzz")
			conf.Policy = expand.PolicyPermissive
			conf.RecursionLimit = 16
			res, _ := expand.Run(ctx, c, builtin.NewRegistry(), conf)
			done <- res
		}()

		select {
		case res := <-done:
			if res == nil {
				t.Fatal("Run returned a nil result")
			}
		case <-ctx.Done():
			t.Fatalf("expansion hang detected after %v (%d input bytes)", expandTimeout, len(input))
		}
	})
}

func FuzzParseMeta(f *testing.F) {
	addMetaSeeds(f)
	f.Fuzz(func(t *testing.T, src string) {
		if len(src) > maxFuzzInput {
			src = src[:maxFuzzInput]
		}
		m, err := ast.ParseMeta(src)
		if err != nil {
			return
		}
		printed := m.String()
		again, err := ast.ParseMeta(printed)
		if err != nil {
			t.Fatalf("printed form %q of %q does not parse: %v", printed, src, err)
		}
		if again.String() != printed {
			t.Fatalf("printing is not stable: %q then %q", printed, again.String())
		}
	})
}
