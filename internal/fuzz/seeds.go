package fuzztests

import (
	"bytes"
	"testing"

	"syntex/internal/ast"
	"syntex/internal/source"
	"syntex/internal/treeio"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
)

var seedSpan = source.Span{}

// seedCrates covers each invocation shape the expander dispatches on.
func seedCrates() []*ast.Crate {
	stringify := ast.NewMac(seedSpan, "stringify",
		ast.IdentTok(seedSpan, "a"), ast.PunctTok(seedSpan, "+"), ast.IntTok(seedSpan, 1))
	unknown := ast.NewMac(seedSpan, "nope")
	return []*ast.Crate{
		{Name: "empty"},
		{
			Name:  "konst",
			Items: []*ast.Item{ast.ConstItemOf(seedSpan, "X", ast.PathTyOf(seedSpan, "str"), ast.MacExprOf(stringify))},
		},
		{
			Name:  "unknown",
			Items: []*ast.Item{ast.FnItemOf(seedSpan, "f", ast.ExprStmtOf(ast.MacExprOf(unknown), true))},
		},
	}
}

func addTreeSeeds(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0xc1})
	for _, c := range seedCrates() {
		var buf bytes.Buffer
		if err := treeio.Encode(&buf, c, nil, "fuzz"); err != nil {
			f.Fatalf("encode seed %s: %v", c.Name, err)
		}
		f.Add(clampSeed(buf.Bytes()))
	}
}

func addMetaSeeds(f *testing.F) {
	for _, s := range []string{
		"",
		"test",
		`feature = "serde"`,
		"derive(Clone, Debug)",
		"all(unix, not(test), any(feature = \"a\", windows))",
		"cfg_attr(test, derive(Debug))",
		"derive(",
		"= 1",
	} {
		f.Add(s)
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
