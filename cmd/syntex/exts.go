package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"

	"syntex/internal/builtin"
	"syntex/internal/ext"
)

var extsCmd = &cobra.Command{
	Use:   "exts [flags] [query]",
	Short: "List registered extensions",
	Long:  `Exts prints the builtin extensions with their kinds; a query filters them by fuzzy name match`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExts,
}

func init() {
	extsCmd.Flags().String("format", "text", "output format (text|json)")
}

type extInfo struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Scope string `json:"scope,omitempty"`
	Doc   string `json:"doc,omitempty"`
}

func runExts(cmd *cobra.Command, args []string) error {
	formatValue, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	query := ""
	if len(args) == 1 {
		query = args[0]
	}
	infos := listExtensions(builtin.NewRegistry(), query)

	switch formatValue {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	case "text":
		colored, err := useColor(cmd, os.Stdout)
		if err != nil {
			return err
		}
		renderExts(cmd.OutOrStdout(), infos, colored)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (must be text or json)", formatValue)
	}
}

// listExtensions returns the registry content sorted by name, or by match
// rank when query is set.
func listExtensions(reg *ext.Registry, query string) []extInfo {
	byName := make(map[string][]*ext.Extension)
	names := make([]string, 0)
	for _, e := range reg.Extensions() {
		if _, ok := byName[e.Name]; !ok {
			names = append(names, e.Name)
		}
		byName[e.Name] = append(byName[e.Name], e)
	}
	sort.Strings(names)
	if query != "" {
		ranks := fuzzy.RankFindFold(query, names)
		sort.Stable(ranks)
		names = names[:0]
		for _, r := range ranks {
			names = append(names, r.Target)
		}
	}

	out := make([]extInfo, 0, len(names))
	for _, name := range names {
		for _, e := range byName[name] {
			out = append(out, extInfo{Name: e.Name, Kind: e.Kind.String(), Scope: e.Scope, Doc: e.Doc})
		}
	}
	return out
}

func renderExts(w io.Writer, infos []extInfo, colored bool) {
	nameColor := color.New(color.FgCyan, color.Bold)
	kindColor := color.New(color.FgYellow)
	if !colored {
		nameColor.DisableColor()
		kindColor.DisableColor()
	}
	for _, info := range infos {
		name := info.Name
		if info.Kind == ext.KindFunctionLike.String() || info.Kind == ext.KindIdentTagged.String() {
			name += "!"
		} else {
			name = "#[" + name + "]"
		}
		// выравнивание считаем по тексту без escape-последовательностей
		pad := max(0, 18-len(name))
		fmt.Fprintf(w, "%s%*s %s", nameColor.Sprint(name), pad, "", kindColor.Sprintf("%-14s", info.Kind))
		if info.Scope != "" {
			fmt.Fprintf(w, " [%s]", info.Scope)
		}
		if info.Doc != "" {
			fmt.Fprintf(w, " %s", info.Doc)
		}
		fmt.Fprintln(w)
	}
	if len(infos) == 0 {
		fmt.Fprintln(w, "no extensions match")
	}
}
