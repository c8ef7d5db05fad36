package diagfmt

// PathMode picks how a diagnostic's file path is printed.
type PathMode uint8

const (
	PathModeAuto     PathMode = iota // relative to the file set base dir, when set
	PathModeAbsolute                 // filepath.Abs of the recorded path
	PathModeRelative
	PathModeBasename
)

var pathModeNames = map[string]PathMode{
	"":         PathModeAuto,
	"auto":     PathModeAuto,
	"absolute": PathModeAbsolute,
	"relative": PathModeRelative,
	"basename": PathModeBasename,
}

// ParsePathMode maps the --path-mode spelling onto a PathMode.
func ParsePathMode(s string) (PathMode, bool) {
	m, ok := pathModeNames[s]
	return m, ok
}

// PrettyOpts configures Pretty.
type PrettyOpts struct {
	Color       bool
	PathMode    PathMode
	Width       uint8 // обрезка строки сниппета, 0 без ограничения
	ShowNotes   bool
	ShowFixes   bool
	ShowPreview bool // render the source line with fix edits applied
}

// JSONOpts configures JSON and BuildDiagnosticsOutput. Max truncates the
// printed list only; the bag keeps everything.
type JSONOpts struct {
	IncludePositions bool
	PathMode         PathMode
	Max              int
	IncludeNotes     bool
	IncludeFixes     bool
	IncludePreviews  bool
}
