package ext

import (
	"fmt"
	"strings"

	"syntex/internal/cfg"
	"syntex/internal/diag"
	"syntex/internal/hygiene"
	"syntex/internal/source"
)

// ExpansionData is the state of the invocation currently being expanded.
type ExpansionData struct {
	Mark   hygiene.Mark
	Depth  int
	Module []string // module path below the crate root
	Expn   source.ExpnID
	Callee string
}

// ExtCtxt is handed to every extension. It is owned by a single expansion
// run and must not be retained after the extension returns.
type ExtCtxt struct {
	crateName string
	reporter  diag.Reporter
	cfg       *cfg.Set
	expns     *hygiene.ExpnTable
	current   ExpansionData
	errors    int
}

func NewExtCtxt(crateName string, r diag.Reporter, set *cfg.Set, expns *hygiene.ExpnTable) *ExtCtxt {
	if set == nil {
		set = cfg.NewSet()
	}
	if expns == nil {
		expns = &hygiene.ExpnTable{}
	}
	return &ExtCtxt{crateName: crateName, reporter: r, cfg: set, expns: expns}
}

func (cx *ExtCtxt) CrateName() string         { return cx.crateName }
func (cx *ExtCtxt) Cfg() *cfg.Set             { return cx.cfg }
func (cx *ExtCtxt) Current() ExpansionData    { return cx.current }
func (cx *ExtCtxt) Expns() *hygiene.ExpnTable { return cx.expns }

// Enter installs the data of the invocation about to run and returns the
// previous state for Leave.
func (cx *ExtCtxt) Enter(data ExpansionData) ExpansionData {
	prev := cx.current
	cx.current = data
	return prev
}

func (cx *ExtCtxt) Leave(prev ExpansionData) { cx.current = prev }

// ModulePath renders `crate::a::b` for the current module.
func (cx *ExtCtxt) ModulePath() string {
	parts := make([]string, 0, len(cx.current.Module)+1)
	parts = append(parts, cx.crateName)
	parts = append(parts, cx.current.Module...)
	return strings.Join(parts, "::")
}

// ErrorCount is the number of errors reported through this context.
func (cx *ExtCtxt) ErrorCount() int { return cx.errors }

func (cx *ExtCtxt) Error(sp source.Span, msg string) {
	cx.errors++
	cx.report(diag.SevError, diag.ExpExtensionError, sp, msg)
}

func (cx *ExtCtxt) Errorf(sp source.Span, format string, args ...any) {
	cx.Error(sp, fmt.Sprintf(format, args...))
}

func (cx *ExtCtxt) Warn(sp source.Span, msg string) {
	cx.report(diag.SevWarning, diag.ExpExtensionWarning, sp, msg)
}

// Report emits a diagnostic with an explicit code. The expansion backtrace
// of the current invocation is attached as notes.
func (cx *ExtCtxt) Report(sev diag.Severity, code diag.Code, sp source.Span, msg string) *diag.ReportBuilder {
	rb := diag.NewReportBuilder(cx.reporter, sev, code, sp, msg)
	expn := sp.Expn
	if expn == source.NoExpn {
		expn = cx.current.Expn
	}
	for _, info := range cx.expns.Backtrace(expn) {
		rb = rb.WithNote(info.CallSite, expansionNote(info))
	}
	return rb
}

func (cx *ExtCtxt) report(sev diag.Severity, code diag.Code, sp source.Span, msg string) {
	cx.Report(sev, code, sp, msg).Emit()
}

func expansionNote(info hygiene.ExpnInfo) string {
	if info.Format == hygiene.FormatAttr {
		return fmt.Sprintf("in this expansion of `#[%s]`", info.Callee)
	}
	return fmt.Sprintf("in this expansion of `%s!`", info.Callee)
}
