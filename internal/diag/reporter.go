package diag

// Reporter — приёмник диагностик. Фазы раскрытия не знают, куда идут
// сообщения: в Bag, через фильтр дублей или в счётчик.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(d Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// BagReporter — адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}

// CountingReporter forwards to Next and counts errors, so a phase can tell
// whether it reported anything without owning the bag.
type CountingReporter struct {
	Next   Reporter
	Errors int
}

func (r *CountingReporter) Report(d Diagnostic) {
	if d.Severity >= SevError {
		r.Errors++
	}
	if r.Next != nil {
		r.Next.Report(d)
	}
}
