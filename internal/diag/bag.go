package diag

import (
	"cmp"
	"math"
	"slices"

	"fortio.org/safecast"

	"syntex/internal/source"
)

// Bag collects the diagnostics of one expansion run. Once the limit is hit
// further diagnostics are counted in Dropped instead of being stored.
type Bag struct {
	items   []Diagnostic
	limit   uint16
	dropped int
}

// NewBag creates a bag holding at most max diagnostics; max <= 0 or values
// past the uint16 range mean "as many as fit".
func NewBag(max int) *Bag {
	limit, err := safecast.Conv[uint16](max)
	if err != nil || max <= 0 {
		limit = math.MaxUint16
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(int(limit), 64)),
		limit: limit,
	}
}

// Add сохраняет d, если лимит не исчерпан; иначе считает её в Dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.limit) {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Append stores d even past the limit. Used for bookkeeping entries
// (timings, driver failures) that must survive a flood of user diagnostics.
func (b *Bag) Append(d Diagnostic) {
	b.items = append(b.items, d)
	if len(b.items) > int(b.limit) {
		b.limit = clampLimit(len(b.items))
	}
}

func (b *Bag) Cap() uint16 { return b.limit }

// Dropped reports how many diagnostics Add refused.
func (b *Bag) Dropped() int { return b.dropped }

func (b *Bag) Len() int { return len(b.items) }

func (b *Bag) count(atLeast Severity) int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity >= atLeast {
			n++
		}
	}
	return n
}

func (b *Bag) HasErrors() bool   { return b.count(SevError) > 0 }
func (b *Bag) HasWarnings() bool { return b.count(SevWarning) > 0 }
func (b *Bag) ErrorCount() int   { return b.count(SevError) }

// Filter оставляет только диагностики, для которых keep вернул true.
func (b *Bag) Filter(keep func(Diagnostic) bool) {
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool { return !keep(d) })
}

// Items отдаёт внутренний срез без копирования; не модифицировать.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge moves everything from other into b, growing the limit when needed.
// Dropped counts are summed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
	if len(b.items) > int(b.limit) {
		b.limit = clampLimit(len(b.items))
	}
	b.dropped += other.dropped
}

// Sort orders by file, span start, span end, then severity (errors first)
// and code id. Stable, so equal keys keep report order.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code.ID(), y.Code.ID()),
		)
	})
}

// Dedup drops repeats of the same code at the same primary span, keeping
// the first.
func (b *Bag) Dedup() {
	type key struct {
		code Code
		span source.Span
	}
	seen := make(map[key]struct{}, len(b.items))
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool {
		k := key{d.Code, d.Primary}
		if _, dup := seen[k]; dup {
			return true
		}
		seen[k] = struct{}{}
		return false
	})
}

func clampLimit(n int) uint16 {
	v, err := safecast.Conv[uint16](n)
	if err != nil {
		return math.MaxUint16
	}
	return v
}
