package driver

import (
	"encoding/json"
	"fmt"
	"time"

	"syntex/internal/diag"
	"syntex/internal/observ"
)

// timingPayload is the JSON note of an ObsTimings diagnostic.
type timingPayload struct {
	Kind    string                `json:"kind"`
	Path    string                `json:"path,omitempty"`
	TotalMS float64               `json:"total_ms"`
	Phases  []observ.PhaseReport  `json:"phases"`
	Stats   observ.ExpansionStats `json:"stats"`
	Dropped int                   `json:"dropped_diagnostics,omitempty"`
}

// recordTimings appends the --timings diagnostic for this file. It is added
// past the bag limit so a diagnostic flood cannot hide it.
func (res *FileResult) recordTimings(total time.Duration) {
	p := timingPayload{
		Kind:    "expand",
		Path:    res.Path,
		TotalMS: total.Seconds() * 1e3,
		Phases:  res.Timings.Phases,
		Stats:   res.Stats,
		Dropped: res.Bag.Dropped(),
	}
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	res.Bag.Append(diag.Diagnostic{
		Severity: diag.SevInfo,
		Code:     diag.ObsTimings,
		Message:  fmt.Sprintf("timings (%s): total %.2f ms, %s", p.Kind, p.TotalMS, p.Path),
		Notes:    []diag.Note{{Msg: string(data)}},
	})
}
