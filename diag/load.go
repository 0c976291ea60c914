package diag

import (
	"log"

	"github.com/donjan/intervalgate/gate"
	"github.com/donjan/intervalgate/recording"
)

// LoadTable is the recording table that load samples go to.
const LoadTable = "load"

// DefaultLoadInterval is the default reporting interval of the load
// reporter, one second in microsecond ticks.
const DefaultLoadInterval gate.Ticks = 1_000_000

// A LoadSample is one recorded load report.
type LoadSample struct {
	ReportTime uint32
	BusyTicks  uint32
	Percent    float64
}

// A LoadReporter accumulates busy time measured by the caller and
// periodically logs the fraction of the reporting window that was spent
// busy.
//
// The report runs inside the measured loop and its own cost is not excluded,
// so the reported load is slightly overstated.
type LoadReporter struct {
	logger   *log.Logger
	gate     *gate.Gate
	recorder recording.DataRecorder

	busy gate.Ticks
}

// NewLoadReporter creates a reporter that reads time from tt and writes one
// line per DefaultLoadInterval into the logger.
func NewLoadReporter(tt gate.TimeTeller, logger *log.Logger) *LoadReporter {
	return &LoadReporter{
		logger: logger,
		gate:   gate.NewGate(tt, DefaultLoadInterval),
	}
}

// WithReportInterval overrides the reporting interval.
func (r *LoadReporter) WithReportInterval(
	interval gate.Ticks,
) *LoadReporter {
	r.gate.SetInterval(interval)

	return r
}

// RecordTo additionally persists one LoadSample per report through the given
// recorder. The table is created here.
func (r *LoadReporter) RecordTo(
	recorder recording.DataRecorder,
) *LoadReporter {
	recorder.CreateTable(LoadTable, LoadSample{})
	r.recorder = recorder

	return r
}

// AddBusy must be called once per loop iteration with the start and end
// times of the busy section. The subtraction is modular, so a busy section
// spanning the counter rollover is still counted correctly. On each report
// the accumulator resets, so the percentage always covers one reporting
// window.
func (r *LoadReporter) AddBusy(start, end gate.Ticks) {
	r.busy += gate.Elapsed(end, start)

	r.gate.Do(func() {
		percent := 0.0
		if r.gate.Interval() > 0 {
			percent = 100 * float64(r.busy) / float64(r.gate.Interval())
		}

		r.logger.Printf("load: %.1f%%", percent)

		if r.recorder != nil {
			r.recorder.InsertData(LoadTable, LoadSample{
				ReportTime: uint32(r.gate.LastFire()),
				BusyTicks:  uint32(r.busy),
				Percent:    percent,
			})
		}

		r.busy = 0
	})
}
