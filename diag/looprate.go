// Package diag provides polling-loop diagnostics built on gates: reporters
// that periodically log the loop rate, the memory usage, and the duty cycle
// of the loop they run in.
package diag

import (
	"log"

	"github.com/donjan/intervalgate/gate"
	"github.com/donjan/intervalgate/recording"
)

// LoopRateTable is the recording table that loop-rate samples go to.
const LoopRateTable = "loop_rate"

// DefaultLoopRateInterval is the default reporting interval of the loop-rate
// reporter, one second in microsecond ticks.
const DefaultLoopRateInterval gate.Ticks = 1_000_000

// A LoopRateSample is one recorded loop-rate report.
type LoopRateSample struct {
	ReportTime   uint32
	Iterations   uint64
	AvgLoopTicks uint64
}

// A LoopRateReporter counts loop iterations and periodically logs how many
// ran since the last report, together with the average iteration time.
type LoopRateReporter struct {
	logger   *log.Logger
	gate     *gate.Gate
	recorder recording.DataRecorder

	count uint64
}

// NewLoopRateReporter creates a reporter that reads time from tt and writes
// one line per DefaultLoopRateInterval into the logger.
func NewLoopRateReporter(
	tt gate.TimeTeller,
	logger *log.Logger,
) *LoopRateReporter {
	return &LoopRateReporter{
		logger: logger,
		gate:   gate.NewGate(tt, DefaultLoopRateInterval),
	}
}

// WithReportInterval overrides the reporting interval.
func (r *LoopRateReporter) WithReportInterval(
	interval gate.Ticks,
) *LoopRateReporter {
	r.gate.SetInterval(interval)

	return r
}

// RecordTo additionally persists one LoopRateSample per report through the
// given recorder. The table is created here.
func (r *LoopRateReporter) RecordTo(
	recorder recording.DataRecorder,
) *LoopRateReporter {
	recorder.CreateTable(LoopRateTable, LoopRateSample{})
	r.recorder = recorder

	return r
}

// Tick must be called once per loop iteration. On each report the iteration
// counter resets, so the numbers always cover one reporting window.
func (r *LoopRateReporter) Tick() {
	r.count++

	r.gate.Do(func() {
		avg := uint64(r.gate.Interval()) / r.count

		r.logger.Printf("iter/sec: %d (%d ticks average loop time)",
			r.count, avg)

		if r.recorder != nil {
			r.recorder.InsertData(LoopRateTable, LoopRateSample{
				ReportTime:   uint32(r.gate.LastFire()),
				Iterations:   r.count,
				AvgLoopTicks: avg,
			})
		}

		r.count = 0
	})
}
