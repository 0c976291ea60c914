package diag

import (
	"log"

	"github.com/shirou/gopsutil/mem"

	"github.com/donjan/intervalgate/gate"
	"github.com/donjan/intervalgate/recording"
)

// MemoryTable is the recording table that memory samples go to.
const MemoryTable = "memory"

// DefaultMemoryInterval is the default reporting interval of the memory
// reporter, three seconds in microsecond ticks.
const DefaultMemoryInterval gate.Ticks = 3_000_000

// A MemoryStat is one snapshot of how much memory is left on the host.
type MemoryStat struct {
	AvailableBytes uint64
	TotalBytes     uint64
}

// A MemoryReader can take memory snapshots. It is the platform-introspection
// collaborator of the memory reporter.
type MemoryReader interface {
	ReadMemory() (MemoryStat, error)
}

// SystemMemoryReader reads the host virtual memory statistics.
type SystemMemoryReader struct{}

// ReadMemory returns the available and total memory of the host.
func (SystemMemoryReader) ReadMemory() (MemoryStat, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return MemoryStat{}, err
	}

	return MemoryStat{
		AvailableBytes: vm.Available,
		TotalBytes:     vm.Total,
	}, nil
}

// A MemorySample is one recorded memory report.
type MemorySample struct {
	ReportTime     uint32
	AvailableBytes uint64
	TotalBytes     uint64
}

// A MemoryReporter periodically logs a snapshot of the available memory.
type MemoryReporter struct {
	logger   *log.Logger
	gate     *gate.Gate
	reader   MemoryReader
	recorder recording.DataRecorder
}

// NewMemoryReporter creates a reporter that reads time from tt and writes
// one snapshot per DefaultMemoryInterval into the logger, reading memory
// from the host system.
func NewMemoryReporter(tt gate.TimeTeller, logger *log.Logger) *MemoryReporter {
	return &MemoryReporter{
		logger: logger,
		gate:   gate.NewGate(tt, DefaultMemoryInterval),
		reader: SystemMemoryReader{},
	}
}

// WithReportInterval overrides the reporting interval.
func (r *MemoryReporter) WithReportInterval(
	interval gate.Ticks,
) *MemoryReporter {
	r.gate.SetInterval(interval)

	return r
}

// WithReader replaces the memory-introspection collaborator.
func (r *MemoryReporter) WithReader(reader MemoryReader) *MemoryReporter {
	r.reader = reader

	return r
}

// RecordTo additionally persists one MemorySample per report through the
// given recorder. The table is created here.
func (r *MemoryReporter) RecordTo(
	recorder recording.DataRecorder,
) *MemoryReporter {
	recorder.CreateTable(MemoryTable, MemorySample{})
	r.recorder = recorder

	return r
}

// Tick must be called once per loop iteration. A failed snapshot is logged
// and skipped; the reporter keeps its cadence.
func (r *MemoryReporter) Tick() {
	r.gate.Do(func() {
		stat, err := r.reader.ReadMemory()
		if err != nil {
			r.logger.Printf("memory snapshot failed: %v", err)
			return
		}

		r.logger.Printf("free memory: %d / %d bytes",
			stat.AvailableBytes, stat.TotalBytes)

		if r.recorder != nil {
			r.recorder.InsertData(MemoryTable, MemorySample{
				ReportTime:     uint32(r.gate.LastFire()),
				AvailableBytes: stat.AvailableBytes,
				TotalBytes:     stat.TotalBytes,
			})
		}
	})
}
