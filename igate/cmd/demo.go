package cmd

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/donjan/intervalgate/clock"
	"github.com/donjan/intervalgate/diag"
	"github.com/donjan/intervalgate/gate"
	"github.com/donjan/intervalgate/recording"
)

var (
	demoDuration     time.Duration
	demoRecord       string
	demoWorkInterval uint32
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a sample polling loop with a work gate and all reporters",
	Run: func(cmd *cobra.Command, args []string) {
		runDemo()
	},
}

func init() {
	demoCmd.Flags().DurationVar(&demoDuration, "duration", 5*time.Second,
		"how long the loop runs")
	demoCmd.Flags().StringVar(&demoRecord, "record", "",
		"record report samples to this SQLite database")
	demoCmd.Flags().Uint32Var(&demoWorkInterval, "work-interval", 250_000,
		"work gate interval in microsecond ticks")

	rootCmd.AddCommand(demoCmd)
}

func runDemo() {
	// A .env file can override the reporting intervals.
	_ = godotenv.Load()

	logger := log.New(os.Stdout, "", 0)
	clk := clock.NewWallClock()

	rate := diag.NewLoopRateReporter(clk, logger)
	if iv, ok := tickEnv("IGATE_RATE_INTERVAL"); ok {
		rate.WithReportInterval(iv)
	}

	memory := diag.NewMemoryReporter(clk, logger)
	if iv, ok := tickEnv("IGATE_MEMORY_INTERVAL"); ok {
		memory.WithReportInterval(iv)
	}

	load := diag.NewLoadReporter(clk, logger)
	if iv, ok := tickEnv("IGATE_LOAD_INTERVAL"); ok {
		load.WithReportInterval(iv)
	}

	if demoRecord != "" {
		recorder := recording.New(demoRecord)
		rate.RecordTo(recorder)
		memory.RecordTo(recorder)
		load.RecordTo(recorder)
	}

	work := gate.NewGate(clk, gate.Ticks(demoWorkInterval))
	work.AcceptHook(gate.NewFireLogger(logger))

	fires := 0
	deadline := time.Now().Add(demoDuration)

	for time.Now().Before(deadline) {
		busyStart := clk.CurrentTime()

		work.Do(func() {
			// Stand-in for real loop work.
			time.Sleep(time.Millisecond)
			fires++
		})

		busyEnd := clk.CurrentTime()
		load.AddBusy(busyStart, busyEnd)

		rate.Tick()
		memory.Tick()
	}

	logger.Printf("work gate fired %d times", fires)

	// Runs the recorder flush handlers.
	atexit.Exit(0)
}

func tickEnv(name string) (gate.Ticks, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}

	iv, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		log.Printf("ignoring %s=%q: %v", name, v, err)
		return 0, false
	}

	return gate.Ticks(iv), true
}
