// Command kindling-bench brings up the JIT coordination layer against a
// synthetic compiler and reports bootstrap timing. It exists to exercise
// the bootstrap and compile protocol end-to-end without a real runtime.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kindling-vm/kindling"
	"github.com/kindling-vm/kindling/jit"
)

var (
	flagWorkers       int
	flagLatency       string
	flagFailureRate   float64
	flagExceptionRate float64
	flagVerbose       bool
	flagDebug         bool
)

var rootCmd = &cobra.Command{
	Use:   "kindling-bench",
	Short: "Bootstrap the pluggable compiler against a synthetic backend",
	Long: `Runs the one-time bootstrap phase against a stub compiler with
configurable latency and failure behavior, then prints the compile
counters and timing report.`,
	RunE: runBench,
}

func init() {
	rootCmd.Flags().IntVar(&flagWorkers, "workers", 4, "Number of compile workers")
	rootCmd.Flags().StringVar(&flagLatency, "latency", "5ms", "Synthetic compile latency per method")
	rootCmd.Flags().Float64Var(&flagFailureRate, "failure-rate", 0, "Fraction of compiles that report an explicit failure")
	rootCmd.Flags().Float64Var(&flagExceptionRate, "exception-rate", 0, "Fraction of compiles that throw a managed exception")
	rootCmd.Flags().BoolVar(&flagVerbose, "verbose", true, "Print bootstrap progress")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
}

func runBench(cmd *cobra.Command, args []string) error {
	latency, err := parseLatency(flagLatency)
	if err != nil {
		return err
	}

	level := zerolog.WarnLevel
	if flagDebug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	stub := newStubBridge(latency, flagFailureRate, flagExceptionRate)
	sys := kindling.NewSystem(stub,
		kindling.WithWorkers(flagWorkers),
		kindling.WithCompilerOptions(
			jit.WithVerboseBootstrap(flagVerbose),
			jit.WithProgressWriter(os.Stdout),
			jit.WithLogger(logger),
		),
	)
	stub.SetInstallTimer(sys.Compiler.CodeInstallTimer())
	sys.Start(cmd.Context())
	defer sys.Close()

	bootErr := sys.Bootstrap(cmd.Context())

	compiled := sys.Compiler.MethodsCompiled()
	if compiled > 0 {
		color.Green("compiled %d methods", compiled)
	} else {
		color.Red("compiled 0 methods")
	}
	fmt.Printf("explicit failures: %d, exceptions: %d\n", stub.Failures(), stub.Exceptions())
	sys.Compiler.PrintTimers(os.Stdout)
	return bootErr
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
