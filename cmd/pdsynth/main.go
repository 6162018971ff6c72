// Command pdsynth drives the bisimulation and pushdown-synthesis cores
// over token-stream files (§6.1), following §6.6's exit-code discipline:
// 0 on success, 1 on any usage or IO failure.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
)

func main() {
	gtrace.SyntaxTracer = gologadapter.New()
	gtrace.SyntaxTracer.SetTraceLevel(tracing.LevelError)

	root := &cobra.Command{
		Use:           "pdsynth",
		Short:         "bisimulation reduction and pushdown supervisor synthesis",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newBisimCmd())
	root.AddCommand(newSynthCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "pdsynth: %v\n", err)
		os.Exit(1)
	}
}

func setVerbosity(n int) {
	switch {
	case n >= 2:
		gtrace.SyntaxTracer.SetTraceLevel(tracing.LevelDebug)
	case n == 1:
		gtrace.SyntaxTracer.SetTraceLevel(tracing.LevelInfo)
	default:
		gtrace.SyntaxTracer.SetTraceLevel(tracing.LevelError)
	}
}
