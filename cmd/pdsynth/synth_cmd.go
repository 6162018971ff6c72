package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/FGDES/pdsynth/pushdown"
	"github.com/FGDES/pdsynth/symtab"
	"github.com/FGDES/pdsynth/tokenstream"
)

func newSynthCmd() *cobra.Command {
	var verbosity int
	cmd := &cobra.Command{
		Use:   "synth <plant> <spec> <output>",
		Short: "construct a maximally permissive pushdown supervisor (§4.13)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			setVerbosity(verbosity)
			return runSynth(args[0], args[1], args[2])
		},
	}
	cmd.Flags().IntVarP(&verbosity, "verbosity", "v", 0, "console verbosity level (0..n)")
	return cmd
}

func runSynth(plantPath, specPath, outputPath string) error {
	ctx := symtab.NewContext()

	plantFile, err := os.Open(plantPath)
	if err != nil {
		return err
	}
	plant, _, err := tokenstream.ReadAutomaton(tokenstream.NewReader(plantFile, plantPath), ctx)
	plantFile.Close()
	if err != nil {
		return err
	}

	specFile, err := os.Open(specPath)
	if err != nil {
		return err
	}
	spec, _, err := tokenstream.ReadPushdown(tokenstream.NewReader(specFile, specPath), ctx)
	specFile.Close()
	if err != nil {
		return err
	}

	result := pushdown.PushdownConstructController(plant, spec)

	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()
	w := tokenstream.NewWriter(out)
	tokenstream.WritePushdown(w, ctx, result, "supervisor")
	return w.Flush()
}
