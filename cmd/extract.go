package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var extractCmd = &cobra.Command{
	Use:   "extract <url>...",
	Short: "Extract problems and their editorial content into the store",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer env.Close()

		out := cmd.OutOrStdout()
		var failed int
		for _, url := range args {
			p, err := env.Extractor.Extract(cmd.Context(), url)
			if err != nil {
				failed++
				zap.L().Error("extraction failed", zap.String("url", url), zap.Error(err))
				fmt.Fprintf(out, "FAIL %s\n", url)
				continue
			}
			s := p.Summary()
			fmt.Fprintf(out, "OK   %s %s (%d hints, %d solutions, %d tutorials, %d editorials)\n",
				s.ProblemID, s.ProblemTitle, s.Hints, s.Solutions, s.Tutorials, s.Editorials)
		}

		fmt.Fprintf(out, "%d problems stored\n", env.Extractor.Count())
		if failed > 0 {
			return eris.Errorf("%d of %d urls failed", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
