package cli

import (
	"context"

	"github.com/spf13/cobra"

	charterhttp "github.com/charter-search/charter-availability/internal/adapter/http"
)

func newOperatorsCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "operators",
		Short: "List the configured charter operators",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return withRuntime(ctx, open, func(rt *Runtime) error {
				summaries, err := rt.UseCase.Operators(ctx)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), charterhttp.ToOperatorsResponseDTO(summaries))
			})
		},
	}
}
