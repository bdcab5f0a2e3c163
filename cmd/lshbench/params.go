package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/lsh"
	"github.com/hupe1980/lsh/model"
)

func newParamsCmd() *cobra.Command {
	var (
		n      int
		dim    int
		sparse bool
	)

	cmd := &cobra.Command{
		Use:   "params",
		Short: "Print recommended table parameters as a configuration snippet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				p   lsh.Parameters
				err error
			)
			if sparse {
				p, err = lsh.DefaultParameters[model.SparseVector](n, dim, lsh.NegativeInnerProduct, false)
			} else {
				p, err = lsh.DefaultParameters[model.DenseVector](n, dim, lsh.NegativeInnerProduct, true)
			}
			if err != nil {
				return err
			}
			if err := p.Validate(); err != nil {
				return fmt.Errorf("recommended parameters are invalid for this input: %w", err)
			}
			return writeYAML(cmd.OutOrStdout(), map[string]TableConfig{"table": tableConfigFor(p)})
		},
	}

	cmd.Flags().IntVar(&n, "n", 1_000_000, "number of points in the data set")
	cmd.Flags().IntVar(&dim, "dim", 128, "point dimension")
	cmd.Flags().BoolVar(&sparse, "sparse", false, "parameters for sparse points")
	return cmd
}

func tableConfigFor(p lsh.Parameters) TableConfig {
	return TableConfig{
		Family:                  p.Family.String(),
		L:                       p.L,
		K:                       p.K,
		NumRotations:            p.NumRotations,
		LastCPDimension:         p.LastCPDimension,
		FeatureHashingDimension: p.FeatureHashingDimension,
		Backend:                 lsh.LinearProbingBackend.String(),
	}
}
