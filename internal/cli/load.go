package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crillab/gopherjt/internal/config"
	"github.com/crillab/gopherjt/jtree"
)

// solverFlags are the settings that can be overridden from the command line.
type solverFlags struct {
	strategy string
	capacity int
	k        int
	parallel bool
}

func (f *solverFlags) register(cmd *cobra.Command, withK bool) {
	def := config.Default()
	cmd.Flags().StringVar(&f.strategy, "strategy", def.Strategy, "enumeration strategy (brute|divide|ordered)")
	cmd.Flags().IntVar(&f.capacity, "capacity", def.Capacity, "maximum number of assignments per subset, 0 for no limit")
	cmd.Flags().BoolVar(&f.parallel, "parallel", false, "run independent sub-problems concurrently")
	if withK {
		cmd.Flags().IntVarP(&f.k, "k", "k", def.K, "number of minima to extract")
	}
}

// apply overrides the settings of pb with the flags explicitly set on cmd.
func (f *solverFlags) apply(cmd *cobra.Command, pb *config.Problem) error {
	if cmd.Flags().Changed("strategy") {
		pb.Settings.Strategy = f.strategy
	}
	if cmd.Flags().Changed("capacity") {
		pb.Settings.Capacity = f.capacity
	}
	if cmd.Flags().Changed("parallel") {
		pb.Settings.Parallel = f.parallel
	}
	if cmd.Flags().Changed("k") {
		pb.Settings.K = f.k
	}
	if err := pb.Settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// loadTree reads the tree description at path, naming variables after pb.
func loadTree(path string, pb *config.Problem, opts jtree.Options) (*jtree.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open tree: %w", err)
	}
	defer f.Close()
	tree, err := jtree.Parse(f, pb.Names(), opts)
	if err != nil {
		return nil, fmt.Errorf("could not parse tree %s: %w", path, err)
	}
	return tree, nil
}
