package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crillab/gopherjt/enum"
	"github.com/crillab/gopherjt/internal/config"
	"github.com/crillab/gopherjt/jtree"
	"github.com/crillab/gopherjt/subset"
)

// Minimum is one extracted minimum, as output by the infer command.
type Minimum struct {
	Rank   int            `json:"rank"`
	Score  float64        `json:"score"`
	States map[string]int `json:"states"`
}

// NewInferCommand creates the infer command.
func NewInferCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		treePath, problemPath string
		flags                 solverFlags
	)
	cmd := &cobra.Command{
		Use:   "infer",
		Short: "Find the lowest-scoring assignments of a problem",
		Long: `Populate the junction tree with the assignments allowed by the problem,
add the problem's scores, run inference and print the k best full assignments.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pb, err := config.Load(problemPath)
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, pb); err != nil {
				return err
			}
			return runInfer(cmd, rootOpts, treePath, pb)
		},
	}
	cmd.Flags().StringVar(&treePath, "tree", "", "junction tree description file")
	cmd.Flags().StringVar(&problemPath, "problem", "", "YAML problem file")
	flags.register(cmd, true)
	_ = cmd.MarkFlagRequired("tree")
	_ = cmd.MarkFlagRequired("problem")
	return cmd
}

func runInfer(cmd *cobra.Command, opts *RootOptions, treePath string, pb *config.Problem) error {
	ctx := cmd.Context()
	logger := opts.logger
	tree, err := loadTree(treePath, pb, jtree.Options{Parallel: pb.Settings.Parallel, Logger: logger})
	if err != nil {
		return err
	}
	if err := tree.SetRoot(pb.Settings.Root); err != nil {
		return err
	}
	e, err := pb.Enumerator(logger)
	if err != nil {
		return err
	}
	if err := tree.Populate(ctx, e, pb.Settings.Capacity); err != nil {
		if !enum.IsCapacityWarning(err) {
			return err
		}
		logger.Warn("some node tables are incomplete", "error", err)
	}
	terms, err := pb.Terms()
	if err != nil {
		return err
	}
	if err := tree.RealizeAll(terms...); err != nil {
		return err
	}
	logger.Info("inferring", "tree", tree.ID().String(), "nodes", tree.NbNodes(), "k", pb.Settings.K)
	inferErr := tree.Infer(ctx, pb.Settings.K)
	if tree.State() != jtree.Inferred {
		return inferErr
	}
	names := pb.Names()
	minima := make([]Minimum, tree.NbMinima())
	for i := range minima {
		cs, err := tree.GetMinimum(i)
		if err != nil {
			return err
		}
		minima[i] = toMinimum(i, cs, names)
	}
	if err := writeMinima(cmd.OutOrStdout(), opts.Format, minima); err != nil {
		return err
	}
	return inferErr
}

func toMinimum(rank int, cs *jtree.CombState, names *subset.Names) Minimum {
	m := Minimum{Rank: rank, Score: cs.Score(), States: make(map[string]int, cs.Len())}
	for _, v := range cs.Variables() {
		state, _ := cs.Get(v)
		m.States[names.NameOf(v)] = state
	}
	return m
}

func writeMinima(w io.Writer, format string, minima []Minimum) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Minima []Minimum `json:"minima"`
		}{minima})
	}
	for _, m := range minima {
		keys := make([]string, 0, len(m.States))
		for name := range m.States {
			keys = append(keys, name)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, name := range keys {
			parts[i] = fmt.Sprintf("%s=%d", name, m.States[name])
		}
		if _, err := fmt.Fprintf(w, "minimum %d: score %g: %s\n", m.Rank, m.Score, strings.Join(parts, " ")); err != nil {
			return err
		}
	}
	return nil
}
