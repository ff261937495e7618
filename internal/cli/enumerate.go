package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crillab/gopherjt/enum"
	"github.com/crillab/gopherjt/internal/config"
)

// NewEnumerateCommand creates the enumerate command.
func NewEnumerateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		problemPath string
		vars        []string
		flags       solverFlags
	)
	cmd := &cobra.Command{
		Use:   "enumerate",
		Short: "List the assignments of some variables allowed by a problem's constraints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pb, err := config.Load(problemPath)
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, pb); err != nil {
				return err
			}
			return runEnumerate(cmd, rootOpts, pb, vars)
		},
	}
	cmd.Flags().StringVar(&problemPath, "problem", "", "YAML problem file")
	cmd.Flags().StringSliceVar(&vars, "vars", nil, "comma-separated variable names")
	flags.register(cmd, false)
	_ = cmd.MarkFlagRequired("problem")
	_ = cmd.MarkFlagRequired("vars")
	return cmd
}

func runEnumerate(cmd *cobra.Command, opts *RootOptions, pb *config.Problem, vars []string) error {
	s, err := pb.Scope(vars)
	if err != nil {
		return err
	}
	e, err := pb.Enumerator(opts.logger)
	if err != nil {
		return err
	}
	sink := enum.NewSink(pb.Settings.Capacity)
	if err := e.Enumerate(cmd.Context(), s, sink); err != nil {
		if !enum.IsCapacityWarning(err) {
			return err
		}
		opts.logger.Warn("enumeration truncated", "error", err)
	}
	w := cmd.OutOrStdout()
	if opts.Format == "json" {
		enc := json.NewEncoder(w)
		return enc.Encode(struct {
			Variables   []string `json:"variables"`
			Assignments [][]int  `json:"assignments"`
			Truncated   bool     `json:"truncated"`
		}{vars, toInts(sink), sink.Truncated()})
	}
	fmt.Fprintln(w, strings.Join(vars, " "))
	for _, a := range sink.Assignments() {
		strs := make([]string, len(a))
		for i, state := range a {
			strs[i] = fmt.Sprint(state)
		}
		fmt.Fprintln(w, strings.Join(strs, " "))
	}
	if sink.Truncated() {
		fmt.Fprintf(w, "%d assignments (truncated)\n", sink.Len())
	} else {
		fmt.Fprintf(w, "%d assignments\n", sink.Len())
	}
	return nil
}

func toInts(sink *enum.Sink) [][]int {
	res := make([][]int, sink.Len())
	for i, a := range sink.Assignments() {
		res[i] = a
	}
	return res
}
