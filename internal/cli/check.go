package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crillab/gopherjt/internal/config"
	"github.com/crillab/gopherjt/jtree"
)

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	var treePath, problemPath string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that a tree description is a valid junction tree for a problem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pb, err := config.Load(problemPath)
			if err != nil {
				return err
			}
			tree, err := loadTree(treePath, pb, jtree.Options{Logger: rootOpts.logger})
			if err != nil {
				return err
			}
			if err := tree.Validate(); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if rootOpts.Format == "json" {
				return json.NewEncoder(w).Encode(map[string]any{
					"valid": true,
					"nodes": tree.NbNodes(),
					"edges": tree.NbEdges(),
				})
			}
			_, err = fmt.Fprintf(w, "valid junction tree: %d nodes, %d edges\n", tree.NbNodes(), tree.NbEdges())
			return err
		},
	}
	cmd.Flags().StringVar(&treePath, "tree", "", "junction tree description file")
	cmd.Flags().StringVar(&problemPath, "problem", "", "YAML problem file")
	_ = cmd.MarkFlagRequired("tree")
	_ = cmd.MarkFlagRequired("problem")
	return cmd
}
