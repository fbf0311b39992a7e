package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/treykane/pass-tui/internal/session"
)

func newLsCmd(opts *options) *cobra.Command {
	var (
		filter string
		all    bool
	)
	cmd := &cobra.Command{
		Use:   "ls [dir]",
		Short: "Print the store tree the way the browser shows it",
		Long: "ls prints the rows of the tree view without colour. A filter keeps\n" +
			"matching names and their directories; --all opens every directory.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			applyLogLevel(opts, cfg)

			// Listing never reveals secrets, so no backend is attached.
			s, err := openSession(opts, cfg, nil)
			if err != nil {
				return err
			}
			if len(args) == 1 && !s.SetCwd(args[0]) {
				return fmt.Errorf("%q is not a directory in the store", args[0])
			}
			if all {
				s.ExpandAll()
			}
			if filter != "" {
				s.SetFilter(filter)
			}

			out := cmd.OutOrStdout()
			for _, row := range s.Rows() {
				writeLine(out, formatRow(s, row))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Only show names containing this text")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Expand every directory")
	return cmd
}

func formatRow(s *session.Session, row session.Row) string {
	e := s.EntryOf(row)
	name := e.Name()
	if e.IsDir() {
		name += "/"
	}
	return session.TreePrefix(row) + name
}
