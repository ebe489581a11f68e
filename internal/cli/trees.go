package cli

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"ucsboard/internal/codec"
	"ucsboard/internal/domain"

	"github.com/spf13/cobra"
)

func treesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "trees",
		Aliases: []string{"tree"},
		Short:   "Manage saved trees",
	}

	cmd.AddCommand(
		treesListCmd(opts),
		treesShowCmd(opts),
		treesExportCmd(opts),
		treesImportCmd(opts),
		treesDeleteCmd(opts),
	)
	return cmd
}

func treesListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved trees",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := opts.openStore()
			if err != nil {
				return err
			}
			defer repo.Close()

			infos, err := repo.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(infos) == 0 {
				fmt.Fprintln(out, "No saved trees.")
				return nil
			}

			rows := make([][]string, 0, len(infos))
			for _, info := range infos {
				rows = append(rows, []string{
					info.Name,
					strconv.Itoa(info.NodeCount),
					info.Checksum[:min(12, len(info.Checksum))],
					info.UpdatedAt.Local().Format(time.DateTime),
				})
			}
			table(out, []string{"NAME", "NODES", "CHECKSUM", "UPDATED"}, rows)
			return nil
		},
	}
}

func treesShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Print the tree projection of a saved tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := opts.openStore()
			if err != nil {
				return err
			}
			defer repo.Close()

			rec, err := repo.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			g, sel, err := rec.Decode()
			if err != nil {
				return err
			}

			root := domain.Project(g)
			if root != nil {
				domain.Decorate(root, sel)
			}

			out := cmd.OutOrStdout()
			Info.Fprintf(out, "%s", args[0])
			Subtle.Fprintf(out, " (%d nodes, %d goals)\n", g.Len(), len(sel.Goals()))
			printTree(out, root)
			return nil
		},
	}
}

func treesExportCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export NAME",
		Short: "Write a saved tree as a record file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" && output != "" {
				format = codec.FormatFromPath(output)
			}
			exp, err := codec.ExporterFor(format)
			if err != nil {
				return err
			}

			repo, err := opts.openStore()
			if err != nil {
				return err
			}
			defer repo.Close()

			rec, err := repo.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if output == "" {
				return exp.Export(&rec, cmd.OutOrStdout())
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := exp.Export(&rec, f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			Good.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", args[0], output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (json, yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

func treesImportCmd(opts *rootOptions) *cobra.Command {
	var (
		name   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Save a record file as a named tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if format == "" {
				format = codec.FormatFromPath(path)
			}

			rec, err := parseRecordFile(path, format)
			if err != nil {
				return err
			}

			repo, err := opts.openStore()
			if err != nil {
				return err
			}
			defer repo.Close()

			info, err := repo.Save(cmd.Context(), name, rec)
			if err != nil {
				return err
			}
			Good.Fprintf(cmd.OutOrStdout(), "Saved %s (%d nodes)\n", info.Name, info.NodeCount)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name to save the tree under")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Input format (json, yaml, hcl; default: from extension)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func treesDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete NAME",
		Aliases: []string{"rm"},
		Short:   "Delete a saved tree",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := opts.openStore()
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			Good.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

// parseRecordFile reads and validates a record file
func parseRecordFile(path, format string) (domain.Record, error) {
	imp, err := codec.ImporterFor(format)
	if err != nil {
		return domain.Record{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return domain.Record{}, err
	}
	defer f.Close()

	rec, err := imp.Parse(f)
	if err != nil {
		return domain.Record{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := rec.Validate(); err != nil {
		return domain.Record{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return *rec, nil
}
