package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"ucsboard/internal/domain"

	"github.com/spf13/cobra"
)

func replayCmd() *cobra.Command {
	var index int

	cmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Print every step of a saved search response",
		Long: "Reads a search service response (JSON, {\"results\": [...]}) and walks the\n" +
			"step trace of one result from the first step to the end.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := readSearchResponse(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(resp.Results) == 0 {
				Warn.Fprintln(out, "No path: the search reached no goal.")
				return nil
			}
			if index < 0 || index >= len(resp.Results) {
				return fmt.Errorf("%w: result %d out of range (%d results)", domain.ErrInvalidInput, index, len(resp.Results))
			}

			printReplay(out, domain.NewReplay(resp.Results[index]))
			return nil
		},
	}

	cmd.Flags().IntVarP(&index, "result", "r", 0, "Index of the result to replay")
	return cmd
}

func readSearchResponse(path string) (domain.SearchResponse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.SearchResponse{}, err
	}

	var resp domain.SearchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return domain.SearchResponse{}, fmt.Errorf("%w: %s: %v", domain.ErrMalformedRecord, path, err)
	}
	return resp, nil
}

// printReplay drives the replay to its terminal state, printing each step
func printReplay(w io.Writer, r *domain.Replay) {
	for {
		st := r.State()
		if st.Finished {
			labels := make([]string, len(st.Path))
			for i, p := range st.Path {
				labels[i] = p.Label
			}
			Good.Fprintf(w, "finished after %d steps\n", st.Total)
			fmt.Fprintf(w, "  best path: %s\n", formatPath(labels))
			fmt.Fprintf(w, "  cost:      %s\n", formatCost(st.Cost))
			return
		}

		step := st.Step
		Info.Fprintf(w, "step %d/%d", st.Cursor+1, st.Total)
		fmt.Fprintf(w, "  current %s (cost %s)\n", step.CurrentNode, formatCost(step.CurrentCost))
		fmt.Fprintf(w, "  path:     %s\n", formatPath(step.CurrentPath))
		fmt.Fprintf(w, "  frontier: %s\n", formatFrontier(step.Frontier))
		fmt.Fprintf(w, "  explored: %s\n", formatList(step.Explored))
		r.Advance()
	}
}

func formatFrontier(entries []domain.FrontierEntry) string {
	if len(entries) == 0 {
		return "-"
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("[%s %s]", formatCost(e.Cost), strings.Join(e.Path, ">"))
	}
	return strings.Join(parts, " ")
}

func formatList(ids []string) string {
	if len(ids) == 0 {
		return "-"
	}
	return strings.Join(ids, ", ")
}
