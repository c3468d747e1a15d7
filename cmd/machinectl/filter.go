package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/matst80/laser-finder/pkg/config"
	"github.com/matst80/laser-finder/pkg/pipeline"
	"github.com/matst80/laser-finder/pkg/search"
	"github.com/matst80/laser-finder/pkg/server"
	"github.com/matst80/laser-finder/pkg/storage"
	"github.com/matst80/laser-finder/pkg/types"
	"github.com/spf13/cobra"
)

type filterOptions struct {
	file  string
	url   string
	limit int
	req   server.CompareRequest
}

func newFilterCmd() *cobra.Command {
	opts := &filterOptions{}
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter and sort machines the way the compare view does",
		Example: `  machinectl filter --file machines.json --type fiber --price 0-5000 --sort power-desc
  machinectl filter --url http://localhost:8080 --feature camera --q xtool`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.file, "file", "", "machines JSON file, {\"data\": [...]} or a .json.gz snapshot")
	f.StringVar(&opts.url, "url", "", "base url serving /api/machines")
	f.IntVar(&opts.limit, "limit", config.DefaultFetchLimit, "number of machines to fetch from --url")
	f.StringSliceVar(&opts.req.LaserTypes, "type", nil, "laser types, any of them matches")
	f.StringVar(&opts.req.Price, "price", "", "price range min-max")
	f.StringVar(&opts.req.Power, "power", "", "power range min-max in W")
	f.StringVar(&opts.req.Speed, "speed", "", "speed range min-max in mm/s")
	f.StringSliceVar(&opts.req.Features, "feature", nil, "required features (camera, wifi, enclosure, passthrough, autofocus)")
	f.BoolVar(&opts.req.TopPick, "top", false, "only award winners")
	f.StringVar(&opts.req.Sort, "sort", string(types.DefaultSortKey), "price-asc, price-desc, power-desc, speed-desc or name-asc")
	f.StringVar(&opts.req.Query, "q", "", "free text search")
	return cmd
}

func runFilter(cmd *cobra.Command, opts *filterOptions) error {
	criteria, err := opts.req.Criteria()
	if err != nil {
		return err
	}
	raws, err := loadRaws(cmd.Context(), opts.file, opts.url, config.ClampLimit(opts.limit))
	if err != nil {
		return err
	}

	idx := search.NewFreeTextItemHandler(search.DefaultFreeTextHandlerOptions())
	store := storage.NewRecordStore(idx)
	if err := store.Commit(store.Begin(), types.NormalizeAll(raws)); err != nil {
		return err
	}
	var results []*types.Machine
	searched := strings.TrimSpace(opts.req.Query) != ""
	if searched {
		results = idx.Search(opts.req.Query)
	}
	res := pipeline.New(pipeline.LogDiagnostics{Logger: logger}).Run(pipeline.Input{
		Snapshot: store.Snapshot(),
		Criteria: criteria,
		Sort:     types.ParseSortKey(opts.req.Sort),
		Search:   results,
		Searched: searched,
	})
	return printResult(cmd.OutOrStdout(), res)
}

func formatNumber(n types.Number, unit string) string {
	if !n.Valid {
		return "-"
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64) + unit
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func machineTable(machines []*types.Machine) *table.Table {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("NAME", "COMPANY", "TYPE", "PRICE", "POWER", "SPEED", "TOP").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, m := range machines {
		top := ""
		if m.IsTopPick() {
			top = m.Award
		}
		t.Row(m.Name, m.Company, m.LaserTypeA, formatNumber(m.Price, ""), formatNumber(m.Power, "W"), formatNumber(m.Speed, "mm/s"), top)
	}
	return t
}

func printResult(w io.Writer, res pipeline.Result) error {
	if res.Status != types.StatusReady {
		_, err := fmt.Fprintf(w, "%s: 0 of %d machines\n", res.Status, res.Total)
		return err
	}
	if _, err := fmt.Fprintln(w, machineTable(res.Items).Render()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d of %d machines, sorted by %s\n", res.Matched, res.Total, res.Sort)
	return err
}
