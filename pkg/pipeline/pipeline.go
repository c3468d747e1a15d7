package pipeline

import (
	"time"

	"github.com/matst80/laser-finder/pkg/search"
	"github.com/matst80/laser-finder/pkg/sorting"
	"github.com/matst80/laser-finder/pkg/types"
)

type Input struct {
	Snapshot types.Snapshot
	Criteria *types.FilterCriteria
	Sort     types.SortKey
	// Search holds the results of a free text search.
	Search []*types.Machine
	// Searched marks an active search. Search may then be empty, which
	// matches nothing.
	Searched bool
}

type Result struct {
	Items   []*types.Machine `json:"items"`
	Status  types.Status     `json:"status"`
	Total   int              `json:"total"`
	Matched int              `json:"matched"`
	Sort    types.SortKey    `json:"sort"`
	Noop    bool             `json:"noop"`
}

type Pipeline struct {
	Diagnostics Diagnostics
}

func New(diagnostics ...Diagnostics) *Pipeline {
	return &Pipeline{Diagnostics: Combine(diagnostics...)}
}

// Run filters, narrows by search and sorts the snapshot's machines. A run
// that matches nothing reports StatusEmpty with no items; it never falls back
// to the unfiltered record set.
func (p *Pipeline) Run(in Input) Result {
	start := time.Now()
	c := in.Criteria
	if c == nil {
		c = types.DefaultCriteria()
	}
	key := types.ParseSortKey(string(in.Sort))
	searched := in.Searched || len(in.Search) > 0
	res := Result{
		Items: []*types.Machine{},
		Total: len(in.Snapshot.Machines),
		Sort:  key,
		Noop:  c.IsNoop(),
	}

	switch in.Snapshot.State {
	case types.LoadStateLoading, "":
		res.Status = types.StatusLoading
	case types.LoadStateFailed:
		res.Status = types.StatusError
	default:
		var matched []*types.Machine
		if res.Noop && !searched {
			matched = in.Snapshot.Machines
		} else {
			matched = search.NarrowBySearch(in.Snapshot.Machines, c, in.Search, searched)
		}
		res.Items = sorting.SortRecords(matched, key)
		res.Matched = len(res.Items)
		if res.Matched == 0 {
			res.Status = types.StatusEmpty
		} else {
			res.Status = types.StatusReady
		}
	}

	p.observe(Stats{
		Criteria: c,
		Sort:     key,
		Noop:     res.Noop,
		Searched: searched,
		Total:    res.Total,
		Returned: res.Matched,
		Status:   res.Status,
		Duration: time.Since(start),
		Snapshot: in.Snapshot.Seq,
	})
	return res
}

func (p *Pipeline) observe(s Stats) {
	if p == nil || p.Diagnostics == nil {
		return
	}
	p.Diagnostics.Observe(s)
}
