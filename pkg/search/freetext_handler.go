package search

import (
	"slices"
	"strings"
	"sync"

	"github.com/matst80/laser-finder/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	indexedMachines = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "laserfinder_search_indexed_machines",
		Help: "The number of machines in the free text index",
	})
	indexedTokens = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "laserfinder_search_tokens",
		Help: "The number of distinct tokens in the free text index",
	})
)

// FreeTextItemHandler is the free text search over the current record set.
// It is rebuilt from scratch every time the record store commits.
type FreeTextItemHandler struct {
	mu        sync.RWMutex
	tokenizer *Tokenizer
	TokenMap  map[Token][]int
	trie      *Trie
	machines  []*types.Machine
}

type FreeTextItemHandlerOptions struct {
	Tokenizer *Tokenizer
}

func DefaultFreeTextHandlerOptions() FreeTextItemHandlerOptions {
	return FreeTextItemHandlerOptions{
		Tokenizer: &Tokenizer{MaxTokens: 128},
	}
}

func NewFreeTextItemHandler(opts FreeTextItemHandlerOptions) *FreeTextItemHandler {
	return &FreeTextItemHandler{
		tokenizer: opts.Tokenizer,
		TokenMap:  make(map[Token][]int),
		trie:      NewTrie(),
	}
}

func (h *FreeTextItemHandler) HandleMachines(machines []*types.Machine) {
	tokenMap := make(map[Token][]int)
	trie := NewTrie()
	for pos, m := range machines {
		if m == nil {
			continue
		}
		seen := TokenList{}
		for _, property := range m.ToStringList() {
			for _, token := range h.tokenizer.Tokenize(property) {
				if slices.Contains(seen, token) {
					continue
				}
				seen = append(seen, token)
				if _, ok := tokenMap[token]; !ok {
					trie.Insert(token)
				}
				tokenMap[token] = append(tokenMap[token], pos)
			}
		}
	}

	h.mu.Lock()
	h.TokenMap = tokenMap
	h.trie = trie
	h.machines = machines
	h.mu.Unlock()

	indexedMachines.Set(float64(len(machines)))
	indexedTokens.Set(float64(len(tokenMap)))
}

// Search returns the machines having a token starting with every query token,
// in record set order. An empty query returns nothing.
func (h *FreeTextItemHandler) Search(query string) []*types.Machine {
	queryTokens := h.tokenizer.Tokenize(query)
	if len(queryTokens) == 0 {
		return []*types.Machine{}
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	var matching map[int]struct{}
	for _, qt := range queryTokens {
		hits := make(map[int]struct{})
		for _, token := range h.trie.FindMatches(qt) {
			for _, pos := range h.TokenMap[token] {
				if matching == nil {
					hits[pos] = struct{}{}
				} else if _, ok := matching[pos]; ok {
					hits[pos] = struct{}{}
				}
			}
		}
		matching = hits
		if len(matching) == 0 {
			return []*types.Machine{}
		}
	}

	positions := make([]int, 0, len(matching))
	for pos := range matching {
		positions = append(positions, pos)
	}
	slices.Sort(positions)
	ret := make([]*types.Machine, 0, len(positions))
	for _, pos := range positions {
		ret = append(ret, h.machines[pos])
	}
	return ret
}

type Suggestion struct {
	Word Token `json:"match"`
	Hits int   `json:"hits"`
}

// Suggest completes the last word of query from the indexed tokens, most
// frequent first.
func (h *FreeTextItemHandler) Suggest(query string, limit int) []Suggestion {
	queryTokens := h.tokenizer.Tokenize(query)
	if len(queryTokens) == 0 || limit <= 0 {
		return []Suggestion{}
	}
	prefix := queryTokens[len(queryTokens)-1]

	h.mu.RLock()
	matches := h.trie.FindMatches(prefix)
	ret := make([]Suggestion, 0, len(matches))
	for _, token := range matches {
		ret = append(ret, Suggestion{Word: token, Hits: len(h.TokenMap[token])})
	}
	h.mu.RUnlock()

	slices.SortFunc(ret, func(a, b Suggestion) int {
		if a.Hits != b.Hits {
			return b.Hits - a.Hits
		}
		return strings.Compare(string(a.Word), string(b.Word))
	})
	return ret[:min(limit, len(ret))]
}
