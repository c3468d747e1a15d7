package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrie(t *testing.T) {
	trie := NewTrie()
	for _, w := range []Token{"fiber", "fibre", "five", "co2", "f", "fiber"} {
		trie.Insert(w)
	}
	assert.Equal(t, 5, trie.Len())
	assert.True(t, trie.Search("fiber"))
	assert.True(t, trie.Search("f"))
	assert.False(t, trie.Search("fib"))
	assert.False(t, trie.Search("mopa"))

	assert.Equal(t, []Token{"fiber", "fibre"}, trie.FindMatches("fib"))
	assert.Equal(t, []Token{"f", "fiber", "fibre", "five"}, trie.FindMatches("f"))
	assert.Nil(t, trie.FindMatches("x"))
}

func TestTrieEmptyPrefixMatchesAll(t *testing.T) {
	trie := NewTrie()
	trie.Insert("diode")
	trie.Insert("co2")
	assert.Equal(t, []Token{"co2", "diode"}, trie.FindMatches(""))
}
