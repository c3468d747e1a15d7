package search

import "slices"

// Trie is a prefix tree over index tokens. It is built once per record set
// and only read afterwards.
type Trie struct {
	root *trieNode
	size int
}

type trieNode struct {
	children map[rune]*trieNode
	// token is set on nodes ending an inserted token.
	token Token
	leaf  bool
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[rune]*trieNode)}
}

func NewTrie() *Trie {
	return &Trie{root: newTrieNode()}
}

// Len is the number of distinct tokens inserted.
func (t *Trie) Len() int {
	return t.size
}

func (t *Trie) Insert(word Token) {
	node := t.root
	for _, r := range word {
		child, ok := node.children[r]
		if !ok {
			child = newTrieNode()
			node.children[r] = child
		}
		node = child
	}
	if !node.leaf {
		node.leaf = true
		node.token = word
		t.size++
	}
}

func (t *Trie) find(prefix Token) *trieNode {
	node := t.root
	for _, r := range prefix {
		child, ok := node.children[r]
		if !ok {
			return nil
		}
		node = child
	}
	return node
}

// Search reports whether word was inserted as a whole token.
func (t *Trie) Search(word Token) bool {
	node := t.find(word)
	return node != nil && node.leaf
}

// FindMatches returns every inserted token starting with prefix, sorted.
// A prefix matching nothing returns nil.
func (t *Trie) FindMatches(prefix Token) []Token {
	node := t.find(prefix)
	if node == nil {
		return nil
	}
	var matches []Token
	stack := []*trieNode{node}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.leaf {
			matches = append(matches, n.token)
		}
		for _, child := range n.children {
			stack = append(stack, child)
		}
	}
	slices.Sort(matches)
	return matches
}
