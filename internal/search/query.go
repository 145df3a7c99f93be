package search

import (
	"strings"

	"anipet/internal"
	"anipet/internal/util"
)

// QueryNode is one node of the query tree the similar-products search
// evaluates per record.
type QueryNode interface {
	Matches(p internal.ProductRecord) bool
}

// fieldOr matches when one word appears in the product name or the brand.
type fieldOr struct {
	word string
}

func (n fieldOr) Matches(p internal.ProductRecord) bool {
	return util.ContainsFold(p.ProductName, n.word) || util.ContainsFold(p.Brand, n.word)
}

// andNode requires every child to match.
type andNode struct {
	children []QueryNode
}

func (n andNode) Matches(p internal.ProductRecord) bool {
	for _, c := range n.children {
		if !c.Matches(p) {
			return false
		}
	}
	return true
}

// ParseQuery builds the query tree: a single word is an OR over
// {name, brand}; a multi-word query is an AND across words, each word an OR
// over {name, brand}. Returns nil for queries below the length floor.
func ParseQuery(query string) QueryNode {
	q := util.Normalize(query)
	if len([]rune(q)) < MinQueryRunes {
		return nil
	}
	words := strings.Fields(q)
	if len(words) == 1 {
		return fieldOr{word: words[0]}
	}
	children := make([]QueryNode, 0, len(words))
	for _, w := range words {
		children = append(children, fieldOr{word: w})
	}
	return andNode{children: children}
}

// Match evaluates the tree over a record slice and returns matching ids in
// encounter order.
func Match(node QueryNode, records []internal.ProductRecord) []int {
	if node == nil {
		return nil
	}
	var out []int
	for _, p := range records {
		if node.Matches(p) {
			out = append(out, p.ID)
		}
	}
	return out
}
