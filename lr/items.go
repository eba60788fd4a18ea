package lr

import (
	"bytes"
	"fmt"
	"strings"
)

// Item is an LR(0) item, i.e. a rule together with a position within its
// right hand side, marked by a dot:
//
//     E → E+•T
//
// Items are values. Two items are equal iff their left hand sides, right
// hand sides and dot positions are equal.
type Item struct {
	rule *Rule
	dot  int
}

// StartItem returns an item for a rule with the dot at position 0.
func StartItem(r *Rule) Item {
	return Item{rule: r, dot: 0}
}

// Rule returns the rule of an item.
func (i Item) Rule() *Rule {
	return i.rule
}

// Dot returns the dot position of an item.
func (i Item) Dot() int {
	return i.dot
}

// IsReduction is true if the dot is behind the complete right hand side.
func (i Item) IsReduction() bool {
	return i.dot == len(i.rule.rhs)
}

// PeekSymbol returns the symbol immediately after the dot, if any.
func (i Item) PeekSymbol() (Symbol, bool) {
	if i.dot >= len(i.rule.rhs) {
		return Symbol{}, false
	}
	return i.rule.rhs[i.dot], true
}

// Advance returns the item with the dot moved one position to the right.
// For reduction items, the item itself is returned.
func (i Item) Advance() Item {
	if i.IsReduction() {
		return i
	}
	return Item{rule: i.rule, dot: i.dot + 1}
}

// Prefix returns the symbols before the dot.
func (i Item) Prefix() []Symbol {
	return append([]Symbol(nil), i.rule.rhs[:i.dot]...)
}

// Read is the string of symbols read to reach this item: the prefix before
// the dot, or the left hand side for items with the dot at position 0.
func (i Item) Read() string {
	if i.dot == 0 {
		return i.rule.LHS.Name
	}
	return symbolsString(i.rule.rhs[:i.dot])
}

// Equal compares two items structurally.
func (i Item) Equal(other Item) bool {
	return i.key() == other.key()
}

func (i Item) String() string {
	return fmt.Sprintf("%s → %s•%s", i.rule.LHS, symbolsString(i.rule.rhs[:i.dot]),
		symbolsString(i.rule.rhs[i.dot:]))
}

// --- Item pool -------------------------------------------------------------

// itemKey identifies items structurally. Names of terminals and non-terminals
// cannot collide, as only non-terminals contain uppercase letters.
type itemKey struct {
	lhs Symbol
	rhs string
	dot int
}

func (i Item) key() itemKey {
	names := make([]string, len(i.rule.rhs))
	for k, A := range i.rule.rhs {
		names[k] = A.Name
	}
	return itemKey{lhs: i.rule.LHS, rhs: strings.Join(names, "\x1f"), dot: i.dot}
}

// itemPool interns items. Item sets of CFSM states store pool indices, thus
// an item occuring in more than one state is one and the same entity.
type itemPool struct {
	items []Item
	index map[itemKey]int
}

func newItemPool() *itemPool {
	return &itemPool{index: make(map[itemKey]int)}
}

// intern returns the index of an item, adding it to the pool if necessary.
func (p *itemPool) intern(i Item) int {
	k := i.key()
	if n, found := p.index[k]; found {
		return n
	}
	n := len(p.items)
	p.items = append(p.items, i)
	p.index[k] = n
	return n
}

func (p *itemPool) item(n int) Item {
	return p.items[n]
}

func (p *itemPool) size() int {
	return len(p.items)
}

func (p *itemPool) setString(ids []int) string {
	var b bytes.Buffer
	b.WriteString("{")
	for k, n := range ids {
		if k == 0 {
			b.WriteString(" ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(p.item(n).String())
	}
	b.WriteString(" }")
	return b.String()
}
