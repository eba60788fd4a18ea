package lrzero

import "fmt"

// --- A general purpose interface for tokens --------------------------------

// TokType is a category type for a Token. For LR(0) tables, token types are
// ordinals of terminals, in the order the terminals have been inferred from
// the grammar.
type TokType int

// Tokens represent input tokens. They are produced by a scanner and
// reflect terminals in a grammar.
//
// An example would be a token for the terminal 'id':
//
//    TokType = 3           // ordinal of terminal 'id'
//    Lexeme  = "id"        // lexeme how it appeared in the input string
//    Span    = 4…6         // occured from byte position 4 in the input string
//
type Token interface {
	TokType() TokType
	Lexeme() string
	Span() Span
}

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a length of input token run. For every
// terminal and non-terminal on a parser stack, we track which input positions
// this symbol covers. A span denotes a start position and the position just
// behind the end.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

func (s Span) IsNull() bool {
	return s == Span{}
}

// Extend returns the smallest span covering both s and other.
// A null span is neutral.
func (s Span) Extend(other Span) Span {
	if s.IsNull() {
		return other
	}
	if other.IsNull() {
		return s
	}
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
