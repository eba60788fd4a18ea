/*
Package scanner defines an interface for scanners to be used with parsers of
package lr/lr0, and provides a maximal munch tokenizer over the terminals of
a grammar.

The tokenizer is backed by a lexmachine DFA, compiled from the terminal
strings. At every input position, the longest terminal matching the input is
produced. Input not starting with any terminal is produced character by
character, as tokens of type Unknown. At the end of input, the tokenizer
produces EOF tokens, which stand for the end-of-input marker '$'.

    munch, err := scanner.NewMunch([]string{"+", "*", "id", "(", ")"})
    tokens := munch.Tokens("id+id*id")   // id + id * id $

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scanner

import (
	"github.com/npillmayer/lrzero"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrzero.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("lrzero.scanner")
}

// Token types which are not terminal ordinals.
const (
	EOF     lrzero.TokType = -1 // end of input, '$'
	Unknown lrzero.TokType = -2 // a single character not starting any terminal
)

// EOFLexeme is the lexeme of EOF tokens.
const EOFLexeme = "$"

// Tokenizer is a scanner interface.
type Tokenizer interface {
	NextToken() lrzero.Token
	SetErrorHandler(func(error))
}

// Default error reporting function for scanners
func logError(e error) {
	tracer().Debugf("scanner: " + e.Error())
}

// --- Default tokens --------------------------------------------------------

// DefaultToken is a very unsophisticated token type, used by the maximal
// munch tokenizer.
type DefaultToken struct {
	kind   lrzero.TokType
	lexeme string
	span   lrzero.Span
}

// MakeDefaultToken creates a token.
func MakeDefaultToken(typ lrzero.TokType, lexeme string, span lrzero.Span) DefaultToken {
	return DefaultToken{
		kind:   typ,
		lexeme: lexeme,
		span:   span,
	}
}

func (t DefaultToken) TokType() lrzero.TokType {
	return t.kind
}

func (t DefaultToken) Lexeme() string {
	return t.lexeme
}

func (t DefaultToken) Span() lrzero.Span {
	return t.span
}

func (t DefaultToken) String() string {
	return t.lexeme + t.span.String()
}

var _ lrzero.Token = DefaultToken{}
