package scanner

import (
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/lrzero"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// Munch is a maximal munch tokenizer for a fixed set of terminals. A Munch is
// immutable and may be shared between goroutines; every input gets its own
// scanner.
type Munch struct {
	lexer     *lexmachine.Lexer // nil if there are no terminals
	terminals []string
}

// NewMunch compiles a DFA for a list of terminals. The ordinal of a terminal
// within the list is its token type. Empty strings are ignored.
//
// NewMunch will return an error if compiling the DFA failed.
func NewMunch(terminals []string) (*Munch, error) {
	m := &Munch{terminals: append([]string(nil), terminals...)}
	lexer := lexmachine.NewLexer()
	cnt := 0
	for i, term := range m.terminals {
		if term == "" {
			continue
		}
		lexer.Add([]byte(literalPattern(term)), makeToken(i))
		cnt++
	}
	if cnt == 0 {
		tracer().Debugf("no terminals, every character will be unknown")
		return m, nil
	}
	if err := lexer.Compile(); err != nil {
		tracer().Errorf("error compiling DFA: %v", err)
		return nil, err
	}
	m.lexer = lexer
	return m, nil
}

// literalPattern escapes ASCII punctuation within a terminal, which may be a
// regex operator for lexmachine.
func literalPattern(term string) string {
	var b strings.Builder
	for _, r := range term {
		if r < utf8.RuneSelf && isPunct(byte(r)) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isPunct(c byte) bool {
	return c >= '!' && c <= '/' || c >= ':' && c <= '@' || c >= '[' && c <= '`' || c >= '{' && c <= '~'
}

func makeToken(id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}

// Terminals returns the terminals, ordered by token type.
func (m *Munch) Terminals() []string {
	return append([]string(nil), m.terminals...)
}

// Scanner creates a scanner for a given input. The scanner implements the
// Tokenizer interface.
func (m *Munch) Scanner(input string) *MunchScanner {
	ms := &MunchScanner{input: input, Error: logError}
	if m.lexer != nil {
		s, err := m.lexer.Scanner([]byte(input))
		if err != nil { // lexmachine does not fail for compiled lexers
			tracer().Errorf("cannot create scanner: %v", err)
		}
		ms.scanner = s
	}
	return ms
}

// Tokens splits an input into tokens, appending a single EOF token.
func (m *Munch) Tokens(input string) []lrzero.Token {
	sc := m.Scanner(input)
	var tokens []lrzero.Token
	for {
		token := sc.NextToken()
		tokens = append(tokens, token)
		if token.TokType() == EOF {
			return tokens
		}
	}
}

// MunchScanner is a scanner type for lexmachine scanners, implementing the
// Tokenizer interface.
type MunchScanner struct {
	scanner *lexmachine.Scanner
	input   string
	pos     int // used without a DFA only
	Error   func(error)
}

var _ Tokenizer = (*MunchScanner)(nil)

// SetErrorHandler sets an error handler for the scanner. Errors are reported
// for input not matching any terminal.
func (ms *MunchScanner) SetErrorHandler(h func(error)) {
	if h == nil {
		ms.Error = logError
		return
	}
	ms.Error = h
}

// NextToken is part of the Tokenizer interface. After the end of input it
// keeps returning EOF tokens.
func (ms *MunchScanner) NextToken() lrzero.Token {
	if ms.scanner == nil {
		return ms.unknown(ms.pos)
	}
	tok, err, eof := ms.scanner.Next()
	if err != nil {
		ms.Error(err)
		if ui, is := err.(*machines.UnconsumedInput); is {
			token := ms.unknown(ui.StartTC)
			ms.scanner.TC = int(token.Span().To())
			return token
		}
		tracer().Errorf("unexpected scanner error: %v", err)
		return ms.eof()
	}
	if eof {
		return ms.eof()
	}
	token := tok.(*lexmachine.Token)
	tracer().Debugf("token %q at %d", token.Lexeme, token.TC)
	return MakeDefaultToken(
		lrzero.TokType(token.Type),
		string(token.Lexeme),
		lrzero.Span{uint64(token.TC), uint64(token.TC + len(token.Lexeme))},
	)
}

// unknown produces a single character token at byte position at.
func (ms *MunchScanner) unknown(at int) lrzero.Token {
	if at >= len(ms.input) {
		return ms.eof()
	}
	_, size := utf8.DecodeRuneInString(ms.input[at:])
	ms.pos = at + size
	return MakeDefaultToken(Unknown, ms.input[at:at+size], lrzero.Span{uint64(at), uint64(at + size)})
}

func (ms *MunchScanner) eof() lrzero.Token {
	n := uint64(len(ms.input))
	return MakeDefaultToken(EOF, EOFLexeme, lrzero.Span{n, n})
}
