package jack

import (
	"strconv"
	"strings"

	"github.com/arkwright-dev/jackc/pkg/utils"
)

// ----------------------------------------------------------------------------
// Tokenizer

// Tokenizer reads one source file's complete text, strips its comments and
// materializes the whole token sequence up front. The translator then
// drives it with Advance/Peek/PeekSecond; restartability is not required,
// so once a token is dequeued it is gone.
type Tokenizer struct {
	stream utils.Queue[Token]
}

// NewTokenizer tokenizes source in full and returns a Tokenizer ready for
// Advance/Peek calls. The only failure mode is an unterminated string
// literal; any other unrecognized character is dropped silently, matching
// the behavior of the source this translator was distilled from (see
// DESIGN.md for why that choice is preserved for everything except
// unterminated strings).
func NewTokenizer(source []byte) (*Tokenizer, error) {
	stripped := stripComments(source)
	tokens, err := scan(string(stripped))
	if err != nil {
		return nil, err
	}
	return &Tokenizer{stream: utils.NewQueue(tokens...)}, nil
}

// Empty reports whether every token has been consumed.
func (t *Tokenizer) Empty() bool { return t.stream.Empty() }

// Peek returns the front token without consuming it, or the sentinel
// no-token value if the stream is empty.
func (t *Tokenizer) Peek() Token {
	tok, err := t.stream.Front()
	if err != nil {
		return noToken
	}
	return tok
}

// PeekSecond returns the token one past the front without consuming
// anything. It is the only lookahead the grammar needs, to disambiguate
// variable/array-index/subroutine-call forms of a term starting with an
// identifier (see compiler.go's compileTerm).
func (t *Tokenizer) PeekSecond() Token {
	tok, err := t.stream.Second()
	if err != nil {
		return noToken
	}
	return tok
}

// Advance consumes and returns the front token.
func (t *Tokenizer) Advance() (Token, error) {
	return t.stream.Dequeue()
}

// ----------------------------------------------------------------------------
// Comment stripping

// stripComments removes, in order, every '/* ... */' span (non-greedy,
// multi-line, not nested) and then every '// ...' to end-of-line. Comment
// bodies are blanked out rather than deleted so that line/column positions
// of the tokens that follow are unaffected — newlines inside a stripped
// span are preserved, only their payload becomes spaces.
func stripComments(src []byte) []byte {
	out := make([]byte, len(src))
	copy(out, src)

	for i := 0; i < len(out); i++ {
		if out[i] == '/' && i+1 < len(out) && out[i+1] == '*' {
			j := i + 2
			for j+1 < len(out) && !(out[j] == '*' && out[j+1] == '/') {
				j++
			}
			end := j + 2
			if end > len(out) {
				end = len(out)
			}
			for k := i; k < end; k++ {
				if out[k] != '\n' {
					out[k] = ' '
				}
			}
			i = end - 1
		}
	}

	for i := 0; i < len(out); i++ {
		if out[i] == '/' && i+1 < len(out) && out[i+1] == '/' {
			j := i
			for j < len(out) && out[j] != '\n' {
				out[j] = ' '
				j++
			}
			i = j - 1
		}
	}

	return out
}

// ----------------------------------------------------------------------------
// Scanning

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// scan walks the comment-stripped source once, classifying the longest
// match at each position in the order laid out by the spec: integer
// literal, string literal, symbol, identifier-or-keyword. Whitespace
// between tokens is skipped; any other unrecognized byte is silently
// dropped, exactly like the source this was distilled from.
func scan(src string) ([]Token, error) {
	var tokens []Token
	line, col := 1, 1

	advanceBy := func(n int) {
		for k := 0; k < n; k++ {
			if src[k] == '\n' {
				line++
				col = 1
			} else {
				col++
			}
		}
		src = src[n:]
	}

	for len(src) > 0 {
		c := src[0]

		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			advanceBy(1)
			continue
		}

		pos := Position{Line: line, Column: col}

		switch {
		case isDigit(c):
			j := 0
			for j < len(src) && isDigit(src[j]) {
				j++
			}
			lexeme := src[:j]
			value, _ := strconv.Atoi(lexeme) // out-of-range literals are not validated, see spec §9(a)
			tokens = append(tokens, Token{typ: IntConst, intVal: uint16(value), position: pos})
			advanceBy(j)

		case c == '"':
			j := 1
			for j < len(src) && src[j] != '"' && src[j] != '\n' {
				j++
			}
			if j >= len(src) || src[j] != '"' {
				return nil, &LexicalError{Pos: pos, Msg: "unterminated string literal"}
			}
			tokens = append(tokens, Token{typ: StringConst, strVal: src[1:j], position: pos})
			advanceBy(j + 1)

		case strings.IndexByte(symbolChars, c) >= 0:
			tokens = append(tokens, Token{typ: Symbol, symbol: c, position: pos})
			advanceBy(1)

		case isIdentStart(c):
			j := 1
			for j < len(src) && isIdentPart(src[j]) {
				j++
			}
			lexeme := src[:j]
			if kw, ok := keywords[lexeme]; ok {
				tokens = append(tokens, Token{typ: KeywordToken, keyword: kw, position: pos})
			} else {
				tokens = append(tokens, Token{typ: Identifier, ident: lexeme, position: pos})
			}
			advanceBy(j)

		default:
			advanceBy(1) // unrecognized character, dropped silently
		}
	}

	return tokens, nil
}
