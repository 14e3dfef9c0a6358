// Package lexer turns assembly source text into the token stream the parser
// consumes. Instruction mnemonics, register names and type keywords are
// resolved against the encoding catalog here, so their tokens already carry
// the catalog index, register id or data type tag.
package lexer

import (
	"github.com/uvmkit/uas/pkg/encoding"
	"github.com/uvmkit/uas/pkg/token"
	"github.com/uvmkit/uas/pkg/util"
)

type Lexer struct {
	src  *util.SourceFile
	cat  *encoding.Catalog
	rep  *util.Reporter
	pos  int
	line uint32
	col  uint32
}

func NewLexer(src *util.SourceFile, cat *encoding.Catalog, rep *util.Reporter) *Lexer {
	return &Lexer{src: src, cat: cat, rep: rep, line: 1, col: 1}
}

// Tokenize scans the whole source and returns the token sequence, terminated
// by a single EOF token. The bool result is false if any unknown input was
// reported.
func Tokenize(src *util.SourceFile, cat *encoding.Catalog, rep *util.Reporter) ([]token.Token, bool) {
	l := NewLexer(src, cat, rep)
	before := rep.Count()
	var toks []token.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks, rep.Count() == before
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.src.Content) }

func (l *Lexer) peek() byte { return l.src.Content[l.pos] }

func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.src.Content) {
		return 0
	}
	return l.src.Content[l.pos+1]
}

func (l *Lexer) advance() {
	if l.src.Content[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
}

func (l *Lexer) make(kind token.Kind, pos int, line, col uint32, tag uint32) token.Token {
	return token.Token{
		Kind: kind,
		Pos:  uint32(pos),
		Len:  uint32(l.pos - pos),
		Line: line,
		Col:  col,
		Tag:  tag,
	}
}

func (l *Lexer) skipBlank() {
	for !l.atEnd() {
		switch l.peek() {
		case ' ', '\t', '\r':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) atComment() bool {
	return !l.atEnd() && l.peek() == '/' && l.peekNext() == '/'
}

func (l *Lexer) skipComment() {
	for !l.atEnd() && l.peek() != '\n' {
		l.advance()
	}
}

// Next returns the next token. Runs of newlines, blank lines and comment-only
// lines collapse into a single EOL token.
func (l *Lexer) Next() token.Token {
	for {
		l.skipBlank()
		if l.atComment() {
			l.skipComment()
			continue
		}

		startPos, startLine, startCol := l.pos, l.line, l.col
		if l.atEnd() {
			return l.make(token.EOF, startPos, startLine, startCol, 0)
		}

		ch := l.peek()
		if ch == '\n' {
			l.advance()
			for {
				l.skipBlank()
				if l.atComment() {
					l.skipComment()
					continue
				}
				if !l.atEnd() && l.peek() == '\n' {
					l.advance()
					continue
				}
				break
			}
			// An EOL token spans just the first newline.
			return token.Token{Kind: token.EOL, Pos: uint32(startPos), Len: 1, Line: startLine, Col: startCol}
		}

		if isIdentStart(ch) {
			return l.identifier(startPos, startLine, startCol)
		}
		if ch >= '0' && ch <= '9' {
			return l.number(startPos, startLine, startCol)
		}

		l.advance()
		switch ch {
		case '@':
			return l.labelDef(startPos, startLine, startCol)
		case '"':
			return l.stringLiteral(startPos, startLine, startCol)
		case '+':
			return l.make(token.Plus, startPos, startLine, startCol, 0)
		case '-':
			return l.make(token.Minus, startPos, startLine, startCol, 0)
		case '*':
			return l.make(token.Asterisk, startPos, startLine, startCol, 0)
		case ',':
			return l.make(token.Comma, startPos, startLine, startCol, 0)
		case ':':
			return l.make(token.Colon, startPos, startLine, startCol, 0)
		case '=':
			return l.make(token.Equals, startPos, startLine, startCol, 0)
		case '{':
			return l.make(token.LBrace, startPos, startLine, startCol, 0)
		case '}':
			return l.make(token.RBrace, startPos, startLine, startCol, 0)
		case '[':
			return l.make(token.LBracket, startPos, startLine, startCol, 0)
		case ']':
			return l.make(token.RBracket, startPos, startLine, startCol, 0)
		}

		l.rep.Report(util.SyntaxError, uint32(startPos), 1, startLine, startCol,
			"unexpected character %q", string(rune(ch)))
	}
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}

// identifier scans a name and classifies it against the catalog tables:
// instruction mnemonic, register name or type keyword, falling back to a
// plain identifier.
func (l *Lexer) identifier(pos int, line, col uint32) token.Token {
	for !l.atEnd() && isIdentPart(l.peek()) {
		l.advance()
	}
	name := l.src.SubStr(uint32(pos), uint32(l.pos-pos))

	if idx, ok := l.cat.Lookup(name); ok {
		return l.make(token.Instruction, pos, line, col, idx)
	}
	if id, ok := encoding.Registers[name]; ok {
		return l.make(token.Register, pos, line, col, uint32(id))
	}
	if tag, ok := encoding.TypeTag[name]; ok {
		return l.make(token.TypeInfo, pos, line, col, uint32(tag))
	}
	return l.make(token.Ident, pos, line, col, 0)
}

// number scans an integer or float literal span. Conversion and width
// validation happen in the parser; only the shape is decided here. The hex
// prefix is case-sensitive: "0x" only.
func (l *Lexer) number(pos int, line, col uint32) token.Token {
	if l.peek() == '0' && l.peekNext() == 'x' {
		l.advance()
		l.advance()
		for !l.atEnd() && isHexDigit(l.peek()) {
			l.advance()
		}
		return l.make(token.IntNumber, pos, line, col, 0)
	}

	for !l.atEnd() && l.peek() >= '0' && l.peek() <= '9' {
		l.advance()
	}
	if !l.atEnd() && l.peek() == '.' {
		l.advance()
		for !l.atEnd() && l.peek() >= '0' && l.peek() <= '9' {
			l.advance()
		}
		return l.make(token.FloatNumber, pos, line, col, 0)
	}
	return l.make(token.IntNumber, pos, line, col, 0)
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// labelDef scans "@name". The token spans the @ sign as well; the parser
// strips it when it reads the label name.
func (l *Lexer) labelDef(pos int, line, col uint32) token.Token {
	if l.atEnd() || !isIdentStart(l.peek()) {
		l.rep.Report(util.SyntaxError, uint32(pos), 1, line, col,
			"expected label name after '@'")
		return l.make(token.LabelDef, pos, line, col, 0)
	}
	for !l.atEnd() && isIdentPart(l.peek()) {
		l.advance()
	}
	return l.make(token.LabelDef, pos, line, col, 0)
}

// stringLiteral scans a quoted string including both quotes. Escape
// sequences are passed through raw; the parser decodes them.
func (l *Lexer) stringLiteral(pos int, line, col uint32) token.Token {
	for !l.atEnd() && l.peek() != '\n' {
		if l.peek() == '\\' && l.peekNext() != 0 && l.peekNext() != '\n' {
			l.advance()
			l.advance()
			continue
		}
		if l.peek() == '"' {
			l.advance()
			return l.make(token.String, pos, line, col, 0)
		}
		l.advance()
	}
	l.rep.Report(util.SyntaxError, uint32(pos), uint32(l.pos-pos), line, col,
		"unterminated string literal")
	return l.make(token.String, pos, line, col, 0)
}
