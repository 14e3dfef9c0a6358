// Package parser builds the AST from a token stream. It is a forward-only
// scan with a single token of lookahead, organized as a small state machine
// over the three lexical contexts of a source file: top-level section scope,
// variable-declaration bodies and the code section.
package parser

import (
	"strconv"
	"strings"

	"github.com/uvmkit/uas/pkg/ast"
	"github.com/uvmkit/uas/pkg/encoding"
	"github.com/uvmkit/uas/pkg/token"
	"github.com/uvmkit/uas/pkg/util"
)

type parseState int

const (
	stateGlobalScope parseState = iota
	stateInstrBody
	stateEnd
)

// Parser owns a read cursor over an externally owned, immutable token
// sequence. Tokens are never mutated.
type Parser struct {
	src    *util.SourceFile
	tokens []token.Token
	cursor int
	rep    *util.Reporter
	file   *ast.File
}

func New(src *util.SourceFile, tokens []token.Token, rep *util.Reporter) *Parser {
	return &Parser{src: src, tokens: tokens, rep: rep, file: &ast.File{}}
}

// eat returns the token at the cursor and advances. Past the end it keeps
// returning the last token, which is always EOF, so callers never read out
// of bounds.
func (p *Parser) eat() token.Token {
	if p.cursor < len(p.tokens) {
		t := p.tokens[p.cursor]
		p.cursor++
		return t
	}
	return p.tokens[len(p.tokens)-1]
}

// peek returns the token at the cursor without advancing.
func (p *Parser) peek() token.Token {
	if p.cursor >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.cursor]
}

// skipLine advances past the current line after an error in a variable
// declaration so the following declarations can still be checked.
func (p *Parser) skipLine() {
	t := p.eat()
	for t.Kind != token.EOF && t.Kind != token.EOL {
		t = p.eat()
	}
}

func (p *Parser) errorAt(cat util.Category, t token.Token, format string, args ...interface{}) {
	p.rep.ReportToken(cat, t, format, args...)
}

// strToInt converts a literal string to its 64-bit bit pattern. A "0x"
// prefix (lowercase x only) selects base 16. A leading minus negates with
// two's complement wrap. Returns false if the magnitude overflows 64 bits.
func strToInt(s string) (uint64, bool) {
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	base := 10
	if len(s) >= 3 && s[0] == '0' && s[1] == 'x' {
		base = 16
		s = s[2:]
	}
	num, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		return uint64(-int64(num)), true
	}
	return num, true
}

func strToFloat(s string) (float64, bool) {
	num, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return num, true
}

// unescapeString decodes a quoted string literal. An unrecognized escape
// sequence truncates the remaining output; the generator stage depends on
// this behavior, do not "fix" it without changing the VM test corpus.
func unescapeString(in string) string {
	if len(in) <= 2 {
		return ""
	}
	var out strings.Builder
	cursor := 1
	for cursor < len(in)-1 {
		c := in[cursor]
		if c == '\\' && cursor+1 < len(in) {
			switch in[cursor+1] {
			case 't':
				c = 0x09
			case 'v':
				c = 0x0B
			case '0':
				c = 0x00
			case 'b':
				c = 0x08
			case 'f':
				c = 0x0C
			case 'n':
				c = 0x0A
			case 'r':
				c = 0x0D
			case '"':
				c = 0x22
			case '\\':
				c = 0x5C
			default:
				return out.String()
			}
			cursor++
		}
		out.WriteByte(c)
		cursor++
	}
	return out.String()
}

// parseRegOffset parses a register-offset operand. The cursor sits just
// after the opening bracket; on success everything up to and including the
// closing bracket is consumed and the node is appended to instr's operands.
func (p *Parser) parseRegOffset(instr *ast.InstructionNode) bool {
	t := p.eat()

	// Variable reference form: [staticVar]
	if t.Kind == token.Ident {
		regOff := ast.NewRegOffset(t)
		ro := regOff.Data.(*ast.RegOffsetNode)
		ro.Var = ast.NewIdent(t, p.src.SubStr(t.Pos, t.Len))

		t = p.eat()
		if t.Kind != token.RBracket {
			p.errorAt(util.SyntaxError, t, "expected closing bracket ] after variable reference")
			return false
		}
		instr.Params = append(instr.Params, regOff)
		return true
	}

	regOff := ast.NewRegOffset(t)
	ro := regOff.Data.(*ast.RegOffsetNode)

	if t.Kind != token.Register {
		p.errorAt(util.SyntaxError, t, "expected register in register offset")
		return false
	}
	if encoding.RegisterKindOf(uint8(t.Tag)) != encoding.IntRegister {
		p.errorAt(util.SyntaxError, t, "expected integer register as base")
		return false
	}
	ro.Base = ast.NewRegister(t, uint8(t.Tag))
	t = p.eat()

	switch t.Kind {
	case token.RBracket:
		regOff.Tok = t
		ro.Layout = ast.ROLayoutIR
		instr.Params = append(instr.Params, regOff)
		return true
	case token.Plus:
		// positive layouts carry no extra bit
	case token.Minus:
		ro.Layout |= ast.ROLayoutNegative
	default:
		p.errorAt(util.SyntaxError, t, "unexpected token in register offset")
		return false
	}

	t = p.eat()
	switch t.Kind {
	case token.IntNumber:
		// [iR +/- i32]
		if p.peek().Kind != token.RBracket {
			p.errorAt(util.SyntaxError, t, "expected closing bracket ] after immediate offset")
			return false
		}
		num, ok := strToInt(p.src.SubStr(t.Pos, t.Len))
		if !ok || num>>32 != 0 {
			p.errorAt(util.OverflowError, t, "register offset immediate does not fit into 32-bit value")
			return false
		}
		ro.Imm = uint32(num)
		regOff.Tok = t
		ro.Layout |= ast.ROLayoutIRInt
		instr.Params = append(instr.Params, regOff)
		p.eat() // closing bracket
		return true

	case token.Register:
		// [iR +/- iR * i16]
		if encoding.RegisterKindOf(uint8(t.Tag)) != encoding.IntRegister {
			p.errorAt(util.SyntaxError, t, "expected integer register as offset")
			return false
		}
		ro.Offset = ast.NewRegister(t, uint8(t.Tag))

		t = p.eat()
		if t.Kind != token.Asterisk {
			p.errorAt(util.SyntaxError, t, "expected * after offset register")
			return false
		}

		t = p.eat()
		num, ok := strToInt(p.src.SubStr(t.Pos, t.Len))
		if !ok || num>>16 != 0 {
			p.errorAt(util.OverflowError, t, "register offset immediate does not fit into 16-bit value")
			return false
		}
		ro.Imm = uint32(uint16(num))

		t = p.eat()
		if t.Kind != token.RBracket {
			p.errorAt(util.SyntaxError, t, "expected closing bracket after scale factor")
			return false
		}
		regOff.Tok = t
		ro.Layout |= ast.ROLayoutIRIRInt
		instr.Params = append(instr.Params, regOff)
		return true

	default:
		p.errorAt(util.SyntaxError, t, "expected register or int number as offset")
		return false
	}
}

// signInfo tracks a leading +/- token while the following literal is parsed.
type signInfo struct {
	tok   token.Token
	text  string
	valid bool
}

func (p *Parser) takeSign(t *token.Token) signInfo {
	var sign signInfo
	if t.Kind == token.Plus || t.Kind == token.Minus {
		sign.valid = true
		sign.tok = *t
		sign.text = p.src.SubStr(sign.tok.Pos, 1)
		*t = p.eat()
	}
	return sign
}

// applySign folds a sign token into the literal string. The sign must be
// directly adjacent to the literal by byte offset, otherwise "a + 5" would
// parse as a signed literal.
func (sign *signInfo) applySign(t token.Token, str string) (string, bool, bool) {
	if !sign.valid {
		return str, false, true
	}
	if sign.tok.Pos+1 != t.Pos {
		return str, false, false
	}
	return sign.text + str, sign.tok.Kind == token.Minus, true
}

// parseSectionVars parses the flat "name : type = value" declaration list of
// a static or global section. A literal that fails conversion or width
// checking skips to the end of its line so the sibling declarations still
// get parsed; structural errors abort the section.
func (p *Parser) parseSectionVars(sec *ast.Node) bool {
	secData := sec.Data.(*ast.SectionNode)

	tok := p.eat()
	if tok.Kind == token.EOL {
		tok = p.eat()
	}

	for tok.Kind != token.RBrace {
		if tok.Kind == token.EOF {
			p.errorAt(util.SyntaxError, tok, "unexpected end of file in section")
			return false
		}

		if tok.Kind != token.Ident {
			p.errorAt(util.SyntaxError, tok, "expected variable identifier")
			return false
		}
		id := ast.NewIdent(tok, p.src.SubStr(tok.Pos, tok.Len))

		tok = p.eat()
		if tok.Kind != token.Colon {
			p.errorAt(util.SyntaxError, tok, "expected colon after variable identifier")
			return false
		}

		tok = p.eat()
		if tok.Kind != token.TypeInfo {
			p.errorAt(util.SyntaxError, tok, "expected type in variable declaration")
			return false
		}
		typeInfo := ast.NewTypeInfo(tok, uint8(tok.Tag))
		dataType := uint8(tok.Tag)

		tok = p.eat()
		if tok.Kind != token.Equals {
			p.errorAt(util.SyntaxError, tok, "expected equals sign after type in variable declaration")
			return false
		}

		tok = p.eat()
		sign := p.takeSign(&tok)

		var val *ast.Node
		switch tok.Kind {
		case token.String:
			val = ast.NewString(tok, unescapeString(p.src.SubStr(tok.Pos, tok.Len)))

		case token.IntNumber:
			numStr, signed, ok := sign.applySign(tok, p.src.SubStr(tok.Pos, tok.Len))
			if !ok {
				p.errorAt(util.SyntaxError, sign.tok, "unexpected operator")
				return false
			}
			num, ok := strToInt(numStr)
			if !ok {
				p.errorAt(util.OverflowError, tok, "integer does not fit into 64-bit value")
				p.skipLine()
				tok = p.eat()
				continue
			}
			if !encoding.FitsInt(num, dataType, signed) {
				p.errorAt(util.OverflowError, tok, "integer does not fit into given type")
				p.skipLine()
				tok = p.eat()
				continue
			}
			val = ast.NewInt(tok, num, signed)

		case token.FloatNumber:
			floatStr, _, ok := sign.applySign(tok, p.src.SubStr(tok.Pos, tok.Len))
			if !ok {
				p.errorAt(util.SyntaxError, sign.tok, "unexpected operator")
				return false
			}
			num, ok := strToFloat(floatStr)
			if !ok {
				p.errorAt(util.OverflowError, tok, "float does not fit into 64-bit value")
				p.skipLine()
				tok = p.eat()
				continue
			}
			if !encoding.FitsFloat(num, dataType) {
				p.errorAt(util.OverflowError, tok, "float does not fit into given type")
				p.skipLine()
				tok = p.eat()
				continue
			}
			val = ast.NewFloat(tok, num)

		default:
			p.errorAt(util.SyntaxError, tok, "expected string, float or integer as variable value")
			return false
		}

		tok = p.eat()
		if tok.Kind != token.EOL {
			p.errorAt(util.SyntaxError, tok, "expected new line after variable declaration")
			return false
		}

		declTok := id.Tok
		declTok.Len = (val.Tok.Pos + val.Tok.Len) - id.Tok.Pos
		decl := ast.NewVarDecl(declTok, id, typeInfo, val)
		secData.Body = append(secData.Body, decl)

		tok = p.eat()
	}

	return true
}

// parseSectionCode drives the two-state machine over the code section:
// stateGlobalScope expects an instruction, a label definition or the closing
// brace; stateInstrBody consumes one comma-separated operand list up to the
// end of the line.
func (p *Parser) parseSectionCode() bool {
	codeData := p.file.Code.Data.(*ast.SectionNode)

	state := stateGlobalScope
	var instr *ast.InstructionNode

	for state != stateEnd {
		t := p.eat()
		switch state {
		case stateGlobalScope:
			if t.Kind == token.EOL {
				t = p.eat()
			}
			if t.Kind == token.EOF || t.Kind == token.RBrace {
				state = stateEnd
				continue
			}

			switch t.Kind {
			case token.Instruction:
				node := ast.NewInstruction(t, p.src.SubStr(t.Pos, t.Len), t.Tag)
				instr = node.Data.(*ast.InstructionNode)
				codeData.Body = append(codeData.Body, node)

				next := p.peek()
				if next.Kind == token.EOF {
					p.errorAt(util.SyntaxError, t, "unexpected end of file after instruction")
					return false
				}
				if next.Kind != token.EOL {
					state = stateInstrBody
				}

			case token.LabelDef:
				name := p.src.SubStr(t.Pos+1, t.Len-1)
				codeData.Body = append(codeData.Body, ast.NewLabelDef(t, name))

				if p.peek().Kind != token.EOL {
					p.errorAt(util.SyntaxError, t, "expected new line after label definition")
					return false
				}
				p.eat() // consumes the EOL; long-standing behavior the state loop relies on

			default:
				p.errorAt(util.SyntaxError, t, "unexpected token in code section")
				return false
			}

		case stateInstrBody:
			endOfParams := false

			// A type annotation is only legal as the very first operand.
			if t.Kind == token.TypeInfo {
				instr.Params = append(instr.Params, ast.NewTypeInfo(t, uint8(t.Tag)))
				t = p.eat()
				// Instructions like "pop i8" have the annotation as their
				// only operand.
				if t.Kind == token.EOL {
					endOfParams = true
				}
			}

			for !endOfParams {
				sign := p.takeSign(&t)
				if sign.valid && t.Kind != token.IntNumber && t.Kind != token.FloatNumber {
					p.errorAt(util.SyntaxError, sign.tok, "unexpected operator")
					return false
				}

				switch t.Kind {
				case token.Ident:
					instr.Params = append(instr.Params, ast.NewIdent(t, p.src.SubStr(t.Pos, t.Len)))

				case token.Register:
					instr.Params = append(instr.Params, ast.NewRegister(t, uint8(t.Tag)))

				case token.LBracket:
					if !p.parseRegOffset(instr) {
						return false
					}

				case token.IntNumber:
					numStr, signed, ok := sign.applySign(t, p.src.SubStr(t.Pos, t.Len))
					if !ok {
						p.errorAt(util.SyntaxError, sign.tok, "unexpected operator")
						return false
					}
					num, ok := strToInt(numStr)
					if !ok {
						p.errorAt(util.OverflowError, t, "integer does not fit into 64-bit value")
						return false
					}
					instr.Params = append(instr.Params, ast.NewInt(t, num, signed))

				case token.FloatNumber:
					floatStr, _, ok := sign.applySign(t, p.src.SubStr(t.Pos, t.Len))
					if !ok {
						p.errorAt(util.SyntaxError, sign.tok, "unexpected operator")
						return false
					}
					num, ok := strToFloat(floatStr)
					if !ok {
						p.errorAt(util.OverflowError, t, "float does not fit into 64-bit value")
						return false
					}
					instr.Params = append(instr.Params, ast.NewFloat(t, num))

				default:
					p.errorAt(util.SyntaxError, t, "expected parameter")
					return false
				}

				t = p.eat()
				if t.Kind == token.Comma {
					t = p.eat()
				} else if t.Kind == token.EOL {
					endOfParams = true
				}
			}
			state = stateGlobalScope
		}
	}
	return true
}

// BuildAST parses the whole token sequence into a File. It returns the file
// and whether parsing succeeded; on failure the file may be partial and must
// not be handed to later stages. A structural error abandons the rest of the
// input; a reported width failure inside a declaration does not, so the
// remaining sections still get parsed and checked.
func (p *Parser) BuildAST() (*ast.File, bool) {
	before := p.rep.Count()
	valid := true

	t := p.eat()
	for t.Kind != token.EOF {
		if t.Kind == token.EOL {
			t = p.eat()
			continue
		}

		if t.Kind != token.Ident {
			p.errorAt(util.SyntaxError, t, "expected section identifier at top level")
			valid = false
			break
		}
		secTok := t

		t = p.eat()
		if t.Kind != token.LBrace {
			p.errorAt(util.SyntaxError, t, "expected { after section identifier")
			valid = false
			break
		}

		secName := p.src.SubStr(secTok.Pos, secTok.Len)
		switch secName {
		case "static":
			if p.file.Static != nil {
				p.errorAt(util.RedefinitionError, secTok, "section 'static' already defined")
				valid = false
				break
			}
			p.file.Static = ast.NewSection(secTok, secName, ast.SecStatic)
			if !p.parseSectionVars(p.file.Static) {
				valid = false
			}
		case "global":
			if p.file.Global != nil {
				p.errorAt(util.RedefinitionError, secTok, "section 'global' already defined")
				valid = false
				break
			}
			p.file.Global = ast.NewSection(secTok, secName, ast.SecGlobal)
			if !p.parseSectionVars(p.file.Global) {
				valid = false
			}
		case "code":
			if p.file.Code != nil {
				p.errorAt(util.RedefinitionError, secTok, "section 'code' already defined")
				valid = false
				break
			}
			p.file.Code = ast.NewSection(secTok, secName, ast.SecCode)
			if !p.parseSectionCode() {
				valid = false
			}
		default:
			p.errorAt(util.SyntaxError, secTok, "unknown section type '%s'", secName)
			valid = false
		}
		if !valid {
			break
		}

		t = p.eat()
	}

	if p.file.Code == nil {
		p.rep.Report(util.MissingEntryError, 0, 0, 1, 1, "could not find code section")
		return p.file, false
	}

	return p.file, valid && p.rep.Count() == before
}
