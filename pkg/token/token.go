package token

// Kind identifies the lexical class of a token.
type Kind int

const (
	EOF Kind = iota
	EOL
	Ident
	Instruction
	Register
	IntNumber
	FloatNumber
	String
	TypeInfo
	LabelDef
	Plus
	Minus
	Asterisk
	Comma
	Colon
	Equals
	LBrace
	RBrace
	LBracket
	RBracket
)

var kindNames = map[Kind]string{
	EOF:         "end of file",
	EOL:         "end of line",
	Ident:       "identifier",
	Instruction: "instruction",
	Register:    "register",
	IntNumber:   "integer number",
	FloatNumber: "float number",
	String:      "string",
	TypeInfo:    "type",
	LabelDef:    "label definition",
	Plus:        "'+'",
	Minus:       "'-'",
	Asterisk:    "'*'",
	Comma:       "','",
	Colon:       "':'",
	Equals:      "'='",
	LBrace:      "'{'",
	RBrace:      "'}'",
	LBracket:    "'['",
	RBracket:    "']'",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown token"
}

// Token is one lexeme of an assembly source file. Tokens are immutable once
// produced; the parser only reads them. Pos and Len address the raw source
// text, the token itself never carries the lexeme string.
//
// Tag is an optional pre-resolved value: the register id for Register tokens,
// the catalog index for Instruction tokens and the data type tag for TypeInfo
// tokens. It is 0 for every other kind.
type Token struct {
	Kind Kind
	Pos  uint32
	Len  uint32
	Line uint32
	Col  uint32
	Tag  uint32
}
