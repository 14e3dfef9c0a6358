// Package ast defines the node types shared by the parser, the checker and
// the generator.
package ast

import "github.com/uvmkit/uas/pkg/token"

// Kind identifies the variant of an AST node.
type Kind int

const (
	Section Kind = iota
	LabelDef
	Ident
	Instruction
	IntNumber
	FloatNumber
	Register
	RegOffset
	TypeInfo
	VarDecl
	String
)

// Register-offset layout bytes. All base layouts keep the high bit clear so
// that OR-ing ROLayoutNegative in never collides with another layout:
//
//	ROLayoutIRIRInt -> 0001 1111  = [iR + iR * i16]
//	negative mask   -> 1000 0000
//	============ OR =============
//	                -> 1001 1111  = [iR - iR * i16]
//
// The generator and the VM decode these values verbatim.
const (
	ROLayoutNegative uint8 = 0x80
	ROLayoutIR       uint8 = 0x4F // [iR]
	ROLayoutIRInt    uint8 = 0x2F // [iR +/- i32]
	ROLayoutIRIRInt  uint8 = 0x1F // [iR +/- iR * i16]
)

// SectionKind distinguishes the three section forms of a source file.
type SectionKind int

const (
	SecStatic SectionKind = iota
	SecGlobal
	SecCode
)

// Node is one node of the tree. Tok pins the node to its source range for
// diagnostics; Data carries the variant-specific payload and is always one
// of the *Node data structs below.
type Node struct {
	Kind Kind
	Tok  token.Token
	Data interface{}
}

// SectionNode owns the ordered body of a section: VarDecl nodes for static
// and global sections, LabelDef and Instruction nodes for the code section.
type SectionNode struct {
	SecKind SectionKind
	Name    string
	Body    []*Node
}

type LabelDefNode struct{ Name string }

// IdentNode is a bare name, used both for variable identifiers and for
// label/variable reference sites. References are resolved by name against
// the side tables, never by pointer.
type IdentNode struct{ Name string }

// InstructionNode owns its operand nodes. DefIndex points at the catalog
// entry for the mnemonic; Opcode and EncodingFlags are filled in by the
// signature resolver.
type InstructionNode struct {
	Name          string
	DefIndex      uint32
	Params        []*Node
	Opcode        uint8
	EncodingFlags uint8
}

// IntNode stores the literal as its 64-bit two's complement bit pattern.
// DataType is assigned by the resolver from the governing type annotation.
type IntNode struct {
	Value    uint64
	Signed   bool
	DataType uint8
}

type FloatNode struct {
	Value    float64
	DataType uint8
}

type RegisterNode struct{ Id uint8 }

// RegOffsetNode is a memory operand. Layout decides which fields are live:
// Base alone (IR), Base plus the full 32-bit Imm (IR+INT), Base and Offset
// with the low 16 bits of Imm as scale (IR+IR*INT), or Var alone for the
// variable-reference form. Never more than one addressing form per node.
type RegOffsetNode struct {
	Layout uint8
	Base   *Node
	Offset *Node
	Imm    uint32
	Var    *Node
}

type TypeInfoNode struct{ DataType uint8 }

// VarDeclNode owns the identifier, type annotation and initializer of one
// static or global declaration. DeclIndex is the node's slot in the shared
// variable table once the checker records it.
type VarDeclNode struct {
	Id        *Node
	DataType  *Node
	Value     *Node
	DeclIndex uint32
}

// StringNode holds the decoded value, escapes already replaced.
type StringNode struct{ Value string }

// File is the root of a parsed source file. Each section appears at most
// once; Code is mandatory.
type File struct {
	Static *Node
	Global *Node
	Code   *Node
}

// LabelLookup records one label definition. VAddr stays zero through parsing
// and checking; the generator fills it in when it assigns addresses.
type LabelLookup struct {
	Def   *Node
	VAddr uint64
}

// VarDeclaration records one declared variable with the permission mask
// derived from its owning section. VAddr stays zero until the generator lays
// out the data sections.
type VarDeclaration struct {
	Id      *Node
	SecPerm uint8
	VAddr   uint64
}

func newNode(kind Kind, tok token.Token, data interface{}) *Node {
	return &Node{Kind: kind, Tok: tok, Data: data}
}

func NewSection(tok token.Token, name string, kind SectionKind) *Node {
	return newNode(Section, tok, &SectionNode{SecKind: kind, Name: name})
}

func NewLabelDef(tok token.Token, name string) *Node {
	return newNode(LabelDef, tok, &LabelDefNode{Name: name})
}

func NewIdent(tok token.Token, name string) *Node {
	return newNode(Ident, tok, &IdentNode{Name: name})
}

func NewInstruction(tok token.Token, name string, defIndex uint32) *Node {
	return newNode(Instruction, tok, &InstructionNode{Name: name, DefIndex: defIndex})
}

func NewInt(tok token.Token, value uint64, signed bool) *Node {
	return newNode(IntNumber, tok, &IntNode{Value: value, Signed: signed})
}

func NewFloat(tok token.Token, value float64) *Node {
	return newNode(FloatNumber, tok, &FloatNode{Value: value})
}

func NewRegister(tok token.Token, id uint8) *Node {
	return newNode(Register, tok, &RegisterNode{Id: id})
}

func NewRegOffset(tok token.Token) *Node {
	return newNode(RegOffset, tok, &RegOffsetNode{})
}

func NewTypeInfo(tok token.Token, dataType uint8) *Node {
	return newNode(TypeInfo, tok, &TypeInfoNode{DataType: dataType})
}

func NewVarDecl(tok token.Token, id, dataType, value *Node) *Node {
	return newNode(VarDecl, tok, &VarDeclNode{Id: id, DataType: dataType, Value: value})
}

func NewString(tok token.Token, value string) *Node {
	return newNode(String, tok, &StringNode{Value: value})
}
