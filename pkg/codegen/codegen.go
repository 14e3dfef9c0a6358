// Package codegen turns a checked file into an executable image. The image
// is a flat little-endian byte stream: a fixed header, a section table, then
// the section payloads. Virtual addresses are assigned here, in one linear
// address space: static data first, then global data, then code, each
// aligned to 8 bytes.
package codegen

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/uvmkit/uas/pkg/ast"
	"github.com/uvmkit/uas/pkg/encoding"
	"github.com/uvmkit/uas/pkg/typecheck"
)

// Image header layout:
//
//	magic    [4]byte "UVMX"
//	version  u16
//	secCount u16
//	entry    u64   virtual address of the 'main' label
//
// Section table entry layout:
//
//	kind   u8   0 static, 1 global, 2 code
//	perm   u8   section permission mask
//	vaddr  u64
//	size   u64
//	offset u64  payload position in the file
var magic = [4]byte{'U', 'V', 'M', 'X'}

const version uint16 = 1

const (
	secKindStatic uint8 = 0
	secKindGlobal uint8 = 1
	secKindCode   uint8 = 2
)

// Variable references lower to the [iR + i32] layout with this base register
// id, which the VM reads as zero, making the immediate an absolute address.
const regNone uint8 = 0x00

type section struct {
	kind  uint8
	perm  uint8
	vaddr uint64
	data  []byte
}

type labelFixup struct {
	offset int // position of the u64 placeholder in the code image
	name   string
}

type Generator struct {
	file *ast.File
	res  *typecheck.Result

	code   bytes.Buffer
	fixups []labelFixup
}

func New(file *ast.File, res *typecheck.Result) *Generator {
	return &Generator{file: file, res: res}
}

func align8(addr uint64) uint64 { return (addr + 7) &^ 7 }

// Generate lays out the data sections, emits the code image, patches the
// label placeholders and assembles the final file bytes.
func (g *Generator) Generate() []byte {
	var secs []section
	base := uint64(0)

	if img := g.layoutData(g.file.Static, base, true); img != nil {
		secs = append(secs, section{secKindStatic, encoding.SecPermRead, base, img})
		base = align8(base + uint64(len(img)))
	}
	if img := g.layoutData(g.file.Global, base, false); img != nil {
		secs = append(secs, section{secKindGlobal, encoding.SecPermRead | encoding.SecPermWrite, base, img})
		base = align8(base + uint64(len(img)))
	}

	g.emitCode(base)
	g.patchLabels()
	secs = append(secs, section{secKindCode, encoding.SecPermRead | encoding.SecPermExecute, base, g.code.Bytes()})

	return assemble(secs, g.res.Labels["main"].VAddr)
}

// layoutData emits the initializer bytes of one data section and assigns
// every variable its virtual address. In the read-only static section,
// variables with identical initializer payloads share one copy, pooled by
// xxhash digest; writable globals always get their own storage.
func (g *Generator) layoutData(sec *ast.Node, base uint64, pool bool) []byte {
	if sec == nil {
		return nil
	}
	var img bytes.Buffer
	pooled := make(map[uint64]uint64)

	for _, node := range sec.Data.(*ast.SectionNode).Body {
		decl := node.Data.(*ast.VarDeclNode)
		v := g.res.Vars[decl.DeclIndex]
		if v.Id != node {
			// dropped duplicate declaration
			continue
		}

		payload := initializerBytes(decl)
		if pool {
			key := xxhash.Sum64(payload)
			if addr, ok := pooled[key]; ok {
				v.VAddr = addr
				continue
			}
			pooled[key] = base + uint64(img.Len())
		}
		v.VAddr = base + uint64(img.Len())
		img.Write(payload)
	}
	return img.Bytes()
}

// initializerBytes renders one declaration's initializer. Numeric values are
// truncated to the declared width; strings are raw bytes with a trailing NUL
// so the VM can treat them as C strings.
func initializerBytes(decl *ast.VarDeclNode) []byte {
	typ := decl.DataType.Data.(*ast.TypeInfoNode).DataType

	switch decl.Value.Kind {
	case ast.IntNumber:
		return intBytes(decl.Value.Data.(*ast.IntNode).Value, typ)
	case ast.FloatNumber:
		return floatBytes(decl.Value.Data.(*ast.FloatNode).Value, typ)
	case ast.String:
		s := decl.Value.Data.(*ast.StringNode).Value
		return append([]byte(s), 0)
	}
	return nil
}

func intBytes(value uint64, typ uint8) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, value)
	return buf[:encoding.TypeSize(typ)]
}

func floatBytes(value float64, typ uint8) []byte {
	if typ == encoding.TypeF32 {
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(value)))
		return buf
	}
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(value))
	return buf
}

// emitCode walks the code body once. Label definitions pin their virtual
// address; instructions emit their opcode, optional type byte and operands.
// Label operands emit a u64 placeholder recorded for the patch pass, since a
// jump may target a label defined later.
func (g *Generator) emitCode(base uint64) {
	for _, node := range g.file.Code.Data.(*ast.SectionNode).Body {
		switch node.Kind {
		case ast.LabelDef:
			name := node.Data.(*ast.LabelDefNode).Name
			if l, ok := g.res.Labels[name]; ok && l.Def == node {
				l.VAddr = base + uint64(g.code.Len())
			}
		case ast.Instruction:
			g.emitInstruction(node.Data.(*ast.InstructionNode))
		}
	}
}

func (g *Generator) emitInstruction(instr *ast.InstructionNode) {
	g.code.WriteByte(instr.Opcode)

	for _, param := range instr.Params {
		switch param.Kind {
		case ast.TypeInfo:
			// Variant-dispatched opcodes already encode the type; the rest
			// carry it as an explicit byte right after the opcode.
			if instr.EncodingFlags&encoding.FlagEncodeType != 0 {
				g.code.WriteByte(param.Data.(*ast.TypeInfoNode).DataType)
			}

		case ast.Register:
			g.code.WriteByte(param.Data.(*ast.RegisterNode).Id)

		case ast.IntNumber:
			num := param.Data.(*ast.IntNode)
			g.code.Write(intBytes(num.Value, num.DataType))

		case ast.FloatNumber:
			num := param.Data.(*ast.FloatNode)
			g.code.Write(floatBytes(num.Value, num.DataType))

		case ast.RegOffset:
			g.emitRegOffset(param.Data.(*ast.RegOffsetNode))

		case ast.Ident:
			g.fixups = append(g.fixups, labelFixup{
				offset: g.code.Len(),
				name:   param.Data.(*ast.IdentNode).Name,
			})
			var placeholder [8]byte
			g.code.Write(placeholder[:])
		}
	}
}

func (g *Generator) emitRegOffset(ro *ast.RegOffsetNode) {
	if ro.Var != nil {
		name := ro.Var.Data.(*ast.IdentNode).Name
		v := g.res.Vars[g.res.VarIndex[name]]
		g.code.WriteByte(ast.ROLayoutIRInt)
		g.code.WriteByte(regNone)
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], uint32(v.VAddr))
		g.code.Write(buf[:])
		return
	}

	g.code.WriteByte(ro.Layout)
	g.code.WriteByte(ro.Base.Data.(*ast.RegisterNode).Id)

	switch ro.Layout &^ ast.ROLayoutNegative {
	case ast.ROLayoutIRInt:
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], ro.Imm)
		g.code.Write(buf[:])
	case ast.ROLayoutIRIRInt:
		g.code.WriteByte(ro.Offset.Data.(*ast.RegisterNode).Id)
		var buf [2]byte
		binary.LittleEndian.PutUint16(buf[:], uint16(ro.Imm))
		g.code.Write(buf[:])
	}
}

func (g *Generator) patchLabels() {
	img := g.code.Bytes()
	for _, fix := range g.fixups {
		l := g.res.Labels[fix.name]
		binary.LittleEndian.PutUint64(img[fix.offset:], l.VAddr)
	}
}

// assemble writes the header, the section table and the payloads into the
// final file image.
func assemble(secs []section, entry uint64) []byte {
	var out bytes.Buffer

	out.Write(magic[:])
	writeU16(&out, version)
	writeU16(&out, uint16(len(secs)))
	writeU64(&out, entry)

	const headerSize = 16
	const secEntrySize = 1 + 1 + 8 + 8 + 8
	offset := uint64(headerSize + secEntrySize*len(secs))

	for _, s := range secs {
		out.WriteByte(s.kind)
		out.WriteByte(s.perm)
		writeU64(&out, s.vaddr)
		writeU64(&out, uint64(len(s.data)))
		writeU64(&out, offset)
		offset += uint64(len(s.data))
	}
	for _, s := range secs {
		out.Write(s.data)
	}
	return out.Bytes()
}

func writeU16(out *bytes.Buffer, v uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	out.Write(buf[:])
}

func writeU64(out *bytes.Buffer, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	out.Write(buf[:])
}
