// Package encoding holds the static instruction-encoding catalog of the UVM
// instruction set: register ids, data type tags, per-mnemonic parameter-type
// patterns with their opcodes and opcode variant tables, and the numeric
// width rules the assembler validates literals against.
//
// Everything in this package is fixed configuration data. A Catalog is built
// once at startup and injected read-only into the parser and the checker.
package encoding

import "math"

// Data type tags. These are wire values shared with the VM, not an internal
// enumeration.
const (
	TypeI8  uint8 = 0x01
	TypeI16 uint8 = 0x02
	TypeI32 uint8 = 0x03
	TypeI64 uint8 = 0x04
	TypeF32 uint8 = 0xF0
	TypeF64 uint8 = 0xF1
)

// TypeName maps a data type tag back to its source keyword.
var TypeName = map[uint8]string{
	TypeI8:  "i8",
	TypeI16: "i16",
	TypeI32: "i32",
	TypeI64: "i64",
	TypeF32: "f32",
	TypeF64: "f64",
}

// TypeTag maps a type keyword to its data type tag.
var TypeTag = map[string]uint8{
	"i8":  TypeI8,
	"i16": TypeI16,
	"i32": TypeI32,
	"i64": TypeI64,
	"f32": TypeF32,
	"f64": TypeF64,
}

// TypeSize returns the byte size of a value of the given data type tag.
func TypeSize(typ uint8) uint32 {
	switch typ {
	case TypeI8:
		return 1
	case TypeI16:
		return 2
	case TypeI32, TypeF32:
		return 4
	default:
		return 8
	}
}

// IsIntType reports whether typ is one of the integer data type tags.
func IsIntType(typ uint8) bool {
	return typ == TypeI8 || typ == TypeI16 || typ == TypeI32 || typ == TypeI64
}

// IsFloatType reports whether typ is one of the float data type tags.
func IsFloatType(typ uint8) bool {
	return typ == TypeF32 || typ == TypeF64
}

// Section permission bits attached to variable declarations by the checker
// and to section table entries by the generator.
const (
	SecPermRead    uint8 = 0x1
	SecPermWrite   uint8 = 0x2
	SecPermExecute uint8 = 0x4
)

// Instruction encoding flags. FlagTypeVariants marks a parameter list whose
// final opcode is selected from its variant table by the governing data type.
// FlagEncodeType marks a parameter list whose data type tag is re-encoded in
// the byte stream after the opcode.
const (
	FlagTypeVariants uint8 = 0x1
	FlagEncodeType   uint8 = 0x2
)

// Registers maps register names to their ids. Id 0x4 is reserved and r0
// starts at 0x5; the float registers begin at 0x16.
var Registers = map[string]uint8{
	"ip": 0x1, "sp": 0x2, "bp": 0x3,
	"r0": 0x5, "r1": 0x6, "r2": 0x7, "r3": 0x8,
	"r4": 0x9, "r5": 0xA, "r6": 0xB, "r7": 0xC,
	"r8": 0xD, "r9": 0xE, "r10": 0xF, "r11": 0x10,
	"r12": 0x11, "r13": 0x12, "r14": 0x13, "r15": 0x14,
	"f0": 0x16, "f1": 0x17, "f2": 0x18, "f3": 0x19,
	"f4": 0x1A, "f5": 0x1B, "f6": 0x1C, "f7": 0x1D,
	"f8": 0x1E, "f9": 0x1F, "f10": 0x20, "f11": 0x21,
	"f12": 0x22, "f13": 0x23, "f14": 0x24, "f15": 0x25,
}

// RegisterKind is the class of a register, derivable from its id range.
type RegisterKind int

const (
	IntRegister RegisterKind = iota
	FloatRegister
)

// RegisterKindOf returns the class of the register with the given id.
func RegisterKindOf(id uint8) RegisterKind {
	if id <= 0x14 && id != 0x4 {
		return IntRegister
	}
	return FloatRegister
}

// FitsInt reports whether an integer literal fits the target width. Signed
// literals are compared by absolute value.
func FitsInt(num uint64, typ uint8, signed bool) bool {
	if signed {
		n := int64(num)
		if n < 0 {
			num = uint64(-n)
		}
	}
	switch typ {
	case TypeI8:
		return num <= 0xFF
	case TypeI16:
		return num <= 0xFFFF
	case TypeI32:
		return num <= 0xFFFFFFFF
	case TypeI64:
		return true
	}
	return false
}

// FitsFloat reports whether a float literal's magnitude is representable in
// the target IEEE type.
func FitsFloat(num float64, typ uint8) bool {
	switch typ {
	case TypeF32:
		return math.Abs(num) <= math.MaxFloat32
	case TypeF64:
		return true
	}
	return false
}
