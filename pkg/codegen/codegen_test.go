package codegen

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/uvmkit/uas/pkg/ast"
	"github.com/uvmkit/uas/pkg/encoding"
	"github.com/uvmkit/uas/pkg/lexer"
	"github.com/uvmkit/uas/pkg/parser"
	"github.com/uvmkit/uas/pkg/typecheck"
	"github.com/uvmkit/uas/pkg/util"
)

func generate(t *testing.T, src string) ([]byte, *typecheck.Result) {
	t.Helper()
	file := util.NewSourceFile("test.uasm", []byte(src))
	rep := util.NewReporter(file)
	rep.Out = io.Discard
	rep.Color = false
	cat := encoding.NewCatalog()

	toks, ok := lexer.Tokenize(file, cat, rep)
	if !ok {
		t.Fatalf("lexer errors: %v", rep.Errors())
	}
	f, ok := parser.New(file, toks, rep).BuildAST()
	if !ok {
		t.Fatalf("parse errors: %v", rep.Errors())
	}
	res, ok := typecheck.New(cat, f, rep).Check()
	if !ok {
		t.Fatalf("check errors: %v", rep.Errors())
	}
	return New(f, res).Generate(), res
}

type imageSection struct {
	kind  uint8
	perm  uint8
	vaddr uint64
	data  []byte
}

type image struct {
	entry    uint64
	sections []imageSection
}

func readImage(t *testing.T, img []byte) image {
	t.Helper()
	if !bytes.Equal(img[:4], []byte("UVMX")) {
		t.Fatalf("bad magic %q", img[:4])
	}
	if v := binary.LittleEndian.Uint16(img[4:]); v != 1 {
		t.Fatalf("version = %d", v)
	}
	count := int(binary.LittleEndian.Uint16(img[6:]))
	out := image{entry: binary.LittleEndian.Uint64(img[8:])}

	pos := 16
	for i := 0; i < count; i++ {
		kind := img[pos]
		perm := img[pos+1]
		vaddr := binary.LittleEndian.Uint64(img[pos+2:])
		size := binary.LittleEndian.Uint64(img[pos+10:])
		offset := binary.LittleEndian.Uint64(img[pos+18:])
		out.sections = append(out.sections, imageSection{
			kind: kind, perm: perm, vaddr: vaddr,
			data: img[offset : offset+size],
		})
		pos += 26
	}
	return out
}

func sectionByKind(t *testing.T, img image, kind uint8) imageSection {
	t.Helper()
	for _, s := range img.sections {
		if s.kind == kind {
			return s
		}
	}
	t.Fatalf("no section of kind %d", kind)
	return imageSection{}
}

func TestMinimalImage(t *testing.T) {
	raw, _ := generate(t, "code {\n@main\nexit\n}\n")
	img := readImage(t, raw)

	if len(img.sections) != 1 {
		t.Fatalf("sections = %d, want 1", len(img.sections))
	}
	code := img.sections[0]
	if code.kind != secKindCode {
		t.Errorf("kind = %d, want code", code.kind)
	}
	if code.perm != encoding.SecPermRead|encoding.SecPermExecute {
		t.Errorf("perm = %#x, want read+execute", code.perm)
	}
	if img.entry != 0 {
		t.Errorf("entry = %d, want 0", img.entry)
	}
	// exit is a bare opcode.
	if diff := cmp.Diff([]byte{0x50}, code.data); diff != "" {
		t.Errorf("code image mismatch (-want +got):\n%s", diff)
	}
}

func TestLabelAddressesArePatched(t *testing.T) {
	raw, res := generate(t, "code {\n@main\nnop\n@loop\njmp loop\n}\n")
	img := readImage(t, raw)
	code := sectionByKind(t, img, secKindCode)

	// nop is one byte, so loop sits at vaddr 1.
	if got := res.Labels["loop"].VAddr; got != 1 {
		t.Fatalf("loop vaddr = %d, want 1", got)
	}
	want := []byte{0xA0, 0xE1, 1, 0, 0, 0, 0, 0, 0, 0}
	if diff := cmp.Diff(want, code.data); diff != "" {
		t.Errorf("code image mismatch (-want +got):\n%s", diff)
	}
	if img.entry != res.Labels["main"].VAddr {
		t.Errorf("entry = %d, want %d", img.entry, res.Labels["main"].VAddr)
	}
}

func TestDataSectionLayout(t *testing.T) {
	src := "static {\nmsg: i8 = \"hi\"\n}\nglobal {\ncounter: i64 = 7\n}\ncode {\n@main\nexit\n}\n"
	raw, res := generate(t, src)
	img := readImage(t, raw)

	static := sectionByKind(t, img, secKindStatic)
	global := sectionByKind(t, img, secKindGlobal)
	code := sectionByKind(t, img, secKindCode)

	if static.perm != encoding.SecPermRead {
		t.Errorf("static perm = %#x, want read-only", static.perm)
	}
	if global.perm != encoding.SecPermRead|encoding.SecPermWrite {
		t.Errorf("global perm = %#x, want read-write", global.perm)
	}

	// Strings carry a trailing NUL.
	if diff := cmp.Diff([]byte("hi\x00"), static.data); diff != "" {
		t.Errorf("static image mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]byte{7, 0, 0, 0, 0, 0, 0, 0}, global.data); diff != "" {
		t.Errorf("global image mismatch (-want +got):\n%s", diff)
	}

	// static ends at 3, so global starts at the next 8-byte boundary and
	// code after it.
	if global.vaddr != 8 {
		t.Errorf("global vaddr = %d, want 8", global.vaddr)
	}
	if code.vaddr != 16 {
		t.Errorf("code vaddr = %d, want 16", code.vaddr)
	}
	if res.Vars[res.VarIndex["counter"]].VAddr != 8 {
		t.Errorf("counter vaddr = %d, want 8", res.Vars[res.VarIndex["counter"]].VAddr)
	}
	if img.entry != code.vaddr {
		t.Errorf("entry = %d, want %d", img.entry, code.vaddr)
	}
}

// Identical read-only initializers share one copy; writable globals never do.
func TestStaticPayloadPooling(t *testing.T) {
	src := "static {\na: i8 = \"hi\"\nb: i8 = \"hi\"\nc: i8 = \"yo\"\n}\n" +
		"global {\nx: i8 = 1\ny: i8 = 1\n}\ncode {\n@main\nexit\n}\n"
	raw, res := generate(t, src)
	img := readImage(t, raw)

	static := sectionByKind(t, img, secKindStatic)
	if diff := cmp.Diff([]byte("hi\x00yo\x00"), static.data); diff != "" {
		t.Errorf("static image mismatch (-want +got):\n%s", diff)
	}

	va := func(name string) uint64 { return res.Vars[res.VarIndex[name]].VAddr }
	if va("a") != va("b") {
		t.Errorf("a and b should share storage: %d vs %d", va("a"), va("b"))
	}
	if va("c") == va("a") {
		t.Error("c must not share storage with a")
	}
	if va("x") == va("y") {
		t.Error("writable globals must not be pooled")
	}
}

func TestRegOffsetEncoding(t *testing.T) {
	raw, _ := generate(t, "code {\n@main\nlea [r0+8], r1\nlea [r2-r3*4], r1\n}\n")
	img := readImage(t, raw)
	code := sectionByKind(t, img, secKindCode)

	want := []byte{
		// lea [r0+8], r1
		0x10, ast.ROLayoutIRInt, 0x05, 8, 0, 0, 0, 0x06,
		// lea [r2-r3*4], r1
		0x10, ast.ROLayoutIRIRInt | ast.ROLayoutNegative, 0x07, 0x08, 4, 0, 0x06,
	}
	if diff := cmp.Diff(want, code.data); diff != "" {
		t.Errorf("code image mismatch (-want +got):\n%s", diff)
	}
}

// A variable reference lowers to the [iR + i32] layout with no base
// register, making the immediate the variable's absolute address.
func TestVarReferenceEncoding(t *testing.T) {
	src := "global {\ncounter: i64 = 0\n}\ncode {\n@main\nlea [counter], r0\n}\n"
	raw, res := generate(t, src)
	img := readImage(t, raw)
	code := sectionByKind(t, img, secKindCode)

	addr := res.Vars[res.VarIndex["counter"]].VAddr
	want := []byte{0x10, ast.ROLayoutIRInt, regNone, byte(addr), 0, 0, 0, 0x05}
	if diff := cmp.Diff(want, code.data); diff != "" {
		t.Errorf("code image mismatch (-want +got):\n%s", diff)
	}
}

func TestTypedOperandWidths(t *testing.T) {
	raw, _ := generate(t, "code {\n@main\npush i8 5\npush i64 5\npush i16 r0\nloadf f32 1.5, f2\n}\n")
	img := readImage(t, raw)
	code := sectionByKind(t, img, secKindCode)

	want := []byte{
		0x01, 5, // push i8 5: variant opcode + 1-byte literal
		0x04, 5, 0, 0, 0, 0, 0, 0, 0, // push i64 5: variant opcode + 8-byte literal
		0x05, 0x02, 0x05, // push i16 r0: opcode + type byte + register
		0x16, 0, 0, 0xC0, 0x3F, 0x18, // loadf f32 1.5, f2: variant opcode + float32 + register
	}
	if diff := cmp.Diff(want, code.data); diff != "" {
		t.Errorf("code image mismatch (-want +got):\n%s", diff)
	}
}
