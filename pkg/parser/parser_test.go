package parser

import (
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/uvmkit/uas/pkg/ast"
	"github.com/uvmkit/uas/pkg/encoding"
	"github.com/uvmkit/uas/pkg/lexer"
	"github.com/uvmkit/uas/pkg/util"
)

func parse(t *testing.T, src string) (*ast.File, bool, *util.Reporter) {
	t.Helper()
	file := util.NewSourceFile("test.uasm", []byte(src))
	rep := util.NewReporter(file)
	rep.Out = io.Discard
	rep.Color = false
	toks, ok := lexer.Tokenize(file, encoding.NewCatalog(), rep)
	if !ok {
		t.Fatalf("lexer errors: %v", rep.Errors())
	}
	f, ok := New(file, toks, rep).BuildAST()
	return f, ok, rep
}

func codeBody(t *testing.T, f *ast.File) []*ast.Node {
	t.Helper()
	if f.Code == nil {
		t.Fatal("no code section")
	}
	return f.Code.Data.(*ast.SectionNode).Body
}

func firstInstr(t *testing.T, f *ast.File) *ast.InstructionNode {
	t.Helper()
	for _, n := range codeBody(t, f) {
		if n.Kind == ast.Instruction {
			return n.Data.(*ast.InstructionNode)
		}
	}
	t.Fatal("no instruction in code section")
	return nil
}

func TestRegOffsetLayouts(t *testing.T) {
	tests := []struct {
		operand string
		layout  uint8
		imm     uint32
	}{
		{"[r0]", ast.ROLayoutIR, 0},
		{"[r0+10]", ast.ROLayoutIRInt, 10},
		{"[r0-10]", ast.ROLayoutIRInt | ast.ROLayoutNegative, 10},
		{"[r0+0xFFFF]", ast.ROLayoutIRInt, 0xFFFF},
		{"[r0+r1*4]", ast.ROLayoutIRIRInt, 4},
		{"[r0-r1*4]", ast.ROLayoutIRIRInt | ast.ROLayoutNegative, 4},
		{"[r0+r1*65535]", ast.ROLayoutIRIRInt, 65535},
	}
	for _, tt := range tests {
		t.Run(tt.operand, func(t *testing.T) {
			f, ok, rep := parse(t, "code {\nlea "+tt.operand+", r1\n}\n")
			if !ok {
				t.Fatalf("parse failed: %v", rep.Errors())
			}
			instr := firstInstr(t, f)
			ro := instr.Params[0].Data.(*ast.RegOffsetNode)
			if ro.Layout != tt.layout {
				t.Errorf("layout = %#x, want %#x", ro.Layout, tt.layout)
			}
			if ro.Imm != tt.imm {
				t.Errorf("imm = %d, want %d", ro.Imm, tt.imm)
			}
		})
	}
}

func TestRegOffsetVarReference(t *testing.T) {
	f, ok, rep := parse(t, "code {\nlea [counter], r1\n}\n")
	if !ok {
		t.Fatalf("parse failed: %v", rep.Errors())
	}
	ro := firstInstr(t, f).Params[0].Data.(*ast.RegOffsetNode)
	if ro.Var == nil {
		t.Fatal("variable-reference form should set Var")
	}
	if got := ro.Var.Data.(*ast.IdentNode).Name; got != "counter" {
		t.Errorf("var name = %q, want counter", got)
	}
}

func TestRegOffsetImmediateWidth(t *testing.T) {
	tests := []struct {
		name    string
		operand string
	}{
		{"offset needs 33 bits", "[r0+4294967296]"},
		{"scale needs 17 bits", "[r0+r1*65536]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, rep := parse(t, "code {\nlea "+tt.operand+", r1\n}\n")
			if ok {
				t.Fatal("expected a parse failure")
			}
			if rep.Errors()[0].Cat != util.OverflowError {
				t.Errorf("category = %v, want OverflowError", rep.Errors()[0].Cat)
			}
		})
	}
}

func TestRegOffsetRequiresIntRegisters(t *testing.T) {
	for _, operand := range []string{"[f0]", "[r0+f1*2]"} {
		_, ok, rep := parse(t, "code {\nlea "+operand+", r1\n}\n")
		if ok {
			t.Fatalf("%s should fail", operand)
		}
		if rep.Errors()[0].Cat != util.SyntaxError {
			t.Errorf("%s category = %v, want SyntaxError", operand, rep.Errors()[0].Cat)
		}
	}
}

func TestSignedLiteral(t *testing.T) {
	f, ok, rep := parse(t, "code {\npush i8 -5\n}\n")
	if !ok {
		t.Fatalf("parse failed: %v", rep.Errors())
	}
	instr := firstInstr(t, f)
	num := instr.Params[1].Data.(*ast.IntNode)
	if !num.Signed {
		t.Error("literal should be marked signed")
	}
	if num.Value != ^uint64(5)+1 {
		t.Errorf("value = %#x, want two's complement of -5", num.Value)
	}
}

// A sign is only part of a literal when it touches it: "push i8 - 5" is an
// operator floating in the operand list, not a negative five.
func TestSignMustTouchLiteral(t *testing.T) {
	_, ok, rep := parse(t, "code {\npush i8 - 5\n}\n")
	if ok {
		t.Fatal("expected a parse failure")
	}
	if rep.Errors()[0].Cat != util.SyntaxError {
		t.Errorf("category = %v, want SyntaxError", rep.Errors()[0].Cat)
	}
}

func TestZeroArityInstruction(t *testing.T) {
	f, ok, rep := parse(t, "code {\nret\n}\n")
	if !ok {
		t.Fatalf("parse failed: %v", rep.Errors())
	}
	if instr := firstInstr(t, f); len(instr.Params) != 0 {
		t.Errorf("ret should have no operands, got %d", len(instr.Params))
	}
}

func TestLabelMustEndLine(t *testing.T) {
	_, ok, _ := parse(t, "code {\n@main ret\n}\n")
	if ok {
		t.Fatal("a label definition must be the last token on its line")
	}

	f, ok, rep := parse(t, "code {\n@main\nret\n}\n")
	if !ok {
		t.Fatalf("parse failed: %v", rep.Errors())
	}
	body := codeBody(t, f)
	if body[0].Kind != ast.LabelDef || body[1].Kind != ast.Instruction {
		t.Errorf("body kinds = %v, %v", body[0].Kind, body[1].Kind)
	}
	if got := body[0].Data.(*ast.LabelDefNode).Name; got != "main" {
		t.Errorf("label name = %q, the @ must be stripped", got)
	}
}

func TestTypeAnnotationOnlyFirst(t *testing.T) {
	_, ok, _ := parse(t, "code {\npush -5 i8\n}\n")
	if ok {
		t.Fatal("a type annotation after the first operand should fail")
	}
}

func TestDuplicateSection(t *testing.T) {
	_, ok, rep := parse(t, "code {\nret\n}\ncode {\nret\n}\n")
	if ok {
		t.Fatal("expected a parse failure")
	}
	if rep.Errors()[0].Cat != util.RedefinitionError {
		t.Errorf("category = %v, want RedefinitionError", rep.Errors()[0].Cat)
	}
}

func TestMissingCodeSection(t *testing.T) {
	_, ok, rep := parse(t, "static {\nx: i8 = 1\n}\n")
	if ok {
		t.Fatal("expected a parse failure")
	}
	last := rep.Errors()[rep.Count()-1]
	if last.Cat != util.MissingEntryError {
		t.Errorf("category = %v, want MissingEntryError", last.Cat)
	}
}

func TestUnknownSection(t *testing.T) {
	_, ok, rep := parse(t, "data {\n}\ncode {\nret\n}\n")
	if ok {
		t.Fatal("expected a parse failure")
	}
	if rep.Errors()[0].Cat != util.SyntaxError {
		t.Errorf("category = %v, want SyntaxError", rep.Errors()[0].Cat)
	}
}

func TestVarDeclarations(t *testing.T) {
	src := "static {\n" +
		"count: i32 = 1000000\n" +
		"ratio: f32 = -2.5\n" +
		"msg: i8 = \"hi\\n\"\n" +
		"}\ncode {\nret\n}\n"
	f, ok, rep := parse(t, src)
	if !ok {
		t.Fatalf("parse failed: %v", rep.Errors())
	}

	body := f.Static.Data.(*ast.SectionNode).Body
	if len(body) != 3 {
		t.Fatalf("declarations = %d, want 3", len(body))
	}

	var names []string
	for _, n := range body {
		decl := n.Data.(*ast.VarDeclNode)
		names = append(names, decl.Id.Data.(*ast.IdentNode).Name)
	}
	if diff := cmp.Diff([]string{"count", "ratio", "msg"}, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}

	ratio := body[1].Data.(*ast.VarDeclNode).Value.Data.(*ast.FloatNode)
	if ratio.Value != -2.5 {
		t.Errorf("ratio = %v, want -2.5", ratio.Value)
	}
	msg := body[2].Data.(*ast.VarDeclNode).Value.Data.(*ast.StringNode)
	if msg.Value != "hi\n" {
		t.Errorf("msg = %q, want %q", msg.Value, "hi\n")
	}
}

// A literal that misses its declared width poisons only its own line; the
// declarations after it still parse.
func TestVarDeclOverflowSkipsLine(t *testing.T) {
	src := "static {\n" +
		"a: i8 = 300\n" +
		"b: i8 = 5\n" +
		"}\ncode {\nret\n}\n"
	f, ok, rep := parse(t, src)
	if ok {
		t.Fatal("expected a parse failure")
	}
	if rep.Errors()[0].Cat != util.OverflowError {
		t.Errorf("category = %v, want OverflowError", rep.Errors()[0].Cat)
	}

	body := f.Static.Data.(*ast.SectionNode).Body
	if len(body) != 1 {
		t.Fatalf("declarations = %d, want 1", len(body))
	}
	if got := body[0].Data.(*ast.VarDeclNode).Id.Data.(*ast.IdentNode).Name; got != "b" {
		t.Errorf("surviving declaration = %q, want b", got)
	}
}

func TestIntLiteralOverflows64Bits(t *testing.T) {
	_, ok, rep := parse(t, "code {\npush i64 18446744073709551616\n}\n")
	if ok {
		t.Fatal("expected a parse failure")
	}
	if rep.Errors()[0].Cat != util.OverflowError {
		t.Errorf("category = %v, want OverflowError", rep.Errors()[0].Cat)
	}
}

func TestUnescapeString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"plain"`, "plain"},
		{`"tab\there"`, "tab\there"},
		{`"a\"b\\c"`, "a\"b\\c"},
		{`"nul\0end"`, "nul\x00end"},
		// An unknown escape cuts the output short.
		{`"ab\qcd"`, "ab"},
		{`""`, ""},
	}
	for _, tt := range tests {
		if got := unescapeString(tt.in); got != tt.want {
			t.Errorf("unescapeString(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStrToInt(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
		ok   bool
	}{
		{"0", 0, true},
		{"255", 255, true},
		{"0xFF", 255, true},
		{"-1", ^uint64(0), true},
		{"18446744073709551615", ^uint64(0), true},
		{"18446744073709551616", 0, false},
		{"12abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := strToInt(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("strToInt(%q) = (%#x, %v), want (%#x, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
