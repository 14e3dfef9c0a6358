package typecheck

import (
	"github.com/uvmkit/uas/pkg/ast"
	"github.com/uvmkit/uas/pkg/encoding"
	"github.com/uvmkit/uas/pkg/util"
)

// resolveInstruction walks the operand list of one instruction down the
// catalog's decision trie. Each operand selects at most one child branch; the
// node reached after the last operand must carry a ParamList, whose opcode
// and flags are written back into the instruction node.
//
// A type annotation operand sets the governing data type for every numeric
// literal that follows it. A literal that misses the governing width still
// matches its branch: the violation is reported and the walk continues, so
// every width problem in the instruction surfaces before it is rejected.
func (c *Checker) resolveInstruction(instr *ast.Node) bool {
	data := instr.Data.(*ast.InstructionNode)
	node := c.cat.Def(data.DefIndex)

	dataType := uint8(0)
	widthErr := false

	for _, param := range data.Params {
		var next *encoding.DefNode
		for i := range node.Children {
			child := &node.Children[i]
			ok, overflow := c.matchParam(child.Type, param, &dataType)
			if ok {
				if overflow {
					widthErr = true
				}
				next = child
				break
			}
		}
		if next == nil {
			c.rep.ReportToken(util.ResolutionError, param.Tok,
				"unexpected parameter for instruction '%s'", data.Name)
			return false
		}
		node = next
	}

	if node.List == nil {
		c.rep.ReportToken(util.ResolutionError, instr.Tok,
			"incomplete parameter list for instruction '%s'", data.Name)
		return false
	}

	list := node.List
	data.Opcode = list.Opcode
	data.EncodingFlags = list.Flags

	if list.Flags&encoding.FlagTypeVariants != 0 {
		found := false
		for _, v := range list.Variants {
			if v.Type == dataType {
				data.Opcode = v.Opcode
				found = true
				break
			}
		}
		if !found {
			c.rep.ReportToken(util.ResolutionError, instr.Tok,
				"instruction '%s' has no variant for type %s", data.Name, encoding.TypeName[dataType])
			return false
		}
	}
	return !widthErr
}

// matchParam decides whether one operand satisfies one trie branch. The
// second result flags a width violation: the operand is structurally right
// for the branch, and the overflow has already been reported.
func (c *Checker) matchParam(want encoding.ParamType, param *ast.Node, dataType *uint8) (bool, bool) {
	switch want {
	case encoding.IntType:
		if param.Kind != ast.TypeInfo {
			return false, false
		}
		t := param.Data.(*ast.TypeInfoNode)
		if !encoding.IsIntType(t.DataType) {
			return false, false
		}
		*dataType = t.DataType
		return true, false

	case encoding.FloatType:
		if param.Kind != ast.TypeInfo {
			return false, false
		}
		t := param.Data.(*ast.TypeInfoNode)
		if !encoding.IsFloatType(t.DataType) {
			return false, false
		}
		*dataType = t.DataType
		return true, false

	case encoding.IntReg:
		if param.Kind != ast.Register {
			return false, false
		}
		return encoding.RegisterKindOf(param.Data.(*ast.RegisterNode).Id) == encoding.IntRegister, false

	case encoding.FloatReg:
		if param.Kind != ast.Register {
			return false, false
		}
		return encoding.RegisterKindOf(param.Data.(*ast.RegisterNode).Id) == encoding.FloatRegister, false

	case encoding.RegOffset:
		if param.Kind != ast.RegOffset {
			return false, false
		}
		ro := param.Data.(*ast.RegOffsetNode)
		if ro.Var != nil {
			c.varRefs = append(c.varRefs, ro)
		}
		return true, false

	case encoding.IntNum:
		if param.Kind != ast.IntNumber {
			return false, false
		}
		num := param.Data.(*ast.IntNode)
		num.DataType = *dataType
		if !encoding.FitsInt(num.Value, *dataType, num.Signed) {
			c.rep.ReportToken(util.OverflowError, param.Tok,
				"number does not fit into type %s", encoding.TypeName[*dataType])
			return true, true
		}
		return true, false

	case encoding.FloatNum:
		if param.Kind != ast.FloatNumber {
			return false, false
		}
		num := param.Data.(*ast.FloatNode)
		num.DataType = *dataType
		if !encoding.FitsFloat(num.Value, *dataType) {
			c.rep.ReportToken(util.OverflowError, param.Tok,
				"number does not fit into type %s", encoding.TypeName[*dataType])
			return true, true
		}
		return true, false

	case encoding.SysInt:
		// Syscall numbers are always a single unsigned byte, independent of
		// any annotation.
		if param.Kind != ast.IntNumber {
			return false, false
		}
		num := param.Data.(*ast.IntNode)
		num.DataType = encoding.TypeI8
		if !encoding.FitsInt(num.Value, encoding.TypeI8, num.Signed) {
			c.rep.ReportToken(util.OverflowError, param.Tok,
				"syscall number does not fit into type i8")
			return true, true
		}
		return true, false

	case encoding.LabelID:
		if param.Kind != ast.Ident {
			return false, false
		}
		c.labelRefs = append(c.labelRefs, param)
		return true, false
	}
	return false, false
}
