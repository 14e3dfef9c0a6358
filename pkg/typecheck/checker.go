// Package typecheck validates a parsed file: it builds the variable and
// label tables, resolves every instruction against the catalog and checks
// all reference sites. Errors are aggregated; only a missing code body or a
// missing entry point stops checking early, since nothing past them is
// meaningful.
package typecheck

import (
	"github.com/uvmkit/uas/pkg/ast"
	"github.com/uvmkit/uas/pkg/encoding"
	"github.com/uvmkit/uas/pkg/util"
)

// Result carries the symbol tables the generator consumes.
type Result struct {
	// Vars lists every accepted declaration in declaration order. A node's
	// DeclIndex is its slot here.
	Vars []*ast.VarDeclaration
	// VarIndex maps a variable name to its slot in Vars.
	VarIndex map[string]uint32
	// Labels maps a label name to its definition. VAddr is zero until the
	// generator assigns code addresses.
	Labels map[string]*ast.LabelLookup
}

type Checker struct {
	cat  *encoding.Catalog
	rep  *util.Reporter
	file *ast.File

	res       *Result
	labelRefs []*ast.Node
	varRefs   []*ast.RegOffsetNode
}

func New(cat *encoding.Catalog, file *ast.File, rep *util.Reporter) *Checker {
	return &Checker{
		cat: cat, file: file, rep: rep,
		res: &Result{
			VarIndex: make(map[string]uint32),
			Labels:   make(map[string]*ast.LabelLookup),
		},
	}
}

// Check runs all validation passes. The returned Result is complete only
// when the bool is true.
func (c *Checker) Check() (*Result, bool) {
	before := c.rep.Count()

	c.checkVars(c.file.Static, encoding.SecPermRead)
	c.checkVars(c.file.Global, encoding.SecPermRead|encoding.SecPermWrite)

	if !c.checkCode() {
		return c.res, false
	}

	c.checkLabelRefs()
	c.checkVarRefs()

	return c.res, c.rep.Count() == before
}

// checkVars records the declarations of one data section. On a name clash
// the first declaration wins and the duplicate is reported and dropped.
func (c *Checker) checkVars(sec *ast.Node, perm uint8) {
	if sec == nil {
		return
	}
	for _, node := range sec.Data.(*ast.SectionNode).Body {
		decl := node.Data.(*ast.VarDeclNode)
		name := decl.Id.Data.(*ast.IdentNode).Name

		if _, exists := c.res.VarIndex[name]; exists {
			c.rep.ReportToken(util.RedefinitionError, decl.Id.Tok,
				"variable '%s' already defined", name)
			continue
		}
		decl.DeclIndex = uint32(len(c.res.Vars))
		c.res.VarIndex[name] = decl.DeclIndex
		c.res.Vars = append(c.res.Vars, &ast.VarDeclaration{Id: node, SecPerm: perm})
	}
}

// checkCode collects label definitions, verifies the entry point and
// resolves every instruction. Returns false only for the fatal cases where
// the program has no executable content to check.
func (c *Checker) checkCode() bool {
	body := c.file.Code.Data.(*ast.SectionNode).Body

	if len(body) == 0 {
		c.rep.ReportToken(util.MissingEntryError, c.file.Code.Tok, "code section is empty")
		return false
	}

	for _, node := range body {
		if node.Kind != ast.LabelDef {
			continue
		}
		name := node.Data.(*ast.LabelDefNode).Name
		if _, exists := c.res.Labels[name]; exists {
			c.rep.ReportToken(util.RedefinitionError, node.Tok,
				"label '%s' already defined", name)
			continue
		}
		c.res.Labels[name] = &ast.LabelLookup{Def: node}
	}

	if _, ok := c.res.Labels["main"]; !ok {
		c.rep.ReportToken(util.MissingEntryError, c.file.Code.Tok,
			"could not find entry point 'main'")
		return false
	}

	for _, node := range body {
		if node.Kind == ast.Instruction {
			c.resolveInstruction(node)
		}
	}
	return true
}

// checkLabelRefs resolves the label operands collected during instruction
// resolution. Every unresolved site is reported at its own position.
func (c *Checker) checkLabelRefs() {
	for _, ref := range c.labelRefs {
		name := ref.Data.(*ast.IdentNode).Name
		if _, ok := c.res.Labels[name]; !ok {
			c.rep.ReportToken(util.UnresolvedError, ref.Tok, "unknown label '%s'", name)
		}
	}
}

// checkVarRefs resolves the variable-reference register offsets against the
// variable table.
func (c *Checker) checkVarRefs() {
	for _, ro := range c.varRefs {
		name := ro.Var.Data.(*ast.IdentNode).Name
		if _, ok := c.res.VarIndex[name]; !ok {
			c.rep.ReportToken(util.UnresolvedError, ro.Var.Tok, "unknown variable '%s'", name)
		}
	}
}
