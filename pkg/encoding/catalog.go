package encoding

// ParamType is one accepted operand category inside a parameter-type pattern.
type ParamType int

const (
	IntType ParamType = iota
	FloatType
	IntReg
	FloatReg
	RegOffset
	IntNum
	FloatNum
	LabelID
	SysInt
)

var paramTypeNames = map[ParamType]string{
	IntType:   "int type",
	FloatType: "float type",
	IntReg:    "integer register",
	FloatReg:  "float register",
	RegOffset: "register offset",
	IntNum:    "int number",
	FloatNum:  "float number",
	LabelID:   "label",
	SysInt:    "syscall number",
}

func (p ParamType) String() string { return paramTypeNames[p] }

// TypeVariant binds a data type tag to the opcode emitted for it.
type TypeVariant struct {
	Type   uint8
	Opcode uint8
}

// ParamList is one legal overload of an instruction: an ordered parameter
// pattern plus the terminal opcode, encoding flags and, when FlagTypeVariants
// is set, the variant table the final opcode is selected from.
type ParamList struct {
	Opcode   uint8
	Flags    uint8
	Params   []ParamType
	Variants []TypeVariant
}

// DefNode is one node of an instruction's decision trie. Every path from the
// root to a node holding a non-nil List spells out one legal parameter
// pattern. Patterns are authored so at most one child matches any concrete
// operand, which makes the walk deterministic.
type DefNode struct {
	Type     ParamType
	Children []DefNode
	List     *ParamList
}

// Catalog is the full instruction set: mnemonic lookup plus one decision trie
// per instruction. It is immutable after NewCatalog.
type Catalog struct {
	names map[string]uint32
	defs  []DefNode
}

// NewCatalog builds the decision tries from the generated parameter-list
// table. The root node of a zero-parameter instruction carries its ParamList
// directly and has no children; an instruction definition never mixes the
// two shapes.
func NewCatalog() *Catalog {
	c := &Catalog{
		names: make(map[string]uint32, len(instrNames)),
		defs:  make([]DefNode, len(instrNames)),
	}
	for i, name := range instrNames {
		c.names[name] = uint32(i)
	}
	for i := range instrParamLists {
		root := &c.defs[i]
		for l := range instrParamLists[i] {
			list := &instrParamLists[i][l]
			if len(list.Params) == 0 {
				root.List = list
				continue
			}
			insertPattern(root, list)
		}
	}
	return c
}

func insertPattern(root *DefNode, list *ParamList) {
	node := root
	for _, param := range list.Params {
		var next *DefNode
		for n := range node.Children {
			if node.Children[n].Type == param {
				next = &node.Children[n]
				break
			}
		}
		if next == nil {
			node.Children = append(node.Children, DefNode{Type: param})
			next = &node.Children[len(node.Children)-1]
		}
		node = next
	}
	node.List = list
}

// Lookup returns the catalog index of a mnemonic.
func (c *Catalog) Lookup(name string) (uint32, bool) {
	idx, ok := c.names[name]
	return idx, ok
}

// Def returns the decision trie root for the instruction at index.
func (c *Catalog) Def(index uint32) *DefNode {
	return &c.defs[index]
}

// Name returns the mnemonic of the instruction at index.
func (c *Catalog) Name(index uint32) string {
	return instrNames[index]
}

// Size returns the number of instruction definitions in the catalog.
func (c *Catalog) Size() int { return len(c.defs) }
