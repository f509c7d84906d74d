package ast

import (
	"bytes"
	"fmt"
	"strings"
)

// This package defines the closed set of node kinds the lexical scope
// analysis reads. It is deliberately not a full language AST: the
// parser lives upstream and hands the analysis a tree shaped like
// this one. Node kinds the analysis never inspects (literals inside
// expressions, control-flow conditions) still appear so realistic
// function bodies can be represented, but they carry only the fields
// the analysis needs to recurse through them.

// --- Interfaces ---

// Node is the base interface for all AST nodes.
type Node interface {
	String() string // Returns a string representation of the node (for debugging)
}

// Stmt represents a statement node in the AST.
type Stmt interface {
	Node
	stmtNode() // Dummy method for distinguishing statement types
}

// Expr represents an expression node in the AST.
type Expr interface {
	Node
	exprNode() // Dummy method for distinguishing expression types
}

// --- Program Node ---

// Program is the root node of the AST. Its body executes in the
// program root scope (depth 0).
type Program struct {
	Stmts []Stmt
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Stmts {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

// --- Statement Nodes ---

// DeclKind distinguishes var/let/const declarations. It has no effect
// on layout; it is carried through for diagnostics.
type DeclKind uint8

const (
	DeclVar DeclKind = iota
	DeclLet
	DeclConst
)

func (k DeclKind) String() string {
	switch k {
	case DeclLet:
		return "let"
	case DeclConst:
		return "const"
	default:
		return "var"
	}
}

// VarDecl declares a variable in the current scope.
// <Kind> <Name>: <TypeTag> = <Value>;
type VarDecl struct {
	Kind    DeclKind
	Name    string
	TypeTag string // Textual type tag ("int64", "string", ...); empty means "any"
	Value   Expr   // Initializer, may be nil
	Line    int
}

func (vd *VarDecl) stmtNode() {}
func (vd *VarDecl) String() string {
	var out bytes.Buffer
	out.WriteString(vd.Kind.String() + " " + vd.Name)
	if vd.TypeTag != "" {
		out.WriteString(": " + vd.TypeTag)
	}
	if vd.Value != nil {
		out.WriteString(" = " + vd.Value.String())
	}
	out.WriteString(";")
	return out.String()
}

// ReturnStmt returns a value from the enclosing function.
type ReturnStmt struct {
	Value Expr // May be nil
	Line  int
}

func (rs *ReturnStmt) stmtNode() {}
func (rs *ReturnStmt) String() string {
	if rs.Value == nil {
		return "return;"
	}
	return "return " + rs.Value.String() + ";"
}

// ExprStmt wraps an expression used as a statement.
type ExprStmt struct {
	Value Expr
	Line  int
}

func (es *ExprStmt) stmtNode() {}
func (es *ExprStmt) String() string {
	if es.Value == nil {
		return ";"
	}
	return es.Value.String() + ";"
}

// BlockStmt is a braced statement sequence. Blocks do not open scopes;
// only function-like nodes do.
type BlockStmt struct {
	Stmts []Stmt
}

func (bs *BlockStmt) stmtNode() {}
func (bs *BlockStmt) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, s := range bs.Stmts {
		out.WriteString(s.String() + " ")
	}
	out.WriteString("}")
	return out.String()
}

// IfStmt is a conditional. The analysis only recurses through it.
type IfStmt struct {
	Cond Expr
	Then *BlockStmt
	Else Stmt // *BlockStmt or *IfStmt, may be nil
	Line int
}

func (is *IfStmt) stmtNode() {}
func (is *IfStmt) String() string {
	out := "if (" + is.Cond.String() + ") " + is.Then.String()
	if is.Else != nil {
		out += " else " + is.Else.String()
	}
	return out
}

// ForStmt is a C-style loop. The analysis only recurses through it.
type ForStmt struct {
	Init Stmt // May be nil
	Cond Expr // May be nil
	Post Stmt // May be nil
	Body *BlockStmt
	Line int
}

func (fs *ForStmt) stmtNode() {}
func (fs *ForStmt) String() string {
	var out bytes.Buffer
	out.WriteString("for (")
	if fs.Init != nil {
		out.WriteString(fs.Init.String())
	}
	out.WriteString("; ")
	if fs.Cond != nil {
		out.WriteString(fs.Cond.String())
	}
	out.WriteString("; ")
	if fs.Post != nil {
		out.WriteString(fs.Post.String())
	}
	out.WriteString(") ")
	out.WriteString(fs.Body.String())
	return out.String()
}

// GoStmt spawns a goroutine. The spawned expression is almost always a
// FunctionLit (or a call of one); the function body becomes a child
// scope exactly like a nested function, and every variable it captures
// escapes.
type GoStmt struct {
	Fn   Expr
	Line int
}

func (gs *GoStmt) stmtNode() {}
func (gs *GoStmt) String() string {
	return "go " + gs.Fn.String() + ";"
}

// --- Expression Nodes ---

// Identifier is a variable reference by name.
type Identifier struct {
	Name string
	Line int
}

func (i *Identifier) exprNode()      {}
func (i *Identifier) String() string { return i.Name }

// NumberLit is a numeric literal. Opaque to the analysis.
type NumberLit struct {
	Value float64
}

func (nl *NumberLit) exprNode() {}
func (nl *NumberLit) String() string {
	return strings.TrimSuffix(fmt.Sprintf("%g", nl.Value), ".0")
}

// StringLit is a string literal. Opaque to the analysis.
type StringLit struct {
	Value string
}

func (sl *StringLit) exprNode()      {}
func (sl *StringLit) String() string { return fmt.Sprintf("%q", sl.Value) }

// BooleanLit is a boolean literal. Opaque to the analysis.
type BooleanLit struct {
	Value bool
}

func (bl *BooleanLit) exprNode()      {}
func (bl *BooleanLit) String() string { return fmt.Sprintf("%t", bl.Value) }

// AssignExpr writes Value into the named variable. Writing to an
// ancestor-scope variable is an escape exactly like reading it.
type AssignExpr struct {
	Target string
	Value  Expr
	Line   int
}

func (ae *AssignExpr) exprNode() {}
func (ae *AssignExpr) String() string {
	return "(" + ae.Target + " = " + ae.Value.String() + ")"
}

// BinaryExpr applies an infix operator to two sub-expressions.
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
}

func (be *BinaryExpr) exprNode() {}
func (be *BinaryExpr) String() string {
	return "(" + be.Left.String() + " " + be.Op + " " + be.Right.String() + ")"
}

// UnaryExpr applies a prefix operator to a sub-expression.
type UnaryExpr struct {
	Op      string
	Operand Expr
}

func (ue *UnaryExpr) exprNode() {}
func (ue *UnaryExpr) String() string {
	return "(" + ue.Op + ue.Operand.String() + ")"
}

// CallExpr invokes a callee with arguments.
type CallExpr struct {
	Callee Expr
	Args   []Expr
	Line   int
}

func (ce *CallExpr) exprNode() {}
func (ce *CallExpr) String() string {
	args := make([]string, len(ce.Args))
	for i, a := range ce.Args {
		args[i] = a.String()
	}
	return ce.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}

// MemberExpr accesses a property of an object expression. Only the
// object side can contain variable references; the property name is
// not an identifier in scope terms.
type MemberExpr struct {
	Object   Expr
	Property string
}

func (me *MemberExpr) exprNode() {}
func (me *MemberExpr) String() string {
	return me.Object.String() + "." + me.Property
}

// Param is a function parameter declaration.
type Param struct {
	Name    string
	TypeTag string // Empty means "any"
}

// FunctionLit is a function expression or declaration. Each one opens
// a new scope; parameters are declared into that scope before the body
// is visited.
type FunctionLit struct {
	Name   string // Empty for anonymous functions
	Params []Param
	Body   *BlockStmt
	Line   int
}

func (fl *FunctionLit) exprNode() {}
func (fl *FunctionLit) String() string {
	params := make([]string, len(fl.Params))
	for i, p := range fl.Params {
		params[i] = p.Name
		if p.TypeTag != "" {
			params[i] += ": " + p.TypeTag
		}
	}
	name := ""
	if fl.Name != "" {
		name = " " + fl.Name
	}
	return "function" + name + "(" + strings.Join(params, ", ") + ") " + fl.Body.String()
}
