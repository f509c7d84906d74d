package ast

// Arena provides arena-style allocation for AST nodes.
// Nodes are allocated from pre-grown slices, reducing GC pressure.
// Call Reset() between compilation units to reuse the backing memory.
type Arena struct {
	identifiers  []Identifier
	numberLits   []NumberLit
	stringLits   []StringLit
	booleanLits  []BooleanLit
	varDecls     []VarDecl
	assignExprs  []AssignExpr
	binaryExprs  []BinaryExpr
	unaryExprs   []UnaryExpr
	callExprs    []CallExpr
	memberExprs  []MemberExpr
	functionLits []FunctionLit
	goStmts      []GoStmt
	returnStmts  []ReturnStmt
	exprStmts    []ExprStmt
	blockStmts   []BlockStmt
	ifStmts      []IfStmt
	forStmts     []ForStmt
}

// NewArena creates a new arena with pre-allocated capacity.
func NewArena() *Arena {
	return &Arena{
		// Pre-allocate based on typical usage patterns
		identifiers:  make([]Identifier, 0, 256),
		numberLits:   make([]NumberLit, 0, 64),
		stringLits:   make([]StringLit, 0, 64),
		booleanLits:  make([]BooleanLit, 0, 32),
		varDecls:     make([]VarDecl, 0, 64),
		assignExprs:  make([]AssignExpr, 0, 64),
		binaryExprs:  make([]BinaryExpr, 0, 128),
		unaryExprs:   make([]UnaryExpr, 0, 32),
		callExprs:    make([]CallExpr, 0, 128),
		memberExprs:  make([]MemberExpr, 0, 128),
		functionLits: make([]FunctionLit, 0, 64),
		goStmts:      make([]GoStmt, 0, 16),
		returnStmts:  make([]ReturnStmt, 0, 64),
		exprStmts:    make([]ExprStmt, 0, 128),
		blockStmts:   make([]BlockStmt, 0, 128),
		ifStmts:      make([]IfStmt, 0, 64),
		forStmts:     make([]ForStmt, 0, 32),
	}
}

// Reset clears the arena for reuse, keeping backing memory allocated.
func (a *Arena) Reset() {
	a.identifiers = a.identifiers[:0]
	a.numberLits = a.numberLits[:0]
	a.stringLits = a.stringLits[:0]
	a.booleanLits = a.booleanLits[:0]
	a.varDecls = a.varDecls[:0]
	a.assignExprs = a.assignExprs[:0]
	a.binaryExprs = a.binaryExprs[:0]
	a.unaryExprs = a.unaryExprs[:0]
	a.callExprs = a.callExprs[:0]
	a.memberExprs = a.memberExprs[:0]
	a.functionLits = a.functionLits[:0]
	a.goStmts = a.goStmts[:0]
	a.returnStmts = a.returnStmts[:0]
	a.exprStmts = a.exprStmts[:0]
	a.blockStmts = a.blockStmts[:0]
	a.ifStmts = a.ifStmts[:0]
	a.forStmts = a.forStmts[:0]
}

// Allocation methods - each returns a pointer to a zeroed node in the arena

func (a *Arena) NewIdentifier() *Identifier {
	a.identifiers = append(a.identifiers, Identifier{})
	return &a.identifiers[len(a.identifiers)-1]
}

func (a *Arena) NewNumberLit() *NumberLit {
	a.numberLits = append(a.numberLits, NumberLit{})
	return &a.numberLits[len(a.numberLits)-1]
}

func (a *Arena) NewStringLit() *StringLit {
	a.stringLits = append(a.stringLits, StringLit{})
	return &a.stringLits[len(a.stringLits)-1]
}

func (a *Arena) NewBooleanLit() *BooleanLit {
	a.booleanLits = append(a.booleanLits, BooleanLit{})
	return &a.booleanLits[len(a.booleanLits)-1]
}

func (a *Arena) NewVarDecl() *VarDecl {
	a.varDecls = append(a.varDecls, VarDecl{})
	return &a.varDecls[len(a.varDecls)-1]
}

func (a *Arena) NewAssignExpr() *AssignExpr {
	a.assignExprs = append(a.assignExprs, AssignExpr{})
	return &a.assignExprs[len(a.assignExprs)-1]
}

func (a *Arena) NewBinaryExpr() *BinaryExpr {
	a.binaryExprs = append(a.binaryExprs, BinaryExpr{})
	return &a.binaryExprs[len(a.binaryExprs)-1]
}

func (a *Arena) NewUnaryExpr() *UnaryExpr {
	a.unaryExprs = append(a.unaryExprs, UnaryExpr{})
	return &a.unaryExprs[len(a.unaryExprs)-1]
}

func (a *Arena) NewCallExpr() *CallExpr {
	a.callExprs = append(a.callExprs, CallExpr{})
	return &a.callExprs[len(a.callExprs)-1]
}

func (a *Arena) NewMemberExpr() *MemberExpr {
	a.memberExprs = append(a.memberExprs, MemberExpr{})
	return &a.memberExprs[len(a.memberExprs)-1]
}

func (a *Arena) NewFunctionLit() *FunctionLit {
	a.functionLits = append(a.functionLits, FunctionLit{})
	return &a.functionLits[len(a.functionLits)-1]
}

func (a *Arena) NewGoStmt() *GoStmt {
	a.goStmts = append(a.goStmts, GoStmt{})
	return &a.goStmts[len(a.goStmts)-1]
}

func (a *Arena) NewReturnStmt() *ReturnStmt {
	a.returnStmts = append(a.returnStmts, ReturnStmt{})
	return &a.returnStmts[len(a.returnStmts)-1]
}

func (a *Arena) NewExprStmt() *ExprStmt {
	a.exprStmts = append(a.exprStmts, ExprStmt{})
	return &a.exprStmts[len(a.exprStmts)-1]
}

func (a *Arena) NewBlockStmt() *BlockStmt {
	a.blockStmts = append(a.blockStmts, BlockStmt{})
	return &a.blockStmts[len(a.blockStmts)-1]
}

func (a *Arena) NewIfStmt() *IfStmt {
	a.ifStmts = append(a.ifStmts, IfStmt{})
	return &a.ifStmts[len(a.ifStmts)-1]
}

func (a *Arena) NewForStmt() *ForStmt {
	a.forStmts = append(a.forStmts, ForStmt{})
	return &a.forStmts[len(a.forStmts)-1]
}
