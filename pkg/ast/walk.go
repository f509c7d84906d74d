package ast

// Walk traverses the tree rooted at node in pre-order, calling visit
// for every non-nil node. If visit returns false for a node, its
// children are skipped (the traversal continues with siblings).
func Walk(node Node, visit func(Node) bool) {
	if node == nil || !visit(node) {
		return
	}
	switch n := node.(type) {
	case *Program:
		for _, s := range n.Stmts {
			Walk(s, visit)
		}
	case *VarDecl:
		if n.Value != nil {
			Walk(n.Value, visit)
		}
	case *ReturnStmt:
		if n.Value != nil {
			Walk(n.Value, visit)
		}
	case *ExprStmt:
		if n.Value != nil {
			Walk(n.Value, visit)
		}
	case *BlockStmt:
		for _, s := range n.Stmts {
			Walk(s, visit)
		}
	case *IfStmt:
		Walk(n.Cond, visit)
		Walk(n.Then, visit)
		if n.Else != nil {
			Walk(n.Else, visit)
		}
	case *ForStmt:
		if n.Init != nil {
			Walk(n.Init, visit)
		}
		if n.Cond != nil {
			Walk(n.Cond, visit)
		}
		if n.Post != nil {
			Walk(n.Post, visit)
		}
		Walk(n.Body, visit)
	case *GoStmt:
		Walk(n.Fn, visit)
	case *AssignExpr:
		Walk(n.Value, visit)
	case *BinaryExpr:
		Walk(n.Left, visit)
		Walk(n.Right, visit)
	case *UnaryExpr:
		Walk(n.Operand, visit)
	case *CallExpr:
		Walk(n.Callee, visit)
		for _, arg := range n.Args {
			Walk(arg, visit)
		}
	case *MemberExpr:
		Walk(n.Object, visit)
	case *FunctionLit:
		Walk(n.Body, visit)
	}
	// Identifier and literals have no children.
}
