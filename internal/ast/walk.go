package ast

// Walk traverses the AST starting from node, calling fn for each node.
// If fn returns false, Walk stops traversing that branch.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, cls := range n.Classes {
			Walk(cls, fn)
		}

	case *Class:
		for _, feat := range n.Features {
			Walk(feat, fn)
		}

	case *Method:
		for _, formal := range n.Formals {
			Walk(formal, fn)
		}
		Walk(n.Body, fn)

	case *Attribute:
		Walk(n.Init, fn)

	case *Branch:
		Walk(n.Body, fn)

	case *BlockExpr:
		for _, e := range n.Body {
			Walk(e, fn)
		}

	case *AssignExpr:
		Walk(n.Value, fn)

	case *DispatchExpr:
		Walk(n.Receiver, fn)
		for _, arg := range n.Args {
			Walk(arg, fn)
		}

	case *StaticDispatchExpr:
		Walk(n.Receiver, fn)
		for _, arg := range n.Args {
			Walk(arg, fn)
		}

	case *CondExpr:
		Walk(n.Pred, fn)
		Walk(n.Then, fn)
		Walk(n.Else, fn)

	case *LoopExpr:
		Walk(n.Pred, fn)
		Walk(n.Body, fn)

	case *CaseExpr:
		Walk(n.Scrutinee, fn)
		for _, br := range n.Branches {
			Walk(br, fn)
		}

	case *LetExpr:
		Walk(n.Init, fn)
		Walk(n.Body, fn)

	case *BinaryExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)

	case *UnaryExpr:
		Walk(n.Operand, fn)
	}
}
