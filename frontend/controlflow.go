package frontend

import (
	"github.com/gogpu/fragc/ir"
	"github.com/gogpu/fragc/syntax"
)

func (tr *Translator) walkStmts(stmts []syntax.Stmt) {
	for _, s := range stmts {
		tr.walkStmt(s)
	}
}

func (tr *Translator) walkStmt(s syntax.Stmt) {
	switch s := s.(type) {
	case *syntax.ExprStmt:
		tr.Walk(s.X)
	case *syntax.LocalVarStmt:
		tr.walkLocal(s)
	case *syntax.IfStmt:
		tr.walkIf(s)
	case *syntax.WhileStmt:
		tr.walkLoop(nil, s.Condition, nil, s.Body)
	case *syntax.ForStmt:
		tr.walkLoop(s.Init, s.Condition, s.Iterator, s.Body)
	case *syntax.LoopStmt:
		tr.walkLoop(nil, nil, nil, s.Body)
	case *syntax.DoWhileStmt:
		tr.walkDoWhile(s)
	case *syntax.ForEachStmt:
		tr.Errorf(s.Span, "foreach is not supported.")
	case *syntax.BreakStmt:
		tr.jump(tr.fn.breaks, "break", s.Span)
	case *syntax.ContinueStmt:
		tr.jump(tr.fn.continues, "continue", s.Span)
	case *syntax.ReturnStmt:
		tr.walkReturn(s)
	case *syntax.ScopeStmt:
		tr.walkStmts(s.Body)
	default:
		tr.Errorf(s.Pos(), "Unsupported statement %T", s)
	}
}

func (tr *Translator) walkLocal(s *syntax.LocalVarStmt) {
	v := tr.Variable(tr.TypeOf(s.Type, s.Span), s.Name)
	tr.fn.locals[s.Variable] = v
	tr.initialize(s.Type, s.Init, v, s.Span)
}

func (tr *Translator) walkReturn(s *syntax.ReturnStmt) {
	if s.Value == nil {
		tr.Emit(ir.OpReturn, nil)
		return
	}
	tr.Emit(ir.OpReturnValue, nil, tr.ValueOf(tr.Walk(s.Value)))
}

func (tr *Translator) jump(targets []*ir.Block, keyword string, span syntax.Span) {
	if len(targets) == 0 {
		tr.Errorf(span, "'%s' must be inside a loop", keyword)
		return
	}
	tr.branch(targets[len(targets)-1])
}

// branch ends the current block with a jump to target. Anything after an
// earlier terminator is dropped by fixBlockTerminators.
func (tr *Translator) branch(target *ir.Block) {
	tr.Emit(ir.OpBranch, nil, target)
}

// enter appends b to the function and makes it current.
func (tr *Translator) enter(b *ir.Block) {
	tr.fn.ir.AddBlock(b)
	tr.fn.block = b
}

// walkIf lowers an if/else-if/else chain. Each conditional part gets a
// selection header whose merge block is shared with the part after it; the
// merge blocks are chained innermost first and control continues in the
// outermost one.
func (tr *Translator) walkIf(s *syntax.IfStmt) {
	fn := tr.fn.ir
	var merges []*ir.Block
	for i, part := range s.Parts {
		if part.Condition == nil {
			tr.walkStmts(part.Body)
			if len(merges) > 0 {
				tr.branch(merges[len(merges)-1])
			}
			break
		}

		ifTrue := fn.NewBlock("ifTrue")
		ifMerge := fn.NewBlock("ifMerge")
		ifFalse := ifMerge
		if i != len(s.Parts)-1 {
			ifFalse = fn.NewBlock("ifFalse")
		}

		cond := tr.ValueOf(tr.Walk(part.Condition))
		header := tr.fn.block
		header.Kind = ir.BlockSelection
		header.Merge = ifMerge
		tr.Emit(ir.OpBranchConditional, nil, cond, ifTrue, ifFalse)

		tr.enter(ifTrue)
		tr.walkStmts(part.Body)
		tr.branch(ifMerge)

		merges = append(merges, ifMerge)
		if ifFalse != ifMerge {
			tr.enter(ifFalse)
		}
	}

	for i := len(merges) - 1; i >= 0; i-- {
		tr.enter(merges[i])
		if i > 0 {
			tr.branch(merges[i-1])
		}
	}
}

// walkLoop lowers while, for and bare loops into header, condition, body,
// continue and merge blocks.
func (tr *Translator) walkLoop(init syntax.Stmt, cond, iter syntax.Expr, body []syntax.Stmt) {
	if init != nil {
		tr.walkStmt(init)
	}
	fn := tr.fn.ir
	header := fn.NewBlock("loopHeader")
	condition := fn.NewBlock("loopCondition")
	loopBody := fn.NewBlock("loopBody")
	cont := fn.NewBlock("loopContinue")
	merge := fn.NewBlock("loopMerge")

	tr.branch(header)
	tr.enter(header)
	header.Kind = ir.BlockLoop
	header.Merge = merge
	header.Continue = cont
	tr.branch(condition)

	tr.enter(condition)
	if cond != nil {
		c := tr.ValueOf(tr.Walk(cond))
		tr.Emit(ir.OpBranchConditional, nil, c, loopBody, merge)
	} else {
		tr.branch(loopBody)
	}

	tr.enter(loopBody)
	tr.walkLoopBody(body, merge, cont)

	tr.enter(cont)
	if iter != nil {
		tr.Walk(iter)
	}
	tr.branch(header)

	tr.enter(merge)
}

// walkDoWhile lowers a post-tested loop. The condition block is the
// continue target and jumps back to the header.
func (tr *Translator) walkDoWhile(s *syntax.DoWhileStmt) {
	fn := tr.fn.ir
	header := fn.NewBlock("loopHeader")
	loopBody := fn.NewBlock("loopBody")
	condition := fn.NewBlock("loopCondition")
	merge := fn.NewBlock("loopMerge")

	tr.branch(header)
	tr.enter(header)
	header.Kind = ir.BlockLoop
	header.Merge = merge
	header.Continue = condition
	tr.branch(loopBody)

	tr.enter(loopBody)
	tr.walkLoopBody(s.Body, merge, condition)

	tr.enter(condition)
	c := tr.ValueOf(tr.Walk(s.Condition))
	tr.Emit(ir.OpBranchConditional, nil, c, header, merge)

	tr.enter(merge)
}

func (tr *Translator) walkLoopBody(body []syntax.Stmt, breakTo, continueTo *ir.Block) {
	fn := tr.fn
	fn.breaks = append(fn.breaks, breakTo)
	fn.continues = append(fn.continues, continueTo)
	tr.walkStmts(body)
	fn.breaks = fn.breaks[:len(fn.breaks)-1]
	fn.continues = fn.continues[:len(fn.continues)-1]
	if fn.block.Terminator() == nil {
		tr.branch(continueTo)
	}
}

// fixBlockTerminators leaves exactly one terminator at the end of every
// block: ops after the first terminator are dropped, and a block without
// one returns (void functions) or is marked unreachable.
func fixBlockTerminators(fn *ir.Function, void *ir.Type) {
	for _, b := range fn.Blocks {
		end := -1
		for i, op := range b.Ops {
			if op.Code.IsTerminator() {
				end = i
				break
			}
		}
		if end >= 0 {
			b.Ops = b.Ops[:end+1]
			continue
		}
		if ret := fn.ReturnType(); ret != nil && ret != void && ret.Base != ir.BaseVoid {
			b.Add(ir.NewOp(ir.OpUnreachable, nil))
		} else {
			b.Add(ir.NewOp(ir.OpReturn, nil))
		}
	}
}
