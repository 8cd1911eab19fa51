// Command invariantlint is a go/analysis-based checker for two of this
// kernel's reentrancy invariants that a code comment can't enforce on
// its own:
//
//  1. No call into ksync's sleeping primitives (Wait, WakeOne, WakeAll)
//     may be reachable from a function that handles an interrupt —
//     named *Tick* or *Dispatch*, or taking a proc.InterruptToken
//     parameter. Blocking while interrupts are masked (or from inside
//     the trap path itself) deadlocks the hart.
//  2. No call to pagepool's Allocate/Free may be reachable from a
//     scheduling-policy method (anything named Policy.Next or
//     Policy.AddThread in package proc). The policy runs with the
//     run-queue lock held; touching the page pool there risks a lock
//     order inversion with code that allocates while holding the
//     run-queue lock the other way around.
//
// Run it over this module with:
//
//	go run ./cmd/invariantlint ./...
package main

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/analysis/singlechecker"
	"golang.org/x/tools/go/ast/inspector"
)

var Analyzer = &analysis.Analyzer{
	Name:     "invariantlint",
	Doc:      "flags calls into ksync's blocking wait queue from interrupt-reachable code, and calls into pagepool from scheduling-policy methods",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

func main() {
	singlechecker.Main(Analyzer)
}

var blockingFuncs = map[string]bool{
	"Wait":    true,
	"WakeOne": true,
	"WakeAll": true,
}

var allocatorFuncs = map[string]bool{
	"Allocate": true,
	"Free":     true,
}

func run(pass *analysis.Pass) (interface{}, error) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{(*ast.FuncDecl)(nil)}
	insp.Preorder(nodeFilter, func(n ast.Node) {
		fd := n.(*ast.FuncDecl)
		if fd.Body == nil {
			return
		}

		if looksLikeInterruptPath(fd) {
			reportCallsTo(pass, fd.Body, "ksync", blockingFuncs,
				"interrupt-reachable function %q calls a blocking ksync wait-queue operation")
		}
		if isPolicyMethod(fd) {
			reportCallsTo(pass, fd.Body, "pagepool", allocatorFuncs,
				"scheduling-policy method %q calls into pagepool while the run queue is locked")
		}
	})
	return nil, nil
}

// looksLikeInterruptPath flags functions named like a tick/dispatch
// handler, or that take a proc.InterruptToken parameter — the two
// shapes interrupt-context code takes in this kernel.
func looksLikeInterruptPath(fd *ast.FuncDecl) bool {
	name := fd.Name.Name
	if containsFold(name, "Tick") || containsFold(name, "Dispatch") {
		return true
	}
	if fd.Type.Params == nil {
		return false
	}
	for _, p := range fd.Type.Params.List {
		if sel, ok := p.Type.(*ast.SelectorExpr); ok && sel.Sel.Name == "InterruptToken" {
			return true
		}
	}
	return false
}

// isPolicyMethod flags methods named Next or AddThread on a receiver
// whose type name contains "Policy" — SimplePolicy's interface methods.
func isPolicyMethod(fd *ast.FuncDecl) bool {
	if fd.Recv == nil || len(fd.Recv.List) == 0 {
		return false
	}
	if fd.Name.Name != "Next" && fd.Name.Name != "AddThread" {
		return false
	}
	return containsFold(receiverTypeName(fd.Recv.List[0].Type), "Policy")
}

func receiverTypeName(expr ast.Expr) string {
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	if ident, ok := expr.(*ast.Ident); ok {
		return ident.Name
	}
	return ""
}

// reportCallsTo walks every call expression in body and reports one
// whose callee resolves to pkgName.fn for some fn in names.
func reportCallsTo(pass *analysis.Pass, body ast.Node, pkgName string, names map[string]bool, format string) {
	ast.Inspect(body, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok || !names[sel.Sel.Name] {
			return true
		}
		ident, ok := sel.X.(*ast.Ident)
		if !ok {
			return true
		}
		pkgName2, ok := pass.TypesInfo.Uses[ident].(*types.PkgName)
		if !ok || pkgName2.Imported().Name() != pkgName {
			return true
		}
		pass.Reportf(call.Pos(), format, enclosingFuncName(pass, call))
		return true
	})
}

func enclosingFuncName(pass *analysis.Pass, call *ast.CallExpr) string {
	for _, f := range pass.Files {
		var name string
		ast.Inspect(f, func(n ast.Node) bool {
			if fd, ok := n.(*ast.FuncDecl); ok && fd.Pos() <= call.Pos() && call.Pos() < fd.End() {
				name = fd.Name.Name
			}
			return true
		})
		if name != "" {
			return name
		}
	}
	return "?"
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
