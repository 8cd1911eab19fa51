// Command kernel links the supervisor image. On riscv64 it is built
// freestanding (no host OS, no args/env, entry fixed by the linker
// script to _start) and main never runs in the usual sense: _start
// calls runKernel directly once the assembly prologue in entry_riscv64.s
// has a stack and has recorded which hart it is. main exists so the package
// still builds as an ordinary, inert Go binary on every other GOARCH,
// which keeps `go test ./...` working across the whole module.
package main

func main() {
	runKernel()
}
