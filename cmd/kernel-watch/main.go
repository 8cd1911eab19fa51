// Command kernel-watch is a host-side development loop: it watches the
// package tree for saves and re-runs `go vet` and invariantlint, the
// same role fsnotify plays in watching a source tree for a language
// server. It also loads the QEMU/board launch profile so a developer
// running it alongside `scripts/run.sh` sees the configuration that
// run actually used.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

func main() {
	root := flag.String("root", ".", "module root to watch")
	profilePath := flag.String("profile", "launch.yaml", "QEMU/board launch profile")
	flag.Parse()

	if profile, err := loadLaunchProfile(*profilePath); err != nil {
		log.Printf("kernel-watch: no launch profile loaded (%v), using defaults", err)
	} else {
		fmt.Printf("launch profile: %d hart(s), %dMiB RAM, timer at %dHz\n",
			profile.Harts, profile.RAMMiB, profile.TimerHz)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatalf("kernel-watch: %v", err)
	}
	defer w.Close()

	if err := addTree(w, *root); err != nil {
		log.Fatalf("kernel-watch: %v", err)
	}

	fmt.Printf("watching %s for changes\n", *root)
	runChecks(*root)

	debounce := time.NewTimer(0)
	<-debounce.C
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(ev.Name, ".go") {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}
			debounce.Reset(200 * time.Millisecond)
		case <-debounce.C:
			runChecks(*root)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("kernel-watch: watch error: %v", err)
		}
	}
}

// addTree registers every directory under root with w; fsnotify
// watches are not recursive, so each package directory needs its own
// entry, the same way Orizon's FSNotifyWatcher is driven one directory
// at a time by its caller.
func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && !strings.HasPrefix(d.Name(), ".") {
			return w.Add(path)
		}
		return nil
	})
}

func runChecks(root string) {
	fmt.Println("--- re-checking ---")
	run(root, "go", "vet", "./...")
	run(root, "go", "run", "./cmd/invariantlint", "./...")
}

func run(dir, name string, args ...string) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Printf("%s %s: %v\n", name, strings.Join(args, " "), err)
	}
}
