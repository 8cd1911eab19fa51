// Command symbolize turns a raw sepc value from a kpanic.FatalTrap
// console dump into a function name and source line, using the
// kernel's own unstripped ELF image. It's the scriptable companion to
// reading a fatal-trap banner by hand: point it at the image and the
// address kpanic printed.
//
// It also emits the lookup as a single-sample pprof profile (one
// Location, one Line, one Function) so `go tool pprof -list` or the
// web UI can be used to browse the surrounding disassembly, the same
// way a CPU profile samples are symbolized.
package main

import (
	"debug/dwarf"
	"debug/elf"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/pprof/profile"
	"golang.org/x/sys/unix"
)

func main() {
	image := flag.String("image", "", "path to the kernel's unstripped ELF image")
	pcHex := flag.String("pc", "", "sepc value from a fatal-trap dump, e.g. 0xffffffff80001234")
	out := flag.String("out", "", "optional path to write a pprof profile for go tool pprof")
	flag.Parse()

	if *image == "" || *pcHex == "" {
		log.Fatal("symbolize: -image and -pc are required")
	}

	var pc uint64
	if _, err := fmt.Sscanf(*pcHex, "0x%x", &pc); err != nil {
		log.Fatalf("symbolize: parsing -pc: %v", err)
	}

	fd, err := unix.Open(*image, unix.O_RDONLY, 0)
	if err != nil {
		log.Fatalf("symbolize: %v", err)
	}
	defer unix.Close(fd)

	f, err := elf.NewFile(os.NewFile(uintptr(fd), *image))
	if err != nil {
		log.Fatalf("symbolize: %v", err)
	}
	defer f.Close()

	name, file, line, err := lookup(f, pc)
	if err != nil {
		log.Fatalf("symbolize: %v", err)
	}
	fmt.Printf("0x%x: %s (%s:%d)\n", pc, name, file, line)

	if *out != "" {
		if err := writeProfile(*out, *image, pc, name, file, line); err != nil {
			log.Fatalf("symbolize: writing profile: %v", err)
		}
	}
}

// lookup resolves pc to an enclosing function name, using the symbol
// table, and a source file/line, using DWARF line info when the image
// carries it (a release build stripped of debug info still resolves
// the function name, just not the line).
func lookup(f *elf.File, pc uint64) (name, file string, line int, err error) {
	syms, err := f.Symbols()
	if err != nil {
		return "", "", 0, fmt.Errorf("reading symbol table: %w", err)
	}

	name = "??"
	var bestAddr uint64
	for _, s := range syms {
		if elf.ST_TYPE(s.Info) != elf.STT_FUNC {
			continue
		}
		if s.Value <= pc && s.Value > bestAddr && (s.Size == 0 || pc < s.Value+s.Size) {
			bestAddr = s.Value
			name = s.Name
		}
	}

	d, err := f.DWARF()
	if err != nil {
		return name, "", 0, nil
	}
	r := d.Reader()
	for {
		entry, err := r.Next()
		if err != nil || entry == nil {
			break
		}
		if entry.Tag != dwarf.TagCompileUnit {
			continue
		}
		lr, err := d.LineReader(entry)
		if err != nil {
			continue
		}
		var le dwarf.LineEntry
		for lr.Next(&le) == nil {
			if le.Address == pc {
				return name, le.File.Name, le.Line, nil
			}
		}
	}
	return name, "", 0, nil
}

func writeProfile(path, image string, pc uint64, name, file string, line int) error {
	p := &profile.Profile{
		TimeNanos:         time.Unix(0, 0).UnixNano(),
		SampleType:        []*profile.ValueType{{Type: "trap", Unit: "count"}},
		PeriodType:        &profile.ValueType{Type: "trap", Unit: "count"},
		DefaultSampleType: "trap",
	}
	mapping := &profile.Mapping{ID: 1, File: image, HasFunctions: true, HasLineNumbers: file != ""}
	function := &profile.Function{ID: 1, Name: name, SystemName: name, Filename: file}
	loc := &profile.Location{
		ID:      1,
		Mapping: mapping,
		Address: pc,
		Line:    []profile.Line{{Function: function, Line: int64(line)}},
	}
	p.Mapping = []*profile.Mapping{mapping}
	p.Function = []*profile.Function{function}
	p.Location = []*profile.Location{loc}
	p.Sample = []*profile.Sample{{Location: []*profile.Location{loc}, Value: []int64{1}}}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return p.Write(out)
}
