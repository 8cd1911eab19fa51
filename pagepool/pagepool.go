// Package pagepool implements the slab-grown physical frame allocator
// that backs every page-table and mapping allocation in the kernel.
package pagepool

import (
	"sort"
	"sync"
	"unsafe"

	"github.com/losfair/riscv-hart-kernel/addr"
	"github.com/losfair/riscv-hart-kernel/kerrors"
)

// pagesPerSet is the number of 4 KiB pages in one slab (256 KiB total),
// matching PAGES_PER_SET in the original source.
const pagesPerSet = 64

// shrinkEvery is how many frees trigger a shrink attempt.
const shrinkEvery = 64

// pageCoord identifies one page within the pool: (set index, page index).
type pageCoord struct {
	set  uint32
	page uint8
}

// less implements the same tie-break the original BTreeSet<(u32,u8)>
// gets from its Ord impl: lowest set index first, then lowest page index.
func (c pageCoord) less(o pageCoord) bool {
	if c.set != o.set {
		return c.set < o.set
	}
	return c.page < o.page
}

type page [addr.PageSize]byte

// pageSet is one contiguous, zero-initialized run of pagesPerSet pages.
type pageSet struct {
	pages [pagesPerSet]page
}

type pageSetInfo struct {
	set       *pageSet
	usedPages int
}

// PagePool is the unsynchronized allocator core. Callers normally go
// through LockedPagePool instead.
type PagePool struct {
	sets []pageSetInfo

	// free holds every currently-unallocated page coordinate. It is kept
	// sorted so Allocate can always pop the least coordinate, matching
	// BTreeSet::pop_first()'s determinism in the original source.
	free []pageCoord

	allocated map[addr.VirtPageNum]pageCoord

	freeCountBeforeShrink int
}

// NewPagePool returns an empty pool with no sets yet allocated.
func NewPagePool() *PagePool {
	return &PagePool{
		allocated: make(map[addr.VirtPageNum]pageCoord),
	}
}

// Allocate removes and returns the least free frame, growing the pool by
// one set first if none is free.
func (p *PagePool) Allocate() (addr.VirtPageNum, error) {
	if len(p.free) == 0 {
		if err := p.grow(); err != nil {
			return 0, err
		}
	}
	c := p.free[0]
	p.free = p.free[1:]

	info := &p.sets[c.set]
	info.usedPages++
	pg := &info.set.pages[c.page]
	vpn := addr.VirtAddr(uintptr(unsafe.Pointer(pg))).VPN()
	p.allocated[vpn] = c
	return vpn, nil
}

// Free returns vpn to the pool, zeroing its contents first. Freeing a
// frame the pool never allocated is a programming error and panics.
func (p *PagePool) Free(vpn addr.VirtPageNum) {
	c, ok := p.allocated[vpn]
	if !ok {
		panic("pagepool: Free: vpn was not allocated from this pool")
	}
	delete(p.allocated, vpn)

	info := &p.sets[c.set]
	pg := &info.set.pages[c.page]
	for i := range pg {
		pg[i] = 0
	}
	info.usedPages--

	p.insertFree(c)

	p.freeCountBeforeShrink++
	if p.freeCountBeforeShrink == shrinkEvery {
		p.freeCountBeforeShrink = 0
		p.shrink()
	}
}

func (p *PagePool) insertFree(c pageCoord) {
	i := sort.Search(len(p.free), func(i int) bool { return !p.free[i].less(c) })
	p.free = append(p.free, pageCoord{})
	copy(p.free[i+1:], p.free[i:])
	p.free[i] = c
}

func (p *PagePool) grow() error {
	newSet := pageSetInfo{set: &pageSet{}}
	major := uint32(len(p.sets))
	p.sets = append(p.sets, newSet)
	for minor := 0; minor < pagesPerSet; minor++ {
		p.insertFree(pageCoord{set: major, page: uint8(minor)})
	}
	return nil
}

// shrink drops trailing sets that have gone completely unused, one at a
// time, stopping at the first still-used trailing set.
func (p *PagePool) shrink() {
	for len(p.sets) > 0 {
		last := &p.sets[len(p.sets)-1]
		if last.usedPages != 0 {
			break
		}
		major := uint32(len(p.sets) - 1)
		for minor := uint8(0); minor < pagesPerSet; minor++ {
			if !p.removeFree(pageCoord{set: major, page: minor}) {
				panic("pagepool: shrink: trailing set does not match free set")
			}
		}
		p.sets = p.sets[:len(p.sets)-1]
	}
}

func (p *PagePool) removeFree(c pageCoord) bool {
	i := sort.Search(len(p.free), func(i int) bool { return !p.free[i].less(c) })
	if i >= len(p.free) || p.free[i] != c {
		return false
	}
	p.free = append(p.free[:i], p.free[i+1:]...)
	return true
}

// NumSets reports how many slabs the pool currently holds (test/debug
// introspection only).
func (p *PagePool) NumSets() int { return len(p.sets) }

// LockedPagePool is a PagePool behind a mutex, the shared, clonable
// handle every other subsystem holds.
type LockedPagePool struct {
	mu   *sync.Mutex
	pool *PagePool
}

// NewLockedPagePool constructs a fresh, empty pool.
func NewLockedPagePool() LockedPagePool {
	return LockedPagePool{mu: &sync.Mutex{}, pool: NewPagePool()}
}

// Allocate is PagePool.Allocate under the pool's lock.
func (p LockedPagePool) Allocate() (addr.VirtPageNum, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	vpn, err := p.pool.Allocate()
	if err != nil {
		return 0, kerrors.ErrOutOfMemory
	}
	return vpn, nil
}

// Free is PagePool.Free under the pool's lock.
func (p LockedPagePool) Free(vpn addr.VirtPageNum) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pool.Free(vpn)
}
