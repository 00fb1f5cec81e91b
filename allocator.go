package rasterpaint

import "sync/atomic"

// commandBytes is the accounting size of one command record. Records
// are uniform, so a block's outstanding byte counter moves in whole
// record units.
const commandBytes = 2048

// allocBlock is one fixed-size slab of command records.
//
// pos is touched only by the producer; used is the atomic count of
// outstanding bytes, incremented by the producer on allocation and
// decremented by whichever worker releases a record last. A block with
// used == 0 is fully drained and may be rotated back to the front.
type allocBlock struct {
	records []command
	pos     int
	used    atomic.Int64
	next    *allocBlock
}

func (b *allocBlock) release(size int) {
	b.used.Add(-int64(size))
}

// cmdAllocator is a linked list of record blocks with bump allocation.
type cmdAllocator struct {
	head         *allocBlock
	blockRecords int
}

// newCmdAllocator sizes blocks so one block spans about blockSize bytes.
func newCmdAllocator(blockSize int) *cmdAllocator {
	n := blockSize / commandBytes
	if n < 1 {
		n = 1
	}
	return &cmdAllocator{blockRecords: n}
}

// alloc carves one record. Allocation order: bump the head block while
// it has space; otherwise rotate a fully drained block to the front and
// restart it; otherwise grow by a fresh block.
func (a *cmdAllocator) alloc() *command {
	if a.head == nil || a.head.pos >= len(a.head.records) {
		if b := a.takeDrained(); b != nil {
			b.pos = 0
			b.next = a.head
			a.head = b
		} else {
			a.head = &allocBlock{
				records: make([]command, a.blockRecords),
				next:    a.head,
			}
		}
	}
	b := a.head
	cmd := &b.records[b.pos]
	b.pos++
	b.used.Add(commandBytes)
	cmd.block = b
	cmd.size = commandBytes
	return cmd
}

// takeDrained unlinks and returns a non-head block whose records have
// all been released, or nil.
func (a *cmdAllocator) takeDrained() *allocBlock {
	if a.head == nil {
		return nil
	}
	prev := a.head
	for b := a.head.next; b != nil; prev, b = b, b.next {
		if b.used.Load() == 0 {
			prev.next = b.next
			b.next = nil
			return b
		}
	}
	return nil
}

// freeAll drops every block. Blocks with outstanding records indicate a
// teardown without a preceding flush; they are abandoned with a warning
// rather than crashing the host.
func (a *cmdAllocator) freeAll() {
	for b := a.head; b != nil; b = b.next {
		if used := b.used.Load(); used != 0 {
			Logger().Warn("rasterpaint: allocator block abandoned with outstanding records",
				"bytes", used)
		}
	}
	a.head = nil
}
