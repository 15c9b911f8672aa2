package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestFrameAllocatorReusesPagesAfterReset(t *testing.T) {
	a := NewFrameAllocator(8)

	first := a.AllocMatrices(5)
	first[0] = mgl32.Ident4()
	second := a.AllocMatrices(5)
	if got := a.Stats().Pages; got != 2 {
		t.Fatalf("pages after overflow = %d, want 2", got)
	}
	if &first[0] == &second[0] {
		t.Fatal("allocations alias each other")
	}

	a.Reset()
	again := a.AllocMatrices(5)
	if &again[0] != &first[0] {
		t.Error("Reset did not rewind to the first page")
	}
	if again[0] != (mgl32.Mat4{}) {
		t.Error("reused memory was not cleared")
	}
	if got := a.Stats().Pages; got != 2 {
		t.Errorf("pages after reset = %d, want 2", got)
	}
}

func TestFrameAllocatorOversizedRequest(t *testing.T) {
	a := NewFrameAllocator(4)
	big := a.AllocMatrices(10)
	if len(big) != 10 || cap(big) != 10 {
		t.Fatalf("len/cap = %d/%d", len(big), cap(big))
	}
	small := a.AllocMatrices(2)
	if len(small) != 2 {
		t.Fatalf("len = %d", len(small))
	}
	if a.AllocMatrices(0) != nil {
		t.Error("zero-length allocation should be nil")
	}
}

func TestFrameAllocatorStats(t *testing.T) {
	a := NewFrameAllocator(16)
	a.AllocMatrices(3)
	a.AllocMatrices(4)

	s := a.Stats()
	if s.Allocations != 2 || s.MatricesUsed != 7 {
		t.Errorf("stats = %+v", s)
	}
	a.Reset()
	a.AllocMatrices(1)
	s = a.Stats()
	if s.MatricesUsed != 1 || s.PeakMatricesUsed != 7 {
		t.Errorf("stats after reset = %+v", s)
	}
}
