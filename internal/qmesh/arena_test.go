package qmesh

import "testing"

func TestArena_AllocReusesReleasedSlots(t *testing.T) {
	a := newArena[int](4)
	i0, ok := a.alloc()
	if !ok {
		t.Fatal("alloc() ok = false on a fresh arena")
	}
	*a.get(i0) = 42
	a.release(i0)

	i1, ok := a.alloc()
	if !ok {
		t.Fatal("alloc() ok = false after a release")
	}
	if i1 != i0 {
		t.Errorf("alloc() after release = %d, want reused slot %d", i1, i0)
	}
	if got := *a.get(i1); got != 0 {
		t.Errorf("reused slot value = %d, want 0 (zeroed on reuse)", got)
	}
}

func TestArena_ExhaustionReportsNotOK(t *testing.T) {
	a := newArena[int](2)
	if _, ok := a.alloc(); !ok {
		t.Fatal("first alloc() failed on a 2-capacity arena")
	}
	if _, ok := a.alloc(); !ok {
		t.Fatal("second alloc() failed on a 2-capacity arena")
	}
	if _, ok := a.alloc(); ok {
		t.Error("third alloc() on a 2-capacity arena ok = true, want false")
	}
}

func TestArena_GetPointerStableAcrossAlloc(t *testing.T) {
	a := newArena[int](4096 * 2)
	i0, _ := a.alloc()
	p := a.get(i0)
	*p = 7
	for k := 0; k < 5000; k++ {
		a.alloc()
	}
	if *p != 7 {
		t.Error("pointer returned by get() was invalidated by subsequent allocs")
	}
}

func TestArena_RaiseCapBoundExtendsCapacity(t *testing.T) {
	a := newArena[int](1)
	if _, ok := a.alloc(); !ok {
		t.Fatal("alloc() on a 1-capacity arena failed")
	}
	if _, ok := a.alloc(); ok {
		t.Fatal("alloc() past capacity unexpectedly succeeded before raiseCapBound")
	}
	a.raiseCapBound(4096 + 10)
	if _, ok := a.alloc(); !ok {
		t.Error("alloc() after raiseCapBound still failed")
	}
}
