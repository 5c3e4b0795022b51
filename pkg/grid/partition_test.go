package grid

import (
	"errors"
	"testing"
)

func TestPartition_EvenSplit(t *testing.T) {
	bands, err := Partition(8, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Band{{0, 2}, {2, 4}, {4, 6}, {6, 8}}
	for i, b := range bands {
		if b != want[i] {
			t.Errorf("band %d = %+v, want %+v", i, b, want[i])
		}
	}
}

func TestPartition_RemainderGoesToLowestIndices(t *testing.T) {
	// total=10, participants=3 -> base=3, rem=1: participant 0 gets 4 rows.
	bands, err := Partition(10, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Band{{0, 4}, {4, 7}, {7, 10}}
	for i, b := range bands {
		if b != want[i] {
			t.Errorf("band %d = %+v, want %+v", i, b, want[i])
		}
	}
}

func TestPartition_Totality(t *testing.T) {
	total := 17
	for participants := 1; participants <= total; participants++ {
		bands, err := Partition(total, participants)
		if err != nil {
			t.Fatalf("participants=%d: unexpected error: %v", participants, err)
		}
		sum := 0
		prevEnd := 0
		for i, b := range bands {
			if b.Start != prevEnd {
				t.Errorf("participants=%d band %d not contiguous: start=%d want %d", participants, i, b.Start, prevEnd)
			}
			if b.Len() < 1 {
				t.Errorf("participants=%d band %d empty", participants, i)
			}
			sum += b.Len()
			prevEnd = b.End
		}
		if sum != total {
			t.Errorf("participants=%d bands sum to %d, want %d", participants, sum, total)
		}
	}
}

func TestPartition_RejectsTooManyParticipants(t *testing.T) {
	_, err := Partition(8, 9)
	if err == nil {
		t.Fatal("expected InvalidDecomposition error, got nil")
	}
	var decompErr *ErrInvalidDecomposition
	if !errors.As(err, &decompErr) {
		t.Errorf("expected *ErrInvalidDecomposition, got %T", err)
	}
}

func TestPartition_ScenarioSix(t *testing.T) {
	_, err := Partition(8, 9)
	if err == nil {
		t.Fatal("P=9, D=8 must be rejected with InvalidDecomposition")
	}
}
