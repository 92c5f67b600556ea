package linkset

import (
	"fmt"
	"sync"
	"testing"
)

func TestSetAddContains(t *testing.T) {
	t.Parallel()

	set := New()

	if set.Contains("missing") {
		t.Fatalf("expected missing value")
	}

	if !set.Add("https://a.test/p1") {
		t.Fatalf("expected first add to succeed")
	}

	if set.Add("https://a.test/p1") {
		t.Fatalf("expected duplicate add to be rejected")
	}

	if !set.Contains("https://a.test/p1") {
		t.Fatalf("expected existing value")
	}

	if set.Len() != 1 {
		t.Fatalf("len = %d; want %d", set.Len(), 1)
	}
}

func TestSetKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	set := New()
	for _, value := range []string{"c", "a", "b", "a", "c"} {
		set.Add(value)
	}

	got := set.Values()
	want := []string{"c", "a", "b"}

	if len(got) != len(want) {
		t.Fatalf("values = %v; want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("values = %v; want %v", got, want)
		}
	}
}

func TestSetValuesReturnsCopy(t *testing.T) {
	t.Parallel()

	set := New()
	set.Add("a")

	values := set.Values()
	values[0] = "mutated"

	if set.Values()[0] != "a" {
		t.Fatalf("Values must not expose internal storage")
	}
}

func TestSetConcurrentAdd(t *testing.T) {
	t.Parallel()

	set := New()
	var wg sync.WaitGroup

	for i := range 50 {
		wg.Go(func() {
			set.Add(fmt.Sprintf("v-%d", i%10))
		})
	}

	wg.Wait()

	if set.Len() != 10 {
		t.Fatalf("len = %d; want %d", set.Len(), 10)
	}

	for i := range 10 {
		value := fmt.Sprintf("v-%d", i)
		if !set.Contains(value) {
			t.Fatalf("missing value %q", value)
		}
	}
}
