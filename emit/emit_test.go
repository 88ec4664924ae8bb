package emit

import "testing"

// Two requests for the same label kind must never collide.
func TestLabelFreshness(t *testing.T) {
	e := New()

	first := e.NextLabel(Else)
	second := e.NextLabel(Else)

	if first == second {
		t.Errorf("expected two distinct else labels, got %q twice", first)
	}
}

// Different label kinds keep independent counters.
func TestLabelKindsIndependent(t *testing.T) {
	e := New()

	if got := e.NextLabel(ForStart); got != "for_start_1" {
		t.Errorf("expected 'for_start_1', got %q", got)
	}
	if got := e.NextLabel(ForEnd); got != "for_end_1" {
		t.Errorf("expected 'for_end_1', got %q", got)
	}
	if got := e.NextLabel(ForStart); got != "for_start_2" {
		t.Errorf("expected 'for_start_2', got %q", got)
	}
}

// Line output preserves emission order.
func TestLineOrder(t *testing.T) {
	e := New()
	e.Line("mov eax,1")
	e.Label("done")
	e.Comment("int x = 1;")

	want := "mov eax,1\ndone:\n;int x = 1;"
	if got := e.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
