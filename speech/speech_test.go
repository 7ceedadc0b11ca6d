package speech

import (
	"slices"
	"testing"
	"time"
)

func TestEstimateDuration(t *testing.T) {
	tests := []struct {
		name   string
		cps    float64
		text   string
		want   time.Duration
		wantOK bool
	}{
		{"ascii", 10, "hello", 500 * time.Millisecond, true},
		{"counts runes", 10, "Köln", 400 * time.Millisecond, true},
		{"empty", 10, "", 0, true},
		{"unknown rate", 0, "hello", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Estimator{CPS: tt.cps}.EstimateDuration(tt.text)
			if got != tt.want || ok != tt.wantOK {
				t.Fatalf("got %v %v, want %v %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLog(t *testing.T) {
	l := NewLog(2)
	for _, s := range []string{"one", "", "two", "three"} {
		l.Say(s)
	}
	if got, want := l.Drain(), []string{"two", "three"}; !slices.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got := l.Drain(); len(got) != 0 {
		t.Fatalf("drained log still holds %q", got)
	}

	unbounded := NewLog(0)
	for i := 0; i < 100; i++ {
		unbounded.Say("x")
	}
	if got := len(unbounded.Drain()); got != 100 {
		t.Fatalf("got %d entries, want 100", got)
	}
}
