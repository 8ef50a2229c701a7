package menu

import (
	"sync"
	"testing"
)

func TestStateStartsHidden(t *testing.T) {
	s := New()
	if s.Visible() {
		t.Fatal("expected new menu to start hidden")
	}
}

func TestStateShowHideToggle(t *testing.T) {
	s := New()

	s.Show()
	if !s.Visible() {
		t.Fatal("expected visible after Show")
	}

	s.Hide()
	if s.Visible() {
		t.Fatal("expected hidden after Hide")
	}

	s.Toggle()
	if !s.Visible() {
		t.Fatal("expected visible after Toggle from hidden")
	}
	s.Toggle()
	if s.Visible() {
		t.Fatal("expected hidden after second Toggle")
	}
}

func TestStateConcurrentToggleDoesNotRace(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Toggle()
		}()
	}
	wg.Wait()
	_ = s.Visible()
}
