package host

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResumeBreadcrumbRoundTripAndDelete(t *testing.T) {
	dir := t.TempDir()
	b := NewIPCBreadcrumbs(dir)

	if _, _, ok, err := b.ReadResume(); err != nil || ok {
		t.Fatalf("expected no breadcrumb yet, got ok=%v err=%v", ok, err)
	}

	if err := b.WriteResume("sonic2", 9); err != nil {
		t.Fatal(err)
	}

	title, slot, ok, err := b.ReadResume()
	if err != nil {
		t.Fatal(err)
	}
	if !ok || title != "sonic2" || slot != 9 {
		t.Fatalf("got title=%q slot=%d ok=%v want sonic2/9/true", title, slot, ok)
	}

	if _, _, ok, err := b.ReadResume(); err != nil || ok {
		t.Fatalf("expected breadcrumb deleted after first read, got ok=%v err=%v", ok, err)
	}
}

func TestLastDiscBreadcrumbRoundTrip(t *testing.T) {
	dir := t.TempDir()
	b := NewIPCBreadcrumbs(dir)

	if _, ok, err := b.ReadLastDisc("ff7"); err != nil || ok {
		t.Fatalf("expected none yet, got ok=%v err=%v", ok, err)
	}

	if err := b.WriteLastDisc("ff7", "/roms/ff7/disc2.bin"); err != nil {
		t.Fatal(err)
	}

	path, ok, err := b.ReadLastDisc("ff7")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || path != "/roms/ff7/disc2.bin" {
		t.Fatalf("got path=%q ok=%v", path, ok)
	}
}

func TestInstanceServerAcceptsOpenRequest(t *testing.T) {
	dir := t.TempDir()
	romPath := filepath.Join(dir, "game.bin")
	if err := os.WriteFile(romPath, []byte("rom data"), 0o644); err != nil {
		t.Fatal(err)
	}

	opened := make(chan string, 1)
	srv, err := NewInstanceServer(dir, func(path string) error {
		opened <- path
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	srv.Start()
	defer srv.Stop()

	if err := SendOpen(dir, romPath); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-opened:
		if got != romPath {
			t.Fatalf("got %q want %q", got, romPath)
		}
	default:
		t.Fatal("handler was not invoked synchronously with SendOpen's response")
	}
}

func TestInstanceServerRejectsSecondBind(t *testing.T) {
	dir := t.TempDir()

	srv, err := NewInstanceServer(dir, func(string) error { return nil })
	if err != nil {
		t.Fatal(err)
	}
	srv.Start()
	defer srv.Stop()

	if _, err := NewInstanceServer(dir, func(string) error { return nil }); err != ErrInstanceRunning {
		t.Fatalf("got %v want ErrInstanceRunning", err)
	}
}

