package client

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/pewpew/internal/asset"
	"github.com/tomz197/pewpew/internal/event"
	"github.com/tomz197/pewpew/internal/loop"
)

func testSheet(t *testing.T) *asset.Sheet {
	t.Helper()
	sheet, err := asset.LoadSheet(context.Background(), asset.Embedded(), asset.Manifest)
	if err != nil {
		t.Fatal(err)
	}
	return sheet
}

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

func TestClampTermSize(t *testing.T) {
	tests := []struct {
		name                   string
		w, h                   int
		rw, rh, offCol, offRow int
	}{
		{"small", 80, 24, 80, 24, 0, 0},
		{"exact", 160, 60, 160, 60, 0, 0},
		{"wide", 200, 40, 160, 40, 20, 0},
		{"huge", 250, 100, 160, 60, 45, 20},
		{"empty", 0, 0, 1, 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rw, rh, oc, or := clampTermSize(tt.w, tt.h)
			if rw != tt.rw || rh != tt.rh || oc != tt.offCol || or != tt.offRow {
				t.Errorf("clampTermSize(%d, %d) = %d,%d,%d,%d, want %d,%d,%d,%d",
					tt.w, tt.h, rw, rh, oc, or, tt.rw, tt.rh, tt.offCol, tt.offRow)
			}
		})
	}
}

func TestNewClientRequiresSheet(t *testing.T) {
	_, err := NewClient(strings.NewReader(""), io.Discard, ClientOptions{TermSizeFunc: fixedSize(80, 24)})
	if !errors.Is(err, ErrNoSheet) {
		t.Errorf("err = %v, want ErrNoSheet", err)
	}
}

func TestDrawFrame(t *testing.T) {
	pr, _ := io.Pipe()
	var out bytes.Buffer
	c, err := NewClient(bufio.NewReader(pr), &out, ClientOptions{
		TermSizeFunc: fixedSize(100, 40),
		Sheet:        testSheet(t),
	})
	if err != nil {
		t.Fatal(err)
	}

	c.game.Start()
	c.queue.Run(time.Now())
	if err := c.drawFrame(); err != nil {
		t.Fatal(err)
	}

	got := out.String()
	if !strings.HasPrefix(got, "\033[H\033[2J") {
		t.Errorf("frame should start with a screen clear")
	}
	if !strings.Contains(got, "Scores: 0") {
		t.Error("HUD score missing")
	}
	if !strings.Contains(got, "38;2;") {
		t.Error("sprites should be drawn in true colour")
	}
}

func TestEndScreenShownAfterDefeat(t *testing.T) {
	pr, _ := io.Pipe()
	var out bytes.Buffer
	c, err := NewClient(bufio.NewReader(pr), &out, ClientOptions{
		TermSizeFunc: fixedSize(160, 60),
		Sheet:        testSheet(t),
	})
	if err != nil {
		t.Fatal(err)
	}

	c.game.Start()
	c.queue.Run(time.Now())
	c.game.Bus().Publish(event.GameLost, nil)
	out.Reset()
	if err := c.drawFrame(); err != nil {
		t.Fatal(err)
	}

	if c.game.Phase() != loop.PhaseEnded {
		t.Fatalf("phase = %v", c.game.Phase())
	}
	got := out.String()
	for _, want := range []string{loop.DefeatMessage, "Your scores: 0", loop.RestartPrompt} {
		if !strings.Contains(got, want) {
			t.Errorf("end screen missing %q", want)
		}
	}
}

func TestRunQuitsOnQ(t *testing.T) {
	var out bytes.Buffer
	c, err := NewClient(strings.NewReader("q"), &out, ClientOptions{
		TermSizeFunc: fixedSize(80, 24),
		Sheet:        testSheet(t),
	})
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after q")
	}
	if !strings.HasSuffix(out.String(), "\033[H\033[2J\033[?25h") {
		t.Error("screen should be cleared and the cursor restored on exit")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	c, err := NewClient(bufio.NewReader(pr), io.Discard, ClientOptions{
		TermSizeFunc: fixedSize(80, 24),
		Sheet:        testSheet(t),
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
