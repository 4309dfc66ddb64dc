package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bcspragu/codenamesbot/codenames"
	"github.com/bcspragu/codenamesbot/words"
)

func TestListFormat(t *testing.T) {
	b, err := board("b", words.Default(), 3)
	if err != nil {
		t.Fatalf("board: %v", err)
	}

	var buf bytes.Buffer
	if err := write(&buf, b, "list"); err != nil {
		t.Fatalf("write: %v", err)
	}

	counts := make(map[string]int)
	pairs := strings.Split(strings.TrimSpace(buf.String()), ",")
	if len(pairs) != codenames.Size {
		t.Fatalf("got %d cards, want %d", len(pairs), codenames.Size)
	}
	for _, p := range pairs {
		_, agent, ok := strings.Cut(p, ":")
		if !ok {
			t.Fatalf("malformed pair %q", p)
		}
		counts[agent]++
	}

	want := map[string]int{"red": 9, "blue": 8, "bystander": 7, "assassin": 1}
	for agent, n := range want {
		if counts[agent] != n {
			t.Errorf("%d %s cards, want %d", counts[agent], agent, n)
		}
	}
}

func TestUnknownFormat(t *testing.T) {
	b, err := board("random", words.Default(), 1)
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	if err := write(&bytes.Buffer{}, b, "yaml"); err == nil {
		t.Error("expected an error for an unknown format")
	}
}
