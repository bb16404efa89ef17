package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/dungeonforge/pkg/dungeon"
)

func dungeonStats(rooms, corridors int, ratio float64) dungeon.Stats {
	return dungeon.Stats{Rooms: rooms, Corridors: corridors, FloorRatio: ratio}
}

func TestStatsLine(t *testing.T) {
	line := statsLine(dungeonStats(1, 0, 0.81), false)
	for _, want := range []string{"1 room", "0 corridors", "81% floor", statusFresh} {
		if !strings.Contains(line, want) {
			t.Errorf("statsLine() = %q, missing %q", line, want)
		}
	}
	if line := statsLine(dungeonStats(9, 8, 0.4), true); !strings.Contains(line, "9 rooms") || !strings.Contains(line, statusCached) {
		t.Errorf("statsLine() = %q", line)
	}
}

func TestPrintHelpersWriteToUIOut(t *testing.T) {
	var buf bytes.Buffer
	prev := uiOut
	uiOut = &buf
	t.Cleanup(func() { uiOut = prev })

	printSuccess("Generated %dx%d dungeon", 20, 20)
	printFile("maps/crypt.svg")
	printKeyValue("Entries", "3")

	out := buf.String()
	for _, want := range []string{"Generated 20x20 dungeon", "maps/crypt.svg", "Entries", "3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
