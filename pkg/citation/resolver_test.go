package citation

import (
	"strings"
	"testing"

	"book-companion-be/internal/entity"

	"github.com/google/uuid"
)

func testBindings() (bindings []Binding, chunkA, chunkB uuid.UUID) {
	chunkA = uuid.New()
	chunkB = uuid.New()
	bindings = []Binding{
		{
			Marker:        42,
			ChunkId:       chunkA,
			ChapterIndex:  0,
			PositionIndex: 3,
			Location:      entity.SourceLocation{SpineHref: "ch01.xhtml", AnchorText: "It was the best"},
		},
		{
			Marker:        2,
			ChunkId:       chunkB,
			ChapterIndex:  0,
			PositionIndex: 5,
			Location:      entity.SourceLocation{SpineHref: "ch01.xhtml", AnchorText: "A tale of two"},
		},
	}
	return bindings, chunkA, chunkB
}

func TestResolveMixedMarkerStyles(t *testing.T) {
	bindings, chunkA, chunkB := testBindings()

	result := Resolve("See [c: 42] and 【2】", bindings)

	if len(result.Citations) != 2 {
		t.Fatalf("Citations = %d, want 2", len(result.Citations))
	}
	if result.Citations[0].ChunkId != chunkA {
		t.Errorf("first citation = %s, want chunk_A", result.Citations[0].ChunkId)
	}
	if result.Citations[1].ChunkId != chunkB {
		t.Errorf("second citation = %s, want chunk_B", result.Citations[1].ChunkId)
	}
	if result.Text != "See [42] and [2]" {
		t.Errorf("Text = %q, want %q", result.Text, "See [42] and [2]")
	}
}

func TestResolveCanonicalWhitespaceVariants(t *testing.T) {
	bindings, chunkA, _ := testBindings()

	for _, raw := range []string{"[c:42]", "[c: 42]", "[ c : 42 ]", "[c：42]"} {
		result := Resolve("Answer "+raw, bindings)
		if len(result.Citations) != 1 || result.Citations[0].ChunkId != chunkA {
			t.Errorf("Resolve(%q) did not resolve to chunk_A", raw)
		}
	}
}

func TestResolveNoMarkersPassesThrough(t *testing.T) {
	bindings, _, _ := testBindings()

	text := "The narrator never reveals their name in the opening chapter."
	result := Resolve(text, bindings)

	if result.Text != text {
		t.Errorf("Text = %q, want unchanged", result.Text)
	}
	if len(result.Citations) != 0 {
		t.Errorf("Citations = %d, want 0", len(result.Citations))
	}
}

func TestResolveUnknownMarkersDropped(t *testing.T) {
	bindings, chunkA, _ := testBindings()

	result := Resolve("Known [c:42] but unknown [c:999] and [17].", bindings)

	if len(result.Citations) != 1 {
		t.Fatalf("Citations = %d, want 1", len(result.Citations))
	}
	if result.Citations[0].ChunkId != chunkA {
		t.Error("resolved citation must be chunk_A")
	}
	for _, c := range result.Citations {
		found := false
		for _, b := range bindings {
			if b.ChunkId == c.ChunkId {
				found = true
			}
		}
		if !found {
			t.Errorf("invented chunk id %s", c.ChunkId)
		}
	}
}

func TestResolveDeduplicatesPreservingFirstOccurrence(t *testing.T) {
	bindings, chunkA, chunkB := testBindings()

	result := Resolve("First [c:42], then [2], then [c:42] again.", bindings)

	if len(result.Citations) != 2 {
		t.Fatalf("Citations = %d, want 2", len(result.Citations))
	}
	if result.Citations[0].ChunkId != chunkA || result.Citations[1].ChunkId != chunkB {
		t.Error("dedup must preserve first-occurrence order")
	}
	if result.Text != "First [42], then [2], then [42] again." {
		t.Errorf("Text = %q", result.Text)
	}
}

func TestResolveIdempotentOnNormalizedText(t *testing.T) {
	chunkA := uuid.New()
	chunkB := uuid.New()
	bindings := []Binding{
		{Marker: 1, ChunkId: chunkA, PositionIndex: 1},
		{Marker: 2, ChunkId: chunkB, PositionIndex: 2},
	}

	answers := []string{
		"Alpha [c:1] and beta [c:2].",
		// Cited out of rank order: the later excerpt comes first. The
		// normalized numbers must survive a second pass unchanged.
		"Seen later [c:2] then earlier [c:1].",
	}

	for _, answer := range answers {
		first := Resolve(answer, bindings)
		second := Resolve(first.Text, bindings)

		if len(second.Citations) != len(first.Citations) {
			t.Fatalf("Resolve(%q): re-resolution changed citation count: %d != %d", answer, len(second.Citations), len(first.Citations))
		}
		for i := range first.Citations {
			if first.Citations[i].ChunkId != second.Citations[i].ChunkId {
				t.Errorf("Resolve(%q): citation %d diverged on re-resolution", answer, i)
			}
			if first.Citations[i].DisplayIndex != second.Citations[i].DisplayIndex {
				t.Errorf("Resolve(%q): citation %d display index diverged on re-resolution", answer, i)
			}
		}
		if second.Text != first.Text {
			t.Errorf("Resolve(%q): normalized text changed: %q -> %q", answer, first.Text, second.Text)
		}
	}
}

func TestResolveFootnoteStyle(t *testing.T) {
	bindings, chunkA, chunkB := testBindings()

	result := Resolve("Stated early[^1] and confirmed later[^2].", bindings)

	if len(result.Citations) != 2 {
		t.Fatalf("Citations = %d, want 2", len(result.Citations))
	}
	if result.Citations[0].ChunkId != chunkA || result.Citations[1].ChunkId != chunkB {
		t.Error("positional fallback must follow binding order")
	}
}

func TestResolveParenthesisOnlyWithoutOtherMarkerStyles(t *testing.T) {
	bindings, chunkA, chunkB := testBindings()

	// Parens as the sole style resolve positionally.
	alone := Resolve("Confirmed later (2).", bindings)
	if len(alone.Citations) != 1 || alone.Citations[0].ChunkId != chunkB {
		t.Error("lone parenthesis marker must resolve positionally")
	}

	// Alongside any other style, parenthesized numbers stay prose.
	mixed := Resolve("She left home at age (2), see [c:42].", bindings)
	if len(mixed.Citations) != 1 {
		t.Fatalf("Citations = %d, want 1", len(mixed.Citations))
	}
	if mixed.Citations[0].ChunkId != chunkA {
		t.Error("only the canonical marker must resolve")
	}
	if !strings.Contains(mixed.Text, "(2)") {
		t.Errorf("prose parenthesis was rewritten: %q", mixed.Text)
	}
}

func TestResolveCarriesSourceLocation(t *testing.T) {
	bindings, _, _ := testBindings()

	result := Resolve("See [c:42].", bindings)

	if len(result.Citations) != 1 {
		t.Fatal("expected one citation")
	}
	loc := result.Citations[0].Location
	if loc.SpineHref != "ch01.xhtml" || loc.AnchorText == "" {
		t.Errorf("citation lost source location: %+v", loc)
	}
}
