package notify

import (
	"strings"
	"testing"

	"alphawatch/internal/catalog"
)

func TestRenderFullEntry(t *testing.T) {
	t.Parallel()
	e := catalog.Entry{
		ID: "tok-1", Name: "Alpha", Symbol: "ALP", Price: "0.042",
		TGELive: true, AirdropLive: true,
		ContractAddress: "0xdeadbeef", ListedAt: "2026-08-20T12:00:00Z",
	}
	got := Render(e)

	for _, want := range []string{
		"New Token Listed",
		"Alpha", "(ALP)", "tok-1", "0.042",
		"TGE Live:</b> ✅ Yes",
		"Airdrop Active:</b> 🎁 Yes",
		"0xdeadbeef", "2026-08-20T12:00:00Z",
		"Stay tuned",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("rendered text missing %q:\n%s", want, got)
		}
	}
}

func TestRenderFlagsOff(t *testing.T) {
	t.Parallel()
	got := Render(catalog.Entry{ID: "x", Name: "N", Symbol: "S", Price: "1"})
	if !strings.Contains(got, "TGE Live:</b> ❌ No") {
		t.Fatalf("expected TGE off rendering:\n%s", got)
	}
	if !strings.Contains(got, "Airdrop Active:</b> —") {
		t.Fatalf("expected airdrop off rendering:\n%s", got)
	}
}

func TestRenderMissingOptionalFields(t *testing.T) {
	t.Parallel()
	got := Render(catalog.Entry{ID: "x"})
	if strings.Contains(got, "Contract:") || strings.Contains(got, "Listed:") {
		t.Fatalf("optional lines rendered for absent fields:\n%s", got)
	}
	// The rest of the template is unaffected by absent optionals.
	for _, want := range []string{"Name:", "Token ID:", "Price:", "TGE Live:", "Airdrop Active:", "Stay tuned"} {
		if !strings.Contains(got, want) {
			t.Fatalf("rendered text missing %q:\n%s", want, got)
		}
	}
}

func TestRenderEscapesHTML(t *testing.T) {
	t.Parallel()
	got := Render(catalog.Entry{ID: "x", Name: "<b>evil & co</b>"})
	if strings.Contains(got, "<b>evil") {
		t.Fatalf("unescaped markup leaked:\n%s", got)
	}
	if !strings.Contains(got, "&lt;b&gt;evil &amp; co&lt;/b&gt;") {
		t.Fatalf("expected escaped name:\n%s", got)
	}
}
