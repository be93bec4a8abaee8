package catalog

import (
	"encoding/json"
	"testing"
)

func TestNormalizeCoercion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		raw  map[string]any
		ok   bool
		want Entry
	}{
		{
			name: "complete record",
			raw: map[string]any{
				"tokenId": "abc123", "name": "Alpha", "symbol": "ALP",
				"price": "1.23", "onlineTge": true, "onlineAirdrop": false,
			},
			ok:   true,
			want: Entry{ID: "abc123", Name: "Alpha", Symbol: "ALP", Price: "1.23", TGELive: true},
		},
		{
			name: "numeric id and price stringified",
			raw:  map[string]any{"tokenId": json.Number("42"), "price": json.Number("0.000037")},
			ok:   true,
			want: Entry{ID: "42", Price: "0.000037"},
		},
		{
			name: "float id survives",
			raw:  map[string]any{"tokenId": float64(7)},
			ok:   true,
			want: Entry{ID: "7"},
		},
		{
			name: "missing fields default",
			raw:  map[string]any{"tokenId": "x"},
			ok:   true,
			want: Entry{ID: "x"},
		},
		{
			name: "wrong types default",
			raw: map[string]any{
				"tokenId": "x", "name": 12, "symbol": nil,
				"onlineTge": "yes", "onlineAirdrop": 1,
			},
			ok:   true,
			want: Entry{ID: "x", Name: "12"},
		},
		{
			name: "optional fields carried",
			raw:  map[string]any{"tokenId": "x", "contractAddress": "0xdead", "listingTime": "2026-08-01"},
			ok:   true,
			want: Entry{ID: "x", ContractAddress: "0xdead", ListedAt: "2026-08-01"},
		},
		{name: "no id dropped", raw: map[string]any{"name": "ghost"}, ok: false},
		{name: "empty id dropped", raw: map[string]any{"tokenId": ""}, ok: false},
		{name: "object id dropped", raw: map[string]any{"tokenId": map[string]any{"v": 1}}, ok: false},
		{name: "empty record dropped", raw: map[string]any{}, ok: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := Normalize(tt.raw)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Fatalf("Normalize = %+v, want %+v", got, tt.want)
			}
		})
	}
}
