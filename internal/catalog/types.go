package catalog

import (
	"encoding/json"
	"strconv"
)

// Entry is one normalized catalog record. ID is the diffing key and is
// always non-empty; every other field may be empty/false.
type Entry struct {
	ID     string
	Name   string
	Symbol string
	// Price is display text, never parsed arithmetically.
	Price       string
	TGELive     bool
	AirdropLive bool

	// Optional extended fields, carried opaquely when the API provides them.
	ContractAddress string
	ListedAt        string
}

// Snapshot is one full point-in-time capture of the catalog, in catalog order.
type Snapshot []Entry

// Normalize coerces a raw API record into an Entry.
// It is total: malformed values become zero values instead of errors.
// ok is false iff the record yields no non-empty id.
func Normalize(raw map[string]any) (Entry, bool) {
	e := Entry{
		ID:              coerceString(raw["tokenId"]),
		Name:            coerceString(raw["name"]),
		Symbol:          coerceString(raw["symbol"]),
		Price:           coerceString(raw["price"]),
		TGELive:         coerceBool(raw["onlineTge"]),
		AirdropLive:     coerceBool(raw["onlineAirdrop"]),
		ContractAddress: coerceString(raw["contractAddress"]),
		ListedAt:        coerceString(raw["listingTime"]),
	}
	if e.ID == "" {
		return Entry{}, false
	}
	return e, true
}

func coerceString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		// nil, objects, arrays: nothing usable.
		return ""
	}
}

func coerceBool(v any) bool {
	b, _ := v.(bool)
	return b
}
