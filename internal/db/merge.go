package db

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"
)

var jsonNull = []byte("null")

// MergeJSON overlays the non-null top-level fields of next onto prev and
// returns the merged object. A null in next never erases a value prev
// already holds, so a weaker re-scrape cannot blank out a stronger prior
// pass; an explicit zero is a value and overwrites. An empty prev returns
// next unchanged.
func MergeJSON(prev, next []byte) ([]byte, error) {
	if len(prev) == 0 {
		return next, nil
	}

	var base, overlay map[string]json.RawMessage
	if err := json.Unmarshal(prev, &base); err != nil {
		return nil, eris.Wrap(err, "db: merge: parse existing payload")
	}
	if err := json.Unmarshal(next, &overlay); err != nil {
		return nil, eris.Wrap(err, "db: merge: parse incoming payload")
	}

	for k, v := range overlay {
		if bytes.Equal(v, jsonNull) {
			continue
		}
		base[k] = v
	}

	merged, err := json.Marshal(base)
	if err != nil {
		return nil, eris.Wrap(err, "db: merge: marshal payload")
	}
	return merged, nil
}
