package bankaccount

import (
	"encoding/json"

	"github.com/escore/escore"
)

// Snapshot is the persisted state shape stored via SaveSnapshot.
type Snapshot struct {
	Owner   string `json:"owner"`
	Balance Money  `json:"balance"`
	Opened  bool   `json:"opened"`
}

func decodeSnapshot(snap escore.Snapshot) (Snapshot, bool, error) {
	if !snap.Found || snap.State == nil {
		return Snapshot{}, false, nil
	}
	raw, err := json.Marshal(snap.State)
	if err != nil {
		return Snapshot{}, false, err
	}
	var out Snapshot
	if err := json.Unmarshal(raw, &out); err != nil {
		return Snapshot{}, false, err
	}
	return out, true, nil
}
