package events

import (
	"encoding/json"
	"fmt"

	"family-finance/internal/models"
)

// RoutingKey returns the key a change is published under, e.g.
// "transaction.insert".
func RoutingKey(e models.ChangeEvent) string {
	return e.Entity + "." + e.Operation
}

func Encode(e models.ChangeEvent) ([]byte, error) {
	return json.Marshal(e)
}

func Decode(data []byte) (models.ChangeEvent, error) {
	var e models.ChangeEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return models.ChangeEvent{}, fmt.Errorf("decode change event: %w", err)
	}
	if e.Entity == "" || e.Operation == "" {
		return models.ChangeEvent{}, fmt.Errorf("decode change event: missing entity or operation")
	}
	return e, nil
}
