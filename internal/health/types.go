package health

import (
	"encoding/json"
	"time"
)

// Status is the health state of an item.
type Status string

const (
	StatusOK      Status = "ok"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// ProviderID is the item tracking the movie search provider.
const ProviderID = "provider"

// MessageHealthUpdated is the websocket message type sent on every change.
const MessageHealthUpdated = "health:updated"

// Item is a single health-tracked dependency, such as the movie provider.
type Item struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Status    Status     `json:"status"`
	Message   string     `json:"message,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// MarshalJSON omits message and timestamp for OK items.
func (i Item) MarshalJSON() ([]byte, error) {
	type Alias Item
	alias := Alias(i)

	if i.Status == StatusOK {
		alias.Timestamp = nil
		alias.Message = ""
	}

	return json.Marshal(alias)
}

// Summary is the response of the health endpoint.
type Summary struct {
	Items     []Item `json:"items"`
	HasIssues bool   `json:"hasIssues"`
}
