package webhook

import (
	"encoding/json"
)

// Notification is the body MercadoPago posts to the notification URL.
type Notification struct {
	ID       flexibleID `json:"id"`
	Type     string     `json:"type"`
	Action   string     `json:"action"`
	LiveMode bool       `json:"live_mode"`
	Data     struct {
		ID flexibleID `json:"id"`
	} `json:"data"`

	// Resolved from the body or the query string.
	Topic  string `json:"-"`
	DataID string `json:"-"`
}

// EventID is the dedup key: the notification id, or data id plus action when
// the provider sent none.
func (n Notification) EventID() string {
	if n.ID != "" {
		return string(n.ID)
	}
	if n.DataID == "" {
		return ""
	}
	if n.Action == "" {
		return n.DataID
	}
	return n.DataID + ":" + n.Action
}

// flexibleID accepts ids sent either as JSON numbers or strings.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexibleID(n.String())
	return nil
}
