package model

import (
	"bytes"
	"encoding/json"
)

// Ref is a reference to another entity. The backend sends either the bare
// identifier or a populated object; both decode into Ref.
type Ref struct {
	ID    string `json:"_id"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	}

	type plain Ref
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Ref(p)
	return nil
}

// MarshalJSON emits the bare id unless the reference carries populated fields.
func (r Ref) MarshalJSON() ([]byte, error) {
	if r.Name == "" && r.Phone == "" {
		return json.Marshal(r.ID)
	}
	type plain Ref
	return json.Marshal(plain(r))
}

func (r Ref) IsZero() bool {
	return r.ID == ""
}
