package services

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// flexInt decodes a JSON number or a numeric string.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*n = flexInt(v)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = flexInt(int(f))
	return nil
}

// remoteMessage decodes an error field that may be a string or any other
// JSON value. Non-string values keep their raw JSON text.
type remoteMessage string

func (m *remoteMessage) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("false")):
		*m = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = remoteMessage(s)
		return nil
	}
	*m = remoteMessage(data)
	return nil
}
