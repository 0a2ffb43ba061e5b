package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

var errNotAnID = errors.New("value is not a numeric id")

// FlexibleID decodes from either a JSON number or a numeric string.
// Form controls on the client post ids as strings.
type FlexibleID int

func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*f = 0
			return nil
		}
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return errNotAnID
	}
	*f = FlexibleID(n)
	return nil
}

// Measurement is a free-form vital sign value. Numbers are kept in their
// literal JSON form so 72 and "72" store the same thing.
type Measurement string

func (m *Measurement) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = Measurement(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*m = Measurement(n.String())
	return nil
}
