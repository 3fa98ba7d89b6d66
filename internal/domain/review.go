package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

type Review struct {
	ID        int       `json:"id"`
	Course    int       `json:"course"`
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment"`
	User      Author    `json:"user"`
	CreatedAt Timestamp `json:"created_at"`
}

type NewReview struct {
	Course  int     `json:"course"`
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

// Author normaliza el campo user de una review: el backend puede enviar
// el username, el id numérico o un objeto anidado.
type Author string

func (a *Author) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*a = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Author(s)
	case b[0] == '{':
		var obj struct {
			ID       int    `json:"id"`
			Username string `json:"username"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		if obj.Username != "" {
			*a = Author(obj.Username)
		} else {
			*a = Author(strconv.Itoa(obj.ID))
		}
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*a = Author(n.String())
	}
	return nil
}

// Formatos aceptados para created_at; DRF con USE_TZ=False omite la zona.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Timestamp es una fecha que sólo se muestra. Si ningún formato la reconoce
// se conserva el texto original en Raw y Time queda en cero.
type Timestamp struct {
	Time time.Time
	Raw  string
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*ts = Timestamp{}
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] != '"' {
		ts.Raw = string(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	ts.Raw = s
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			ts.Time = t
			return nil
		}
	}
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	switch {
	case !ts.Time.IsZero():
		return json.Marshal(ts.Time.Format(time.RFC3339Nano))
	case ts.Raw != "":
		return json.Marshal(ts.Raw)
	default:
		return []byte("null"), nil
	}
}

func (ts Timestamp) String() string {
	if !ts.Time.IsZero() {
		return ts.Time.Format(time.RFC3339)
	}
	return ts.Raw
}
