package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Course struct {
	ID            int     `json:"id"`
	Name          string  `json:"Name"`
	Institute     string  `json:"Institute"`
	Fees          Decimal `json:"Fees"`
	PlacementRate Decimal `json:"Placement_rate"`
	Rating        Decimal `json:"Rating"`
	Duration      string  `json:"Duration,omitempty"`
	Syllabus      string  `json:"Syllabus,omitempty"`
	Link          string  `json:"link,omitempty"`
	Image         string  `json:"image,omitempty"`
}

// Decimal acepta números JSON o strings numéricos (DecimalField de Django se serializa como string).
type Decimal float64

func (d *Decimal) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*d = 0
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
		if s == "" {
			*d = 0
			return nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("decimal %q: %w", s, err)
	}
	*d = Decimal(v)
	return nil
}

func (d Decimal) Float() float64 {
	return float64(d)
}

func (d Decimal) String() string {
	return strconv.FormatFloat(float64(d), 'f', -1, 64)
}
