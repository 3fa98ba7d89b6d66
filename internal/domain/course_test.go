package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestCourseDecodesDecimalStringsAndNumbers(t *testing.T) {
	raw := `{"id":7,"Name":"Go","Institute":"IIT","Fees":"45000.00","Placement_rate":"92%","Rating":3.7,"link":"https://x"}`
	var c Course
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c.Fees.Float() != 45000 {
		t.Fatalf("unexpected fees %v", c.Fees)
	}
	if c.PlacementRate.Float() != 92 {
		t.Fatalf("unexpected placement %v", c.PlacementRate)
	}
	if c.Rating.Float() != 3.7 {
		t.Fatalf("unexpected rating %v", c.Rating)
	}
}

func TestDecimalRejectsGarbage(t *testing.T) {
	var d Decimal
	if err := json.Unmarshal([]byte(`"abc"`), &d); err == nil {
		t.Fatalf("expected error for non numeric decimal")
	}
	if err := json.Unmarshal([]byte(`null`), &d); err != nil || d != 0 {
		t.Fatalf("expected null to decode as zero, got %v,%v", d, err)
	}
}

func TestAuthorShapes(t *testing.T) {
	cases := map[string]Author{
		`"alice"`:                   "alice",
		`12`:                        "12",
		`{"id":3,"username":"bob"}`: "bob",
		`{"id":3}`:                  "3",
		`null`:                      "",
	}
	for in, want := range cases {
		var a Author
		if err := json.Unmarshal([]byte(in), &a); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		if a != want {
			t.Fatalf("input %s: expected %q, got %q", in, want, a)
		}
	}
}

func TestFlattenSaved(t *testing.T) {
	items := []SavedCourse{
		{ID: 5, Course: Course{ID: 42, Name: "Data", Institute: "MIT", Fees: 100, PlacementRate: 80, Rating: 4.5, Image: "img.png"}},
	}
	out := FlattenSaved(items)
	if len(out) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(out))
	}
	got := out[0]
	if got.SavedCourseID != 5 || got.ID != 42 || got.Name != "Data" || got.Image != "img.png" || got.Rating != 4.5 {
		t.Fatalf("unexpected flattened entry: %+v", got)
	}
}

func TestReviewCreatedAtShapes(t *testing.T) {
	raw := `[
		{"id":1,"course":1,"rating":4,"user":"alice","created_at":"2024-05-01T10:00:00.123456Z"},
		{"id":2,"course":1,"rating":3,"user":"bob","created_at":"2024-05-01T10:00:00.123456"},
		{"id":3,"course":1,"rating":5,"user":"carol","created_at":"yesterday"},
		{"id":4,"course":1,"rating":2,"user":"dave","created_at":null}
	]`
	var reviews []Review
	if err := json.Unmarshal([]byte(raw), &reviews); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC)
	if !reviews[0].CreatedAt.Time.Equal(want) {
		t.Fatalf("unexpected RFC3339 time %v", reviews[0].CreatedAt.Time)
	}
	if !reviews[1].CreatedAt.Time.Equal(want) {
		t.Fatalf("unexpected zoneless time %v", reviews[1].CreatedAt.Time)
	}
	if !reviews[2].CreatedAt.Time.IsZero() || reviews[2].CreatedAt.String() != "yesterday" {
		t.Fatalf("expected raw text kept, got %+v", reviews[2].CreatedAt)
	}
	if reviews[3].CreatedAt.String() != "" {
		t.Fatalf("expected empty timestamp for null, got %+v", reviews[3].CreatedAt)
	}

	out, err := json.Marshal(reviews[2].CreatedAt)
	if err != nil || string(out) != `"yesterday"` {
		t.Fatalf("expected raw text to round trip, got %s,%v", out, err)
	}
}
