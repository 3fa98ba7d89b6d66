package domain

// SavedCourse es la asociación usuario-curso tal como la devuelve /saved-courses/.
type SavedCourse struct {
	ID     int    `json:"id"`
	Course Course `json:"course"`
}

// SavedCourseEntry es la forma aplanada que usa el dashboard.
type SavedCourseEntry struct {
	SavedCourseID int     `json:"savedCourseId"`
	ID            int     `json:"id"`
	Name          string  `json:"Name"`
	Institute     string  `json:"Institute"`
	Fees          Decimal `json:"Fees"`
	PlacementRate Decimal `json:"Placement_rate"`
	Rating        Decimal `json:"Rating"`
	Image         string  `json:"image,omitempty"`
}

func (s SavedCourse) Flatten() SavedCourseEntry {
	return SavedCourseEntry{
		SavedCourseID: s.ID,
		ID:            s.Course.ID,
		Name:          s.Course.Name,
		Institute:     s.Course.Institute,
		Fees:          s.Course.Fees,
		PlacementRate: s.Course.PlacementRate,
		Rating:        s.Course.Rating,
		Image:         s.Course.Image,
	}
}

func FlattenSaved(items []SavedCourse) []SavedCourseEntry {
	out := make([]SavedCourseEntry, 0, len(items))
	for _, item := range items {
		out = append(out, item.Flatten())
	}
	return out
}
