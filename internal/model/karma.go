package model

// Karma is the tally behind a user's average karma: like rows across all of
// the user's questions, and the number of distinct questions they authored.
type Karma struct {
	Likes     int64 `json:"likes"`
	Questions int64 `json:"questions"`
}

// Average returns likes per question. ok is false when the user has
// authored no questions, in which case there is no karma to report.
func (k Karma) Average() (avg float64, ok bool) {
	if k.Questions == 0 {
		return 0, false
	}
	return float64(k.Likes) / float64(k.Questions), true
}
