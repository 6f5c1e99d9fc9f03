package models

// Nomination пользовательская номинация из таблицы USER_NOMINATION.
// Схема таблицы принадлежит внешней базе наград, приложение только пишет и читает.
type Nomination struct {
	MovieTitle       string `json:"movie_title"`
	MovieReleaseDate string `json:"movie_release_date"`
	StaffFirstName   string `json:"staff_first_name"`
	StaffLastName    string `json:"staff_last_name"`
	IterationNumber  string `json:"iteration_number"`
	AwardName        string `json:"award_name"`
	CreatedBy        string `json:"created_by"`
}
