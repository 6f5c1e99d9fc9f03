package catalog

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/magabrotheeeer/awards-dashboard/internal/models"
)

// Идентификаторы запросов, на которые ссылается код.
const (
	MyNominationsID  = "1"
	DreamTeamID      = "6"
	InsertNomination = "input_0"
	StaffNominations = "input_1"
	CountryNominees  = "input_2"
)

// Поля формы.
const (
	FieldMovieTitle       = "movie-title"
	FieldMovieReleaseDate = "movie-release-date"
	FieldAwardName        = "award-name"
	FieldStaffFirstName   = "staff-firstname"
	FieldStaffLastName    = "staff-lastname"
	FieldIterationNumber  = "iteration-number"
	FieldCountryName      = "country-name"
)

var reportQueries = []Query{
	{
		ID:    MyNominationsID,
		Title: "View existing nominations for the user",
		Kind:  KindReport,
		Statement: `
			SELECT * FROM USER_NOMINATION WHERE Created_by = $1`,
		Bind: func(p Params) ([]any, error) {
			return []any{p.Username}, nil
		},
	},
	{
		ID:    "2",
		Title: "View the top nominated movies by the system users in each category/year",
		Kind:  KindReport,
		Statement: `
			SELECT
			U.Award_name,
			(U.Iteration_number + 1928) AS Year,
			U.Movie_title,
			COUNT(U.Created_by) AS Number_of_nominations
			FROM USER_NOMINATION U
			GROUP BY U.Movie_title, U.Movie_release_date, U.Award_name, U.Iteration_number
			HAVING COUNT(U.Created_by) = (
				SELECT MAX(sub.CountNominations)
				FROM (
					SELECT COUNT(*) AS CountNominations
					FROM USER_NOMINATION
					WHERE Award_name = U.Award_name AND Iteration_number = U.Iteration_number
					GROUP BY Movie_title, Movie_release_date
				) sub
			)`,
	},
	{
		ID:    "4",
		Title: "Show the top 5 birth countries for actors who won the best actor category",
		Kind:  KindReport,
		Statement: `
			SELECT S.Country_of_birth
			FROM STAFF_MEMBER S
			JOIN NOMINATION N
			ON N.Staff_member_first_name = S.First_name AND N.Staff_member_last_name = S.Last_name
			WHERE N.Granted = 1 AND N.Award_name = 'best actor' AND S.Country_of_birth IS NOT NULL
			GROUP BY S.Country_of_birth
			ORDER BY COUNT(N.Granted) DESC
			LIMIT 5`,
	},
	{
		ID: DreamTeamID,
		Title: "Dream Team - Extract the living cast members that can create the best movie ever " +
			"(director who won most oscars, best leading actor, actress, supporting actor, " +
			"supporting actress, producer, singer for the movie score).",
		Kind: KindReport,
		// Дедупликация ниже берёт первую строку на награду, поэтому ORDER BY менять нельзя.
		Statement: `
			SELECT
			N.Award_name,
			N.Staff_member_first_name,
			N.Staff_member_last_name,
			COUNT(*) AS Number_of_wins
			FROM NOMINATION N
			JOIN STAFF_MEMBER S
			ON N.Staff_member_first_name = S.First_name
			AND N.Staff_member_last_name = S.Last_name
			WHERE N.Granted = 1
			AND S.Death_date IS NULL
			GROUP BY N.Award_name, N.Staff_member_first_name, N.Staff_member_last_name
			ORDER BY N.Award_name, Number_of_wins DESC`,
		Post: DedupFirstBy(0),
	},
	{
		ID:    "7",
		Title: "Show the top 5 production companies by the number of won Oscars",
		Kind:  KindReport,
		Statement: `
			SELECT Mp.Production_company_name AS Production_company,
			COUNT(N.Granted) AS Number_of_wins
			FROM MOVIE_PRODUCTION_COMPANY Mp
			JOIN NOMINATION N
			ON N.Movie_title = Mp.Movie_title
			AND N.Movie_release_date = Mp.Movie_release_date
			WHERE N.Granted = 1
			GROUP BY Mp.Production_company_name
			ORDER BY Number_of_wins DESC
			LIMIT 5`,
	},
	{
		ID:    "8",
		Title: "List all non-english speaking movies that ever won an oscar, along with the year",
		Kind:  KindReport,
		Statement: `
			SELECT DISTINCT M.Title AS Movie_title, EXTRACT(YEAR FROM M.Release_date)::int AS Year
			FROM MOVIE M
			JOIN NOMINATION N
			ON N.Movie_title = M.Title
			AND N.Movie_release_date = M.Release_date
			WHERE N.Granted = 1
			AND M.Language != 'English'
			AND M.Language IS NOT NULL`,
	},
}

var inputQueries = []Query{
	{
		ID:    InsertNomination,
		Title: "Insert a nomination",
		Kind:  KindInsert,
		Statement: `
			INSERT INTO USER_NOMINATION
				(Movie_title, Movie_release_date, Staff_member_first_name, Staff_member_last_name,
				 Iteration_number, Award_name, Created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		Fields: []string{
			FieldMovieTitle,
			FieldMovieReleaseDate,
			FieldAwardName,
			FieldStaffFirstName,
			FieldStaffLastName,
			FieldIterationNumber,
		},
		Bind: func(p Params) ([]any, error) {
			n := NormalizeNomination(NominationFromForm(p))
			return []any{
				n.MovieTitle,
				n.MovieReleaseDate,
				n.StaffFirstName,
				n.StaffLastName,
				n.IterationNumber,
				n.AwardName,
				n.CreatedBy,
			}, nil
		},
		Success: "Nomination inserted successfully.",
	},
	{
		ID:    StaffNominations,
		Title: "View nominations for a staff member",
		Kind:  KindLookup,
		Statement: `
			SELECT Staff_member_first_name, Staff_member_last_name, Award_name,
				CASE Granted WHEN 1 THEN 'Won' ELSE 'Nominated' END AS Status,
				Movie_title, Movie_release_date, Iteration_number
			FROM NOMINATION
			WHERE Staff_member_first_name = $1 AND Staff_member_last_name = $2`,
		Fields: []string{FieldStaffFirstName, FieldStaffLastName},
		Bind: func(p Params) ([]any, error) {
			return []any{p.Form[FieldStaffFirstName], p.Form[FieldStaffLastName]}, nil
		},
		Heading: func(p Params) string {
			return "Nominations for " + p.Form[FieldStaffFirstName] + " " + p.Form[FieldStaffLastName]
		},
	},
	{
		ID:    CountryNominees,
		Title: "View nominations for staff born in a country",
		Kind:  KindLookup,
		Statement: `
			SELECT S.First_name, S.Last_name, N.Award_name,
				COUNT(*) AS Number_of_nominations, SUM(N.Granted) AS Number_of_wins
			FROM STAFF_MEMBER S
			JOIN NOMINATION N
			ON N.Staff_member_first_name = S.First_name AND N.Staff_member_last_name = S.Last_name
			WHERE S.Country_of_birth = $1
			GROUP BY S.First_name, S.Last_name, N.Award_name
			ORDER BY Number_of_nominations DESC, Number_of_wins DESC`,
		Fields: []string{FieldCountryName},
		Bind: func(p Params) ([]any, error) {
			return []any{p.Form[FieldCountryName]}, nil
		},
		Heading: func(p Params) string {
			return "Nominations for " + p.Form[FieldCountryName]
		},
	},
}

// NominationFromForm собирает номинацию из полей формы без изменений.
func NominationFromForm(p Params) models.Nomination {
	return models.Nomination{
		MovieTitle:       p.Form[FieldMovieTitle],
		MovieReleaseDate: p.Form[FieldMovieReleaseDate],
		StaffFirstName:   p.Form[FieldStaffFirstName],
		StaffLastName:    p.Form[FieldStaffLastName],
		IterationNumber:  p.Form[FieldIterationNumber],
		AwardName:        p.Form[FieldAwardName],
		CreatedBy:        p.Username,
	}
}

// NormalizeNomination приводит название фильма и имена к виду "Capitalized",
// награду к нижнему регистру, остальные поля не трогает.
func NormalizeNomination(n models.Nomination) models.Nomination {
	n.MovieTitle = Capitalize(n.MovieTitle)
	n.StaffFirstName = Capitalize(n.StaffFirstName)
	n.StaffLastName = Capitalize(n.StaffLastName)
	n.AwardName = strings.ToLower(n.AwardName)
	return n
}

// Capitalize делает первую букву заглавной, остальные строчными: "the MATRIX" -> "The matrix".
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
