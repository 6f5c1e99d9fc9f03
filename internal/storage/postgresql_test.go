package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/awards-dashboard/internal/catalog"
	"github.com/magabrotheeeer/awards-dashboard/internal/lib/dberr"
	"github.com/magabrotheeeer/awards-dashboard/internal/models"
)

func testUser(username, email string) models.User {
	return models.User{
		Username:     username,
		Email:        email,
		Gender:       models.GenderFemale,
		Birthdate:    time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
		Country:      "France",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
	}
}

func TestStorage_Users(t *testing.T) {
	s := setupTestDatabase(t)
	ctx := context.Background()

	require.NoError(t, s.RegisterUser(ctx, testUser("alice", "alice@example.com")))

	got, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, models.GenderFemale, got.Gender)
	assert.Equal(t, "France", got.Country)
	assert.Equal(t, "1990-05-17", got.Birthdate.Format(time.DateOnly))

	t.Run("duplicate username", func(t *testing.T) {
		err := s.RegisterUser(ctx, testUser("alice", "other@example.com"))
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := s.RegisterUser(ctx, testUser("alice2", "alice@example.com"))
		assert.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := s.GetUserByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	var count int
	require.NoError(t, s.DB.QueryRow(`SELECT COUNT(*) FROM users WHERE username = 'alice'`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestStorage_InsertNominationAndMyNominations(t *testing.T) {
	s := setupTestDatabase(t)
	seedAwards(t, s)
	ctx := context.Background()

	require.NoError(t, s.RegisterUser(ctx, testUser("alice", "alice@example.com")))
	require.NoError(t, s.RegisterUser(ctx, testUser("bob", "bob@example.com")))

	insert, err := catalog.Input(catalog.InsertNomination)
	require.NoError(t, err)

	form := map[string]string{
		catalog.FieldMovieTitle:       "the MATRIX",
		catalog.FieldMovieReleaseDate: "1999-03-31",
		catalog.FieldAwardName:        "BEST PICTURE",
		catalog.FieldStaffFirstName:   "lana",
		catalog.FieldStaffLastName:    "WACHOWSKI",
		catalog.FieldIterationNumber:  "72",
	}
	for _, user := range []string{"alice", "bob"} {
		args, err := insert.Args(catalog.Params{Username: user, Form: form})
		require.NoError(t, err)
		affected, err := s.Exec(ctx, insert.Statement, args...)
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)
	}

	t.Run("normalized values stored", func(t *testing.T) {
		var title, award, first, last string
		err := s.DB.QueryRow(`SELECT Movie_title, Award_name, Staff_member_first_name, Staff_member_last_name
			FROM USER_NOMINATION WHERE Created_by = 'alice'`).Scan(&title, &award, &first, &last)
		require.NoError(t, err)
		assert.Equal(t, "The matrix", title)
		assert.Equal(t, "best picture", award)
		assert.Equal(t, "Lana", first)
		assert.Equal(t, "Wachowski", last)
	})

	t.Run("my nominations only returns current user rows", func(t *testing.T) {
		mine, err := catalog.Report(catalog.MyNominationsID)
		require.NoError(t, err)
		args, err := mine.Args(catalog.Params{Username: "alice"})
		require.NoError(t, err)

		res, err := s.Query(ctx, mine.Statement, args...)
		require.NoError(t, err)
		require.Len(t, res.Rows, 1)

		createdBy := -1
		for i, c := range res.Columns {
			if c == "created_by" {
				createdBy = i
			}
		}
		require.GreaterOrEqual(t, createdBy, 0, "columns: %v", res.Columns)
		for _, row := range res.Rows {
			assert.Equal(t, "alice", row[createdBy])
		}
	})

	t.Run("duplicate insert is classified and rolled back", func(t *testing.T) {
		args, err := insert.Args(catalog.Params{Username: "alice", Form: form})
		require.NoError(t, err)
		_, err = s.Exec(ctx, insert.Statement, args...)
		require.Error(t, err)
		assert.Equal(t, dberr.KindDuplicate, dberr.Classify(err))

		var count int
		require.NoError(t, s.DB.QueryRow(`SELECT COUNT(*) FROM USER_NOMINATION`).Scan(&count))
		assert.Equal(t, 2, count)
	})

	t.Run("unknown movie is a foreign key error", func(t *testing.T) {
		bad := map[string]string{}
		for k, v := range form {
			bad[k] = v
		}
		bad[catalog.FieldMovieTitle] = "no such movie"
		args, err := insert.Args(catalog.Params{Username: "alice", Form: bad})
		require.NoError(t, err)
		_, err = s.Exec(ctx, insert.Statement, args...)
		assert.Equal(t, dberr.KindForeignKey, dberr.Classify(err))
	})

	t.Run("invalid date is a data error", func(t *testing.T) {
		bad := map[string]string{}
		for k, v := range form {
			bad[k] = v
		}
		bad[catalog.FieldMovieReleaseDate] = "not-a-date"
		args, err := insert.Args(catalog.Params{Username: "alice", Form: bad})
		require.NoError(t, err)
		_, err = s.Exec(ctx, insert.Statement, args...)
		assert.Equal(t, dberr.KindInvalidData, dberr.Classify(err))
	})
}

func TestStorage_Reports(t *testing.T) {
	s := setupTestDatabase(t)
	seedAwards(t, s)
	ctx := context.Background()

	for _, q := range catalog.Reports() {
		t.Run("report "+q.ID, func(t *testing.T) {
			args, err := q.Args(catalog.Params{Username: "alice"})
			require.NoError(t, err)
			res, err := s.Query(ctx, q.Statement, args...)
			require.NoError(t, err)
			assert.NotEmpty(t, res.Columns)
		})
	}

	t.Run("dream team keeps one living winner per award", func(t *testing.T) {
		q, err := catalog.Report(catalog.DreamTeamID)
		require.NoError(t, err)
		res, err := s.Query(ctx, q.Statement)
		require.NoError(t, err)
		q.Post(res)

		awards := map[any]bool{}
		for _, row := range res.Rows {
			assert.False(t, awards[row[0]])
			awards[row[0]] = true
			assert.NotEqual(t, "Timer", row[2], "dead staff must be excluded")
		}
		assert.Len(t, res.Rows, 3)
	})
}

func TestStorage_Lookups(t *testing.T) {
	s := setupTestDatabase(t)
	seedAwards(t, s)
	ctx := context.Background()

	staff, err := catalog.Input(catalog.StaffNominations)
	require.NoError(t, err)

	t.Run("staff with nominations", func(t *testing.T) {
		args, err := staff.Args(catalog.Params{Form: map[string]string{
			catalog.FieldStaffFirstName: "Bong", catalog.FieldStaffLastName: "Joon-ho",
		}})
		require.NoError(t, err)
		res, err := s.Query(ctx, staff.Statement, args...)
		require.NoError(t, err)
		assert.Len(t, res.Rows, 2)
		assert.Contains(t, res.Columns, "status")
	})

	t.Run("staff without nominations gives empty table", func(t *testing.T) {
		args, err := staff.Args(catalog.Params{Form: map[string]string{
			catalog.FieldStaffFirstName: "Lana", catalog.FieldStaffLastName: "Wachowski",
		}})
		require.NoError(t, err)
		res, err := s.Query(ctx, staff.Statement, args...)
		require.NoError(t, err)
		assert.NotNil(t, res)
		assert.True(t, res.Empty())
		assert.NotEmpty(t, res.Columns)
	})

	t.Run("country aggregation ordered by nominations", func(t *testing.T) {
		country, err := catalog.Input(catalog.CountryNominees)
		require.NoError(t, err)
		args, err := country.Args(catalog.Params{Form: map[string]string{catalog.FieldCountryName: "USA"}})
		require.NoError(t, err)
		res, err := s.Query(ctx, country.Statement, args...)
		require.NoError(t, err)
		assert.Len(t, res.Rows, 2)
	})
}

func TestStorage_QueryCanceledContext(t *testing.T) {
	s := setupTestDatabase(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Query(ctx, "SELECT 1")
	assert.ErrorIs(t, err, context.Canceled)
}
