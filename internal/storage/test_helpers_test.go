package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/awards-dashboard/internal/migrations"
)

// awardsSchema упрощённая копия внешней схемы наград, нужна только тестам.
const awardsSchema = `
	CREATE TABLE MOVIE (
		Title        VARCHAR(200) NOT NULL,
		Release_date DATE         NOT NULL,
		Language     VARCHAR(50),
		PRIMARY KEY (Title, Release_date)
	);
	CREATE TABLE STAFF_MEMBER (
		First_name       VARCHAR(100) NOT NULL,
		Last_name        VARCHAR(100) NOT NULL,
		Country_of_birth VARCHAR(100),
		Death_date       DATE,
		PRIMARY KEY (First_name, Last_name)
	);
	CREATE TABLE NOMINATION (
		Movie_title             VARCHAR(200) NOT NULL,
		Movie_release_date      DATE         NOT NULL,
		Staff_member_first_name VARCHAR(100) NOT NULL,
		Staff_member_last_name  VARCHAR(100) NOT NULL,
		Iteration_number        INT          NOT NULL,
		Award_name              VARCHAR(100) NOT NULL,
		Granted                 SMALLINT     NOT NULL DEFAULT 0,
		PRIMARY KEY (Movie_title, Movie_release_date, Staff_member_first_name, Staff_member_last_name, Iteration_number, Award_name),
		FOREIGN KEY (Movie_title, Movie_release_date) REFERENCES MOVIE (Title, Release_date),
		FOREIGN KEY (Staff_member_first_name, Staff_member_last_name) REFERENCES STAFF_MEMBER (First_name, Last_name)
	);
	CREATE TABLE MOVIE_PRODUCTION_COMPANY (
		Movie_title             VARCHAR(200) NOT NULL,
		Movie_release_date      DATE         NOT NULL,
		Production_company_name VARCHAR(200) NOT NULL,
		PRIMARY KEY (Movie_title, Movie_release_date, Production_company_name),
		FOREIGN KEY (Movie_title, Movie_release_date) REFERENCES MOVIE (Title, Release_date)
	);
	CREATE TABLE USER_NOMINATION (
		Movie_title             VARCHAR(200) NOT NULL,
		Movie_release_date      DATE         NOT NULL,
		Staff_member_first_name VARCHAR(100) NOT NULL,
		Staff_member_last_name  VARCHAR(100) NOT NULL,
		Iteration_number        INT          NOT NULL,
		Award_name              VARCHAR(100) NOT NULL,
		Created_by              VARCHAR(100) NOT NULL REFERENCES users (username),
		PRIMARY KEY (Movie_title, Movie_release_date, Staff_member_first_name, Staff_member_last_name, Iteration_number, Award_name, Created_by),
		FOREIGN KEY (Movie_title, Movie_release_date) REFERENCES MOVIE (Title, Release_date),
		FOREIGN KEY (Staff_member_first_name, Staff_member_last_name) REFERENCES STAFF_MEMBER (First_name, Last_name)
	);
`

// setupTestDatabase поднимает PostgreSQL в контейнере, применяет миграции users и схему наград.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		_ = pgContainer.Terminate(ctx)
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(connStr)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = storage.Close()
	})

	root, err := filepath.Abs("../..")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, filepath.Join(root, "migrations")))

	_, err = storage.DB.Exec(awardsSchema)
	require.NoError(t, err, "failed to create awards schema")

	return storage
}

// seedAwards заполняет схему наград небольшим набором данных.
func seedAwards(t *testing.T, s *Storage) {
	t.Helper()
	_, err := s.DB.Exec(`
		INSERT INTO MOVIE VALUES
			('The matrix', '1999-03-31', 'English'),
			('Parasite', '2019-05-30', 'Korean'),
			('Lincoln', '2012-11-16', 'English');
		INSERT INTO STAFF_MEMBER VALUES
			('Lana', 'Wachowski', 'USA', NULL),
			('Bong', 'Joon-ho', 'South Korea', NULL),
			('Daniel', 'Day-Lewis', 'UK', NULL),
			('Steven', 'Spielberg', 'USA', NULL),
			('Old', 'Timer', 'USA', '1990-01-01');
		INSERT INTO NOMINATION VALUES
			('Parasite', '2019-05-30', 'Bong', 'Joon-ho', 92, 'best director', 1),
			('Parasite', '2019-05-30', 'Bong', 'Joon-ho', 92, 'best picture', 1),
			('Lincoln', '2012-11-16', 'Daniel', 'Day-Lewis', 85, 'best actor', 1),
			('Lincoln', '2012-11-16', 'Steven', 'Spielberg', 85, 'best director', 0),
			('Lincoln', '2012-11-16', 'Old', 'Timer', 85, 'best director', 1);
		INSERT INTO MOVIE_PRODUCTION_COMPANY VALUES
			('Parasite', '2019-05-30', 'Barunson'),
			('Lincoln', '2012-11-16', 'DreamWorks');
	`)
	require.NoError(t, err)
}
