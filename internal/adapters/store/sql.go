// Package store persists tracker applications and STAR stories in a SQL database.
// SQLite (mattn/go-sqlite3) is the default; PostgreSQL (lib/pq) is selected by driver name.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/0xcro3dile/careercraft/internal/domain/entities"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const schema = `
CREATE TABLE IF NOT EXISTS applications (
	id TEXT PRIMARY KEY,
	status TEXT NOT NULL,
	company TEXT NOT NULL,
	job_title TEXT NOT NULL,
	job_type TEXT NOT NULL DEFAULT '',
	work_mode TEXT NOT NULL DEFAULT '',
	salary TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	date_applied TEXT NOT NULL,
	link TEXT NOT NULL DEFAULT '',
	interest INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS stories (
	id TEXT PRIMARY KEY,
	question TEXT NOT NULL,
	story TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT '',
	resume TEXT NOT NULL DEFAULT '',
	output TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_applications_created ON applications(created_at);
CREATE INDEX IF NOT EXISTS idx_stories_created ON stories(created_at);
`

const applicationColumns = `id, status, company, job_title, job_type, work_mode, salary, location, date_applied, link, interest, created_at`

// SQLStore implements ports.ApplicationStore and ports.StoryStore.
type SQLStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	driver string
}

// Open connects to the database and creates the schema. For SQLite, dsn is a file
// path whose directory is created if needed.
func Open(driver, dsn string) (*SQLStore, error) {
	switch driver {
	case "", DriverSQLite, "sqlite":
		driver = DriverSQLite
		if dsn == "" {
			dsn = "./data/careercraft.db"
		}
		if dir := filepath.Dir(dsn); dir != "." && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("creating data directory: %w", err)
			}
		}
	case DriverPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("postgres requires a connection string")
		}
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	s := &SQLStore{db: db, driver: driver}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return s, nil
}

func (s *SQLStore) initSchema() error {
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Driver returns the database driver name.
func (s *SQLStore) Driver() string { return s.driver }

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *SQLStore) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// CreateApplication inserts a new application.
func (s *SQLStore) CreateApplication(ctx context.Context, app *entities.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO applications (`+applicationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`),
		app.ID, string(app.Status), app.Company, app.JobTitle, app.JobType, app.WorkMode,
		app.Salary, app.Location, formatTime(app.DateApplied), app.Link, app.Interest,
		formatTime(app.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting application: %w", err)
	}
	return nil
}

// GetApplication returns the application with id, or entities.ErrNotFound.
func (s *SQLStore) GetApplication(ctx context.Context, id string) (*entities.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+applicationColumns+` FROM applications WHERE id = ?`), id)
	app, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("application %s: %w", id, entities.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying application: %w", err)
	}
	return app, nil
}

// ListApplications returns every application, oldest first.
func (s *SQLStore) ListApplications(ctx context.Context) ([]entities.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+applicationColumns+` FROM applications ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("querying applications: %w", err)
	}
	defer rows.Close()

	apps := []entities.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning application: %w", err)
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

// UpdateApplication replaces every field except ID and CreatedAt.
func (s *SQLStore) UpdateApplication(ctx context.Context, app *entities.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE applications
		SET status = ?, company = ?, job_title = ?, job_type = ?, work_mode = ?,
			salary = ?, location = ?, date_applied = ?, link = ?, interest = ?
		WHERE id = ?
	`),
		string(app.Status), app.Company, app.JobTitle, app.JobType, app.WorkMode,
		app.Salary, app.Location, formatTime(app.DateApplied), app.Link, app.Interest,
		app.ID,
	)
	if err != nil {
		return fmt.Errorf("updating application: %w", err)
	}
	return expectOne(res, "application", app.ID)
}

// DeleteApplication removes the application with id.
func (s *SQLStore) DeleteApplication(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM applications WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("deleting application: %w", err)
	}
	return expectOne(res, "application", id)
}

// SaveStory inserts a STAR story.
func (s *SQLStore) SaveStory(ctx context.Context, story *entities.StarStory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO stories (id, question, story, role, resume, output, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`),
		story.ID, story.Question, story.Story, story.Role, story.Resume, story.Output,
		formatTime(story.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting story: %w", err)
	}
	return nil
}

// ListStories returns saved stories, newest first.
func (s *SQLStore) ListStories(ctx context.Context) ([]entities.StarStory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question, story, role, resume, output, created_at
		FROM stories ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying stories: %w", err)
	}
	defer rows.Close()

	stories := []entities.StarStory{}
	for rows.Next() {
		var (
			st      entities.StarStory
			created string
		)
		if err := rows.Scan(&st.ID, &st.Question, &st.Story, &st.Role, &st.Resume, &st.Output, &created); err != nil {
			return nil, fmt.Errorf("scanning story: %w", err)
		}
		if st.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		stories = append(stories, st)
	}
	return stories, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanApplication(row scanner) (*entities.Application, error) {
	var (
		app              entities.Application
		status           string
		applied, created string
	)
	err := row.Scan(&app.ID, &status, &app.Company, &app.JobTitle, &app.JobType, &app.WorkMode,
		&app.Salary, &app.Location, &applied, &app.Link, &app.Interest, &created)
	if err != nil {
		return nil, err
	}
	app.Status = entities.ApplicationStatus(status)
	if app.DateApplied, err = parseTime(applied); err != nil {
		return nil, err
	}
	if app.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	return &app, nil
}

func expectOne(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, entities.ErrNotFound)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}
