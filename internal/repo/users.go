package repo

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/ansel1/merry"
)

type UserRepository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	GetBylogin(ctx context.Context, login string) (int, string, error)
}

type ProfileRepository interface {
	GetProfileByID(ctx context.Context, id int) (Profile, error)
	UpdateProfile(ctx context.Context, id int, email, company string) error
}

type Profile struct {
	ID      int    `json:"id"`
	Login   string `json:"login"`
	Email   string `json:"email"`
	Company string `json:"company"`
}

var (
	ErrUserNotFound    = merry.New("user not found").WithHTTPCode(http.StatusUnauthorized)
	ErrProfileNotFound = merry.New("profile not found").WithHTTPCode(http.StatusNotFound)
)

type UserStore struct {
	db     *sql.DB
	driver string
}

func NewUserStore(driver string, db *sql.DB) *UserStore {
	return &UserStore{db: db, driver: driver}
}

func (r *UserStore) Migrate(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS users (
		id ` + idColumn(r.driver) + `,
		login TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL,
		password TEXT NOT NULL,
		company TEXT NOT NULL DEFAULT ''
	)`
	_, err := r.db.ExecContext(ctx, query)
	return merry.Wrap(err)
}

func (r *UserStore) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := rebind(r.driver, "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id")
	err := r.db.QueryRowContext(ctx, query, login, email, password).Scan(&id)
	return id, merry.Wrap(err)
}

// GetBylogin returns the user id and password hash for login.
func (r *UserStore) GetBylogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := rebind(r.driver, "SELECT id, password FROM users WHERE login=$1")
	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, "", ErrUserNotFound.Here()
	}
	if err != nil {
		return 0, "", merry.Wrap(err)
	}
	return id, hash, nil
}

func (r *UserStore) GetProfileByID(ctx context.Context, id int) (Profile, error) {
	p := Profile{ID: id}
	query := rebind(r.driver, "SELECT login, email, company FROM users WHERE id=$1")
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.Login, &p.Email, &p.Company)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, ErrProfileNotFound.Here().Appendf("id %d", id)
	}
	return p, merry.Wrap(err)
}

func (r *UserStore) UpdateProfile(ctx context.Context, id int, email, company string) error {
	query := rebind(r.driver, "UPDATE users SET email=$1, company=$2 WHERE id=$3")
	res, err := r.db.ExecContext(ctx, query, email, company, id)
	if err != nil {
		return merry.Wrap(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrProfileNotFound.Here().Appendf("id %d", id)
	}
	return nil
}
