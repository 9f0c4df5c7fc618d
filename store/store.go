package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"
)

type (
	// Store is the relational storage behind users, posts and comments.
	// It is safe for concurrent use.
	Store struct {
		db *sql.DB
	}

	User struct {
		ID           int64
		Username     string
		PasswordHash string
	}

	Post struct {
		ID        int64     `json:"id"`
		Title     string    `json:"title"`
		Content   string    `json:"content"`
		CreatedAt time.Time `json:"created_at"`
	}

	Comment struct {
		ID        int64     `json:"id"`
		PostID    int64     `json:"post_id"`
		UserID    int64     `json:"user_id"`
		Comment   string    `json:"comment"`
		CreatedAt time.Time `json:"created_at"`
	}
)

func openDatabase(ctx context.Context, file string) (*sql.DB, error) {
	if dir := filepath.Dir(file); dir != "." {
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return nil, fmt.Errorf("unable to create directory %v to store database, cause %w", dir, err)
		}
	}
	connstr := fmt.Sprintf("file:%v?_journal=wal&_busy_timeout=5000&_foreign_keys=on&mode=rwc", file)
	conn, err := sql.Open("sqlite3", connstr)
	if err != nil {
		return nil, fmt.Errorf("unable to open %v, cause %v", file, err)
	}
	err = conn.PingContext(ctx)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to ping database %v, cause %v", file, err)
	}
	return conn, nil
}

// Open opens (or creates) the sqlite database at file and makes sure
// every table exists.
func Open(ctx context.Context, file string) (*Store, error) {
	conn, err := openDatabase(ctx, file)
	if err != nil {
		return nil, err
	}
	s := &Store{db: conn}
	err = s.init(ctx)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to init database %v, cause %v", file, err)
	}
	return s, nil
}

func (s *Store) FindUser(ctx context.Context, username string) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `select id, username, password_hash from users where username = ?`, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, UserNotFound{Username: username}
	} else if err != nil {
		return User{}, fmt.Errorf("unable to lookup user %v, cause %w", username, err)
	}
	return u, nil
}

// CreateUser inserts a new user and returns its id. The unique constraint
// on username is the only thing preventing duplicates, a violation is
// reported as UsernameTaken.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `insert into users(username, password_hash) values (?, ?) returning id`, username, passwordHash).Scan(&id)
	if isUniqueViolation(err) {
		return 0, UsernameTaken{Username: username}
	} else if err != nil {
		return 0, fmt.Errorf("unable to create user %v, cause %w", username, err)
	}
	return id, nil
}

func (s *Store) CreatePost(ctx context.Context, title, content string, createdAt time.Time) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `insert into posts(title, content, created_at) values (?, ?, ?) returning id`,
		title, content, createdAt.UTC()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("unable to create post, cause %w", err)
	}
	return id, nil
}

func (s *Store) CreateComment(ctx context.Context, postID, userID int64, comment string, createdAt time.Time) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `insert into comments(post_id, user_id, comment, created_at) values (?, ?, ?, ?) returning id`,
		postID, userID, comment, createdAt.UTC()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("unable to add comment to post %v, cause %w", postID, err)
	}
	return id, nil
}

// ListComments returns every comment of postID in insertion order.
// The result is never nil.
func (s *Store) ListComments(ctx context.Context, postID int64) ([]Comment, error) {
	out := []Comment{}
	rows, err := s.db.QueryContext(ctx, `select id, post_id, user_id, comment, created_at from comments where post_id = ? order by id asc`, postID)
	if err != nil {
		return nil, fmt.Errorf("unable to list comments of post %v, cause %w", postID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var c Comment
		err = rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Comment, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("unable to scan comment, cause %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to list comments of post %v, cause %w", postID, err)
	}
	return out, nil
}

func (s *Store) init(ctx context.Context) error {
	for _, cmd := range []string{
		`create table if not exists users(
			id integer primary key autoincrement,
			username text not null unique,
			password_hash text not null
		)`,
		`create table if not exists posts(
			id integer primary key autoincrement,
			title text not null,
			content text not null,
			created_at datetime not null
		)`,
		`create table if not exists comments(
			id integer primary key autoincrement,
			post_id integer not null,
			user_id integer not null,
			comment text not null,
			created_at datetime not null,
			foreign key(post_id) references posts(id),
			foreign key(user_id) references users(id)
		)`,
		`create index if not exists idx_comments_post_id
			on comments(post_id)
		`,
	} {
		_, err := s.db.ExecContext(ctx, cmd)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
