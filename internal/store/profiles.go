package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/k12coteacher/coteacher/internal/profile"
)

// ErrProfileNotFound is returned when no profile exists for a student id.
var ErrProfileNotFound = errors.New("student profile not found")

// ProfileRepo persists merged student profiles.
type ProfileRepo interface {
	GetProfile(ctx context.Context, studentID string) (*profile.Profile, error)
	PutProfile(ctx context.Context, p profile.Profile) error
	ListProfiles(ctx context.Context) ([]profile.Profile, error)

	// AppendTeacherComment adds one comment under the teacher's key inside
	// the profile. The read-modify-write runs in a transaction so two
	// teachers commenting concurrently cannot drop each other's notes.
	AppendTeacherComment(ctx context.Context, studentID, teacherID, comment string) error
}

type profileRepo struct {
	db *sql.DB
}

func (r *profileRepo) GetProfile(ctx context.Context, studentID string) (*profile.Profile, error) {
	return getProfileTx(ctx, r.db, studentID)
}

func (r *profileRepo) PutProfile(ctx context.Context, p profile.Profile) error {
	if p.StudentID == "" {
		return errors.New("profile missing student id")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO student_profiles (student_id, profile, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (student_id) DO UPDATE SET
			profile = excluded.profile,
			updated_at = excluded.updated_at`,
		p.StudentID, string(data), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (r *profileRepo) ListProfiles(ctx context.Context) ([]profile.Profile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT profile FROM student_profiles ORDER BY student_id`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []profile.Profile
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		var p profile.Profile
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *profileRepo) AppendTeacherComment(ctx context.Context, studentID, teacherID, comment string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	p, err := getProfileTx(ctx, tx, studentID)
	if err != nil {
		return err
	}

	if p.TeacherComments == nil {
		p.TeacherComments = make(map[string][]string)
	}
	p.TeacherComments[teacherID] = append(p.TeacherComments[teacherID], comment)

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE student_profiles SET profile = ?, updated_at = ?
		WHERE student_id = ?`,
		string(data), time.Now().UnixMilli(), studentID); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	return tx.Commit()
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getProfileTx(ctx context.Context, q querier, studentID string) (*profile.Profile, error) {
	var data string
	err := q.QueryRowContext(ctx,
		`SELECT profile FROM student_profiles WHERE student_id = ?`, studentID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	var p profile.Profile
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &p, nil
}
