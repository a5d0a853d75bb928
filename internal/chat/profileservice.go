package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/k12coteacher/coteacher/internal/profile"
	"github.com/k12coteacher/coteacher/internal/store"
)

// StoreProfileService backs the profile boundary with the local store.
type StoreProfileService struct {
	repo store.ProfileRepo
}

func NewStoreProfileService(repo store.ProfileRepo) *StoreProfileService {
	return &StoreProfileService{repo: repo}
}

func (s *StoreProfileService) GetProfile(ctx context.Context, studentID string) (*profile.Profile, error) {
	return s.repo.GetProfile(ctx, studentID)
}

func (s *StoreProfileService) EditProfile(ctx context.Context, studentID, teacherID, comment string) error {
	return s.repo.AppendTeacherComment(ctx, studentID, teacherID, comment)
}

func (s *StoreProfileService) ListProfiles(ctx context.Context) ([]profile.Profile, error) {
	return s.repo.ListProfiles(ctx)
}

// HTTPProfileService talks to the remote student-profile API. Both
// endpoints are required up front; a missing endpoint is a configuration
// error at construction, not a silent no-op at tool time.
type HTTPProfileService struct {
	client  *http.Client
	getURL  string
	editURL string
}

func NewHTTPProfileService(getURL, editURL string) (*HTTPProfileService, error) {
	if getURL == "" {
		return nil, errors.New("student profile API endpoint not configured")
	}
	if editURL == "" {
		return nil, errors.New("edit student profile API endpoint not configured")
	}
	return &HTTPProfileService{
		client:  &http.Client{Timeout: 30 * time.Second},
		getURL:  getURL,
		editURL: editURL,
	}, nil
}

// profileEnvelope matches the API's response shape.
type profileEnvelope struct {
	Body struct {
		Item profile.Profile `json:"Item"`
	} `json:"body"`
}

func (s *HTTPProfileService) GetProfile(ctx context.Context, studentID string) (*profile.Profile, error) {
	var env profileEnvelope
	if err := s.postJSON(ctx, s.getURL, map[string]string{"studentID": studentID}, &env); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &env.Body.Item, nil
}

func (s *HTTPProfileService) EditProfile(ctx context.Context, studentID, teacherID, comment string) error {
	payload := map[string]string{
		"studentID":      studentID,
		"teacherID":      teacherID,
		"teacherComment": comment,
	}
	if err := s.postJSON(ctx, s.editURL, payload, nil); err != nil {
		return fmt.Errorf("edit profile: %w", err)
	}
	return nil
}

// ListProfiles is not part of the remote API surface. General chats served
// through this backend run without a roster.
func (s *HTTPProfileService) ListProfiles(ctx context.Context) ([]profile.Profile, error) {
	return nil, errors.New("profile API does not support listing")
}

func (s *HTTPProfileService) postJSON(ctx context.Context, url string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
