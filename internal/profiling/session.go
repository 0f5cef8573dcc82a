package profiling

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Session controls the startup profiler a desktop process exposes on its
// local debug port.
type Session struct {
	baseURL string
	client  *http.Client
}

func newSession(port int) *Session {
	return &Session{
		baseURL: fmt.Sprintf("http://127.0.0.1:%d", port),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Attach connects to the debug port and starts a CPU profile.
func Attach(ctx context.Context, port int) (*Session, error) {
	s := newSession(port)
	if err := s.post(ctx, "/profiler/start", nil); err != nil {
		return nil, fmt.Errorf("attach profiler on port %d: %w", port, err)
	}
	return s, nil
}

// Stop ends the profile and returns the captured samples.
func (s *Session) Stop(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := s.post(ctx, "/profiler/stop", &profile); err != nil {
		return nil, fmt.Errorf("stop profiler: %w", err)
	}
	return &profile, nil
}

// StopProfile stops the self-started startup profiler of the process behind
// port and returns its capture. Used by --prof-startup, where the processes
// begin profiling on their own and the launcher only collects the result.
func StopProfile(ctx context.Context, port int) (*Profile, error) {
	s := newSession(port)
	var profile Profile
	if err := s.post(ctx, "/profiler/stop", &profile); err != nil {
		return nil, fmt.Errorf("collect profile from port %d: %w", port, err)
	}
	return &profile, nil
}

func (s *Session) post(ctx context.Context, route string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+route, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("debug endpoint returned %s", resp.Status)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode profile: %w", err)
	}
	return nil
}
