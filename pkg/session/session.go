// Package session tracks the lifecycle of one joint computation: its
// participant roster, submitted shares, status, and eventual result.
//
// A session is a pure state record. It does not lock itself; callers that
// share a session across goroutines serialize access per session (the
// engine holds one mutex per session id).
package session

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/privamed/smpc/pkg/crypto/shamir"
)

var (
	// ErrState is returned when an operation is invalid for the session's
	// current status, including duplicate submissions.
	ErrState = errors.New("operation invalid for current session status")
	// ErrUnknownOrg is returned when a submitting organization is not on
	// the session roster.
	ErrUnknownOrg = errors.New("organization is not a session participant")
)

// Status is the lifecycle state of a session. Transitions are monotonic:
// PENDING -> COLLECTING -> READY -> COMPUTED, with FAILED reachable from
// any non-terminal state. COMPUTED and FAILED are terminal.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusCollecting Status = "COLLECTING"
	StatusReady      Status = "READY"
	StatusComputed   Status = "COMPUTED"
	StatusFailed     Status = "FAILED"
)

// ComputationType identifies the statistic a session computes.
type ComputationType string

const (
	TypeSum      ComputationType = "sum"
	TypeMean     ComputationType = "mean"
	TypeVariance ComputationType = "variance"
)

// ParseComputationType validates a computation type string.
func ParseComputationType(s string) (ComputationType, error) {
	switch ComputationType(s) {
	case TypeSum, TypeMean, TypeVariance:
		return ComputationType(s), nil
	}
	return "", fmt.Errorf("unknown computation type %q", s)
}

// Result is the outcome of a completed computation. Each operation carries
// the same explicit fields; the Operation tag distinguishes them.
type Result struct {
	Operation      ComputationType `json:"operation"`
	Value          float64         `json:"value"`
	SecurityMethod string          `json:"security_method"`
	ComputedAt     time.Time       `json:"computed_at"`
}

// Submission is one organization's contribution: the encoded value it
// holds and the shares it distributed.
type Submission struct {
	OrgID       string         `json:"org_id"`
	Value       *big.Int       `json:"value"`
	Shares      []shamir.Share `json:"shares"`
	SubmittedAt time.Time      `json:"submitted_at"`
}

// Session is the persistent record of one joint computation.
type Session struct {
	ID             string                `json:"id"`
	Type           ComputationType       `json:"computation_type"`
	OrgIDs         []string              `json:"participating_org_ids"`
	Threshold      int                   `json:"threshold"`
	Status         Status                `json:"status"`
	Submissions    map[string]Submission `json:"submissions"`
	Result         *Result               `json:"result,omitempty"`
	FailureReason  string                `json:"failure_reason,omitempty"`
	SecurityMethod string                `json:"security_method"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// New creates a PENDING session. The caller validates the roster and
// threshold beforehand.
func New(id string, typ ComputationType, orgIDs []string, threshold int, securityMethod string) *Session {
	now := time.Now().UTC()
	roster := make([]string, len(orgIDs))
	copy(roster, orgIDs)

	return &Session{
		ID:             id,
		Type:           typ,
		OrgIDs:         roster,
		Threshold:      threshold,
		Status:         StatusPending,
		Submissions:    make(map[string]Submission),
		SecurityMethod: securityMethod,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsParticipant reports whether orgID is on the session roster.
func (s *Session) IsParticipant(orgID string) bool {
	for _, id := range s.OrgIDs {
		if id == orgID {
			return true
		}
	}
	return false
}

// Terminal reports whether the session has reached a final state.
func (s *Session) Terminal() bool {
	return s.Status == StatusComputed || s.Status == StatusFailed
}

// Submit records an organization's shares and advances the status.
// Duplicate submissions and submissions after a terminal state are
// rejected without mutating the session. Submissions after READY are
// accepted but leave the status unchanged.
func (s *Session) Submit(sub Submission) error {
	if s.Terminal() {
		return fmt.Errorf("%w: session is %s", ErrState, s.Status)
	}
	if !s.IsParticipant(sub.OrgID) {
		return fmt.Errorf("%w: %q", ErrUnknownOrg, sub.OrgID)
	}
	if _, ok := s.Submissions[sub.OrgID]; ok {
		return fmt.Errorf("%w: %q already submitted", ErrState, sub.OrgID)
	}

	if s.Submissions == nil {
		s.Submissions = make(map[string]Submission)
	}
	s.Submissions[sub.OrgID] = sub
	s.UpdatedAt = time.Now().UTC()

	if len(s.Submissions) >= s.Threshold {
		s.Status = StatusReady
	} else {
		s.Status = StatusCollecting
	}

	return nil
}

// SetComputed caches the result and moves the session to its COMPUTED
// terminal state. Valid only from READY.
func (s *Session) SetComputed(result Result) error {
	if s.Status != StatusReady {
		return fmt.Errorf("%w: cannot compute in %s", ErrState, s.Status)
	}
	s.Result = &result
	s.Status = StatusComputed
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// SetFailed records the failure and moves the session to its FAILED
// terminal state. Valid from any non-terminal state.
func (s *Session) SetFailed(reason string) error {
	if s.Terminal() {
		return fmt.Errorf("%w: session is already %s", ErrState, s.Status)
	}
	s.FailureReason = reason
	s.Status = StatusFailed
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// ResultView is the answer to a result query: the cached result if the
// session computed, the failure detail if it failed, or a pending status
// otherwise.
type ResultView struct {
	Status        Status  `json:"status"`
	Result        *Result `json:"result,omitempty"`
	FailureReason string  `json:"failure_reason,omitempty"`
}

// View returns the session's result view.
func (s *Session) View() ResultView {
	view := ResultView{Status: s.Status}
	switch s.Status {
	case StatusComputed:
		r := *s.Result
		view.Result = &r
	case StatusFailed:
		view.FailureReason = s.FailureReason
	}
	return view
}

// Summary is the listing row for a session.
type Summary struct {
	ID        string          `json:"id"`
	Type      ComputationType `json:"computation_type"`
	Status    Status          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// Summary returns the session's listing row.
func (s *Session) Summary() Summary {
	return Summary{
		ID:        s.ID,
		Type:      s.Type,
		Status:    s.Status,
		CreatedAt: s.CreatedAt,
	}
}

// Clone returns a deep copy, so stores can hand out sessions without
// sharing mutable state with callers.
func (s *Session) Clone() *Session {
	clone := *s

	clone.OrgIDs = make([]string, len(s.OrgIDs))
	copy(clone.OrgIDs, s.OrgIDs)

	clone.Submissions = make(map[string]Submission, len(s.Submissions))
	for orgID, sub := range s.Submissions {
		cloned := sub
		if sub.Value != nil {
			cloned.Value = new(big.Int).Set(sub.Value)
		}
		cloned.Shares = make([]shamir.Share, len(sub.Shares))
		for i, share := range sub.Shares {
			cloned.Shares[i] = shamir.Share{Index: share.Index, Value: new(big.Int).Set(share.Value)}
		}
		clone.Submissions[orgID] = cloned
	}

	if s.Result != nil {
		r := *s.Result
		clone.Result = &r
	}

	return &clone
}
