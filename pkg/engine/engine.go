// Package engine is the orchestration-facing surface of the secure
// aggregation system. It owns session creation, share submission,
// computation, and result retrieval, and delegates persistence to an
// injected store.
//
// In this deployment shares are computed and combined by a single trusted
// aggregator process. The cryptographic layers are transport-agnostic, so
// moving to genuine multi-party share distribution changes how shares
// reach the engine, not how they are combined.
package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/privamed/smpc/internal/validation"
	"github.com/privamed/smpc/pkg/aggregate"
	"github.com/privamed/smpc/pkg/crypto/fixedpoint"
	"github.com/privamed/smpc/pkg/crypto/secretsharing"
	"github.com/privamed/smpc/pkg/crypto/shamir"
	"github.com/privamed/smpc/pkg/session"
	"github.com/privamed/smpc/pkg/store"
)

// Engine coordinates secure aggregation sessions against a store.
type Engine struct {
	sharer secretsharing.SecretSharer
	codec  *fixedpoint.Codec
	store  store.Store
	log    zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithSharer overrides the secret sharing scheme. The default is
// shamir-threshold from the scheme registry.
func WithSharer(sharer secretsharing.SecretSharer) Option {
	return func(e *Engine) { e.sharer = sharer }
}

// New creates an engine backed by the given store.
func New(st store.Store, opts ...Option) *Engine {
	e := &Engine{
		sharer: secretsharing.NewShamirSharer(),
		store:  st,
		log:    zerolog.Nop(),
		locks:  make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.codec = fixedpoint.NewCodec(e.sharer.FieldOrder())
	return e
}

// Create starts a new computation session and returns its id.
func (e *Engine) Create(typ string, orgIDs []string, threshold int) (string, error) {
	compType, err := session.ParseComputationType(typ)
	if err != nil {
		return "", fmt.Errorf("%w: %v", validation.ErrValidation, err)
	}
	if err := validation.ValidateRoster(orgIDs, threshold); err != nil {
		return "", err
	}

	s := session.New(uuid.NewString(), compType, orgIDs, threshold, string(e.sharer.Scheme()))
	if err := e.store.Save(s); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}

	e.log.Info().
		Str("session", s.ID).
		Str("type", string(compType)).
		Int("participants", len(orgIDs)).
		Int("threshold", threshold).
		Msg("session created")

	return s.ID, nil
}

// Submit records one organization's metric value: the value is scaled
// into the field, split into one share per participant under the session
// threshold, and stored on the session. Submissions to the same session
// are serialized by a per-session lock, so concurrent participants can
// never lose an update or be double-counted.
func (e *Engine) Submit(sessionID, orgID string, value float64) error {
	if err := validation.ValidateOrgID(orgID); err != nil {
		return err
	}
	if err := validation.ValidateMetricValue(value); err != nil {
		return err
	}

	lock := e.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	s, err := e.store.Load(sessionID)
	if err != nil {
		return err
	}

	encoded, err := e.codec.Encode(value)
	if err != nil {
		return err
	}

	shares, err := e.sharer.Split(encoded, len(s.OrgIDs), s.Threshold)
	if err != nil {
		return fmt.Errorf("failed to split value: %w", err)
	}

	if err := s.Submit(session.Submission{
		OrgID:       orgID,
		Value:       encoded,
		Shares:      shares,
		SubmittedAt: time.Now().UTC(),
	}); err != nil {
		return err
	}

	if err := e.store.Save(s); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	e.log.Info().
		Str("session", s.ID).
		Str("org", orgID).
		Str("status", string(s.Status)).
		Int("submitted", len(s.Submissions)).
		Msg("share submitted")

	return nil
}

// Compute runs the session's aggregation once a quorum of shares is
// present. It is idempotent: once COMPUTED, repeated calls return the
// cached result without recomputation. Any aggregation failure drives the
// session to its FAILED terminal state with the error recorded verbatim;
// no partial aggregate is ever returned.
func (e *Engine) Compute(sessionID string) (*session.Result, error) {
	lock := e.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	s, err := e.store.Load(sessionID)
	if err != nil {
		return nil, err
	}

	switch s.Status {
	case session.StatusComputed:
		cached := *s.Result
		return &cached, nil
	case session.StatusFailed:
		return nil, fmt.Errorf("%w: session failed: %s", session.ErrState, s.FailureReason)
	case session.StatusPending, session.StatusCollecting:
		err := fmt.Errorf("%w: need %d submissions, have %d",
			shamir.ErrInsufficientShares, s.Threshold, len(s.Submissions))
		return nil, e.fail(s, err)
	}

	value, err := e.aggregate(s)
	if err != nil {
		return nil, e.fail(s, err)
	}

	result := session.Result{
		Operation:      s.Type,
		Value:          value,
		SecurityMethod: s.SecurityMethod,
		ComputedAt:     time.Now().UTC(),
	}

	if err := s.SetComputed(result); err != nil {
		return nil, err
	}
	if err := e.store.Save(s); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	e.log.Info().
		Str("session", s.ID).
		Str("type", string(s.Type)).
		Str("security_method", s.SecurityMethod).
		Msg("computation finished")

	return &result, nil
}

// GetResult returns the session's result if computed, a pending view
// while shares are still being collected, or the failure detail.
func (e *Engine) GetResult(sessionID string) (session.ResultView, error) {
	s, err := e.store.Load(sessionID)
	if err != nil {
		return session.ResultView{}, err
	}
	return s.View(), nil
}

// List returns summaries of sessions, optionally narrowed to one
// participating organization.
func (e *Engine) List(orgFilter string) ([]session.Summary, error) {
	sessions, err := e.store.List(store.Filter{OrgID: orgFilter})
	if err != nil {
		return nil, err
	}

	summaries := make([]session.Summary, len(sessions))
	for i, s := range sessions {
		summaries[i] = s.Summary()
	}
	return summaries, nil
}

// aggregate dispatches to the aggregation protocol for the session type.
func (e *Engine) aggregate(s *session.Session) (float64, error) {
	agg, err := aggregate.New(e.sharer, len(s.OrgIDs), s.Threshold)
	if err != nil {
		return 0, err
	}

	switch s.Type {
	case session.TypeSum:
		return agg.SecureSum(sharesByParty(s))
	case session.TypeMean:
		return agg.SecureMean(sharesByParty(s))
	case session.TypeVariance:
		return agg.SecureVariance(partyInputs(s))
	}
	return 0, fmt.Errorf("unknown computation type %q", s.Type)
}

// fail drives the session to FAILED, recording the error verbatim.
func (e *Engine) fail(s *session.Session, cause error) error {
	if err := s.SetFailed(cause.Error()); err != nil {
		return err
	}
	if err := e.store.Save(s); err != nil {
		return fmt.Errorf("failed to save failed session: %w", err)
	}

	e.log.Warn().
		Str("session", s.ID).
		Err(cause).
		Msg("computation failed")

	return cause
}

func (e *Engine) sessionLock(sessionID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	lock, ok := e.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[sessionID] = lock
	}
	return lock
}

func sharesByParty(s *session.Session) map[string][]shamir.Share {
	byParty := make(map[string][]shamir.Share, len(s.Submissions))
	for orgID, sub := range s.Submissions {
		byParty[orgID] = sub.Shares
	}
	return byParty
}

func partyInputs(s *session.Session) []aggregate.PartyInput {
	inputs := make([]aggregate.PartyInput, 0, len(s.Submissions))
	for orgID, sub := range s.Submissions {
		inputs = append(inputs, aggregate.PartyInput{
			OrgID:  orgID,
			Value:  sub.Value,
			Shares: sub.Shares,
		})
	}
	return inputs
}
