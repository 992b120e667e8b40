// Package idempotency runs brand commands at most once per idempotency key.
// The gate reserves the key before the command runs, so two concurrent
// requests with the same fresh key cannot both execute.
package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	domain "github.com/entitle-inc/entitle/internal/domain/idempotency"
	"github.com/entitle-inc/entitle/internal/shared/biztime"
	"github.com/entitle-inc/entitle/internal/shared/config"
	"github.com/entitle-inc/entitle/internal/shared/errors"
	"github.com/entitle-inc/entitle/internal/shared/logger"
)

const (
	ReasonInProgress = "idempotency_in_progress"

	maxKeyLength = 255
)

// Request identifies one delivery of a brand command.
type Request struct {
	BrandID uint
	Key     string
	Hash    string
}

// Response is what the wrapped command produced, or the cached copy of it.
type Response struct {
	StatusCode int
	Body       []byte
	Replayed   bool
}

// Command executes the wrapped request once.
type Command func(ctx context.Context) Response

// HashRequest fingerprints a request so a replay under a reused key can be
// told apart from a faithful retry.
func HashRequest(method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{0})
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func ErrInProgress() *errors.AppError {
	return errors.NewConflictError("a request with this idempotency key is still being processed", "retry after it completes").
		WithReason(ReasonInProgress)
}

type Gate struct {
	repo   domain.Repository
	ttl    config.IdempotencyConfig
	clock  biztime.Clock
	logger logger.Interface
}

func NewGate(repo domain.Repository, cfg config.IdempotencyConfig, clock biztime.Clock, logger logger.Interface) *Gate {
	return &Gate{
		repo:   repo,
		ttl:    cfg,
		clock:  clock,
		logger: logger,
	}
}

// Execute runs cmd unless req.Key already has a cached success, in which
// case the cached response is returned untouched. Without a key cmd simply
// runs. Only 2xx responses are cached; anything else releases the key so
// the client can retry with it.
func (g *Gate) Execute(ctx context.Context, req Request, cmd Command) (Response, error) {
	if req.Key == "" {
		return cmd(ctx), nil
	}
	if len(req.Key) > maxKeyLength {
		return Response{}, errors.NewValidationError("idempotency key is too long", fmt.Sprintf("at most %d characters", maxKeyLength))
	}

	log := logger.FromContext(ctx, g.logger).With("idempotency_key", req.Key)

	attemptID, cached, err := g.begin(ctx, log, req)
	if err != nil {
		return Response{}, err
	}
	if cached != nil {
		return *cached, nil
	}

	defer func() {
		if r := recover(); r != nil {
			if g.release(ctx, log, req, attemptID) {
				log.Warnw("idempotency key released after handler panic", "attempt_id", attemptID)
			}
			panic(r)
		}
	}()

	resp := cmd(ctx)
	g.finish(ctx, log, req, attemptID, resp)
	return resp, nil
}

// begin reserves the key for a new attempt, or returns the cached response.
func (g *Gate) begin(ctx context.Context, log logger.Interface, req Request) (string, *Response, error) {
	attemptID := uuid.NewString()

	// A released reservation can vanish between Reserve and Get; one retry
	// covers that window.
	for try := 0; try < 2; try++ {
		now := g.clock.Now()
		rec, err := domain.NewPendingRecord(req.BrandID, req.Key, attemptID, req.Hash, now)
		if err != nil {
			return "", nil, errors.NewValidationError(err.Error())
		}

		err = g.repo.Reserve(ctx, rec)
		if err == nil {
			log.Debugw("idempotency key reserved", "attempt_id", attemptID)
			return attemptID, nil, nil
		}
		if !stderrors.Is(err, domain.ErrAlreadyReserved) {
			return "", nil, err
		}

		existing, err := g.repo.Get(ctx, req.BrandID, req.Key)
		if err != nil {
			return "", nil, err
		}
		if existing == nil {
			continue
		}

		if existing.IsCompleted() {
			if existing.RequestHash() != req.Hash {
				log.Warnw("idempotency key reused for a different request, replaying original response")
			}
			log.Infow("replaying cached response", "status_code", existing.StatusCode(), "action", "idempotency.replay")
			return "", &Response{StatusCode: existing.StatusCode(), Body: existing.Body(), Replayed: true}, nil
		}

		if !existing.IsStale(now, g.ttl.PendingTTL()) {
			log.Warnw("idempotency key in progress", "reason", ReasonInProgress)
			return "", nil, ErrInProgress()
		}

		ok, err := g.repo.TakeOver(ctx, req.BrandID, req.Key, attemptID, req.Hash, now.Add(-g.ttl.PendingTTL()), now)
		if err != nil {
			return "", nil, err
		}
		if !ok {
			log.Warnw("idempotency key taken over by another attempt", "reason", ReasonInProgress)
			return "", nil, ErrInProgress()
		}
		log.Warnw("took over abandoned idempotency reservation", "attempt_id", attemptID)
		return attemptID, nil, nil
	}
	return "", nil, ErrInProgress()
}

func (g *Gate) finish(ctx context.Context, log logger.Interface, req Request, attemptID string, resp Response) {
	// Record the outcome even if the client has gone away.
	ctx = context.WithoutCancel(ctx)

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		if err := g.repo.Complete(ctx, req.BrandID, req.Key, attemptID, resp.StatusCode, resp.Body, g.clock.Now()); err != nil {
			log.Errorw("failed to cache idempotent response", "attempt_id", attemptID, "error", err)
			return
		}
		log.Infow("idempotent response cached", "status_code", resp.StatusCode)
		return
	}

	if g.release(ctx, log, req, attemptID) {
		log.Infow("idempotency key released after unsuccessful response", "status_code", resp.StatusCode)
	}
}

func (g *Gate) release(ctx context.Context, log logger.Interface, req Request, attemptID string) bool {
	if err := g.repo.Release(context.WithoutCancel(ctx), req.BrandID, req.Key, attemptID); err != nil {
		log.Errorw("failed to release idempotency key", "attempt_id", attemptID, "error", err)
		return false
	}
	return true
}
