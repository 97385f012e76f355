package insights

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"goalwise/api/logger"
	"goalwise/api/models"
)

// ProfileReader supplies the subscription tier and display name.
type ProfileReader interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
}

// RecordStore is the per-user insight cache.
type RecordStore interface {
	GetInsightRecord(ctx context.Context, userID string) (*models.InsightRecord, error)
	UpsertInsightRecord(ctx context.Context, rec *models.InsightRecord) error
}

// ChatClient produces raw model text for a prompt.
type ChatClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

var ErrProfileNotFound = errors.New("profile not found")

// ModelError wraps a model-call failure, keeping whatever raw text the
// model did return.
type ModelError struct {
	Raw string
	Err error
}

func (e *ModelError) Error() string { return fmt.Sprintf("model call failed: %v", e.Err) }
func (e *ModelError) Unwrap() error { return e.Err }

type Service struct {
	Profiles ProfileReader
	Records  RecordStore
	Chat     ChatClient
	Now      func() time.Time
}

func NewService(profiles ProfileReader, records RecordStore, chat ChatClient) *Service {
	return &Service{
		Profiles: profiles,
		Records:  records,
		Chat:     chat,
		Now:      time.Now,
	}
}

// Generate runs the insight workflow for one user: read the tier, check
// the cached record against the snapshot fingerprint and the Mountain
// calendar day, and only then call the model, recover its JSON, sanitize
// it into the tier shape and upsert the record. It returns nil with no
// error when the user's plan has no insights or the model output could
// not be trusted for the tier.
func (s *Service) Generate(ctx context.Context, userID string, snapshot models.FinancialSnapshot) (*models.InsightPayload, error) {
	profile, err := s.Profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading profile for user %s: %w", userID, err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	if !profile.SubscriptionPlan.HasInsights() {
		return nil, nil
	}

	hash := Fingerprint(snapshot)
	now := s.Now()

	rec, err := s.Records.GetInsightRecord(ctx, userID)
	if err != nil {
		logger.Get().Warn("insight cache read failed, regenerating",
			zap.String("user_id", userID),
			zap.Error(err))
	} else if Fresh(rec, hash, now) {
		logger.Get().Debug("serving cached insights",
			zap.String("user_id", userID),
			zap.String("data_hash", hash))
		return rec.Insights, nil
	}

	prompt := BuildPrompt(profile.SubscriptionPlan, snapshot, profile.Name)

	raw, err := s.Chat.Complete(ctx, prompt)
	if err != nil {
		return nil, &ModelError{Raw: raw, Err: err}
	}
	if raw == "" {
		return nil, &ModelError{Err: errors.New("model returned empty content")}
	}

	value, err := RecoverJSON(raw)
	if err != nil {
		return nil, err
	}

	payload := Sanitize(value, profile.SubscriptionPlan)
	if payload == nil {
		logger.Get().Warn("model output did not match tier shape, discarding",
			zap.String("user_id", userID),
			zap.String("plan", string(profile.SubscriptionPlan)))
		return nil, nil
	}

	// The cache is an optimization; a lost write just means the next
	// request regenerates.
	if err := s.Records.UpsertInsightRecord(ctx, &models.InsightRecord{
		UserID:      userID,
		Insights:    payload,
		DataHash:    hash,
		LastUpdated: now,
	}); err != nil {
		logger.Get().Error("failed to persist insight record",
			zap.String("user_id", userID),
			zap.Error(err))
	}

	return payload, nil
}
