package insights

import (
	"context"
	"errors"
	"testing"
	"time"

	"goalwise/api/models"
)

type fakeProfiles struct {
	profiles map[string]*models.Profile
	err      error
}

func (f *fakeProfiles) GetProfile(_ context.Context, userID string) (*models.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profiles[userID], nil
}

type fakeRecords struct {
	records map[string]*models.InsightRecord
	getErr  error
	putErr  error
	puts    int
}

func (f *fakeRecords) GetInsightRecord(_ context.Context, userID string) (*models.InsightRecord, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.records[userID], nil
}

func (f *fakeRecords) UpsertInsightRecord(_ context.Context, rec *models.InsightRecord) error {
	f.puts++
	if f.putErr != nil {
		return f.putErr
	}
	f.records[rec.UserID] = rec
	return nil
}

type fakeChat struct {
	response string
	err      error
	calls    int
}

func (f *fakeChat) Complete(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.response, f.err
}

func newTestService(plan models.SubscriptionPlan, chat *fakeChat) (*Service, *fakeRecords) {
	profiles := &fakeProfiles{profiles: map[string]*models.Profile{
		"u1": {ID: "u1", Email: "ana@example.com", Name: "Ana", SubscriptionPlan: plan},
	}}
	records := &fakeRecords{records: map[string]*models.InsightRecord{}}

	svc := NewService(profiles, records, chat)
	svc.Now = func() time.Time {
		return time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC)
	}
	return svc, records
}

func TestGeneratePremiumPersistsRecord(t *testing.T) {
	chat := &fakeChat{response: `Here is your plan: {"summary": "Hi Ana, solid month.", "actionItems": ["Cut dining out"], "nextSteps": ["Review next week"]}`}
	svc, records := newTestService(models.PlanPremium, chat)
	snapshot := testSnapshot()

	payload, err := svc.Generate(context.Background(), "u1", snapshot)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if payload == nil || payload.Kind != models.InsightKindCoaching {
		t.Fatalf("expected coaching payload, got %+v", payload)
	}
	if payload.Summary != "Hi Ana, solid month." {
		t.Fatalf("summary = %q", payload.Summary)
	}

	rec := records.records["u1"]
	if rec == nil {
		t.Fatal("expected an upserted record")
	}
	if rec.DataHash != Fingerprint(snapshot) {
		t.Fatal("record hash should match the snapshot fingerprint")
	}
	if MountainDate(rec.LastUpdated) != MountainDate(svc.Now()) {
		t.Fatal("record should carry the generation timestamp")
	}
}

func TestGenerateServesCacheSameDay(t *testing.T) {
	chat := &fakeChat{response: `[{"tip": "Save more"}]`}
	svc, _ := newTestService(models.PlanGrowth, chat)
	snapshot := testSnapshot()

	first, err := svc.Generate(context.Background(), "u1", snapshot)
	if err != nil {
		t.Fatalf("first Generate returned error: %v", err)
	}
	if chat.calls != 1 {
		t.Fatalf("expected 1 model call, got %d", chat.calls)
	}

	second, err := svc.Generate(context.Background(), "u1", snapshot)
	if err != nil {
		t.Fatalf("second Generate returned error: %v", err)
	}
	if chat.calls != 1 {
		t.Fatalf("same-day repeat with identical data should not call the model again, got %d calls", chat.calls)
	}
	if second == nil || second.Tips[0] != first.Tips[0] {
		t.Fatalf("cached payload differs: %+v vs %+v", second, first)
	}
}

func TestGenerateRegeneratesOnDataChange(t *testing.T) {
	chat := &fakeChat{response: `[{"tip": "Save more"}]`}
	svc, _ := newTestService(models.PlanGrowth, chat)

	if _, err := svc.Generate(context.Background(), "u1", testSnapshot()); err != nil {
		t.Fatalf("first Generate returned error: %v", err)
	}

	changed := testSnapshot()
	changed.BudgetItems[0].Amount = 1900
	if _, err := svc.Generate(context.Background(), "u1", changed); err != nil {
		t.Fatalf("second Generate returned error: %v", err)
	}
	if chat.calls != 2 {
		t.Fatalf("changed data should force a new model call, got %d calls", chat.calls)
	}
}

func TestGenerateRegeneratesNextDay(t *testing.T) {
	chat := &fakeChat{response: `[{"tip": "Save more"}]`}
	svc, _ := newTestService(models.PlanGrowth, chat)
	snapshot := testSnapshot()

	if _, err := svc.Generate(context.Background(), "u1", snapshot); err != nil {
		t.Fatalf("first Generate returned error: %v", err)
	}

	svc.Now = func() time.Time {
		return time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)
	}
	if _, err := svc.Generate(context.Background(), "u1", snapshot); err != nil {
		t.Fatalf("second Generate returned error: %v", err)
	}
	if chat.calls != 2 {
		t.Fatalf("a new calendar day should force a new model call, got %d calls", chat.calls)
	}
}

func TestGenerateFreeTier(t *testing.T) {
	chat := &fakeChat{}
	svc, records := newTestService(models.PlanFree, chat)

	payload, err := svc.Generate(context.Background(), "u1", testSnapshot())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if payload != nil {
		t.Fatalf("free tier should yield nil, got %+v", payload)
	}
	if chat.calls != 0 {
		t.Fatal("free tier should never call the model")
	}
	if records.puts != 0 {
		t.Fatal("free tier should not touch the cache")
	}
}

func TestGenerateUnknownUser(t *testing.T) {
	svc, _ := newTestService(models.PlanGrowth, &fakeChat{})

	_, err := svc.Generate(context.Background(), "missing", testSnapshot())
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestGenerateShapeMismatchCachesNothing(t *testing.T) {
	// A premium user gets a tips array back: wrong shape for the tier.
	chat := &fakeChat{response: `[{"tip": "Save more"}]`}
	svc, records := newTestService(models.PlanPremium, chat)

	payload, err := svc.Generate(context.Background(), "u1", testSnapshot())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if payload != nil {
		t.Fatalf("shape mismatch should yield nil, got %+v", payload)
	}
	if records.puts != 0 {
		t.Fatal("untrusted output must not be cached")
	}
}

func TestGenerateModelFailure(t *testing.T) {
	chat := &fakeChat{err: errors.New("rate limited")}
	svc, _ := newTestService(models.PlanGrowth, chat)

	_, err := svc.Generate(context.Background(), "u1", testSnapshot())
	var modelErr *ModelError
	if !errors.As(err, &modelErr) {
		t.Fatalf("expected *ModelError, got %v", err)
	}
}

func TestGenerateUnrecoverableResponse(t *testing.T) {
	chat := &fakeChat{response: "I cannot help with that."}
	svc, _ := newTestService(models.PlanGrowth, chat)

	_, err := svc.Generate(context.Background(), "u1", testSnapshot())
	var recoverErr *RecoverError
	if !errors.As(err, &recoverErr) {
		t.Fatalf("expected *RecoverError, got %v", err)
	}
	if recoverErr.Raw != chat.response {
		t.Fatalf("RecoverError should carry the raw response, got %q", recoverErr.Raw)
	}
}

func TestGenerateCacheReadFailureRegenerates(t *testing.T) {
	chat := &fakeChat{response: `[{"tip": "Save more"}]`}
	svc, records := newTestService(models.PlanGrowth, chat)
	records.getErr = errors.New("mongo unavailable")

	payload, err := svc.Generate(context.Background(), "u1", testSnapshot())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if payload == nil || len(payload.Tips) != 1 {
		t.Fatalf("expected generated tips despite cache failure, got %+v", payload)
	}
	if chat.calls != 1 {
		t.Fatalf("expected a model call, got %d", chat.calls)
	}
}

func TestGeneratePersistFailureStillReturnsPayload(t *testing.T) {
	chat := &fakeChat{response: `[{"tip": "Save more"}]`}
	svc, records := newTestService(models.PlanGrowth, chat)
	records.putErr = errors.New("mongo unavailable")

	payload, err := svc.Generate(context.Background(), "u1", testSnapshot())
	if err != nil {
		t.Fatalf("persist failure should not fail the request: %v", err)
	}
	if payload == nil {
		t.Fatal("expected the generated payload despite the persist failure")
	}
}
