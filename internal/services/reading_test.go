package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/cosmicpalm/destiny-backend/internal/apperr"
	"github.com/cosmicpalm/destiny-backend/internal/logger"
	"github.com/cosmicpalm/destiny-backend/internal/types"
)

type fakeGemini struct {
	jsonResponse map[string]interface{}
	textResponse string
	err          error
	jsonCalls    int
	lastPrompt   string
	lastImage    *PalmImage
}

func (f *fakeGemini) GenerateJSON(ctx context.Context, prompt string, image *PalmImage, schema map[string]interface{}) (map[string]interface{}, error) {
	f.jsonCalls++
	f.lastPrompt = prompt
	f.lastImage = image
	if f.err != nil {
		return nil, f.err
	}
	return f.jsonResponse, nil
}

func (f *fakeGemini) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.textResponse, nil
}

type fakeReadingRepo struct {
	created      []*types.Reading
	stored       *types.Reading
	translations map[string]map[string]string
}

func (f *fakeReadingRepo) Create(ctx context.Context, tx *gorm.DB, reading *types.Reading) (*types.Reading, error) {
	if reading.ID == uuid.Nil {
		reading.ID = uuid.New()
	}
	reading.CreatedAt = time.Now().UTC()
	f.created = append(f.created, reading)
	return reading, nil
}

func (f *fakeReadingRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Reading, error) {
	return f.created, nil
}

func (f *fakeReadingRepo) GetByOwnerAndID(ctx context.Context, tx *gorm.DB, ownerID, id uuid.UUID) (*types.Reading, error) {
	if f.stored == nil {
		return nil, &apperr.NotFoundError{Resource: "reading"}
	}
	return f.stored, nil
}

func (f *fakeReadingRepo) Delete(ctx context.Context, tx *gorm.DB, ownerID, id uuid.UUID) error {
	return nil
}

func (f *fakeReadingRepo) Rename(ctx context.Context, tx *gorm.DB, ownerID, id uuid.UUID, newName string) error {
	return nil
}

func (f *fakeReadingRepo) SaveTranslation(ctx context.Context, tx *gorm.DB, ownerID, id uuid.UUID, lang string, sections map[string]string) error {
	if f.translations == nil {
		f.translations = map[string]map[string]string{}
	}
	f.translations[lang] = sections
	return nil
}

type fakeOrderRepo struct {
	completed bool
}

func (f *fakeOrderRepo) Create(ctx context.Context, tx *gorm.DB, order *types.Order) (*types.Order, error) {
	return order, nil
}

func (f *fakeOrderRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) GetByRazorpayOrderID(ctx context.Context, tx *gorm.DB, razorpayOrderID string) (*types.Order, error) {
	return nil, &apperr.NotFoundError{Resource: "order"}
}

func (f *fakeOrderRepo) MarkCompleted(ctx context.Context, tx *gorm.DB, id uuid.UUID, paymentID string) error {
	return nil
}

func (f *fakeOrderRepo) HasCompletedOrder(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) (bool, error) {
	return f.completed, nil
}

func sevenSectionResponse() map[string]interface{} {
	raw := make(map[string]interface{}, len(ReadingSections))
	for _, name := range ReadingSections {
		raw[name] = "narrative for " + name
	}
	return raw
}

func newTestReadingService(gemini GeminiClient, readingRepo *fakeReadingRepo, orderRepo *fakeOrderRepo, requirePayment bool) ReadingService {
	return NewReadingService(logger.NewNop(), readingRepo, orderRepo, gemini, NewPromptService(), requirePayment)
}

func TestReadingService_Generate(t *testing.T) {
	gemini := &fakeGemini{jsonResponse: sevenSectionResponse()}
	repo := &fakeReadingRepo{}
	svc := newTestReadingService(gemini, repo, &fakeOrderRepo{}, false)
	ownerID := uuid.New()

	reading, err := svc.Generate(context.Background(), ownerID, validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reading.OwnerID != ownerID {
		t.Fatalf("owner id not threaded through")
	}
	if len(reading.Sections) != 7 {
		t.Fatalf("expected exactly 7 sections, got %d", len(reading.Sections))
	}
	if reading.PalmImageMIME != "image/jpeg" {
		t.Fatalf("palm image mime not recorded: %q", reading.PalmImageMIME)
	}
	if len(repo.created) != 1 {
		t.Fatalf("reading was not persisted")
	}
	if gemini.lastImage == nil {
		t.Fatalf("palm image not passed to the generation call")
	}
}

func TestReadingService_GenerateFailsFastOnInvalidInput(t *testing.T) {
	gemini := &fakeGemini{jsonResponse: sevenSectionResponse()}
	svc := newTestReadingService(gemini, &fakeReadingRepo{}, &fakeOrderRepo{}, false)

	req := validRequest()
	req.BirthTime = "noonish"
	_, err := svc.Generate(context.Background(), uuid.New(), req)

	var vErr *apperr.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if gemini.jsonCalls != 0 {
		t.Fatalf("generation must not be called for invalid input")
	}
}

func TestReadingService_GeneratePropagatesRetryable(t *testing.T) {
	gemini := &fakeGemini{err: &apperr.GenerationError{Retryable: true, Err: errors.New("overloaded")}}
	svc := newTestReadingService(gemini, &fakeReadingRepo{}, &fakeOrderRepo{}, false)

	_, err := svc.Generate(context.Background(), uuid.New(), validRequest())
	if !apperr.IsRetryableGeneration(err) {
		t.Fatalf("retryable tag must survive orchestration, got %v", err)
	}
}

func TestReadingService_GenerateRejectsEmptySections(t *testing.T) {
	gemini := &fakeGemini{jsonResponse: map[string]interface{}{"unrelated": "x"}}
	repo := &fakeReadingRepo{}
	svc := newTestReadingService(gemini, repo, &fakeOrderRepo{}, false)

	_, err := svc.Generate(context.Background(), uuid.New(), validRequest())
	var genErr *apperr.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("nothing must be persisted for an unusable response")
	}
}

func TestReadingService_PaymentGate(t *testing.T) {
	gemini := &fakeGemini{jsonResponse: sevenSectionResponse()}
	orders := &fakeOrderRepo{completed: false}
	svc := newTestReadingService(gemini, &fakeReadingRepo{}, orders, true)

	_, err := svc.Generate(context.Background(), uuid.New(), validRequest())
	if !errors.Is(err, apperr.ErrPaymentRequired) {
		t.Fatalf("expected ErrPaymentRequired, got %v", err)
	}
	if gemini.jsonCalls != 0 {
		t.Fatalf("generation must not run before payment")
	}

	orders.completed = true
	if _, err := svc.Generate(context.Background(), uuid.New(), validRequest()); err != nil {
		t.Fatalf("paid owner must pass the gate: %v", err)
	}
}

func TestReadingService_TranslateUsesCache(t *testing.T) {
	stored := &types.Reading{
		ID:      uuid.New(),
		OwnerID: uuid.New(),
		Sections: datatypes.JSONMap{
			"foundationalOverview": "overview",
		},
		Translations: datatypes.JSONMap{
			"Hindi": map[string]interface{}{"foundationalOverview": "translated overview"},
		},
	}
	gemini := &fakeGemini{}
	repo := &fakeReadingRepo{stored: stored}
	svc := newTestReadingService(gemini, repo, &fakeOrderRepo{}, false)

	out, err := svc.Translate(context.Background(), stored.OwnerID, stored.ID, "Hindi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["foundationalOverview"] != "translated overview" {
		t.Fatalf("cached translation not returned: %v", out)
	}
	if gemini.jsonCalls != 0 {
		t.Fatalf("cached language must not hit the generation service")
	}
}

func TestReadingService_TranslateGeneratesAndCaches(t *testing.T) {
	stored := &types.Reading{
		ID:      uuid.New(),
		OwnerID: uuid.New(),
		Sections: datatypes.JSONMap{
			"foundationalOverview": "overview",
		},
	}
	gemini := &fakeGemini{jsonResponse: map[string]interface{}{"foundationalOverview": "visión general"}}
	repo := &fakeReadingRepo{stored: stored}
	svc := newTestReadingService(gemini, repo, &fakeOrderRepo{}, false)

	out, err := svc.Translate(context.Background(), stored.OwnerID, stored.ID, "Spanish")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["foundationalOverview"] != "visión general" {
		t.Fatalf("unexpected translation: %v", out)
	}
	if gemini.jsonCalls != 1 {
		t.Fatalf("expected one generation call, got %d", gemini.jsonCalls)
	}
	if repo.translations["Spanish"] == nil {
		t.Fatalf("translation was not cached on the record")
	}
}
