package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cosmicpalm/destiny-backend/internal/apperr"
	"github.com/cosmicpalm/destiny-backend/internal/logger"
	"github.com/cosmicpalm/destiny-backend/internal/repos"
	"github.com/cosmicpalm/destiny-backend/internal/types"
)

var errEmptyHoroscope = errors.New("empty horoscope text")

// HoroscopeService generates the owner's daily horoscope (cached for the
// rest of the day) and serves the horoscope history.
type HoroscopeService interface {
	Daily(ctx context.Context, ownerID uuid.UUID, birthDate, birthTime, zodiacSign string) (*types.Horoscope, error)
	History(ctx context.Context, ownerID uuid.UUID, limit int) ([]*types.Horoscope, error)
}

type horoscopeService struct {
	log           *logger.Logger
	horoscopeRepo repos.HoroscopeRepo
	gemini        GeminiClient
	prompts       *PromptService
	cache         *HoroscopeCache
}

func NewHoroscopeService(
	log *logger.Logger,
	horoscopeRepo repos.HoroscopeRepo,
	gemini GeminiClient,
	prompts *PromptService,
	cache *HoroscopeCache,
) HoroscopeService {
	return &horoscopeService{
		log:           log.With("service", "HoroscopeService"),
		horoscopeRepo: horoscopeRepo,
		gemini:        gemini,
		prompts:       prompts,
		cache:         cache,
	}
}

func (hs *horoscopeService) Daily(ctx context.Context, ownerID uuid.UUID, birthDate, birthTime, zodiacSign string) (*types.Horoscope, error) {
	if _, err := time.Parse("2006-01-02", birthDate); err != nil {
		return nil, &apperr.ValidationError{Field: "birthDate", Reason: "must be a date in YYYY-MM-DD format"}
	}
	if !birthTimePattern.MatchString(birthTime) {
		return nil, &apperr.ValidationError{Field: "birthTime", Reason: "must be a 24-hour time in HH:MM format"}
	}
	if strings.TrimSpace(zodiacSign) == "" {
		return nil, &apperr.ValidationError{Field: "zodiacSign", Reason: "required"}
	}

	today := time.Now().UTC().Format("2006-01-02")
	if content, ok := hs.cache.Get(ctx, ownerID.String(), today); ok {
		return &types.Horoscope{
			OwnerID:    ownerID,
			Date:       today,
			ZodiacSign: zodiacSign,
			Content:    content,
		}, nil
	}

	prompt := hs.prompts.RenderDailyHoroscopePrompt(birthDate, birthTime, zodiacSign)
	content, err := hs.gemini.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, &apperr.GenerationError{Err: errEmptyHoroscope}
	}

	stored, err := hs.horoscopeRepo.Create(ctx, nil, &types.Horoscope{
		OwnerID:    ownerID,
		Date:       today,
		ZodiacSign: zodiacSign,
		Content:    content,
	})
	if err != nil {
		return nil, err
	}
	hs.cache.Set(ctx, ownerID.String(), today, content)
	return stored, nil
}

func (hs *horoscopeService) History(ctx context.Context, ownerID uuid.UUID, limit int) ([]*types.Horoscope, error) {
	return hs.horoscopeRepo.ListByOwner(ctx, nil, ownerID, limit)
}
