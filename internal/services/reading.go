package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/cosmicpalm/destiny-backend/internal/apperr"
	"github.com/cosmicpalm/destiny-backend/internal/logger"
	"github.com/cosmicpalm/destiny-backend/internal/repos"
	"github.com/cosmicpalm/destiny-backend/internal/types"
)

// ReadingService orchestrates the full generation flow: validate the
// request, render the prompt, call the generation service once, assemble
// the declared sections, and persist the result under the owner.
type ReadingService interface {
	Generate(ctx context.Context, ownerID uuid.UUID, req types.ReadingRequest) (*types.Reading, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]*types.Reading, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	Rename(ctx context.Context, ownerID, id uuid.UUID, newName string) error
	Translate(ctx context.Context, ownerID, id uuid.UUID, targetLanguage string) (map[string]string, error)
}

type readingService struct {
	log            *logger.Logger
	readingRepo    repos.ReadingRepo
	orderRepo      repos.OrderRepo
	gemini         GeminiClient
	prompts        *PromptService
	requirePayment bool
}

func NewReadingService(
	log *logger.Logger,
	readingRepo repos.ReadingRepo,
	orderRepo repos.OrderRepo,
	gemini GeminiClient,
	prompts *PromptService,
	requirePayment bool,
) ReadingService {
	return &readingService{
		log:            log.With("service", "ReadingService"),
		readingRepo:    readingRepo,
		orderRepo:      orderRepo,
		gemini:         gemini,
		prompts:        prompts,
		requirePayment: requirePayment,
	}
}

func (rs *readingService) Generate(ctx context.Context, ownerID uuid.UUID, req types.ReadingRequest) (*types.Reading, error) {
	img, err := ValidateReadingRequest(req)
	if err != nil {
		return nil, err
	}

	if rs.requirePayment {
		paid, err := rs.orderRepo.HasCompletedOrder(ctx, nil, ownerID)
		if err != nil {
			return nil, err
		}
		if !paid {
			return nil, apperr.ErrPaymentRequired
		}
	}

	prompt := rs.prompts.RenderDestinyPrompt(req)
	raw, err := rs.gemini.GenerateJSON(ctx, prompt, img, ReadingSchema())
	if err != nil {
		return nil, err
	}

	sections := AssembleReading(raw)
	if len(sections) == 0 {
		return nil, &apperr.GenerationError{Err: fmt.Errorf("response contained none of the declared sections")}
	}

	reading := &types.Reading{
		OwnerID:       ownerID,
		Name:          "Reading for " + req.BirthDate,
		BirthDate:     req.BirthDate,
		BirthTime:     req.BirthTime,
		BirthPlace:    req.BirthPlace,
		PalmImageMIME: img.MIMEType,
		Sections:      sectionsToJSONMap(sections),
	}
	stored, err := rs.readingRepo.Create(ctx, nil, reading)
	if err != nil {
		return nil, err
	}

	rs.log.Info("Reading generated", "owner_id", ownerID, "reading_id", stored.ID, "sections", len(sections))
	return stored, nil
}

func (rs *readingService) List(ctx context.Context, ownerID uuid.UUID) ([]*types.Reading, error) {
	return rs.readingRepo.ListByOwner(ctx, nil, ownerID)
}

func (rs *readingService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return rs.readingRepo.Delete(ctx, nil, ownerID, id)
}

func (rs *readingService) Rename(ctx context.Context, ownerID, id uuid.UUID, newName string) error {
	if newName == "" {
		return &apperr.ValidationError{Field: "name", Reason: "required"}
	}
	return rs.readingRepo.Rename(ctx, nil, ownerID, id, newName)
}

// Translate returns the reading's sections in the target language,
// generating and caching the translation on first use.
func (rs *readingService) Translate(ctx context.Context, ownerID, id uuid.UUID, targetLanguage string) (map[string]string, error) {
	if targetLanguage == "" {
		return nil, &apperr.ValidationError{Field: "language", Reason: "required"}
	}

	reading, err := rs.readingRepo.GetByOwnerAndID(ctx, nil, ownerID, id)
	if err != nil {
		return nil, err
	}
	if cached, ok := cachedTranslation(reading, targetLanguage); ok {
		return cached, nil
	}

	sections := reading.SectionStrings()
	prompt := rs.prompts.RenderTranslationPrompt(sections, targetLanguage)
	raw, err := rs.gemini.GenerateJSON(ctx, prompt, nil, ReadingSchema())
	if err != nil {
		return nil, err
	}
	translated := AssembleReading(raw)
	if len(translated) == 0 {
		return nil, &apperr.GenerationError{Err: fmt.Errorf("translation contained none of the declared sections")}
	}

	if err := rs.readingRepo.SaveTranslation(ctx, nil, ownerID, id, targetLanguage, translated); err != nil {
		return nil, err
	}
	return translated, nil
}

func cachedTranslation(reading *types.Reading, lang string) (map[string]string, bool) {
	v, ok := reading.Translations[lang]
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		if s, ok := val.(string); ok && s != "" {
			out[k] = s
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func sectionsToJSONMap(sections map[string]string) datatypes.JSONMap {
	out := make(datatypes.JSONMap, len(sections))
	for k, v := range sections {
		out[k] = v
	}
	return out
}
