package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/cosmicpalm/destiny-backend/internal/types"
)

// PromptService renders the fixed prompt templates. Rendering is pure
// substitution: identical input yields a byte-identical prompt.
type PromptService struct{}

func NewPromptService() *PromptService {
	return &PromptService{}
}

const destinyTemplate = `Analyze the individual's destiny and life path using a combined approach of Vedic Astrology (based on birth chart interpretation from birth date %s, time %s, and place %s) and Palmistry (based on hand features and line analysis from the attached palm photo). Provide a comprehensive, step-by-step integrated reading that blends astrological and palm-based insights into one cohesive narrative.

Include approximate timelines (ages, decades, or planetary dasha periods) for major life events, transitions, or turning points wherever applicable.

Return a structured JSON object with the following keys, each holding the analysis for that section:

1. foundationalOverview: Begin with the overall life theme revealed by the Ascendant (Lagna) and the dominant hand shape or mount formation. Correlate personality traits from the zodiacal influences with those suggested by the hand type, and summarize how planetary strengths align with corresponding mounts or lines on the palm.

2. careerAndWealth: Integrate findings from the 10th, 2nd, and 11th houses with the Fate Line, Sun Line, and Money Triangle. Identify decades or life phases showing prosperity or career shifts, and note any yogas (Raja Yoga, Dhana Yoga) that align with strong markings near the mounts of Jupiter, Apollo, or Mercury.

3. healthAndVitality: Combine insights from the Lagna and 6th house with the Life Line's quality, length, and markings. Estimate ages or periods of stress, recovery, or renewal reflected through planetary cycles and palm indications.

4. loveAndRelationships: Analyze the 7th and 5th houses alongside the Heart Line and Marriage lines. Highlight life stages or planetary periods indicating love developments, marriage, or emotional turning points, and correlate the Mount of Venus with the strength of Venus in the chart.

5. personalityAndInnerGrowth: Merge the psychological profile from the Sun, Moon, and Ascendant with the tendencies shown by the Head and Heart Lines. Identify the dominant planetary energy and how it reflects in hand markings or mount prominence.

6. lifePathAndTimeline: Provide an integrated chronological summary aligning planetary dasha transitions with visible palm milestones. Divide life into key phases, noting pivotal turning points where destiny and effort strongly interact.

7. guidanceAndRemedies: Offer balanced recommendations from both traditions, including planetary remedies and personal alignment practices, emphasizing how awareness of both cosmic and personal energies can harmonize life direction.`

// RenderDestinyPrompt fills the destiny template with the validated birth
// fields. The palm photo travels as an attached inline image, not as text.
func (p *PromptService) RenderDestinyPrompt(req types.ReadingRequest) string {
	return fmt.Sprintf(destinyTemplate, req.BirthDate, req.BirthTime, req.BirthPlace)
}

const dailyHoroscopeTemplate = `You are an astrologer providing personalized daily horoscopes.

Based on the user's birth date (%s), birth time (%s), and zodiac sign (%s), generate a personalized daily horoscope providing insights and guidance for the day. The horoscope should be relevant to the user's sign and consider the current astrological transits. Focus on providing positive guidance and actionable advice. Keep the horoscope concise and easy to understand.

Horoscope:`

func (p *PromptService) RenderDailyHoroscopePrompt(birthDate, birthTime, zodiacSign string) string {
	return fmt.Sprintf(dailyHoroscopeTemplate, birthDate, birthTime, zodiacSign)
}

// RenderTranslationPrompt asks for the section map translated into the
// target language, keys unchanged. Sections are serialized in declared
// order so rendering stays deterministic.
func (p *PromptService) RenderTranslationPrompt(sections map[string]string, targetLanguage string) string {
	keys := make([]string, 0, len(sections))
	for k := range sections {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "Translate the string values of the following JSON object into %s. Keep every key exactly as it is and preserve the meaning and tone of each value. Return only the translated JSON object.\n\n{", targetLanguage)
	for i, k := range keys {
		if i > 0 {
			b.WriteString(",")
		}
		keyJSON, _ := json.Marshal(k)
		valJSON, _ := json.Marshal(sections[k])
		fmt.Fprintf(&b, "\n  %s: %s", keyJSON, valJSON)
	}
	b.WriteString("\n}")
	return b.String()
}
