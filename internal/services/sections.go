package services

// ReadingSections lists the named sections a destiny reading is made of,
// in display order. Every generation call declares exactly this schema.
var ReadingSections = []string{
	"foundationalOverview",
	"careerAndWealth",
	"healthAndVitality",
	"loveAndRelationships",
	"personalityAndInnerGrowth",
	"lifePathAndTimeline",
	"guidanceAndRemedies",
}

// ReadingSchema returns the JSON schema sent alongside every generation
// call: one string property per declared section. No section is required,
// so the model may omit ones it has nothing for.
func ReadingSchema() map[string]interface{} {
	properties := make(map[string]interface{}, len(ReadingSections))
	for _, name := range ReadingSections {
		properties[name] = map[string]interface{}{"type": "string"}
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
}

// AssembleReading projects a raw structured response onto the declared
// section names. Declared sections holding a non-empty string are copied
// verbatim; absent, empty, or non-string values are omitted entirely, and
// undeclared keys are dropped.
func AssembleReading(raw map[string]interface{}) map[string]string {
	out := make(map[string]string)
	for _, name := range ReadingSections {
		v, ok := raw[name]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok || s == "" {
			continue
		}
		out[name] = s
	}
	return out
}
