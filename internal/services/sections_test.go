package services

import "testing"

func TestAssembleReading_PureProjection(t *testing.T) {
	raw := map[string]interface{}{
		"foundationalOverview": "life theme",
		"careerAndWealth":      "career",
		"healthAndVitality":    "",    // empty -> omitted
		"loveAndRelationships": 42,    // non-string -> omitted
		"lifePathAndTimeline":  nil,   // null -> omitted
		"unexpectedExtra":      "x",   // undeclared -> dropped
		"guidanceAndRemedies":  "rem",
	}

	out := AssembleReading(raw)

	want := map[string]string{
		"foundationalOverview": "life theme",
		"careerAndWealth":      "career",
		"guidanceAndRemedies":  "rem",
	}
	if len(out) != len(want) {
		t.Fatalf("unexpected section count: got=%d want=%d (%v)", len(out), len(want), out)
	}
	for k, v := range want {
		if out[k] != v {
			t.Fatalf("section %s: got=%q want=%q", k, out[k], v)
		}
	}
}

func TestAssembleReading_AllSevenSections(t *testing.T) {
	raw := make(map[string]interface{}, len(ReadingSections))
	for _, name := range ReadingSections {
		raw[name] = "narrative for " + name
	}

	out := AssembleReading(raw)

	if len(out) != 7 {
		t.Fatalf("expected exactly 7 sections, got %d", len(out))
	}
	for _, name := range ReadingSections {
		if out[name] == "" {
			t.Fatalf("section %s missing", name)
		}
	}
}

func TestAssembleReading_EmptyResponse(t *testing.T) {
	out := AssembleReading(map[string]interface{}{})
	if len(out) != 0 {
		t.Fatalf("expected empty result, got %v", out)
	}
}

func TestReadingSchema_DeclaresEverySection(t *testing.T) {
	schema := ReadingSchema()
	props, ok := schema["properties"].(map[string]interface{})
	if !ok {
		t.Fatalf("schema has no properties object")
	}
	if len(props) != len(ReadingSections) {
		t.Fatalf("unexpected property count: got=%d want=%d", len(props), len(ReadingSections))
	}
	for _, name := range ReadingSections {
		p, ok := props[name].(map[string]interface{})
		if !ok {
			t.Fatalf("section %s not declared", name)
		}
		if p["type"] != "string" {
			t.Fatalf("section %s should be a string property", name)
		}
	}
}
