package debrief

import "github.com/abhisek/assessor/internal/llm"

func stringArray(desc string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": desc,
	}
}

// Schema is the JSON schema a debrief response must satisfy.
var Schema = &llm.Schema{
	Name:        "candidate-debrief",
	Description: "Written debrief of a React developer interview",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "3-5 sentence overview of the candidate, consistent with the verdict",
			},
			"strengths":  stringArray("1-4 specific strengths grounded in the ratings and notes"),
			"concerns":   stringArray("0-4 specific concerns grounded in the ratings and notes"),
			"follow_ups": stringArray("1-3 questions to ask in a follow-up interview"),
		},
		"required":             []any{"summary", "strengths", "concerns", "follow_ups"},
		"additionalProperties": false,
	},
}
