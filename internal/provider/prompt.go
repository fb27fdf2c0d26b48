// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/sched-scorer/pkg/types"
)

// systemPromptTmpl frames the attendee profile and the scoring rubric.
// The score cache does not hash the rubric text, so edits here need a
// --no-cache run to take effect on previously scored feeds.
var systemPromptTmpl = template.Must(template.New("system").Parse(`You are a KubeCon + CloudNativeCon EU 2026 conference session evaluator.

## Attendee Profile
- Name: {{.Name}}
- Role: {{.Role}}
- Organization: {{.Organization}}
- Experience Level: {{.ExperienceLevel}}
- Primary Interests: {{.Primary}}
- Secondary Interests: {{.Secondary}}
- Priorities:
{{- range .Priorities}}
  - {{.}}
{{- end}}
{{- if .PreferenceLines}}
- Preferences:
{{- range .PreferenceLines}}
  - {{.}}
{{- end}}
{{- end}}
{{- if .Context}}
- Context: {{.Context}}
{{- end}}

## Scoring Rubric (total: 0-100)
Score each event on three components:

1. **role_relevance** (0-35): How relevant is this session to the attendee's role and daily responsibilities?
   - 30-35: Directly addresses core job functions
   - 20-29: Strongly related to role
   - 10-19: Tangentially related
   - 0-9: Not relevant to role

2. **topic_alignment** (0-35): How well does the topic match the attendee's stated interests and priorities?
   - 30-35: Directly matches primary interests/priorities
   - 20-29: Matches secondary interests
   - 10-19: Loosely related
   - 0-9: No alignment

3. **strategic_value** (0-30): What unique strategic value does this session offer?
   - 25-30: Unique insights, hard to get elsewhere, actionable takeaways
   - 15-24: Good learning opportunity
   - 5-14: Standard content, available elsewhere
   - 0-4: Low strategic value

## Calibration Guidelines
- A perfect 100 should be extremely rare (1-2 sessions max)
- Aim for a natural distribution: most sessions between 30-70
- Reserve 85+ for truly exceptional matches
- Introductory talks should score lower for advanced/expert attendees
- Vendor-specific talks score lower unless the tool is directly relevant
- Hands-on workshops get a bonus if the profile prefers them

## Output Format
Return a JSON array. Each element MUST have these exact fields:
- "uid": the event UID (string, copy exactly from input)
- "score": total score (integer 0-100, must equal sum of components)
- "role_relevance": component score (integer 0-35)
- "topic_alignment": component score (integer 0-35)
- "strategic_value": component score (integer 0-30)
- "reasoning": 1-2 sentence explanation (string)

Return ONLY the JSON array, no markdown fences, no extra text.`))

// systemPromptData is the template input derived from a profile.
type systemPromptData struct {
	Name            string
	Role            string
	Organization    string
	ExperienceLevel string
	Primary         string
	Secondary       string
	Priorities      []string
	PreferenceLines []string
	Context         string
}

// buildSystemPrompt renders the rubric prompt for one profile.
func buildSystemPrompt(p types.Profile) (string, error) {
	data := systemPromptData{
		Name:            p.Name,
		Role:            p.Role,
		Organization:    p.Organization,
		ExperienceLevel: string(p.ExperienceLevel),
		Primary:         strings.Join(p.Interests.Primary, ", "),
		Secondary:       strings.Join(p.Interests.Secondary, ", "),
		Priorities:      p.Priorities,
		Context:         p.Context,
	}
	if p.Preferences.PreferHandsOn {
		data.PreferenceLines = append(data.PreferenceLines, "Prefers hands-on workshops and demos")
	}
	if p.Preferences.PreferDeepDives {
		data.PreferenceLines = append(data.PreferenceLines, "Prefers deep technical dives over introductory content")
	}
	if p.Preferences.AvoidVendorPitches {
		data.PreferenceLines = append(data.PreferenceLines, "Penalize vendor-heavy marketing talks")
	}

	var buf bytes.Buffer
	if err := systemPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// maxDescriptionChars caps how much of each event description goes into
// the user prompt.
const maxDescriptionChars = 500

// buildUserPrompt lists one batch of sessions for scoring. Each session
// carries its UID so the response can be mapped back.
func buildUserPrompt(events []types.Event) string {
	var b strings.Builder
	b.WriteString("Score the following KubeCon EU 2026 sessions:\n")

	for i, ev := range events {
		cats := "N/A"
		if len(ev.Categories) > 0 {
			cats = strings.Join(ev.Categories, ", ")
		}
		desc := ev.Description
		if desc == "" {
			desc = "No description"
		} else if r := []rune(desc); len(r) > maxDescriptionChars {
			desc = string(r[:maxDescriptionChars])
		}

		fmt.Fprintf(&b, "\n--- Session %d ---\nUID: %s\nTitle: %s\nCategories: %s\nDuration: %d min\nDescription: %s\n",
			i+1, ev.UID, ev.Summary, cats, ev.DurationMinutes(), desc)
	}
	return b.String()
}
