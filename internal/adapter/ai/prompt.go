package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ranqi-ly/soul-matrix-ai/internal/domain"
)

// PromptBuilder assembles the outbound system and user instructions for the
// model. The system instruction fixes the output schema as contract text in
// either the latin or the localized field-naming convention; ingestion
// accepts both, so the flag only controls what is asked for.
type PromptBuilder struct {
	Localized bool
}

const formattingRules = `Formatting rules, all mandatory:
1. Respond with a single valid JSON object and nothing else.
2. Every key must be double-quoted. No comments, no trailing commas.
3. String values use double quotes, never single quotes.
4. Numeric values are bare numbers without quotes.
5. Reference cases provide an article title only, 10-30 characters, no links.
6. Keep every description under 100 words so the response is not truncated.`

// schemaContract renders the required field list in the chosen convention.
func (b PromptBuilder) schemaContract() string {
	key := func(name string) string {
		aliases := keyAliases[name]
		if b.Localized {
			return aliases[len(aliases)-1]
		}
		return aliases[0]
	}
	dim := func(name string) string {
		aliases := dimensionAliases[name]
		if b.Localized {
			return aliases[len(aliases)-1]
		}
		return aliases[0]
	}
	period := fmt.Sprintf(`{
      %q: "<time range>",
      %q: [{%q: "<task>", %q: "<measurable goal>", %q: "<standard>", %q: "<how>", %q: "<why it matters>", %q: "<deadline>"}],
      %q: [{%q: "<risk>", %q: "<prevention>", %q: "<countermeasure>"}],
      %q: [{"title": "<article title>", "description": "<one line>"}],
      %q: "<assessment with reasoning>"
    }`,
		key("timeRange"),
		key("keyTasks"), key("task"), key("specificGoal"), key("measurementStandard"), key("feasibility"), key("relevance"), key("timeline"),
		key("risks"), key("risk"), key("prevention"), key("countermeasure"),
		key("referenceCases"),
		key("successProbability"))
	dimEntry := fmt.Sprintf(`{%q: <0-100>, %q: ["<specific strength>"], %q: ["<specific challenge>"]}`,
		key("score"), key("strengths"), key("challenges"))
	return fmt.Sprintf(`{
  %q: <0-100>,
  %q: {
    %q: %s,
    %q: %s,
    %q: %s,
    %q: %s,
    %q: %s
  },
  %q: {
    %q: "<age-based analysis>",
    %q: ["<age-related strength>"],
    %q: ["<age-related challenge>"],
    %q: "<relevant real case>",
    %q: {%q: "<peer statistics>", %q: "<reliable data>", %q: ["<factor>"]}
  },
  %q: {
    %q: "<current relationship stage>",
    %q: %s,
    %q: %s,
    %q: %s
  }
}`,
		key("matchScore"),
		key("dimensionAnalysis"),
		dim(domain.DimPersonality), dimEntry,
		dim(domain.DimCommunication), dimEntry,
		dim(domain.DimValues), dimEntry,
		dim(domain.DimLifestyle), dimEntry,
		dim(domain.DimGrowth), dimEntry,
		key("ageAnalysis"),
		key("characteristics"), key("strengths"), key("challenges"), key("referenceCase"),
		key("statistics"), key("peerGroupTraits"), key("successRateData"), key("keyFactors"),
		key("developmentAdvice"),
		key("currentStage"),
		key("shortTerm"), period,
		key("midTerm"), period,
		key("longTerm"), period)
}

// BuildAssess returns the system and user instructions for a dual-participant
// compatibility assessment. Dimension scores computed locally are passed as
// context, not authority; the model produces its own analysis.
func (b PromptBuilder) BuildAssess(p1, p2 domain.Participant, dims1, dims2 map[string]int) (system, user string) {
	j1, _ := json.Marshal(p1)
	j2, _ := json.Marshal(p2)
	d1, _ := json.Marshal(dims1)
	d2, _ := json.Marshal(dims2)
	var sb strings.Builder
	sb.WriteString("You are a professional relationship counselor AI. Analyze the provided assessment data and produce personalized compatibility advice.\n\n")
	sb.WriteString(formattingRules)
	sb.WriteString("\n\nDevelopment advice must be concrete and executable: judge the current stage from the answers, then give short-term (1-3 months), mid-term (3-6 months) and long-term (6+ months) plans, each with tasks, risks, reference reading and a grounded success estimate.\n\n")
	sb.WriteString("Participant 1: " + string(j1) + "\n")
	sb.WriteString("Participant 2: " + string(j2) + "\n")
	sb.WriteString("Questionnaire dimension scores (participant 1): " + string(d1) + "\n")
	sb.WriteString("Questionnaire dimension scores (participant 2): " + string(d2) + "\n\n")
	sb.WriteString("Return the analysis as JSON exactly in this shape:\n\n")
	sb.WriteString(b.schemaContract())
	system = sb.String()
	user = "Provide the analysis and advice based on the assessment above. Keep it concise and actionable."
	return system, user
}

// BuildPredict returns instructions for the free-text prediction variant,
// which works from unstructured profile fields instead of questionnaire
// answers and is parsed as sectioned text rather than JSON.
func (b PromptBuilder) BuildPredict(p1, p2 domain.PredictProfile) (system, user string) {
	system = "You are a professional relationship analyst. Analyze how well two people match based on their profiles and give detailed, practical advice."
	user = fmt.Sprintf(`Analyze the compatibility of the following two people:

Person 1:
Name: %s
Gender: %s
Age: %d
Interests: %s
Values: %s
Lifestyle: %s

Person 2:
Name: %s
Gender: %s
Age: %d
Interests: %s
Values: %s
Lifestyle: %s

Provide:
1. An overall match score (0-100)
2. Analysis: complementary strengths and common ground
3. Challenges: potential friction points
4. Recommendations: concrete suggestions, as a numbered list`,
		p1.Name, p1.Gender, p1.Age, p1.Interests, p1.Values, p1.Lifestyle,
		p2.Name, p2.Gender, p2.Age, p2.Interests, p2.Values, p2.Lifestyle)
	return system, user
}
