package assess

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SystemPrompt is the fixed system instruction sent with every
// completion request.
const SystemPrompt = "You are an expert insurance policy analyzer. Always respond with valid JSON following the specified format exactly. Be highly conservative in your assessments and ensure explanations are exactly 40 words."

// analysisPromptTemplate is the behavioral contract with the model.
// Treat it as configuration data: wording changes shift output quality,
// so keep edits deliberate. The scoring framework and band list are
// injected from bandRanges so prompt and validator cannot drift apart.
const analysisPromptTemplate = `
You are an expert insurance policy analyzer specializing in Product Disclosure Statements (PDS) and Schedules of Coverage. You must conduct a meticulous and conservative analysis of the %[1]s insurance documentation to answer the user's coverage question.

INSURANCE DOCUMENTS:
%[2]s

USER QUESTION: %[3]s

INSURANCE TYPE: %[4]s Insurance

ANALYSIS REQUIREMENTS:
1. Conduct a deep, comprehensive review of ALL relevant clauses, definitions, exclusions, and conditions specific to %[1]s insurance
2. Ensure strict alignment between the user's question and relevant policy terms
3. Avoid conflation of unrelated coverage areas
4. Search thoroughly for dependencies, gaps, or ambiguities
5. If multiple parties may be responsible (builders, subcontractors, engineers), flag this complexity
6. Use highly cautious framework for confidence scoring
7. If mentioning 'listed events', include at least one concrete example from the policy

CONFIDENCE SCORING FRAMEWORK:
%[5]s

Only exceed 65%% when documentation clearly supports coverage without major contingencies. If coverage depends on specific perils, conditional clauses, or unknown circumstances, assign mid-range or lower percentage.

RESPONSE FORMAT (JSON):
{
    "score": [integer 0-100],
    "band": "[%[6]s]",
    "explanation": "[EXACTLY 40 words explaining the assessment, referencing relevant PDS/Schedule terms. Include third-party liability flags if applicable and listed event examples if relevant.]"
}

IMPORTANT:
- Base analysis ONLY on provided documentation
- Maintain highly factual, neutral, professional tone
- Avoid speculation or overconfidence
- Provide conservative assessments with disclaimers for ambiguity
- Focus on policy interpretation, not legal advice

Respond with valid JSON only.
`

// BuildPrompt renders the analysis prompt for one request. The output
// is deterministic for a given input triple.
func BuildPrompt(structuredText, question, insuranceType string) string {
	return fmt.Sprintf(analysisPromptTemplate,
		insuranceType,
		structuredText,
		question,
		titleCase(insuranceType),
		scoringFramework(),
		strings.Join(bandNames(), "/"),
	)
}

// titleCase renders "home" as "Home". A fresh Caser per call because
// cases.Caser is not safe for concurrent use.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}
