package ai

import (
	"fmt"
	"strings"

	"github.com/myrjola/casefile/internal/models"
)

var difficultyGuides = map[models.Difficulty]string{
	models.DifficultyEasy:   "Simple, straightforward crime with obvious motives and clear evidence",
	models.DifficultyMedium: "Moderate complexity with some misdirection and subtle clues",
	models.DifficultyHard:   "Complex crime with multiple layers, sophisticated deception, and interconnected clues",
}

var themePrompts = map[models.Theme]string{
	models.ThemeCorporate:  "Theme: Corporate espionage, white-collar crime, high-stakes business.",
	models.ThemePassion:    "Theme: Crime of passion, romantic entanglement, jealousy.",
	models.ThemeOrganized:  "Theme: Organized crime, mafia connections, underground gambling.",
	models.ThemeRevenge:    "Theme: Long-held grudge, calculated revenge plot.",
	models.ThemeConspiracy: "Theme: Political conspiracy, cover-ups, secret societies.",
}

// counts returns how many suspects and pieces of evidence a case of difficulty d has.
func counts(d models.Difficulty) (int, int) {
	switch d { //nolint:exhaustive // medium is the default
	case models.DifficultyEasy:
		return 2, 4 //nolint:mnd // table
	case models.DifficultyHard:
		return 4, 8 //nolint:mnd // table
	}
	return 3, 6 //nolint:mnd // table
}

func frameworkPrompt(params GenerationParams) string {
	var b strings.Builder
	guide, ok := difficultyGuides[params.Difficulty]
	if !ok {
		guide = difficultyGuides[models.DifficultyMedium]
	}
	fmt.Fprintf(&b, "Create a police case framework for a detective game. Difficulty: %s", guide)
	if params.Theme != "" {
		theme, known := themePrompts[params.Theme]
		if !known {
			theme = "Theme: " + string(params.Theme)
		}
		b.WriteString("\n" + theme)
	}
	b.WriteString(`

Return JSON:
{
  "crimeType": "type of crime",
  "title": "catchy case title",
  "location": "where it happened",
  "timeline": "when it happened",
  "basicDescription": "2-3 sentence overview"
}`)
	return b.String()
}

func suspectsPrompt(f framework, suspectCount int) string {
	return fmt.Sprintf(`Generate %d suspects for this crime: %s
Location: %s
Crime type: %s

One of them is the culprit. Create diverse characters with different motives.

Return JSON array:
[
  {
    "name": "full name",
    "role": "occupation/relationship to victim",
    "backstory": "personal background (2-3 sentences)",
    "motive": "why they might commit this crime",
    "alibi": "their claimed alibi",
    "personality": "how they act under interrogation (nervous, confident, defensive, etc)",
    "secrets": ["secret 1", "secret 2"]
  }
]

Make the suspects realistic and complex. Include at least one red herring.`,
		suspectCount, f.Title, f.Location, f.CrimeType)
}

func evidencePrompt(f framework, suspects []models.Suspect, culprit int, evidenceCount int, mastermindClue string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `Generate %d pieces of evidence for this crime: %s
Suspects: %s

Create evidence that:
1. Points to the culprit (suspect %d)
2. Creates false leads for other suspects
3. Includes physical evidence, testimonies, and digital traces
4. Has varying levels of reliability`, evidenceCount, f.Title, suspectNames(suspects), culprit)
	if mastermindClue != "" {
		fmt.Fprintf(&b, "\n\nIMPORTANT: Include one specific piece of evidence that subtly hints at a larger "+
			"conspiracy or \"The Architect\", related to this clue: %q. This should be subtle.", mastermindClue)
	}
	b.WriteString(`

Return JSON array:
[
  {
    "name": "evidence name",
    "description": "what it is and where found",
    "linkedTo": [suspect indices it implicates],
    "falseLeads": ["misleading interpretation 1", "misleading interpretation 2"]
  }
]

Make evidence realistic and interconnected.`)
	return b.String()
}

func timelinePrompt(f framework, suspects []models.Suspect) string {
	return fmt.Sprintf(`Create a detailed timeline for this crime: %s
Location: %s
Suspects: %s

Generate a realistic timeline with:
- When the crime occurred
- Key events before and after
- When suspects were seen
- When evidence was discovered

Format as a readable timeline (not JSON).`, f.Title, f.Location, suspectNames(suspects))
}

func suspectNames(suspects []models.Suspect) string {
	names := make([]string, len(suspects))
	for i, s := range suspects {
		names[i] = s.Name
	}
	return strings.Join(names, ", ")
}

const innocentStrategy = `YOU ARE INNOCENT - COOPERATION STRATEGY:
1. TRUTHFUL ALIBI: Give consistent and detailed alibi information.
2. HELPFUL: Offer information that could help find the real culprit.
3. GENUINE EMOTION: Show natural confusion and worry about the accusations.
4. EXPLAIN EVIDENCE: Explain logically any suspicious evidence against you.
5. POINT AT THE CULPRIT: If you know something suspicious about others, mention it.
6. CONSISTENCY: Your story must be solid because it is the truth.
7. FRUSTRATION: Show fitting frustration at being a suspect.
8. COOPERATION: Offer to help the investigation move forward.`

func suspectSystemPrompt(c models.CaseData, suspect int) string {
	s := c.Suspects[suspect]
	var b strings.Builder
	fmt.Fprintf(&b, `You are %s, a suspect in a criminal investigation.

CASE DETAILS:
- Crime: %s
- Location: %s
- Your role: %s

YOUR CHARACTER:
- Backstory: %s
- Alibi: %s
- Personality: %s
- Known secrets: %s

`, s.Name, c.Title, c.Location, s.Role, s.Backstory, s.Alibi, s.Personality, strings.Join(s.Secrets, ", "))

	switch {
	case suspect != c.Culprit:
		b.WriteString(innocentStrategy)
	case c.CulpritProfile == nil:
		b.WriteString("YOU ARE THE CULPRIT. Deny it and protect your alibi, but slip up under sharp questioning.")
	default:
		p := c.CulpritProfile
		fmt.Fprintf(&b, "YOU ARE THE CULPRIT.\n\nVILLAIN ARCHETYPE: %s\n%s\n\nDECEPTION TACTICS TO USE:\n%s\n\n"+
			"EXPLOIT THESE WEAKNESSES IN YOUR DEFENSE:\n%s",
			p.Archetype, p.SuperPrompt, bulletList(p.DeceptionTactics), bulletList(p.Weaknesses))
	}
	b.WriteString("\n\nIMPORTANT: Stay in character and act naturally and believably.")
	return b.String()
}

func analysisPrompt(s models.Suspect, history []models.Exchange, latest models.Exchange) string {
	statements := make([]string, 0, 2*len(history)) //nolint:mnd // question and answer
	for _, e := range history {
		statements = append(statements, "Detective: "+e.Question, s.Name+": "+e.Answer)
	}
	return fmt.Sprintf(`Analyze this interrogation answer for deception and inconsistencies.

SUSPECT: %s
ROLE: %s
ALIBI: %s

QUESTION ASKED: %q
ANSWER: %q

PREVIOUS STATEMENTS:
%s

Analyze for:
1. Inconsistencies with previous statements
2. Signs of deception (hesitation, over-explaining, deflection)
3. Logical contradictions
4. Emotional incongruence

Return JSON:
{
  "inconsistencies": ["inconsistency 1", "inconsistency 2"],
  "suspicionScore": 0.0-1.0,
  "deceptionIndicators": ["indicator 1", "indicator 2"],
  "recommendations": ["follow-up question 1", "follow-up question 2"]
}`, s.Name, s.Role, s.Alibi, latest.Question, latest.Answer, strings.Join(statements, "\n"))
}

func hintsPrompt(c models.CaseData, progress []byte) string {
	evidence := make([]string, len(c.Evidence))
	for i, e := range c.Evidence {
		evidence[i] = e.Name
	}
	return fmt.Sprintf(`Generate investigation hints for a detective game.

CASE: %s
SUSPECTS: %s
EVIDENCE: %s

Current progress: %s

Generate 3-4 strategic hints that:
1. Point towards important evidence
2. Suggest effective interrogation angles
3. Highlight suspicious patterns
4. Do not reveal the culprit directly

Return a JSON array of strings.`, c.Title, suspectNames(c.Suspects), strings.Join(evidence, ", "), progress)
}

func bulletList(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}
