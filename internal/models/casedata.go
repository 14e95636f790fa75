package models

import "slices"

type Suspect struct {
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Backstory   string   `json:"backstory"`
	Motive      string   `json:"motive"`
	Alibi       string   `json:"alibi"`
	Personality string   `json:"personality"`
	Secrets     []string `json:"secrets"`
}

type Evidence struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	// LinkedTo holds indexes into [CaseData.Suspects].
	LinkedTo   []int    `json:"linkedTo"`
	FalseLeads []string `json:"falseLeads"`
}

// VillainProfile is the archetype the culprit plays when interrogated.
type VillainProfile struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Archetype   string `json:"archetype" yaml:"archetype"`
	Description string `json:"description" yaml:"description"`
	// SuperPrompt is the role instruction given to the model answering for the culprit.
	SuperPrompt      string   `json:"superPrompt" yaml:"superPrompt"`
	DeceptionTactics []string `json:"deceptionTactics" yaml:"deceptionTactics"`
	Weaknesses       []string `json:"weaknesses" yaml:"weaknesses"`
	Strengths        []string `json:"strengths" yaml:"strengths"`
}

// Clone returns a deep copy of p.
func (p VillainProfile) Clone() VillainProfile {
	p.DeceptionTactics = slices.Clone(p.DeceptionTactics)
	p.Weaknesses = slices.Clone(p.Weaknesses)
	p.Strengths = slices.Clone(p.Strengths)
	return p
}

// CaseData is a generated mystery. Progression only reads CaseID and ChapterID, the rest is passed through.
type CaseData struct {
	CaseID      string    `json:"caseId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Suspects    []Suspect `json:"suspects"`
	// Culprit is an index into Suspects.
	Culprit        int             `json:"culprit"`
	CulpritProfile *VillainProfile `json:"culpritProfile,omitempty"`
	Evidence       []Evidence      `json:"evidence"`
	Timeline       string          `json:"timeline"`
	Location       string          `json:"location"`
	Difficulty     Difficulty      `json:"difficulty"`
	ChapterID      string          `json:"chapterId,omitempty"`
}

// SessionStats are the counters of the case being played.
type SessionStats struct {
	QuestionsAsked     int `json:"questionsAsked"`
	HintsUsed          int `json:"hintsUsed"`
	MinigamesCompleted int `json:"minigamesCompleted"`
}

// Exchange is one question put to a suspect and the suspect's answer.
type Exchange struct {
	// Suspect is an index into [CaseData.Suspects].
	Suspect  int    `json:"suspect"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ActiveSession is the in-progress play of a case.
type ActiveSession struct {
	CaseData CaseData `json:"caseData"`
	// StartTime is in Unix milliseconds.
	StartTime int64        `json:"startTime"`
	Notes     string       `json:"notes"`
	Stats     SessionStats `json:"stats"`
	// Transcript holds the interrogations in the order they were held.
	Transcript []Exchange `json:"transcript,omitempty"`
}

// Conversation returns the exchanges with suspect in order.
func (s ActiveSession) Conversation(suspect int) []Exchange {
	var conversation []Exchange
	for _, e := range s.Transcript {
		if e.Suspect == suspect {
			conversation = append(conversation, e)
		}
	}
	return conversation
}

// CaseStats are the play statistics reported when a case is closed.
type CaseStats struct {
	// TimeSpent is in milliseconds.
	TimeSpent          int64 `json:"timeSpent"`
	QuestionsAsked     int   `json:"questionsAsked"`
	HintsUsed          int   `json:"hintsUsed"`
	MinigamesCompleted int   `json:"minigamesCompleted"`
}

// CaseResult is the graded outcome of one closed case.
type CaseResult struct {
	CaseID             string `json:"caseId"`
	ChapterID          string `json:"chapterId"`
	Grade              Grade  `json:"grade"`
	TimeSpent          int64  `json:"timeSpent"`
	QuestionsAsked     int    `json:"questionsAsked"`
	HintsUsed          int    `json:"hintsUsed"`
	CorrectAccusation  bool   `json:"correctAccusation"`
	MinigamesCompleted int    `json:"minigamesCompleted"`
	ExperienceGained   int    `json:"experienceGained"`
	// AchievementsUnlocked holds the achievement ids newly unlocked by this case.
	AchievementsUnlocked []string `json:"achievementsUnlocked"`
}
