package models

// Chapter is a static campaign chapter definition.
//
// Whether a chapter is unlocked is derived from [CampaignProgress] and never stored.
type Chapter struct {
	ID             string `json:"id" yaml:"id"`
	Number         int    `json:"number" yaml:"number"`
	Title          string `json:"title" yaml:"title"`
	Description    string `json:"description" yaml:"description"`
	CasesRequired  int    `json:"casesRequired" yaml:"casesRequired"`
	Theme          Theme  `json:"theme" yaml:"theme"`
	MastermindClue string `json:"mastermindClue" yaml:"mastermindClue"`
}

// StoryProgress holds the narrative flags of the campaign.
type StoryProgress struct {
	IntroductionComplete bool        `json:"introductionComplete"`
	MastermindRevealed   bool        `json:"mastermindRevealed"`
	FinalConfrontation   bool        `json:"finalConfrontation"`
	EndingType           *EndingType `json:"endingType"`
}

// CampaignProgress tracks where the detective is in the campaign.
type CampaignProgress struct {
	// CurrentChapter is the 1-based number of the active chapter.
	CurrentChapter int `json:"currentChapter"`
	// ChaptersCompleted holds chapter numbers in completion order without duplicates.
	ChaptersCompleted []int `json:"chaptersCompleted"`
	// CasesInChapter counts cases closed since the current chapter started.
	CasesInChapter      int `json:"casesInChapter"`
	TotalCasesCompleted int `json:"totalCasesCompleted"`
	// MastermindCluesFound holds the clue texts in discovery order.
	MastermindCluesFound []string      `json:"mastermindCluesFound"`
	StoryProgress        StoryProgress `json:"storyProgress"`
}
