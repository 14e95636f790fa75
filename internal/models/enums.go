package models

// Difficulty of a generated case. It drives the experience base and the size of the generated case.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Theme is the crime theme of a chapter.
type Theme string

const (
	ThemeCorporate  Theme = "corporate"
	ThemePassion    Theme = "passion"
	ThemeOrganized  Theme = "organized"
	ThemeRevenge    Theme = "revenge"
	ThemeConspiracy Theme = "conspiracy"
)

// Valid reports whether t is one of the known themes.
func (t Theme) Valid() bool {
	switch t {
	case ThemeCorporate, ThemePassion, ThemeOrganized, ThemeRevenge, ThemeConspiracy:
		return true
	}
	return false
}

// Grade is the letter grade of a closed case, S being the best.
type Grade string

const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// AtLeast reports whether g is equal to or better than other.
func (g Grade) AtLeast(other Grade) bool {
	return gradeRank(g) >= gradeRank(other)
}

func gradeRank(g Grade) int {
	switch g {
	case GradeS:
		return 5 //nolint:mnd // ordinal
	case GradeA:
		return 4 //nolint:mnd // ordinal
	case GradeB:
		return 3 //nolint:mnd // ordinal
	case GradeC:
		return 2 //nolint:mnd // ordinal
	case GradeD:
		return 1
	}
	return 0
}

// EndingType describes how the campaign concluded.
type EndingType string

const (
	// EndingPerfect means every case was solved with grade A or better.
	EndingPerfect EndingType = "perfect"
	// EndingGood means the mastermind was caught with a good overall record.
	EndingGood EndingType = "good"
	// EndingNeutral means a mixed record.
	EndingNeutral EndingType = "neutral"
	// EndingBittersweet means the cases were closed but too many accusations missed.
	EndingBittersweet EndingType = "bittersweet"
)
