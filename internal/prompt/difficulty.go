package prompt

// Difficulty is a rough indicator of how likely the model is to lose track
// of the assembled context, keyed off the number of included files.
type Difficulty int

const (
	Easy Difficulty = iota
	Moderate
	Hard
)

// DifficultyFor maps an included-file count to a difficulty level:
// up to 2 files is Easy, 3-5 Moderate, 6 or more Hard.
func DifficultyFor(fileCount int) Difficulty {
	switch {
	case fileCount <= 2:
		return Easy
	case fileCount <= 5:
		return Moderate
	default:
		return Hard
	}
}

func (d Difficulty) String() string {
	switch d {
	case Moderate:
		return "Moderate"
	case Hard:
		return "Hard"
	default:
		return "Easy"
	}
}

// Hint explains the level in terms of hallucination risk.
func (d Difficulty) Hint() string {
	switch d {
	case Moderate:
		return "Slight risk of hallucinating"
	case Hard:
		return "High risk of hallucinating"
	default:
		return "Low risk of hallucinating"
	}
}
