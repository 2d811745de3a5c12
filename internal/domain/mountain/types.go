package mountain

type Difficulty string

const (
	DifficultyEasy     Difficulty = "Easy"
	DifficultyModerate Difficulty = "Moderate"
	DifficultyHard     Difficulty = "Hard"
	DifficultyExpert   Difficulty = "Expert"
)

func (d Difficulty) String() string {
	return string(d)
}

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyModerate, DifficultyHard, DifficultyExpert:
		return true
	default:
		return false
	}
}

func NewDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	if !d.IsValid() {
		return "", ErrInvalidDifficulty
	}
	return d, nil
}
