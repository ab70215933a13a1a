package notes

import "time"

// Note es una nota médica/de comportamiento asociada a un perro.
type Note struct {
	ID        string
	DogID     string
	Text      string
	Date      time.Time
	CreatedBy string
}
