package entity

import "github.com/google/uuid"

// Job задание на распознавание одного снимка.
type Job struct {
	ID          string
	Source      string // путь к исходному снимку
	Destination string // путь для размеченного снимка, пустой если не нужен
}

// NewJob создаёт задание с новым идентификатором.
func NewJob(source, destination string) Job {
	return Job{
		ID:          uuid.NewString(),
		Source:      source,
		Destination: destination,
	}
}

// JobOutcome результат выполнения задания.
type JobOutcome struct {
	Job    Job
	Result *PlateResult
	Err    error
}
