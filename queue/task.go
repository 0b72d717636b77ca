package queue

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind identifies the trial a task runs
type Kind string

const (
	// CurveTrial grows a tree on a training set of a given size and
	// scores it on the test set before and after pruning it with a
	// validation set.
	CurveTrial Kind = "curve"
	// CompareTrial splits the data 80/20 and scores a single tree
	// against a forest on the test part.
	CompareTrial Kind = "compare"
)

// Task represents a trial to be run by a worker
// and, once completed, its scores.
type Task struct {
	// ID identifies the task on its queue
	ID string `json:"id"`
	// Kind of trial to run
	Kind Kind `json:"kind"`
	// TrainSize is the number of examples in the training
	// and validation sets of a curve trial together
	TrainSize int `json:"train_size,omitempty"`
	// Trees is the size of the forest of a compare trial
	Trees int `json:"trees,omitempty"`
	// DataSeed seeds the split of the data shared by all
	// the trials of an experiment
	DataSeed int64 `json:"data_seed"`
	// Seed seeds the randomness of this trial alone
	Seed int64 `json:"seed"`
	// Scores holds the accuracies measured by the trial
	// once it is completed, by name
	Scores map[string]float64 `json:"scores,omitempty"`
}

// NewTask returns a task of the given kind with a fresh ID
func NewTask(kind Kind, dataSeed, seed int64) *Task {
	return &Task{
		ID:       uuid.New().String(),
		Kind:     kind,
		DataSeed: dataSeed,
		Seed:     seed,
	}
}

func (t *Task) String() string {
	return fmt.Sprintf("{Task %s %s}", t.Kind, t.ID)
}
