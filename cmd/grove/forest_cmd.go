package main

import (
	"fmt"
	"math/rand"

	"github.com/pbanos/grove"
	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/experiment"
	"github.com/pbanos/grove/forest"
	"github.com/spf13/cobra"
)

type forestCmdConfig struct {
	*rootCmdConfig
	dataInput    string
	testInput    string
	defaultLabel string
}

func forestCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &forestCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "forest",
		Short: "Train a random forest and test it",
		Long:  `Train a random forest on a training set and report its accuracy and that of a single tree on a test set. Without a test set, a fifth of the training set is held out for testing.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				exit(1, err)
			}
			config.Setup(cmd, 1)
			ctx := config.Context()
			logger := config.Logger()
			settings := config.Settings().Forest
			r := newRand(settings.Seed)
			trainingSet, _, err := readSet(ctx, logger, config.dataInput, "training")
			if err != nil {
				exit(2, err)
			}
			var testingSet []dataset.Example
			if config.testInput != "" {
				testingSet, _, err = readSet(ctx, logger, config.testInput, "testing")
				if err != nil {
					exit(3, err)
				}
			} else {
				trainingSet, testingSet = holdOut(trainingSet, r)
			}
			f, err := forest.Train(ctx, trainingSet, settings.Trees,
				forest.WithRand(r),
				forest.WithWorkers(settings.Workers),
				forest.WithDefaultLabel(config.defaultLabel),
				forest.WithLogger(logger),
			)
			if err != nil {
				exit(4, fmt.Errorf("training forest: %v", err))
			}
			root, err := grove.Grow(ctx, dataset.Clone(trainingSet), config.defaultLabel)
			if err != nil {
				exit(5, fmt.Errorf("growing tree: %v", err))
			}
			for _, m := range []struct {
				name  string
				model grove.Model
			}{{"single tree", root}, {fmt.Sprintf("forest of %d trees", settings.Trees), f}} {
				accuracy, err := m.model.Accuracy(testingSet)
				if err != nil {
					exit(6, fmt.Errorf("testing %s: %v", m.name, err))
				}
				fmt.Printf("%s: %f accuracy on %d examples\n", m.name, accuracy, len(testingSet))
			}
		},
	}
	cmd.Flags().StringVarP(&(config.dataInput), "input", "i", "", inputFlagUsage+" with the training set (defaults to STDIN, interpreted as CSV)")
	cmd.Flags().StringVarP(&(config.testInput), "test", "t", "", inputFlagUsage+" with the test set")
	cmd.Flags().StringVarP(&(config.defaultLabel), "default-label", "d", forest.DefaultLabel, "label for branches without training examples")
	cmd.Flags().IntP("trees", "n", 50, "number of trees in the forest")
	cmd.Flags().Int("workers", 0, "number of trees grown at the same time (defaults to the number of CPUs)")
	cmd.Flags().Int64("seed", 0, "seed for the random draws (defaults to the time)")
	bind(cmd.Flags().Lookup("trees"), "forest.trees")
	bind(cmd.Flags().Lookup("workers"), "forest.workers")
	bind(cmd.Flags().Lookup("seed"), "forest.seed")
	return cmd
}

func (fcc *forestCmdConfig) Validate() error {
	if fcc.dataInput == "" && fcc.testInput == "" {
		return nil
	}
	if fcc.dataInput == fcc.testInput {
		return fmt.Errorf("input and test flags must name different sets")
	}
	return nil
}

// holdOut shuffles the examples and splits them 80/20
func holdOut(examples []dataset.Example, r *rand.Rand) ([]dataset.Example, []dataset.Example) {
	shuffled := dataset.Shuffle(examples, r)
	return experiment.SplitSets(shuffled, len(shuffled)-4*len(shuffled)/5)
}
