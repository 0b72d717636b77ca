package main

import (
	"fmt"

	"github.com/pbanos/grove/forest"
	"github.com/spf13/cobra"
)

type testCmdConfig struct {
	*growCmdConfig
	testInput string
}

func testCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &testCmdConfig{growCmdConfig: &growCmdConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the performance of a tree",
		Long:  `Grow a tree from a training set and test its accuracy against a test set, before and after pruning it if a validation set is given`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				exit(1, err)
			}
			config.Setup(cmd, 1)
			ctx := config.Context()
			logger := config.Logger()
			trainingSet, _, err := readSet(ctx, logger, config.dataInput, "training")
			if err != nil {
				exit(2, err)
			}
			testingSet, _, err := readSet(ctx, logger, config.testInput, "testing")
			if err != nil {
				exit(3, err)
			}
			root, err := config.grow(trainingSet)
			if err != nil {
				exit(4, err)
			}
			accuracy, err := root.Accuracy(testingSet)
			if err != nil {
				exit(5, fmt.Errorf("testing tree: %v", err))
			}
			fmt.Printf("%f accuracy on %d examples\n", accuracy, len(testingSet))
			if config.validationInput == "" {
				return
			}
			validationSet, _, err := readSet(ctx, logger, config.validationInput, "validation")
			if err != nil {
				exit(6, err)
			}
			_, err = config.prune(root, validationSet)
			if err != nil {
				exit(7, err)
			}
			accuracy, err = root.Accuracy(testingSet)
			if err != nil {
				exit(8, fmt.Errorf("testing pruned tree: %v", err))
			}
			fmt.Printf("%f accuracy on %d examples after pruning\n", accuracy, len(testingSet))
		},
	}
	cmd.Flags().StringVarP(&(config.dataInput), "input", "i", "", inputFlagUsage+" with the training set (required)")
	cmd.Flags().StringVarP(&(config.testInput), "test", "t", "", inputFlagUsage+" with the test set (defaults to STDIN, interpreted as CSV)")
	cmd.Flags().StringVar(&(config.validationInput), "validation", "", inputFlagUsage+" with a validation set to prune the tree with")
	cmd.Flags().StringVarP(&(config.defaultLabel), "default-label", "d", forest.DefaultLabel, "label for branches without training examples")
	cmd.Flags().BoolVar(&(config.strictPruning), "strict-pruning", false, "keep a pruned subtree only if it improves validation accuracy")
	return cmd
}

func (tcc *testCmdConfig) Validate() error {
	if tcc.dataInput == "" {
		return fmt.Errorf("required input flag was not set")
	}
	return nil
}
