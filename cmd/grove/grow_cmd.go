package main

import (
	"fmt"

	"github.com/pbanos/grove"
	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/forest"
	"github.com/pbanos/grove/tree"
	"github.com/spf13/cobra"
)

type growCmdConfig struct {
	*rootCmdConfig
	dataInput       string
	validationInput string
	defaultLabel    string
	strictPruning   bool
	sequential      bool
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a set of data",
		Long:  `Grow an ID3 tree from a set of data to predict its Class, optionally pruning it against a validation set, and print it`,
		Run: func(cmd *cobra.Command, args []string) {
			config.Setup(cmd, 1)
			ctx := config.Context()
			logger := config.Logger()
			trainingSet, _, err := readSet(ctx, logger, config.dataInput, "training")
			if err != nil {
				exit(2, err)
			}
			var validationSet []dataset.Example
			if config.validationInput != "" {
				validationSet, _, err = readSet(ctx, logger, config.validationInput, "validation")
				if err != nil {
					exit(3, err)
				}
			}
			root, err := config.grow(trainingSet)
			if err != nil {
				exit(4, err)
			}
			if validationSet != nil {
				report, err := config.prune(root, validationSet)
				if err != nil {
					exit(5, err)
				}
				fmt.Printf("pruned %d of %d subtrees, validation accuracy %f -> %f\n", report.Pruned, report.Trials, report.AccuracyBefore, report.AccuracyAfter)
			}
			fmt.Print(root)
		},
	}
	cmd.Flags().StringVarP(&(config.dataInput), "input", "i", "", inputFlagUsage+" with the training set (defaults to STDIN, interpreted as CSV)")
	cmd.Flags().StringVar(&(config.validationInput), "validation", "", inputFlagUsage+" with a validation set to prune the tree with (no pruning if not set)")
	cmd.Flags().StringVarP(&(config.defaultLabel), "default-label", "d", forest.DefaultLabel, "label for branches without training examples")
	cmd.Flags().BoolVar(&(config.strictPruning), "strict-pruning", false, "keep a pruned subtree only if it improves validation accuracy")
	cmd.Flags().BoolVar(&(config.sequential), "sequential", false, "develop sibling subtrees one after another")
	return cmd
}

func (gcc *growCmdConfig) grow(trainingSet []dataset.Example) (*tree.Node, error) {
	var opts []grove.Option
	if gcc.sequential {
		opts = append(opts, grove.Sequential())
	}
	gcc.Logger().Infof("Growing tree from a set with %d examples...", len(trainingSet))
	root, err := grove.Grow(gcc.Context(), trainingSet, gcc.defaultLabel, opts...)
	if err != nil {
		return nil, fmt.Errorf("growing the tree: %v", err)
	}
	nodes, leaves := root.Size()
	gcc.Logger().Infof("Grown tree with %d nodes, %d leaves and depth %d", nodes, leaves, root.Depth())
	return root, nil
}

func (gcc *growCmdConfig) prune(root *tree.Node, validationSet []dataset.Example) (*grove.PruneReport, error) {
	var opts []grove.PruneOption
	if gcc.strictPruning {
		opts = append(opts, grove.StrictImprovement())
	}
	gcc.Logger().Infof("Pruning tree against a set with %d examples...", len(validationSet))
	report, err := grove.Prune(gcc.Context(), root, validationSet, opts...)
	if err != nil {
		return nil, fmt.Errorf("pruning the tree: %v", err)
	}
	return report, nil
}
