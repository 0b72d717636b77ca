package main

import (
	"github.com/pbanos/grove"
	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/forest"
	"github.com/pbanos/grove/server"
	"github.com/spf13/cobra"
)

type serveCmdConfig struct {
	*growCmdConfig
	forest bool
}

func serveCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &serveCmdConfig{growCmdConfig: &growCmdConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve predictions over HTTP",
		Long:  `Grow a tree, or train a forest, from a training set and serve its predictions over HTTP until interrupted`,
		Run: func(cmd *cobra.Command, args []string) {
			config.Setup(cmd, 1)
			ctx := config.Context()
			logger := config.Logger()
			settings := config.Settings()
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
			var model grove.Model
			if config.forest {
				model, err = forest.Train(ctx, trainingSet, settings.Forest.Trees,
					forest.WithRand(newRand(settings.Forest.Seed)),
					forest.WithWorkers(settings.Forest.Workers),
					forest.WithDefaultLabel(config.defaultLabel),
					forest.WithLogger(logger),
				)
				if err != nil {
					exit(4, err)
				}
			} else {
				root, err := config.grow(trainingSet)
				if err != nil {
					exit(4, err)
				}
				if len(validationSet) > 0 {
					if _, err = config.prune(root, validationSet); err != nil {
						exit(5, err)
					}
				}
				model = root
			}
			err = server.New(model, logger).Run(ctx, settings.Server.Addr)
			if err != nil {
				exit(6, err)
			}
		},
	}
	cmd.Flags().StringVarP(&(config.dataInput), "input", "i", "", inputFlagUsage+" with the training set (defaults to STDIN, interpreted as CSV)")
	cmd.Flags().StringVar(&(config.validationInput), "validation", "", inputFlagUsage+" with a validation set to prune the tree with")
	cmd.Flags().StringVarP(&(config.defaultLabel), "default-label", "d", forest.DefaultLabel, "label for branches without training examples")
	cmd.Flags().BoolVar(&(config.forest), "forest", false, "serve a random forest instead of a single tree")
	cmd.Flags().IntP("trees", "n", 50, "number of trees in the forest")
	cmd.Flags().String("addr", ":8080", "address to listen on")
	bind(cmd.Flags().Lookup("trees"), "forest.trees")
	bind(cmd.Flags().Lookup("addr"), "server.addr")
	return cmd
}
