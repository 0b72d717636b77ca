package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pbanos/grove/config"
	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/experiment"
	"github.com/pbanos/grove/queue"
	"github.com/pbanos/grove/queue/json"
	"github.com/pbanos/grove/queue/redisq"
	"github.com/spf13/cobra"
	redis "gopkg.in/redis.v5"
)

type experimentCmdConfig struct {
	*rootCmdConfig
	dataInput    string
	defaultLabel string
	useRedis     bool
}

type curveCmdConfig struct {
	*experimentCmdConfig
	csvOutput  string
	plotOutput string
}

func (ecc *experimentCmdConfig) flags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&(ecc.dataInput), "input", "i", "", inputFlagUsage+" with the examples (defaults to STDIN, interpreted as CSV)")
	cmd.Flags().StringVarP(&(ecc.defaultLabel), "default-label", "d", "", "label for branches without training examples")
	cmd.Flags().BoolVar(&(ecc.useRedis), "redis", false, "share the trials through a redis queue so that work commands can help running them")
	cmd.Flags().Int("workers", 0, "number of trials run at the same time (defaults to 1)")
	cmd.Flags().Int64("seed", 0, "seed for the random draws (defaults to the time)")
	bind(cmd.Flags().Lookup("workers"), "experiment.workers")
	bind(cmd.Flags().Lookup("seed"), "experiment.seed")
	bind(cmd.Flags().Lookup("default-label"), "experiment.default_label")
}

func curveCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &curveCmdConfig{experimentCmdConfig: &experimentCmdConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Measure the learning curve of trees with and without pruning",
		Long:  `Grow trees on training sets of increasing size, repeatedly, and measure their mean accuracy on a held out test set before and after pruning them with a fifth of the training examples`,
		Run: func(cmd *cobra.Command, args []string) {
			config.Setup(cmd, 1)
			examples := config.examples()
			curve, comparison := experimentSettings(config.Settings().Experiment)
			if err := curve.Validate(); err != nil {
				exit(1, err)
			}
			tasks := curve.Tasks(newRand(config.Settings().Experiment.Seed))
			results := config.run(examples, curve, comparison, tasks)
			points := experiment.SummarizeCurve(results)
			out := os.Stdout
			if config.csvOutput != "" {
				f, err := os.Create(config.csvOutput)
				if err != nil {
					exit(7, err)
				}
				defer f.Close()
				out = f
			}
			if err := experiment.WriteCurveCSV(out, points); err != nil {
				exit(7, err)
			}
			if config.plotOutput != "" {
				if err := experiment.PlotCurve(points, config.plotOutput); err != nil {
					exit(8, err)
				}
			}
		},
	}
	config.flags(cmd)
	cmd.Flags().StringVarP(&(config.csvOutput), "output", "o", "", "path to a CSV file to write the curve to (defaults to STDOUT)")
	cmd.Flags().StringVarP(&(config.plotOutput), "plot", "p", "", "path to an image file (.png, .svg, .pdf) to plot the curve on")
	cmd.Flags().Int("repeats", 100, "number of trials per training size")
	cmd.Flags().Int("min-train-size", 10, "smallest training size")
	cmd.Flags().Int("max-train-size", 300, "largest training size, the remaining examples are used for testing")
	cmd.Flags().Int("step", 2, "increment between training sizes")
	bind(cmd.Flags().Lookup("repeats"), "experiment.repeats")
	bind(cmd.Flags().Lookup("min-train-size"), "experiment.min_train_size")
	bind(cmd.Flags().Lookup("max-train-size"), "experiment.max_train_size")
	bind(cmd.Flags().Lookup("step"), "experiment.step")
	return cmd
}

func compareCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &experimentCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare single trees against random forests",
		Long:  `Repeatedly split the examples 80/20 and measure the accuracy of a single tree and of a random forest grown on the larger part against the smaller one`,
		Run: func(cmd *cobra.Command, args []string) {
			config.Setup(cmd, 1)
			examples := config.examples()
			curve, comparison := experimentSettings(config.Settings().Experiment)
			if err := comparison.Validate(); err != nil {
				exit(1, err)
			}
			tasks := comparison.Tasks(newRand(config.Settings().Experiment.Seed))
			summary := experiment.SummarizeComparison(config.run(examples, curve, comparison, tasks))
			fmt.Printf("single tree: mean test accuracy %f, standard deviation %f\n", summary.Single.Mean, summary.Single.StdDev)
			fmt.Printf("random forest: mean test accuracy %f, standard deviation %f\n", summary.Forest.Mean, summary.Forest.StdDev)
		},
	}
	config.flags(cmd)
	cmd.Flags().Int("iterations", 500, "number of random splits")
	cmd.Flags().IntP("trees", "n", 50, "number of trees in each forest")
	bind(cmd.Flags().Lookup("iterations"), "experiment.iterations")
	bind(cmd.Flags().Lookup("trees"), "experiment.trees")
	return cmd
}

func workCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &experimentCmdConfig{rootCmdConfig: rootConfig, useRedis: true}
	cmd := &cobra.Command{
		Use:   "work",
		Short: "Run trials of an experiment shared through redis",
		Long:  `Pull the trials of a curve or compare command run with the redis flag from the redis queue and run them until none are left. The examples and experiment settings must match those of the command.`,
		Run: func(cmd *cobra.Command, args []string) {
			config.Setup(cmd, 1)
			examples := config.examples()
			curve, comparison := experimentSettings(config.Settings().Experiment)
			q := config.queue()
			defer q.Stop(context.Background())
			r := experiment.NewRunner(examples, curve, comparison, config.Logger())
			err := experiment.Work(config.Context(), r, q, config.Logger(), experiment.DefaultEmptyQueueSleep)
			if err != nil {
				exit(4, err)
			}
		},
	}
	cmd.Flags().StringVarP(&(config.dataInput), "input", "i", "", inputFlagUsage+" with the examples (defaults to STDIN, interpreted as CSV)")
	cmd.Flags().Int("max-train-size", 300, "largest training size of curve trials")
	cmd.Flags().StringVarP(&(config.defaultLabel), "default-label", "d", "", "label for branches without training examples")
	bind(cmd.Flags().Lookup("max-train-size"), "experiment.max_train_size")
	bind(cmd.Flags().Lookup("default-label"), "experiment.default_label")
	return cmd
}

func (ecc *experimentCmdConfig) examples() []dataset.Example {
	examples, _, err := readSet(ecc.Context(), ecc.Logger(), ecc.dataInput, "experiment")
	if err != nil {
		exit(2, err)
	}
	return examples
}

func (ecc *experimentCmdConfig) queue() queue.Queue {
	if !ecc.useRedis {
		return queue.New()
	}
	rs := ecc.Settings().Redis
	rc := redis.NewClient(&redis.Options{Addr: rs.Addr, Password: rs.Password, DB: rs.DB})
	if err := rc.Ping().Err(); err != nil {
		exit(3, fmt.Errorf("connecting to redis at %s: %v", rs.Addr, err))
	}
	return redisq.New(rs.Queue, rc, rs.TaskMaxRun, rs.LockTTL, json.New())
}

func (ecc *experimentCmdConfig) run(examples []dataset.Example, curve experiment.Curve, comparison experiment.Comparison, tasks []*queue.Task) []*queue.Task {
	q := ecc.queue()
	defer q.Stop(context.Background())
	r := experiment.NewRunner(examples, curve, comparison, ecc.Logger())
	results, err := experiment.Run(ecc.Context(), r, q, tasks, ecc.Settings().Experiment.Workers, ecc.Logger())
	if err != nil {
		exit(4, err)
	}
	return results
}

/*
experimentSettings returns the curve and comparison of the settings.
An unset default label falls back to the one each experiment was
designed for.
*/
func experimentSettings(s config.Experiment) (experiment.Curve, experiment.Comparison) {
	curve := experiment.DefaultCurve()
	curve.MinTrainSize = s.MinTrainSize
	curve.MaxTrainSize = s.MaxTrainSize
	curve.Step = s.Step
	curve.Repeats = s.Repeats
	comparison := experiment.DefaultComparison()
	comparison.Iterations = s.Iterations
	comparison.Trees = s.Trees
	if s.DefaultLabel != "" {
		curve.DefaultLabel = s.DefaultLabel
		comparison.DefaultLabel = s.DefaultLabel
	}
	return curve, comparison
}
