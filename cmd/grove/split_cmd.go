package main

import (
	"fmt"

	"github.com/pbanos/grove/dataset"
	"github.com/spf13/cobra"
)

type splitCmdConfig struct {
	*setCmdConfig
	splitOutput      string
	splitProbability int
	seed             int64
}

func splitCmd(setConfig *setCmdConfig) *cobra.Command {
	config := &splitCmdConfig{setCmdConfig: setConfig}
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a set into two sets",
		Long:  `Split a set into an output set and a split set`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				exit(1, err)
			}
			config.Setup(cmd, 1)
			examples, schema, err := readSet(config.Context(), config.Logger(), config.setInput, "input")
			if err != nil {
				exit(2, err)
			}
			output, split := splitSet(examples, config.splitProbability, config.seed)
			err = config.write(config.setOutput, "output", schema, output)
			if err != nil {
				exit(3, err)
			}
			err = config.write(config.splitOutput, "split", schema, split)
			if err != nil {
				exit(4, err)
			}
			config.Logger().Infof("Input set with %d examples was split into sets with %d and %d examples", len(examples), len(output), len(split))
		},
	}
	cmd.Flags().IntVarP(&(config.splitProbability), "split-probability", "p", 20, "probability as percent integer that an example of the set will be assigned to the split set")
	cmd.Flags().StringVarP(&(config.splitOutput), "split-output", "s", "", inputFlagUsage+" to dump the split set to (required)")
	cmd.Flags().Int64Var(&(config.seed), "seed", 0, "seed for the random draws (defaults to the time)")
	return cmd
}

func (scc *splitCmdConfig) Validate() error {
	if scc.splitOutput == "" {
		return fmt.Errorf("required split-output flag was not set")
	}
	if scc.splitProbability <= 0 || scc.splitProbability > 100 {
		return fmt.Errorf("split-probability flag was set to an invalid value: it must be set to an integer between 1 and 100")
	}
	return nil
}

// splitSet assigns each example to the split set with the given percent probability
func splitSet(examples []dataset.Example, probability int, seed int64) ([]dataset.Example, []dataset.Example) {
	r := newRand(seed)
	var output, split []dataset.Example
	for _, e := range examples {
		if (100 * r.Float32()) > float32(probability) {
			output = append(output, e)
		} else {
			split = append(split, e)
		}
	}
	return output, split
}
