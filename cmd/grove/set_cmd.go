package main

import (
	"fmt"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/dataset/source"
	"github.com/spf13/cobra"
)

type setCmdConfig struct {
	*rootCmdConfig
	setInput  string
	setOutput string
}

func setCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &setCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Manage sets of data",
		Long:  `Copy a set of data from one location to another, converting it between formats`,
		Run: func(cmd *cobra.Command, args []string) {
			config.Setup(cmd, 1)
			examples, schema, err := readSet(config.Context(), config.Logger(), config.setInput, "input")
			if err != nil {
				exit(2, err)
			}
			err = config.write(config.setOutput, "output", schema, examples)
			if err != nil {
				exit(3, err)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.setInput), "input", "i", "", inputFlagUsage+" with the input set (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.setOutput), "output", "o", "", inputFlagUsage+" to dump the output set to (defaults to STDOUT in CSV)")
	cmd.AddCommand(splitCmd(config))
	return cmd
}

func (scc *setCmdConfig) write(location, name string, schema *dataset.Schema, examples []dataset.Example) error {
	where := location
	if where == "" {
		where = "STDOUT"
	}
	scc.Logger().Debugf("Writing %d examples of %s set to %s...", len(examples), name, where)
	err := source.Write(scc.Context(), location, schema, examples)
	if err != nil {
		return fmt.Errorf("writing %s set: %v", name, err)
	}
	return nil
}
