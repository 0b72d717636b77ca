package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/forest"
	"github.com/spf13/cobra"
)

type predictCmdConfig struct {
	*growCmdConfig
	trees int
}

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{growCmdConfig: &growCmdConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "predict [attribute=value...]",
		Short: "Predict the Class of an example",
		Long: `Grow a tree (or a forest if trees is set) from a training set and use it to predict the Class of an example.
The example's values are taken from the arguments, and the values of attributes not given are requested on STDIN.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				exit(1, err)
			}
			config.Setup(cmd, 1)
			ctx := config.Context()
			trainingSet, schema, err := readSet(ctx, config.Logger(), config.dataInput, "training")
			if err != nil {
				exit(2, err)
			}
			example, err := parseExample(args)
			if err != nil {
				exit(3, err)
			}
			err = requestValues(os.Stdin, os.Stdout, schema, example)
			if err != nil {
				exit(4, err)
			}
			var predict func(dataset.Example) (string, error)
			if config.trees > 0 {
				f, err := forest.Train(ctx, trainingSet, config.trees,
					forest.WithDefaultLabel(config.defaultLabel),
					forest.WithLogger(config.Logger()),
				)
				if err != nil {
					exit(5, err)
				}
				predict = f.Predict
			} else {
				root, err := config.grow(trainingSet)
				if err != nil {
					exit(5, err)
				}
				predict = root.Predict
			}
			label, err := predict(example)
			if err != nil {
				exit(6, err)
			}
			fmt.Printf("Predicted %s is %s\n", dataset.ClassKey, label)
		},
	}
	cmd.Flags().StringVarP(&(config.dataInput), "input", "i", "", inputFlagUsage+" with the training set (required)")
	cmd.Flags().StringVarP(&(config.defaultLabel), "default-label", "d", forest.DefaultLabel, "label for branches without training examples")
	cmd.Flags().IntVarP(&(config.trees), "trees", "n", 0, "predict with a forest of this many trees instead of a single tree")
	return cmd
}

func (pcc *predictCmdConfig) Validate() error {
	if pcc.dataInput == "" {
		return fmt.Errorf("required input flag was not set")
	}
	return nil
}

func parseExample(args []string) (dataset.Example, error) {
	e := dataset.Example{}
	for _, arg := range args {
		kv := strings.SplitN(arg, "=", 2)
		if len(kv) != 2 || kv[0] == "" {
			return nil, fmt.Errorf("invalid argument %q: expected attribute=value", arg)
		}
		if kv[1] == "" {
			kv[1] = dataset.MissingValue
		}
		e[kv[0]] = kv[1]
	}
	return e, nil
}

// requestValues asks on w for the value of every attribute of the schema e lacks
func requestValues(r io.Reader, w io.Writer, schema *dataset.Schema, e dataset.Example) error {
	scanner := bufio.NewScanner(r)
	for _, a := range schema.Attributes() {
		if _, ok := e[a]; ok {
			continue
		}
		fmt.Fprintf(w, "Please provide the example's %s (%s if unknown):\n", a, dataset.MissingValue)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("reading value for %s: %v", a, err)
			}
			return fmt.Errorf("reading value for %s: %v", a, io.ErrUnexpectedEOF)
		}
		v := strings.TrimSpace(scanner.Text())
		if v == "" {
			v = dataset.MissingValue
		}
		e[a] = v
	}
	return nil
}
