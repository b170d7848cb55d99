package main

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gitrdm/proxgen/pkg/generalize"
)

func (a *app) newVersionCmd() *cobra.Command {
	var output string

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := generalize.GetVersionInfo()
			info.GitCommit = gitCommit
			info.BuildDate = buildDate

			switch output {
			case "":
				fmt.Fprintf(a.out, "proxgen %s (%s)\n", info.Version, info.GoVersion)
				if info.GitCommit != "" {
					fmt.Fprintf(a.out, "commit %s\n", info.GitCommit)
				}
				if info.BuildDate != "" {
					fmt.Fprintf(a.out, "built %s\n", info.BuildDate)
				}
				return nil
			case "json":
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			case "yaml":
				data, err := yaml.Marshal(info)
				if err != nil {
					return err
				}
				_, err = a.out.Write(data)
				return err
			}
			return errors.Wrapf(generalize.ErrInvalidArgument, "unknown output format %q (want json or yaml)", output)
		},
	}

	versionCmd.Flags().StringVarP(&output, "output", "o", "", "output format: json or yaml")

	return versionCmd
}
