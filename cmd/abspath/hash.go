package main

import (
	"fmt"
	"path"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/abspath/pkg/abspath"
)

func newHashCommand() *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "hash <path>",
		Short: "Print the content digest of a file or directory",
		Long: `For a file, the digest covers the file content. For a directory,
every file in the tree contributes its root-relative path and content,
so two trees with identical layout and content hash identically
regardless of where they live.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := abspath.New(args[0])
			if err != nil {
				return err
			}

			var sum string
			if dir := p.Dir(); dir.Exists() {
				var include func(abspath.AbsolutePath) bool
				if pattern != "*" {
					include = func(f abspath.AbsolutePath) bool {
						ok, _ := path.Match(pattern, f.Name())
						return ok
					}
				}
				sum, err = dir.Hash(include)
			} else {
				sum, err = p.File().Hash()
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sum)
			return nil
		},
	}

	cmd.Flags().StringVar(&pattern, "include", "*", "only include files whose name matches the glob (directories only)")
	return cmd
}
