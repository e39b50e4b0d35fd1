package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/abspath/pkg/abspath"
)

func newCopyCommand() *cobra.Command {
	return newTransferCommand("copy", "Copy a file or directory tree", false)
}

func newMoveCommand() *cobra.Command {
	return newTransferCommand("move", "Move a file or directory tree", true)
}

func newTransferCommand(verb, short string, move bool) *cobra.Command {
	var (
		policyName      string
		deleteRemaining bool
	)

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s <source> <target>", verb),
		Short: short,
		Long: fmt.Sprintf(`%s resolves existing targets through a policy: "fail" rejects
any collision, "merge-skip" keeps existing files, "merge-overwrite"
replaces them, and "merge-newer" replaces only when the source is
more recently modified. Directories merge recursively under the same
policy.`, short),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := policyFromName(policyName)
			if err != nil {
				return err
			}
			src, err := abspath.New(args[0])
			if err != nil {
				return err
			}
			dst, err := abspath.New(args[1])
			if err != nil {
				return err
			}

			if dir := src.Dir(); dir.Exists() {
				var opts []abspath.Option
				if deleteRemaining {
					opts = append(opts, abspath.WithDeleteRemaining())
				}
				if move {
					return dir.Move(dst, policy, opts...)
				}
				return dir.Copy(dst, policy, opts...)
			}

			file := src.File()
			var final abspath.AbsolutePath
			if move {
				final, err = file.Move(dst, policy)
			} else {
				final, err = file.Copy(dst, policy)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), final)
			return nil
		},
	}

	cmd.Flags().StringVar(&policyName, "policy", "fail", "conflict policy: fail, merge-skip, merge-overwrite, merge-newer")
	if move {
		cmd.Flags().BoolVar(&deleteRemaining, "delete-remaining", false, "remove the source tree even when skipped files remain")
	}
	return cmd
}

func policyFromName(name string) (abspath.ExistsPolicy, error) {
	switch name {
	case "fail":
		return abspath.Fail, nil
	case "merge-skip":
		return abspath.MergeAndSkip, nil
	case "merge-overwrite":
		return abspath.MergeAndOverwrite, nil
	case "merge-newer":
		return abspath.MergeAndOverwriteIfNewer, nil
	default:
		return 0, fmt.Errorf("invalid policy %q", name)
	}
}
