package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newAllocateCommand() *cobra.Command {
	o := &options{}
	var (
		rotationPath string
		commit       bool
	)
	cmd := &cobra.Command{
		Use:   "allocate",
		Short: "Allocate an order against a saved rotation",
		Long: `allocate works like quote but starts from the rotation counters in
--rotation. With --commit the advanced counters are written back, so running
it repeatedly shows how orders spread over the printers of a category.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if commit && rotationPath == "" {
				return errors.New("--commit needs --rotation")
			}
			s, err := loadSession(o)
			if err != nil {
				return err
			}
			state, err := loadRotation(rotationPath)
			if err != nil {
				return err
			}

			alloc := s.assembler.Assemble(s.input, s.pool, s.schedule, state)
			if err := writeAllocation(cmd.OutOrStdout(), alloc, o.jsonOutput); err != nil {
				return err
			}
			if !commit {
				return nil
			}
			if !alloc.Placed() {
				return fmt.Errorf("not committing: %d files cannot be placed", len(alloc.Failures))
			}

			state.Apply(alloc.Advances)
			if err := saveRotation(rotationPath, state); err != nil {
				return fmt.Errorf("failed to write rotation: %w", err)
			}
			if !o.jsonOutput {
				fmt.Fprintf(cmd.OutOrStdout(), "rotation saved to %s\n", rotationPath)
			}
			return nil
		},
	}
	addOrderFlags(cmd, o)
	cmd.Flags().StringVar(&rotationPath, "rotation", "", "Rotation counters JSON file (missing file starts empty)")
	cmd.Flags().BoolVar(&commit, "commit", false, "Write the advanced rotation back to --rotation")
	return cmd
}
