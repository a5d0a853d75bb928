package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/k12coteacher/coteacher/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect stored student profiles",
}

var profileShowCmd = &cobra.Command{
	Use:   "show <student-id>",
	Short: "Render a stored profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		p, err := s.Profiles().GetProfile(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		format, err := loadFormatConfig(cmd)
		if err != nil {
			return err
		}
		teacherID, _ := cmd.Flags().GetString("teacher")
		fmt.Println(profile.Render(*p, format, teacherID))
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		profiles, err := s.Profiles().ListProfiles(cmd.Context())
		if err != nil {
			return err
		}
		if len(profiles) == 0 {
			fmt.Println("No profiles found.")
			return nil
		}
		for _, p := range profiles {
			fmt.Printf("%-40s  %s %s\n", p.StudentID, p.FirstName, p.LastName)
		}
		return nil
	},
}

func init() {
	profileShowCmd.Flags().String("teacher", "", "Teacher id for rendering teacher-specific notes")
	profileShowCmd.Flags().String("format", "", "Profile format config YAML (default: built-in)")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileListCmd)
}
