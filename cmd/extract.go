package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/k12coteacher/coteacher/internal/extraction"
	"github.com/k12coteacher/coteacher/internal/profile"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract student profiles from documents",
}

var extractReportCmd = &cobra.Command{
	Use:   "report <pdf>",
	Short: "Extract a student profile from a psychological report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtract(cmd, args[0], "report")
	},
}

var extractIEPCmd = &cobra.Command{
	Use:   "iep <pdf>",
	Short: "Extract a student profile from an IEP",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtract(cmd, args[0], "iep")
	},
}

var extractMergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge a report profile and an IEP profile into one student profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		reportPath, _ := cmd.Flags().GetString("report")
		iepPath, _ := cmd.Flags().GetString("iep")
		if reportPath == "" || iepPath == "" {
			return fmt.Errorf("both --report and --iep are required")
		}

		psych, err := readProfile(reportPath)
		if err != nil {
			return err
		}
		iep, err := readProfile(iepPath)
		if err != nil {
			return err
		}

		merged := profile.MergeProfiles(psych, iep)
		if studentID, _ := cmd.Flags().GetString("student"); studentID != "" {
			merged.StudentID = studentID
		}

		if save, _ := cmd.Flags().GetBool("save"); save {
			s, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.Profiles().PutProfile(cmd.Context(), merged); err != nil {
				return err
			}
		}
		return writeProfile(cmd, merged)
	},
}

func init() {
	for _, c := range []*cobra.Command{extractReportCmd, extractIEPCmd, extractMergeCmd} {
		c.Flags().String("student", "", "Student id (default: a new UUID)")
		c.Flags().String("out", "", "Output JSON file (default: <student>_profile.json)")
		c.Flags().Bool("save", true, "Save the profile to the local store")
	}
	extractMergeCmd.Flags().String("report", "", "Report profile JSON file")
	extractMergeCmd.Flags().String("iep", "", "IEP profile JSON file")

	extractCmd.AddCommand(extractReportCmd)
	extractCmd.AddCommand(extractIEPCmd)
	extractCmd.AddCommand(extractMergeCmd)
}

func runExtract(cmd *cobra.Command, pdfPath, kind string) error {
	ctx := cmd.Context()

	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	provider, err := newProvider(ctx, s)
	if err != nil {
		return err
	}

	studentID, _ := cmd.Flags().GetString("student")
	if studentID == "" {
		studentID = uuid.NewString()
	}

	client := extraction.NewClient(provider, log)

	var p profile.Profile
	switch kind {
	case "report":
		p, err = client.ExtractReport(ctx, pdfPath, studentID)
	case "iep":
		p, err = client.ExtractIEP(ctx, pdfPath, studentID)
	}
	if err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		if err := s.Profiles().PutProfile(ctx, p); err != nil {
			return err
		}
	}
	return writeProfile(cmd, p)
}

func readProfile(path string) (profile.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("read %s: %w", path, err)
	}
	var p profile.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return profile.Profile{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return p, nil
}

func writeProfile(cmd *cobra.Command, p profile.Profile) error {
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = p.StudentID + "_profile.json"
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Printf("Profile saved to %s\n", out)
	return nil
}
