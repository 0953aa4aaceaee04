package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var sessionsUser string

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect the local session store",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List persisted sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, closer, err := openRepository()
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer()
		}

		sessions, err := repo.List()
		if err != nil {
			return err
		}
		if sessionsUser != "" {
			sessions, err = repo.ListForUser(sessionsUser)
			if err != nil {
				return err
			}
		}
		if len(sessions) == 0 {
			fmt.Println("no sessions")
			return nil
		}
		for _, s := range sessions {
			gait := "-"
			if s.GaitAnalysis != nil {
				gait = string(s.GaitAnalysis.PredominantGait)
			}
			fmt.Printf("%s  user=%-10s  %8.1fs  %9.1fm  %s\n", s.ID, s.UserID, s.Duration, s.Distance, gait)
		}
		return nil
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one session as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, closer, err := openRepository()
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer()
		}

		session, err := repo.Get(args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(session)
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a session by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, closer, err := openRepository()
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer()
		}
		return repo.Delete(args[0])
	},
}

func init() {
	sessionsListCmd.Flags().StringVar(&sessionsUser, "user", "", "filter by user id")
	sessionsCmd.AddCommand(sessionsListCmd, sessionsShowCmd, sessionsDeleteCmd)
	rootCmd.AddCommand(sessionsCmd)
}
