package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	pb "github.com/oggyb/roommate-match/internal/proto/roommate"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit or replace a roommate search",
	Long:  "Read a search profile from a JSON file and print the matches it produced",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		var profile pb.Profile
		if err := json.Unmarshal(raw, &profile); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}

		c, ctx, cancel := client(cmd)
		defer cancel()
		resp, err := c.SubmitSearch(ctx, &pb.SubmitSearchRequest{Profile: &profile})
		if err != nil {
			return err
		}

		fmt.Println(titleStyle.Render(fmt.Sprintf("Search saved for %s", profile.UserId)))
		printMatches(profile.UserId, resp.Matches)
		return nil
	},
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw <user-id>",
	Short: "Withdraw a search, or every search of a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &pb.WithdrawSearchRequest{UserId: args[0]}
		if cmd.Flags().Changed("listing") {
			listing, _ := cmd.Flags().GetString("listing")
			req.ListingId = &listing
		}

		c, ctx, cancel := client(cmd)
		defer cancel()
		resp, err := c.WithdrawSearch(ctx, req)
		if err != nil {
			return err
		}
		fmt.Printf("%s %d\n", labelStyle.Render("Removed searches:"), resp.Removed)
		return nil
	},
}

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Browse live searches, most recently active first",
	RunE: func(cmd *cobra.Command, args []string) error {
		excluding, _ := cmd.Flags().GetString("excluding")
		size, _ := cmd.Flags().GetInt32("page-size")

		c, ctx, cancel := client(cmd)
		defer cancel()
		resp, err := c.GetFeed(ctx, &pb.GetFeedRequest{
			ExcludingUserId: excluding,
			PageSize:        size,
			PaginationToken: tokenFlag(cmd),
		})
		if err != nil {
			return err
		}

		fmt.Println(titleStyle.Render("Feed"))
		if len(resp.Profiles) == 0 {
			fmt.Println(dimStyle.Render("No searches yet."))
		}
		for _, p := range resp.Profiles {
			printProfile(p)
		}
		printNextToken(resp.NextPaginationToken)
		return nil
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches <user-id>",
	Short: "List the matches of a user, best first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		size, _ := cmd.Flags().GetInt32("page-size")

		c, ctx, cancel := client(cmd)
		defer cancel()
		resp, err := c.GetMatches(ctx, &pb.GetMatchesRequest{
			UserId:          args[0],
			PageSize:        size,
			PaginationToken: tokenFlag(cmd),
		})
		if err != nil {
			return err
		}

		fmt.Println(titleStyle.Render(fmt.Sprintf("Matches for %s", args[0])))
		printMatches(args[0], resp.Matches)
		printNextToken(resp.NextPaginationToken)
		return nil
	},
}

var countCmd = &cobra.Command{
	Use:   "count <user-id>",
	Short: "Show how many matches a user has",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, ctx, cancel := client(cmd)
		defer cancel()
		resp, err := c.CountMatches(ctx, &pb.CountMatchesRequest{UserId: args[0]})
		if err != nil {
			return err
		}
		fmt.Printf("%s %d\n", labelStyle.Render("Matches:"), resp.Count)
		return nil
	},
}

func tokenFlag(cmd *cobra.Command) *string {
	if !cmd.Flags().Changed("token") {
		return nil
	}
	token, _ := cmd.Flags().GetString("token")
	return &token
}

func init() {
	rootCmd.AddCommand(submitCmd, withdrawCmd, feedCmd, matchesCmd, countCmd)

	submitCmd.Flags().StringP("file", "f", "", "Path to a JSON search profile")
	_ = submitCmd.MarkFlagRequired("file")

	withdrawCmd.Flags().String("listing", "", "Withdraw only the search for this listing")

	feedCmd.Flags().String("excluding", "", "Hide the searches of this user")
	for _, c := range []*cobra.Command{feedCmd, matchesCmd} {
		c.Flags().Int32("page-size", 0, "Page size (server default when 0)")
		c.Flags().String("token", "", "Pagination token from a previous page")
	}
}
