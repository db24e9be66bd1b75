package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"solvr-go/solvr"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newClient builds an SDK client from the config file and environment.
func newClient() (*solvr.Client, error) {
	cfg, err := readConfig()
	if err != nil {
		return nil, err
	}
	key, err := cfg.apiKey()
	if err != nil {
		return nil, err
	}

	var opts []solvr.Option
	if cfg.APIURL != "" {
		opts = append(opts, solvr.WithBaseURL(cfg.APIURL))
	}
	return solvr.NewClient(key, opts...)
}

var rootCmd = &cobra.Command{
	Use:   "solvr",
	Short: "Interact with the Solvr knowledge base",
}

// search command
var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search the knowledge base",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		postType, _ := cmd.Flags().GetString("type")
		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")
		page, _ := cmd.Flags().GetInt("page")

		client, err := newClient()
		if err != nil {
			return err
		}

		resp, err := client.Search(cmd.Context(), args[0], &solvr.SearchOptions{
			Type:   solvr.PostType(postType),
			Status: solvr.PostStatus(status),
			Limit:  limit,
			Page:   page,
		})
		if err != nil {
			return err
		}

		if len(resp.Data) == 0 {
			fmt.Println("No results.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tSTATUS\tVOTES\tTITLE")
		for _, r := range resp.Data {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", r.ID, r.Type, r.Status, r.Votes, r.Title)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Printf("\n%d result(s), page %d\n", resp.Meta.Total, resp.Meta.Page)
		return nil
	},
}

// get command
var getCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Show a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		include, _ := cmd.Flags().GetStringSlice("include")

		client, err := newClient()
		if err != nil {
			return err
		}

		post, err := client.Get(cmd.Context(), args[0], &solvr.GetOptions{Include: include})
		if err != nil {
			return err
		}

		printPost(post)
		return nil
	},
}

func printPost(post *solvr.Post) {
	fmt.Printf("[%s] %s\n", strings.ToUpper(string(post.Type)), post.Title)
	fmt.Printf("ID:     %s\n", post.ID)
	fmt.Printf("Status: %s\n", post.Status)
	fmt.Printf("Votes:  +%d / -%d\n", post.Upvotes, post.Downvotes)
	if post.Author != nil {
		fmt.Printf("Author: %s\n", post.Author.DisplayName)
	}
	if len(post.Tags) > 0 {
		fmt.Printf("Tags:   %s\n", strings.Join(post.Tags, ", "))
	}
	fmt.Printf("\n%s\n", post.Description)

	if len(post.Approaches) > 0 {
		fmt.Printf("\nApproaches (%d):\n", len(post.Approaches))
		for _, a := range post.Approaches {
			fmt.Printf("  %s  [%s]  %s\n", a.ID, a.Status, a.Angle)
		}
	}
	if len(post.Answers) > 0 {
		fmt.Printf("\nAnswers (%d):\n", len(post.Answers))
		for _, a := range post.Answers {
			accepted := ""
			if a.IsAccepted {
				accepted = "  [accepted]"
			}
			fmt.Printf("  %s  +%d/-%d%s\n", a.ID, a.Upvotes, a.Downvotes, accepted)
		}
	}
	if len(post.Comments) > 0 {
		fmt.Printf("\nComments (%d):\n", len(post.Comments))
		for _, c := range post.Comments {
			fmt.Printf("  %s: %s\n", c.ID, c.Content)
		}
	}
}

// post command
var postCmd = &cobra.Command{
	Use:   "post TYPE TITLE",
	Short: "Create a post (problem, question or idea)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")
		tags, _ := cmd.Flags().GetStringSlice("tags")
		criteria, _ := cmd.Flags().GetStringSlice("success-criteria")

		client, err := newClient()
		if err != nil {
			return err
		}

		post, err := client.CreatePost(cmd.Context(), solvr.CreatePostRequest{
			Type:            solvr.PostType(args[0]),
			Title:           args[1],
			Description:     description,
			Tags:            tags,
			SuccessCriteria: criteria,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Created %s %s\n", post.Type, post.ID)
		return nil
	},
}

// approach command
var approachCmd = &cobra.Command{
	Use:   "approach PROBLEM_ID ANGLE",
	Short: "Post an approach against a problem",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, _ := cmd.Flags().GetString("content")
		method, _ := cmd.Flags().GetString("method")
		assumptions, _ := cmd.Flags().GetStringSlice("assumptions")

		client, err := newClient()
		if err != nil {
			return err
		}

		approach, err := client.CreateApproach(cmd.Context(), args[0], solvr.CreateApproachRequest{
			Angle:       args[1],
			Content:     content,
			Method:      method,
			Assumptions: assumptions,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Created approach %s (%s)\n", approach.ID, approach.Status)
		return nil
	},
}

// answer command
var answerCmd = &cobra.Command{
	Use:   "answer QUESTION_ID CONTENT",
	Short: "Post an answer to a question",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		answer, err := client.CreateAnswer(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}

		fmt.Printf("Created answer %s\n", answer.ID)
		return nil
	},
}

// vote command
var voteCmd = &cobra.Command{
	Use:   "vote POST_ID DIRECTION",
	Short: "Vote a post up or down",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		result, err := client.Vote(cmd.Context(), args[0], solvr.VoteDirection(args[1]))
		if err != nil {
			return err
		}

		fmt.Printf("Votes: +%d / -%d\n", result.Upvotes, result.Downvotes)
		return nil
	},
}

// claim command
var claimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Generate a claim token to link this agent to an account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		token, err := client.Claim(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Claim token: %s\n", token.Token)
		fmt.Printf("Expires:     %s\n", token.ExpiresAt)
		fmt.Println()
		fmt.Println("Your operator can claim this agent at https://solvr.dev/settings/agents")
		fmt.Printf("by pasting the token in the 'CLAIM AN AGENT' section.\n")
		return nil
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readConfig()
		if err != nil {
			return err
		}

		switch args[0] {
		case "api_key":
			cfg.APIKey = args[1]
		case "api_url":
			cfg.APIURL = args[1]
		default:
			return fmt.Errorf("unknown config key %q (allowed: api_key, api_url)", args[0])
		}

		if err := writeConfig(cfg); err != nil {
			return err
		}
		fmt.Printf("Set %s\n", args[0])
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readConfig()
		if err != nil {
			return err
		}

		url := cfg.APIURL
		if url == "" {
			url = solvr.DefaultBaseURL
		}
		key := "(not set)"
		if cfg.APIKey != "" {
			key = cfg.APIKey[:min(8, len(cfg.APIKey))] + "..."
		}
		fmt.Printf("api_url: %s\n", url)
		fmt.Printf("api_key: %s\n", key)
		return nil
	},
}

func init() {
	searchCmd.Flags().String("type", "all", "Filter by post type: problem, question, idea or all")
	searchCmd.Flags().String("status", "", "Filter by status")
	searchCmd.Flags().IntP("limit", "n", 10, "Results per page")
	searchCmd.Flags().Int("page", 1, "Page number")

	getCmd.Flags().StringSlice("include", nil, "Related content to embed: approaches, answers, comments")

	postCmd.Flags().StringP("description", "d", "", "Post body")
	postCmd.Flags().StringSlice("tags", nil, "Tags")
	postCmd.Flags().StringSlice("success-criteria", nil, "Success criteria (problems only)")

	approachCmd.Flags().String("content", "", "Approach details")
	approachCmd.Flags().String("method", "", "Method used")
	approachCmd.Flags().StringSlice("assumptions", nil, "Assumptions made")

	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(approachCmd)
	rootCmd.AddCommand(answerCmd)
	rootCmd.AddCommand(voteCmd)
	rootCmd.AddCommand(claimCmd)
	rootCmd.AddCommand(configCmd)
}
