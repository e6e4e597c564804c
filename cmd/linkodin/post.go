package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jordanhubbard/linkodin/internal/interactor"
	"github.com/jordanhubbard/linkodin/pkg/models"
)

func newPostCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Generate and browse posts",
	}
	cmd.AddCommand(newPostGenerateCommand())
	cmd.AddCommand(newPostListCommand())
	cmd.AddCommand(newPostShowCommand())
	return cmd
}

func newPostGenerateCommand() *cobra.Command {
	var (
		topic       string
		context     string
		mock        bool
		showDetails bool
	)
	cmd := &cobra.Command{
		Use:   "generate <persona-id>",
		Short: "Generate a new LinkedIn post for a persona",
		Args:  cobra.ExactArgs(1),
		Example: `  linkodin post generate tech-ceo --topic "AI trends"
  linkodin post generate tech-ceo --mock`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := models.NewPostGenerationRequest(args[0], topic, context)
			if err != nil {
				return err
			}

			app, err := openLinkodin(cmd.Context(), mock)
			if err != nil {
				return err
			}
			defer app.Close(cmd.Context())

			out := cmd.OutOrStdout()
			if !jsonOutput() {
				if mock {
					fmt.Fprintln(out, "[AI] Generating post with mock agents (demo mode)...")
				} else {
					fmt.Fprintln(out, "[AI] Generating post with AI agents...")
				}
				fmt.Fprintln(out, "[1] Market analysis and prompt crafting...")
				fmt.Fprintln(out, "[2] Post content generation...")
				fmt.Fprintln(out, "[3] Image prompt generation...")
			}

			post, err := app.GeneratePost(cmd.Context(), req)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(out, post)
			}

			fmt.Fprintln(out)
			success(out, "Post generated successfully!")
			field(out, "Post ID", post.ID)
			block(out, "Content", post.Content)
			if post.ImagePrompt != "" {
				block(out, "Image Prompt", post.ImagePrompt)
			}
			if showDetails && post.MarketAnalysis != "" {
				block(out, "Market Analysis", post.MarketAnalysis)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&topic, "topic", "t", "", "Optional topic hint for the post")
	cmd.Flags().StringVar(&context, "context", "", "Additional context for generation")
	cmd.Flags().BoolVar(&mock, "mock", false, "Use the offline mock generator (no API key required)")
	cmd.Flags().BoolVar(&showDetails, "show-analysis", false, "Also print the market analysis")
	return cmd
}

func newPostListCommand() *cobra.Command {
	var personaID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List generated posts",
		Example: `  linkodin post list
  linkodin post list --persona tech-ceo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openLinkodin(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer app.Close(cmd.Context())

			var (
				posts []*models.LinkedInPost
				title = "All Posts"
			)
			if personaID != "" {
				posts, err = app.Posts.GetPostsByPersona(cmd.Context(), personaID)
				title = fmt.Sprintf("Posts for persona '%s'", personaID)
			} else {
				posts, err = app.Posts.GetAllPosts(cmd.Context())
			}
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), posts)
			}
			printPostList(cmd.OutOrStdout(), title, posts)
			return nil
		},
	}
	cmd.Flags().StringVarP(&personaID, "persona", "p", "", "Filter by persona ID")
	return cmd
}

func newPostShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "show <post-id>",
		Short:   "Show post details",
		Args:    cobra.ExactArgs(1),
		Example: `  linkodin post show 3f1c9a52-...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openLinkodin(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer app.Close(cmd.Context())

			post, err := app.Posts.GetPost(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if post == nil {
				return &interactor.NotFoundError{Kind: "post", ID: args[0]}
			}
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), post)
			}
			printPost(cmd.OutOrStdout(), post, true)
			return nil
		},
	}
}
