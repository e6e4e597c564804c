package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jordanhubbard/linkodin/internal/linkodin"
	"github.com/jordanhubbard/linkodin/pkg/config"
	"github.com/jordanhubbard/linkodin/pkg/models"
)

var demoPersonas = []models.Persona{
	{
		ID:                    "tech-ceo",
		Name:                  "Tech CEO",
		Niche:                 "Technology Leadership",
		TargetAudience:        "Tech professionals, entrepreneurs, investors",
		Localization:          "English (US)",
		Tone:                  "inspirational",
		Industry:              "Technology",
		ExperienceLevel:       "executive",
		ContentThemes:         []string{"leadership", "innovation", "startup insights", "tech trends"},
		EngagementStyle:       "storytelling",
		PersonalBrandKeywords: []string{"innovation", "leadership", "growth", "technology"},
		PostingFrequency:      "weekly",
		Description:           "Experienced tech CEO passionate about innovation and leadership",
	},
	{
		ID:                    "marketing-guru",
		Name:                  "Marketing Guru",
		Niche:                 "Digital Marketing",
		TargetAudience:        "Small business owners, marketing professionals, entrepreneurs",
		Localization:          "English (US)",
		Tone:                  "enthusiastic",
		Industry:              "Marketing",
		ExperienceLevel:       "senior",
		ContentThemes:         []string{"growth marketing", "social media", "content strategy", "digital transformation"},
		EngagementStyle:       "data-driven",
		PersonalBrandKeywords: []string{"growth", "marketing", "results", "ROI"},
		PostingFrequency:      "daily",
		Description:           "Results-driven marketing expert helping businesses grow online",
	},
	{
		ID:                    "ai-researcher",
		Name:                  "AI Researcher",
		Niche:                 "Artificial Intelligence",
		TargetAudience:        "Tech professionals, researchers, AI enthusiasts",
		Localization:          "English (US)",
		Tone:                  "professional",
		Industry:              "Technology",
		ExperienceLevel:       "senior",
		ContentThemes:         []string{"machine learning", "AI ethics", "research insights", "future of AI"},
		EngagementStyle:       "educational",
		PersonalBrandKeywords: []string{"AI", "machine learning", "research", "innovation"},
		PostingFrequency:      "weekly",
		Description:           "AI researcher sharing insights on the latest developments in artificial intelligence",
	},
}

func newDemoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Walk through persona management and post generation offline",
		Long: `demo seeds three personas into an in-memory store and generates a post with
the mock generator. Nothing is written to disk and no API key is needed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *cfg
			c.Storage.Backend = config.BackendMemory
			c.Generation.Provider = config.ProviderMock
			app, err := linkodin.New(cmd.Context(), &c)
			if err != nil {
				return err
			}
			defer app.Close(cmd.Context())

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			heading(out, "=== PERSONA MANAGEMENT DEMO ===")
			for _, def := range demoPersonas {
				p, err := models.NewPersona(def)
				if err != nil {
					return err
				}
				if err := app.Personas.Create(ctx, p); err != nil {
					return err
				}
			}
			success(out, "Created %d personas", len(demoPersonas))
			fmt.Fprintln(out)

			personas, err := app.Personas.List(ctx)
			if err != nil {
				return err
			}
			printPersonaList(out, personas)
			for _, id := range []string{"tech-ceo", "marketing-guru"} {
				p, err := app.Personas.Get(ctx, id)
				if err != nil {
					return err
				}
				fmt.Fprintln(out)
				printPersona(out, p)
			}

			fmt.Fprintln(out)
			heading(out, "=== POST GENERATION DEMO ===")
			req, err := models.NewPostGenerationRequest("tech-ceo",
				"AI transformation in business", "Focus on practical benefits for companies")
			if err != nil {
				return err
			}
			post, err := app.GeneratePost(ctx, req)
			if err != nil {
				return err
			}
			success(out, "Post generated successfully!")
			printPost(out, post, false)

			posts, err := app.Posts.GetAllPosts(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			field(out, "Total posts in storage", fmt.Sprint(len(posts)))
			return nil
		},
	}
}
