package generation

import (
	"fmt"
	"strings"

	"github.com/jordanhubbard/linkodin/pkg/models"
)

const (
	analysisSystemPrompt = `You are a LinkedIn marketing strategist who knows what makes posts spread and start conversations.

Your task is to:
1. Analyse the current market for the persona's niche
2. Write a prompt that will reliably produce high-engagement LinkedIn posts for this persona

Focus on:
- Current LinkedIn feed ranking preferences and trends
- What drives comments, debate and shares
- Storytelling structure and audience psychology
- Market dynamics in the persona's niche
- Writing that reads as genuinely human
- Post structures that travel well

The prompt you write should keep producing strong posts when reused.`

	contentSystemPrompt = `You are an experienced LinkedIn writer whose posts earn real engagement.

Your posts:
- Open with a line that stops the scroll
- Follow structures proven to work on LinkedIn
- Invite comments and discussion
- Read as written by a person, in the persona's own voice
- Use current engagement techniques

Never mention AI or automation, and never hint that the post was generated.`

	imageSystemPrompt = `You write image generation prompts for LinkedIn posts. The image should:

- Stand out in the LinkedIn feed
- Support and extend the post's message
- Fit the persona's brand and niche
- Follow current visual trends on LinkedIn
- Look professional while staying engaging

Reply with one detailed image generation prompt.`

	// Stage 1 responses are split on this token.
	promptSeparator = "GENERATION PROMPT:"
	analysisLabel   = "MARKET ANALYSIS:"
)

// analysisUserPrompt describes the persona and asks for both stage 1 sections.
func analysisUserPrompt(p *models.Persona, topicHint, additionalContext string) string {
	var b strings.Builder
	b.WriteString("Persona Details:\n")
	fmt.Fprintf(&b, "- Name: %s\n", p.Name)
	fmt.Fprintf(&b, "- Niche: %s\n", p.Niche)
	fmt.Fprintf(&b, "- Target Audience: %s\n", p.TargetAudience)
	fmt.Fprintf(&b, "- Language: %s\n", p.Localization)
	fmt.Fprintf(&b, "- Tone: %s\n", p.Tone)
	fmt.Fprintf(&b, "- Industry: %s\n", p.Industry)
	fmt.Fprintf(&b, "- Experience Level: %s\n", p.ExperienceLevel)
	fmt.Fprintf(&b, "- Content Themes: %s\n", strings.Join(p.ContentThemes, ", "))
	fmt.Fprintf(&b, "- Engagement Style: %s\n", p.EngagementStyle)
	fmt.Fprintf(&b, "- Brand Keywords: %s\n", strings.Join(p.PersonalBrandKeywords, ", "))
	fmt.Fprintf(&b, "- Posting Frequency: %s\n", p.PostingFrequency)

	if topicHint != "" {
		fmt.Fprintf(&b, "\nTopic Hint: %s", topicHint)
	}
	if additionalContext != "" {
		fmt.Fprintf(&b, "\nAdditional Context: %s", additionalContext)
	}

	b.WriteString("\n\nPlease provide:\n")
	b.WriteString("1. " + analysisLabel + " An analysis of current market trends, feed ranking preferences and what makes posts spread in this niche\n")
	b.WriteString("2. " + promptSeparator + " A detailed prompt that will consistently produce high-engagement LinkedIn posts for this persona, written in " + p.Localization)
	return b.String()
}

func imageUserPrompt(postContent, marketAnalysis string, p *models.Persona) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Post Content:\n%s\n\n", postContent)
	fmt.Fprintf(&b, "Market Analysis Context:\n%s\n\n", marketAnalysis)
	b.WriteString("Persona:\n")
	fmt.Fprintf(&b, "- Niche: %s\n", p.Niche)
	fmt.Fprintf(&b, "- Industry: %s\n", p.Industry)
	fmt.Fprintf(&b, "- Brand Keywords: %s\n", strings.Join(p.PersonalBrandKeywords, ", "))
	fmt.Fprintf(&b, "- Engagement Style: %s\n\n", p.EngagementStyle)
	b.WriteString("Write a detailed image prompt for the visual that should accompany this LinkedIn post.")
	return b.String()
}

// splitAnalysisResponse separates the stage 1 response into the market
// analysis and the generation prompt. When the separator is missing the text
// is cut in half by runes; lossy reports that the fallback was used.
func splitAnalysisResponse(content string) (analysis, prompt string, lossy bool) {
	if before, after, found := strings.Cut(content, promptSeparator); found {
		analysis = strings.TrimSpace(strings.ReplaceAll(before, analysisLabel, ""))
		return analysis, strings.TrimSpace(after), false
	}

	runes := []rune(content)
	mid := len(runes) / 2
	return strings.TrimSpace(string(runes[:mid])), strings.TrimSpace(string(runes[mid:])), true
}
