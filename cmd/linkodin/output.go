package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jordanhubbard/linkodin/pkg/models"
)

var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3FB950"))
	contentStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

func heading(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf(format, args...)))
}

func success(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, successStyle.Render("[+] "+fmt.Sprintf(format, args...)))
}

func field(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render(label+":"), value)
}

func block(w io.Writer, title, body string) {
	fmt.Fprintln(w)
	heading(w, "[*] %s:", title)
	fmt.Fprintln(w, contentStyle.Render(body))
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}

func printPersonaList(w io.Writer, personas []*models.Persona) {
	if len(personas) == 0 {
		fmt.Fprintln(w, "No personas found.")
		return
	}
	heading(w, "[*] Available Personas:")
	for _, p := range personas {
		fmt.Fprintf(w, "  - %s: %s (%s)\n", p.ID, p.Name, p.Niche)
	}
}

func printPersona(w io.Writer, p *models.Persona) {
	heading(w, "[*] Persona: %s", p.Name)
	field(w, "ID", p.ID)
	field(w, "Niche", p.Niche)
	field(w, "Target Audience", p.TargetAudience)
	field(w, "Localization", p.Localization)
	field(w, "Tone", p.Tone)
	field(w, "Industry", p.Industry)
	field(w, "Experience Level", p.ExperienceLevel)
	field(w, "Content Themes", strings.Join(p.ContentThemes, ", "))
	field(w, "Engagement Style", p.EngagementStyle)
	field(w, "Brand Keywords", strings.Join(p.PersonalBrandKeywords, ", "))
	field(w, "Posting Frequency", p.PostingFrequency)
	if p.Description != "" {
		field(w, "Description", p.Description)
	}
}

func printPostList(w io.Writer, title string, posts []*models.LinkedInPost) {
	heading(w, "[*] %s:", title)
	if len(posts) == 0 {
		fmt.Fprintln(w, "No posts found.")
		return
	}
	for _, p := range posts {
		fmt.Fprintf(w, "  - %s (Persona: %s) - %s\n", p.ID, p.PersonaID, formatTime(p.CreatedAt))
	}
}

func printPost(w io.Writer, p *models.LinkedInPost, withAnalysis bool) {
	heading(w, "[*] Post: %s", p.ID)
	field(w, "Persona ID", p.PersonaID)
	field(w, "Created", formatTime(p.CreatedAt))
	block(w, "Content", p.Content)
	if p.ImagePrompt != "" {
		block(w, "Image Prompt", p.ImagePrompt)
	}
	if withAnalysis && p.MarketAnalysis != "" {
		block(w, "Market Analysis", p.MarketAnalysis)
	}
}
