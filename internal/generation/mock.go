package generation

import (
	"bytes"
	"context"
	"strings"
	"text/template"
	"unicode"

	"github.com/jordanhubbard/linkodin/pkg/models"
)

// MockService produces deterministic text from fixed templates. It makes no
// network calls and is used by the demo and by --mock.
type MockService struct{}

func NewMockService() *MockService {
	return &MockService{}
}

const defaultMockTopic = "industry insights"

var mockFuncs = template.FuncMap{
	"join":  strings.Join,
	"lower": strings.ToLower,
	"title": titleWords,
	"tag":   func(s string) string { return strings.ReplaceAll(s, " ", "") },
}

func mustTemplate(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(mockFuncs).Parse(strings.TrimSpace(text)))
}

type mockData struct {
	*models.Persona
	Topic   string
	Context string
	Hashtag string
}

func newMockData(p *models.Persona, topic, context string) mockData {
	return mockData{Persona: p, Topic: topic, Context: context, Hashtag: brandHashtag(p)}
}

// brandHashtag is the first brand keyword without spaces, or the niche when
// the persona has no keywords.
func brandHashtag(p *models.Persona) string {
	for _, k := range p.PersonalBrandKeywords {
		if k = strings.ReplaceAll(strings.TrimSpace(k), " ", ""); k != "" {
			return k
		}
	}
	return strings.ToLower(strings.ReplaceAll(p.Niche, " ", ""))
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func render(t *template.Template, data mockData) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		// Templates are fixed and the data always has every field.
		panic(err)
	}
	return buf.String()
}

var mockAnalysisTemplate = mustTemplate("analysis", `
MOCK MARKET ANALYSIS for {{.Name}}:

Current LinkedIn feed preferences:
- {{.EngagementStyle}} content performs 47% better in {{.Niche}}
- Posts with a {{.Tone}} tone get 3x more engagement from {{.TargetAudience}}
- {{.Industry}} professionals are 2.1x more likely to engage with content about {{.Topic}}
- Posting cadence: {{.PostingFrequency}}
- Trending hashtag in {{.Niche}}: #{{.Hashtag}}

Engagement triggers:
- Personal stories carrying a business lesson
- Contrarian viewpoints that start a healthy debate
- Data-backed insights with concrete takeaways

Market sentiment:
The {{.Industry}} space rewards authentic, {{.Tone}} content that pairs personal experience with practical advice.
`)

var mockPromptTemplate = mustTemplate("prompt", `
You are {{.Name}}, a respected voice in {{.Niche}}. Your audience is {{.TargetAudience}}.

Write a LinkedIn post about "{{.Topic}}" that:
- Reflects your {{.Tone}} tone and {{.EngagementStyle}} style
- Draws on these themes: {{join .ContentThemes ", "}}
- Uses your brand keywords naturally: {{join .PersonalBrandKeywords ", "}}
- Speaks to professionals in {{.Industry}}
- Is written for a {{.Localization}} audience

The post should:
1. Open with a hook that stops the scroll
2. Tell a personal story or share a contrarian insight
3. Include 2-3 actionable takeaways
4. Close with a question that invites comments
5. Stay between 150 and 200 words

Additional context: {{if .Context}}{{.Context}}{{else}}Focus on practical lessons that resonate with your audience{{end}}

Write in first person as {{.Name}}.
`)

var mockPosts = map[string]*template.Template{
	"startup lessons": mustTemplate("startup", `
Three years ago I made the most expensive mistake of my career.

I spent six months building a product nobody wanted.

What that $50k lesson taught me:

- Talk to customers before writing code
- Validate demand with pre-orders, not surveys
- Ship an MVP in two weeks, not two months

The hardest part was admitting I was wrong and changing course.

That "failed" startup taught me more than any win. It led to my next company, which reached $1M ARR in 18 months.

What is the most valuable lesson a setback has taught you?

#entrepreneurship #{{.Hashtag}} #startups #growth
`),
	"marketing strategy": mustTemplate("marketing", `
I just went through 1,000 of the best performing LinkedIn posts.

The pattern surprised me.

It was not graphics and it was not perfect copy.

It was authenticity.

The posts that spread had:
- Personal stories instead of stock photos
- Honest setbacks, not only wins
- Real numbers instead of vague claims
- Questions that actually matter

Your own perspective is the advantage nobody can copy.

What is one honest story you could share that would help your audience?

#marketing #{{.Hashtag}} #authenticity #growth
`),
	"AI innovation": mustTemplate("ai", `
AI will not replace people.

People who use AI will replace people who do not.

After six months of working with AI tools every day, here is what I have learned:

The value is not in the technology.
It is in asking better questions.

Prompts I use daily:
- "Act as a [role] and help me [specific task]"
- "Challenge my assumptions about [topic]"
- "Give me 10 variations of [idea] for [audience]"

Treat AI as a thinking partner. It amplifies judgment, it does not replace it.

How are you using AI in your work? Share your best prompt below.

#AI #{{.Hashtag}} #innovation #futureofwork
`),
}

var mockGenericPost = mustTemplate("generic", `
Something I wish I had heard earlier in my {{lower .Niche}} journey:

{{title .Tone}} is not just an attitude. It is a strategic advantage.

When you approach {{lower .Industry}} with genuinely {{.Tone}} energy, three things happen:

1. You attract the right opportunities
2. You build stronger relationships
3. You see solutions others miss

I learned this the hard way after years of playing it safe.

The moment I stopped hedging and leaned into being {{.Tone}}, everything changed.

Your {{lower .TargetAudience}} need what you bring to the table.

Where could you be more {{.Tone}} in your approach?

#{{.Hashtag}} #{{tag (lower .Niche)}} #growth #authenticity
`)

var mockImagePrompts = map[string]*template.Template{
	"entrepreneurship": mustTemplate("img-entrepreneurship", `
Lifestyle photo of a confident founder in a modern workspace. Minimal office, natural light, laptop, notebook and coffee on the desk. Warm, inspiring atmosphere with {{.Tone}} energy. Palette of navy blue, gold accents and clean whites. Professional but approachable, aimed at {{.TargetAudience}}. Authentic, no stock photo look.
`),
	"marketing": mustTemplate("img-marketing", `
Clean modern graphic of a marketing analytics dashboard with rising growth charts. Bright blues and greens for upward trends, subtle social icons, engagement metrics and a conversion funnel. Dynamic but professional, aimed at {{.TargetAudience}}. Style is {{.Tone}} and data-driven.
`),
	"technology": mustTemplate("img-technology", `
Approachable futuristic tech workspace. Multi-monitor setup showing code and AI interfaces, well lit, with subtle circuit patterns and digital overlays. Blues, purples and whites with neon accents. Cutting edge without feeling intimidating, aimed at {{.TargetAudience}} in {{.Industry}}.
`),
	"professional": mustTemplate("img-professional", `
Clean professional portrait or office scene reflecting {{.Industry}} expertise. Person in business casual, confident and {{.Tone}}. Uncluttered modern office or co-working background with bright, even lighting. Warm colours that match a {{.Tone}} personality. The image should signal trust and authority in {{.Niche}}.
`),
}

func (m *MockService) GenerateMarketAnalysisAndPrompt(_ context.Context, persona *models.Persona, topicHint, additionalContext string) (string, string, error) {
	topic := topicHint
	if topic == "" {
		topic = defaultMockTopic
	}
	data := newMockData(persona, topic, additionalContext)
	return render(mockAnalysisTemplate, data), render(mockPromptTemplate, data), nil
}

// mockPostTopic picks a template from keywords in the generation prompt.
func mockPostTopic(generationPrompt string) string {
	lower := strings.ToLower(generationPrompt)
	switch {
	case strings.Contains(lower, "startup"):
		return "startup lessons"
	case strings.Contains(lower, "marketing"):
		return "marketing strategy"
	// "AI" is matched case-sensitively on the raw prompt; matching it on the
	// lowered text would never hit.
	case strings.Contains(generationPrompt, "AI") || strings.Contains(lower, "artificial intelligence"):
		return "AI innovation"
	default:
		return "professional growth"
	}
}

func (m *MockService) GeneratePostContent(_ context.Context, generationPrompt string, persona *models.Persona) (string, error) {
	data := newMockData(persona, "", "")
	if t, ok := mockPosts[mockPostTopic(generationPrompt)]; ok {
		return render(t, data), nil
	}
	return render(mockGenericPost, data), nil
}

// mockImageTheme picks an image template from keywords in the post content.
func mockImageTheme(postContent string) string {
	lower := strings.ToLower(postContent)
	switch {
	case strings.Contains(lower, "startup") || strings.Contains(lower, "entrepreneur"):
		return "entrepreneurship"
	case strings.Contains(lower, "marketing"):
		return "marketing"
	case strings.Contains(postContent, "AI") || strings.Contains(lower, "technology"):
		return "technology"
	default:
		return "professional"
	}
}

func (m *MockService) GenerateImagePrompt(_ context.Context, postContent, _ string, persona *models.Persona) (string, error) {
	return render(mockImagePrompts[mockImageTheme(postContent)], newMockData(persona, "", "")), nil
}
