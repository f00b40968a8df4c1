package summarize

import (
    "fmt"
    "strings"

    openai "github.com/sashabaranov/go-openai"
    "golang.org/x/text/language"
    "golang.org/x/text/language/display"

    "github.com/hyperifyio/pagesum/internal/fetch"
)

// DefaultSystemPrompt asks for a short Markdown summary that ignores
// navigation text.
const DefaultSystemPrompt = "You are an assistant that analyzes the contents of a website " +
    "and provides a short summary, ignoring text that might be navigation related. " +
    "Respond in markdown."

// Prompt customizes the system message. The zero value gives the default
// prompt with no language instruction.
type Prompt struct {
    // System, when non-empty, replaces DefaultSystemPrompt.
    System string
    // Language is a BCP 47 tag for the summary language, e.g. "fi".
    Language string
}

// BuildMessages returns the default two-message prompt for page.
func BuildMessages(page fetch.Page) []openai.ChatCompletionMessage {
    return Prompt{}.Messages(page)
}

// Messages returns exactly two messages: the system instruction and a user
// message embedding the page title and body text verbatim. The body is
// never truncated; length limits are left to the provider.
func (p Prompt) Messages(page fetch.Page) []openai.ChatCompletionMessage {
    return []openai.ChatCompletionMessage{
        {Role: openai.ChatMessageRoleSystem, Content: p.system()},
        {Role: openai.ChatMessageRoleUser, Content: userMessage(page)},
    }
}

func (p Prompt) system() string {
    system := DefaultSystemPrompt
    if strings.TrimSpace(p.System) != "" {
        system = p.System
    }
    if name := LanguageName(p.Language); name != "" {
        system += "\nWrite the summary in " + name + "."
    }
    return system
}

func userMessage(page fetch.Page) string {
    var sb strings.Builder
    sb.WriteString("You are looking at a website titled ")
    sb.WriteString(page.Title)
    sb.WriteString("\nThe contents of this website is as follows; please provide a short summary of this website in markdown. ")
    sb.WriteString("If it includes news or announcements, then summarize these too.\n\n")
    sb.WriteString(page.BodyText)
    return sb.String()
}

// ValidateLanguage reports whether tag is a well-formed BCP 47 tag. An empty
// tag is valid and means "no preference".
func ValidateLanguage(tag string) error {
    if strings.TrimSpace(tag) == "" {
        return nil
    }
    if _, err := language.Parse(tag); err != nil {
        return fmt.Errorf("invalid language %q: %w", tag, err)
    }
    return nil
}

// LanguageName returns the English name for tag ("fi" -> "Finnish"). Tags
// without a known name are returned as given; invalid or empty tags give "".
func LanguageName(tag string) string {
    tag = strings.TrimSpace(tag)
    if tag == "" {
        return ""
    }
    t, err := language.Parse(tag)
    if err != nil {
        return ""
    }
    if name := display.English.Tags().Name(t); name != "" {
        return name
    }
    return t.String()
}
