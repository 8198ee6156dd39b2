package ideas

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/sync/errgroup"
)

const systemPrompt = "You are a brainstorming assistant. Given an idea and " +
	"its surrounding context, reply with one short, concrete related idea. " +
	"Reply with the idea text only."

// Request asks for one related idea for a source text.
type Request struct {
	SourceText string
	// Context carries the texts of nodes already connected to the source,
	// so generated ideas do not repeat them.
	Context []string
	Model   string
}

// Service generates idea text. Implementations classify failures as *Error.
type Service interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Client is an OpenAI-backed Service.
type Client struct {
	api *openai.Client
}

// NewClient creates a generation client. The key must be non-empty; callers
// that cannot supply one should not offer generation at all.
func NewClient(apiKey string) *Client {
	return &Client{api: openai.NewClient(apiKey)}
}

// Generate implements Service.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	var user strings.Builder
	user.WriteString("Idea: ")
	user.WriteString(req.SourceText)
	if len(req.Context) > 0 {
		user.WriteString("\n\nAlready explored:\n")
		for _, t := range req.Context {
			user.WriteString("- ")
			user.WriteString(t)
			user.WriteString("\n")
		}
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: user.String()},
		},
	})
	if err != nil {
		return "", Classify(req.Model, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", &Error{Reason: ReasonEmptyResponse, Model: req.Model}
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Completion is the per-model result of a fan-out. After every model has
// reported, a final Completion with Done set (and no model) is delivered.
type Completion struct {
	Model string
	Index int
	Total int
	Text  string
	Err   error
	Done  bool
}

// FanOut runs one generation per model in parallel and delivers each result
// on out as it completes, followed by a Done marker. Individual failures do
// not stop the others; the Done marker is the join barrier. The channel is
// not closed, since the consumer owns it.
func FanOut(ctx context.Context, svc Service, source string, contexts []string, models []string, out chan<- Completion) {
	g, ctx := errgroup.WithContext(ctx)
	for i, model := range models {
		i, model := i, model
		g.Go(func() error {
			text, err := svc.Generate(ctx, Request{
				SourceText: source,
				Context:    contexts,
				Model:      model,
			})
			out <- Completion{
				Model: model,
				Index: i,
				Total: len(models),
				Text:  text,
				Err:   err,
			}
			return nil
		})
	}
	g.Wait()
	out <- Completion{Done: true}
}
