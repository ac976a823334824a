// Package classifier sends a rendered call dialogue to Gemini and turns the
// tag-delimited response into a structured judgment.
package classifier

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"call-triage-go/internal/types"
)

const systemPrompt = `You are an AI assistant tasked with analyzing customer service call transcripts. Your goal is to determine whether each call represents a potential customer or an unnecessary call, and if unnecessary, to classify it into one of several predefined categories.
Here is the transcript of a customer service call in format:
<transcript>
{{TRANSCRIPT}}
<transcript>
Analyze the conversation in the transcript and determine if it represents a potential customer or an unnecessary call. If it's an unnecessary call, classify it into one of the following categories:
1. Guaranteed Product: The customer is calling about a product that is still under warranty.
2. Irrelevant Sector: The call is not related to the company's business sector.
3. Installation: The call is solely about product installation.
4. Service Fee Rejected: The customer rejects the service fee without considering the service.
5. Customer Asked for Price: The call is only to inquire about pricing without intent to purchase.
6. Repeat Customer Call: The customer is calling again about the same issue without new information.
Present your analysis in the following format:
<analysis>
<classification>[Potential Customer or Unnecessary Call]</classification>
<category>[If Unnecessary Call, specify the category]</category>
<justification>
[Provide a brief explanation for your classification, referencing specific parts of the conversation that support your decision.]
</justification>
</analysis>`

// Classifier holds the Gemini client and model for the process lifetime.
type Classifier struct {
	client *genai.Client
	model  string
}

// New builds a Classifier against the Gemini API.
func New(ctx context.Context, apiKey, model string) (*Classifier, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key not configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return &Classifier{client: client, model: model}, nil
}

// Classify sends the dialogue text to the model and parses its analysis.
// Request parameters pin deterministic-leaning sampling and disable the
// default content-safety filters for this narrow domain. A request failure is
// fatal for the call; missing tags in the response are not.
func (c *Classifier) Classify(ctx context.Context, transcript string) (types.LLMResult, error) {
	temperature := float32(0)
	topP := float32(0.95)
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		TopP:            &topP,
		MaxOutputTokens: 1024,
		SafetySettings: []*genai.SafetySetting{
			{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdOff},
			{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdOff},
			{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdOff},
			{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdOff},
		},
		SystemInstruction: &genai.Content{Parts: []*genai.Part{
			genai.NewPartFromText(strings.ReplaceAll(systemPrompt, "{{TRANSCRIPT}}", transcript)),
		}},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, []*genai.Content{
		{Role: "user", Parts: []*genai.Part{genai.NewPartFromText(transcript)}},
	}, cfg)
	if err != nil {
		return types.LLMResult{}, fmt.Errorf("genai generate: %w", err)
	}

	var sb strings.Builder
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			sb.WriteString(part.Text)
		}
	}

	result := ParseAnalysis(sb.String())
	result.Transcript = transcript
	return result, nil
}
