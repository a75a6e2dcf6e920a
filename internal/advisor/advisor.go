// Package advisor produces shopping advice and chat replies from a hosted
// generative model.
//
// None of the operations return collaborator errors. Without a backend the
// single-turn calls answer with canned mock text; when the backend fails the
// failure is logged and a fixed apology is returned instead.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/shopaholics/internal/domain/product"
)

// Models used for single-turn prompts and for chat sessions.
const (
	AdviceModel = "gemini-2.5-flash"
	ChatModel   = "gemini-3-pro-preview"
)

// SystemInstruction sets the persona of chat sessions.
const SystemInstruction = "You are the Shopaholics Inc. AI Assistant. You are helpful but sarcastic, witty, and British. " +
	"You love to playfully judge people's spending habits, but you are also genuinely helpful with finding products " +
	"and answering questions about the store. You hate processing returns."

// Fixed replies.
const (
	impulseApology  = "My circuits are fried, but my judgement of your spending remains."
	impulseFallback = "AI is speechless at your spending habits."
	dupeApology     = "Just trust me, it's a bargain."
	dupeFallback    = "Save money, buy the cheap one."
)

// Backend is the hosted model. GeminiBackend is the production
// implementation.
type Backend interface {
	GenerateText(ctx context.Context, model, prompt string) (string, error)
	StartChat(ctx context.Context, model, systemInstruction string) (ChatSession, error)
}

// ChatSession is a stateful multi-turn conversation held by the backend.
type ChatSession interface {
	Send(ctx context.Context, message string) (string, error)
}

// Advisor answers shopping questions. A nil backend puts it in mock mode.
type Advisor struct {
	backend Backend
}

// New creates an Advisor. Pass a nil backend when no API key is configured.
func New(backend Backend) *Advisor {
	return &Advisor{backend: backend}
}

// Enabled reports whether a backend is configured.
func (a *Advisor) Enabled() bool {
	return a.backend != nil
}

// ImpulseAdvice returns a one-sentence nudge about buying p with cartTotal
// already in the cart.
func (a *Advisor) ImpulseAdvice(ctx context.Context, p product.Product, cartTotal decimal.Decimal) string {
	if a.backend == nil {
		return fmt.Sprintf("Mock AI: Buying %s? In this economy? You've already spent £%s. Maybe sleep on it.",
			p.Title, cartTotal)
	}

	prompt := strings.Join([]string{
		`You are a sarcastic, witty, British financial "Impulse Coach" for an e-commerce site called Shopaholics Inc.`,
		fmt.Sprintf("The user is looking at: %s which costs £%s.", p.Title, p.Price),
		fmt.Sprintf("Their current cart total is £%s.", cartTotal),
		"Give them a short, funny, slightly judging 1-sentence nudge about whether they really need this.",
		"Don't be rude, just cheeky.",
	}, "\n")

	text, err := a.backend.GenerateText(ctx, AdviceModel, prompt)
	if err != nil {
		zctx.From(ctx).Error("Generate impulse advice",
			zap.String("product_id", p.ID),
			zap.Error(err),
		)
		return impulseApology
	}
	if text == "" {
		return impulseFallback
	}
	return text
}

// DupeExplanation returns a one-sentence argument for buying dupe instead
// of original.
func (a *Advisor) DupeExplanation(ctx context.Context, original, dupe product.Product) string {
	if a.backend == nil {
		return fmt.Sprintf("Mock AI: The %s does basically the same thing for way less cash.", dupe.Title)
	}

	prompt := strings.Join([]string{
		"Compare these two products for a shopper.",
		fmt.Sprintf("Expensive: %s (£%s). Description: %s.", original.Title, original.Price, original.Description),
		fmt.Sprintf("Cheap Dupe: %s (£%s). Description: %s.", dupe.Title, dupe.Price, dupe.Description),
		"Write a 1-sentence persuasive argument why the cheap one is the smarter buy. Use British slang if appropriate.",
	}, "\n")

	text, err := a.backend.GenerateText(ctx, AdviceModel, prompt)
	if err != nil {
		zctx.From(ctx).Error("Generate dupe explanation",
			zap.String("original_id", original.ID),
			zap.String("dupe_id", dupe.ID),
			zap.Error(err),
		)
		return dupeApology
	}
	if text == "" {
		return dupeFallback
	}
	return text
}
