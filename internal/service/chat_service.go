package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"charterbot/internal/completion"
	"charterbot/internal/conversation"
	"charterbot/internal/domain"
	"charterbot/internal/knowledge"
	"charterbot/internal/prompt"
)

// DefaultHistoryWindow caps the number of prior turns sent per request.
const DefaultHistoryWindow = 10

// Assistant-visible replies used when the completion call fails.
const (
	StillProcessingMessage = "⏳ Your request is still being processed. Please resend your message in a moment."
	ConnectionMessage      = "⚠️ We could not reach our AI service. Please check your connection and try again."
	unavailableFormat      = "⚠️ Our AI service is temporarily unavailable. Please try again shortly. (%s)"
	unexpectedFormat       = "⚠️ An error occurred: %s"
)

// Completer sends a message list to the completion service.
type Completer interface {
	Chat(ctx context.Context, messages []completion.Message) (string, error)
	Model() string
}

// Stats is what the renderer shows about the knowledge base and model.
type Stats struct {
	Charter  int
	Sales    int
	Keywords int
	Model    string
}

// ChatService turns user messages into assistant replies. It holds only
// shared read-only collaborators; session state is passed in by the caller.
type ChatService struct {
	completer     Completer
	composer      *prompt.Composer
	store         *knowledge.Store
	historyWindow int
	logger        *zap.Logger
}

// NewChatService wires the completion client, prompt composer and knowledge store.
func NewChatService(completer Completer, composer *prompt.Composer, store *knowledge.Store, historyWindow int, logger *zap.Logger) *ChatService {
	if store == nil {
		store = knowledge.Empty()
	}
	if composer == nil {
		composer = prompt.NewComposer(prompt.DefaultMaxSnippets, prompt.StyleFull)
	}
	if historyWindow <= 0 {
		historyWindow = DefaultHistoryWindow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		completer:     completer,
		composer:      composer,
		store:         store,
		historyWindow: historyWindow,
		logger:        logger,
	}
}

// Messages builds the request message list: system instruction, the most
// recent history turns, then the new user message.
func (s *ChatService) Messages(state *conversation.State, userMessage string) []completion.Message {
	history := state.Recent(s.historyWindow)
	msgs := make([]completion.Message, 0, len(history)+2)
	msgs = append(msgs, completion.Message{Role: "system", Content: s.composer.Compose(state.Mode(), s.store)})
	for _, turn := range history {
		msgs = append(msgs, completion.Message{Role: string(turn.Role), Content: turn.Content})
	}
	return append(msgs, completion.Message{Role: string(domain.RoleUser), Content: userMessage})
}

// Complete asks the completion service for a reply to userMessage. It
// always returns text: failures become an assistant-visible message.
// state is read but never modified.
func (s *ChatService) Complete(ctx context.Context, state *conversation.State, userMessage string) string {
	msgs := s.Messages(state, userMessage)
	reply, err := s.completer.Chat(ctx, msgs)
	if err == nil {
		return reply
	}
	s.logger.Warn("completion failed",
		zap.String("session", state.ID()),
		zap.Stringer("mode", state.Mode()),
		zap.Error(err))
	return FailureMessage(err)
}

// FailureMessage maps a completion error to the text shown to the user.
func FailureMessage(err error) string {
	switch completion.KindOf(err) {
	case completion.KindTimeout:
		return StillProcessingMessage
	case completion.KindConnection:
		return ConnectionMessage
	case completion.KindService:
		return fmt.Sprintf(unavailableFormat, serviceDetail(err))
	}
	return fmt.Sprintf(unexpectedFormat, completion.Excerpt(err.Error(), completion.MaxExcerpt))
}

func serviceDetail(err error) string {
	var parts []string
	var ce *completion.Error
	if errors.As(err, &ce) {
		if ce.Status != 0 {
			parts = append(parts, fmt.Sprintf("status %d", ce.Status))
		}
		if ce.Excerpt != "" {
			parts = append(parts, ce.Excerpt)
		} else if ce.Err != nil {
			parts = append(parts, ce.Err.Error())
		}
	}
	if len(parts) == 0 {
		parts = append(parts, err.Error())
	}
	return completion.Excerpt(strings.Join(parts, ": "), completion.MaxExcerpt)
}

// Submit handles one user submission: it requests a reply using the
// history before text, then appends the user turn and the reply. Blank
// input leaves the transcript untouched. The updated transcript is returned.
func (s *ChatService) Submit(ctx context.Context, state *conversation.State, text string) []domain.Turn {
	text = strings.TrimSpace(text)
	if text == "" {
		return state.Turns()
	}
	reply := s.Complete(ctx, state, text)
	state.AppendUser(text)
	state.AppendAssistant(reply)
	s.logger.Debug("turn completed",
		zap.String("session", state.ID()),
		zap.Int("turns", state.Len()))
	return state.Turns()
}

// SetMode switches the session's service mode.
func (s *ChatService) SetMode(state *conversation.State, m domain.Mode) {
	state.SetMode(m)
	s.logger.Debug("mode switched", zap.String("session", state.ID()), zap.Stringer("mode", state.Mode()))
}

// Clear empties the session transcript.
func (s *ChatService) Clear(state *conversation.State) {
	state.Clear()
	s.logger.Debug("transcript cleared", zap.String("session", state.ID()))
}

// Transcript returns the session's turns for display.
func (s *ChatService) Transcript(state *conversation.State) []domain.Turn { return state.Turns() }

// Stats reports knowledge counts and the model in use.
func (s *ChatService) Stats() Stats {
	c := s.store.Counts()
	st := Stats{Charter: c.Charter, Sales: c.Sales, Keywords: c.Keywords}
	if s.completer != nil {
		st.Model = s.completer.Model()
	}
	return st
}
