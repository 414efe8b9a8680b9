package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"charterbot/internal/completion"
	"charterbot/internal/conversation"
	"charterbot/internal/domain"
	"charterbot/internal/knowledge"
	"charterbot/internal/prompt"
	"charterbot/internal/service"
	"charterbot/internal/tui"
)

func (a *app) chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive chat (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runChat(cmd)
		},
	}
}

func (a *app) askCmd() *cobra.Command {
	var modeLabel string
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Send a single question and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, ok := domain.ParseMode(modeLabel)
			if !ok {
				return fmt.Errorf("unknown service mode %q", modeLabel)
			}
			svc, warnings, err := a.chatService()
			if err != nil {
				return err
			}
			printWarnings(cmd, warnings)
			state := conversation.New()
			svc.SetMode(state, m)
			turns := svc.Submit(cmd.Context(), state, strings.Join(args, " "))
			if len(turns) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), turns[len(turns)-1].Content)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&modeLabel, "mode", "m", domain.DefaultMode.String(), "Service mode (General Inquiry, Charter Booking, Yacht Sales, Fleet Information, Contact & Support)")
	return cmd
}

func (a *app) runChat(cmd *cobra.Command) error {
	svc, warnings, err := a.chatService()
	if err != nil {
		return err
	}
	notice := ""
	if len(warnings) > 0 {
		notice = "Note: knowledge base loaded partially: " + warnings[0].Error()
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	m := tui.New(ctx, svc, conversation.New(), notice)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	return nil
}

func (a *app) chatService() (*service.ChatService, []knowledge.Warning, error) {
	store, warnings := a.kb.Load()

	cc := a.cfg.Completion
	client, err := completion.NewClient(completion.Config{
		BaseURL:     cc.BaseURL,
		APIKeyEnv:   cc.APIKeyEnv,
		Model:       cc.Model,
		Temperature: cc.Temperature,
		MaxTokens:   cc.MaxTokens,
		Timeout:     time.Duration(cc.TimeoutSecs) * time.Second,
		Logger:      a.logger,
	})
	if err != nil {
		return nil, warnings, fmt.Errorf("completion client init failed: %w", err)
	}

	pc := a.cfg.Prompt
	var style prompt.Style
	switch pc.SnippetStyle {
	case "full", "":
		style = prompt.StyleFull
	case "question":
		style = prompt.StyleQuestion
	default:
		return nil, warnings, fmt.Errorf("unknown snippet style: %s", pc.SnippetStyle)
	}
	composer := prompt.NewComposer(pc.MaxSnippets, style)
	composer.QuestionLimit = pc.QuestionLimit

	svc := service.NewChatService(client, composer, store, a.cfg.Conversation.HistoryWindow, a.logger)
	return svc, warnings, nil
}
