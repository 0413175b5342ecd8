package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"docuchat/internal/app"
	"docuchat/internal/bootstrap"
	"docuchat/internal/model"
)

var suggestedQuestions = []string{
	"What is this document about?",
	"Give a brief summary of the document?",
	"Explain the key points in this document.",
	"What are the main takeaways?",
}

var (
	chatDocumentIDs    []string
	chatConversationID string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat over your processed documents",
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringSliceVarP(&chatDocumentIDs, "documents", "d", nil, "document ids to chat over (default: all processed documents)")
	chatCmd.Flags().StringVarP(&chatConversationID, "conversation", "c", "", "conversation id to continue")
}

func runChat(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap.New()
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := cmd.Context()

	documentIDs := chatDocumentIDs
	if len(documentIDs) == 0 {
		docs, err := rt.Client.ListDocuments(ctx)
		if err != nil {
			return fmt.Errorf("list documents failed: %w", err)
		}
		for _, doc := range docs {
			if doc.IsProcessed {
				documentIDs = append(documentIDs, doc.ID)
			}
		}
	}

	prompt := color.New(color.FgGreen, color.Bold).SprintFunc()
	assistant := color.New(color.FgCyan)
	notice := color.New(color.FgYellow)
	errText := color.New(color.FgRed)

	if len(documentIDs) == 0 {
		notice.Println("No processed documents yet. Upload one with: docuchat upload <file.pdf>")
	}

	timeline := rt.Timeline
	session := rt.Session
	session.OnDelta(func(delta string) {
		assistant.Print(delta)
	})

	// Ctrl+C cancels the in-flight exchange; a second one exits the loop.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		for range sigs {
			if session.State() == app.StateSending || session.State() == app.StateStreaming {
				session.Cancel()
				continue
			}
			fmt.Println()
			os.Exit(0)
		}
	}()

	fmt.Println("Ask questions related to your documents. Type 'exit' to quit.")
	notice.Println("Suggested questions:")
	for _, q := range suggestedQuestions {
		notice.Printf("  - %s\n", q)
	}
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(prompt("You: "))
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(input, "exit") {
			break
		}

		assistant.Print("Assistant: ")
		err := session.Send(ctx, app.SendInput{
			Message:        input,
			DocumentIDs:    documentIDs,
			ConversationID: chatConversationID,
		})
		switch {
		case errors.Is(err, app.ErrEmptyMessage):
			fmt.Println()
			continue
		case errors.Is(err, app.ErrNoDocuments):
			fmt.Println()
			notice.Println("Select documents first; nothing was sent.")
			continue
		case err != nil:
			errText.Println(session.LastError())
		}

		if session.State() == app.StateCancelled {
			if last, ok := timeline.Last(); ok && last.Kind == model.KindNormal {
				notice.Println(last.Content)
			}
		}
		fmt.Println()
		fmt.Println()
	}
	return nil
}
