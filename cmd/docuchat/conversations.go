package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"docuchat/internal/bootstrap"
)

var conversationsCmd = &cobra.Command{
	Use:   "conversations",
	Short: "Manage your conversations",
}

var conversationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap.New()
		if err != nil {
			return err
		}
		defer rt.Close()

		conversations, err := rt.Client.ListConversations(cmd.Context())
		if err != nil {
			return fmt.Errorf("list conversations failed: %w", err)
		}
		if len(conversations) == 0 {
			fmt.Println("No conversations yet.")
			return nil
		}

		title := color.New(color.Bold)
		for _, conv := range conversations {
			title.Println(conv.Title)
			fmt.Printf("  id: %s  messages: %d  created: %s\n",
				conv.ID, conv.MessageCount, conv.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var conversationsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap.New()
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.Client.DeleteConversation(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete conversation failed: %w", err)
		}
		fmt.Println("Conversation deleted successfully.")
		return nil
	},
}

func init() {
	conversationsCmd.AddCommand(conversationsListCmd, conversationsDeleteCmd)
}
