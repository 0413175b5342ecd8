package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"docuchat/internal/bootstrap"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Manage your uploaded documents",
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap.New()
		if err != nil {
			return err
		}
		defer rt.Close()

		docs, err := rt.Client.ListDocuments(cmd.Context())
		if err != nil {
			return fmt.Errorf("list documents failed: %w", err)
		}
		if len(docs) == 0 {
			fmt.Println("No documents uploaded yet.")
			return nil
		}

		ready := color.New(color.FgGreen).SprintFunc()
		pending := color.New(color.FgYellow).SprintFunc()
		for _, doc := range docs {
			state := pending("processing")
			if doc.IsProcessed {
				state = ready("ready")
			}
			fmt.Printf("%s  %s  [%s]\n", doc.ID, doc.Title, state)
		}
		return nil
	},
}

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an uploaded document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap.New()
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.Client.DeleteDocument(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete document failed: %w", err)
		}
		fmt.Println("Document deleted successfully.")
		return nil
	},
}

func init() {
	documentsCmd.AddCommand(documentsListCmd, documentsDeleteCmd)
}
