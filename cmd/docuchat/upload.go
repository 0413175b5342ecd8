package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"docuchat/internal/app"
	"docuchat/internal/bootstrap"
	"docuchat/internal/model"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file.pdf>",
	Short: "Upload a document and wait for server-side processing",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpload,
}

func runUpload(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap.New()
	if err != nil {
		return err
	}
	defer rt.Close()

	path := args[0]
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file failed: %w", err)
	}
	defer file.Close()

	success := color.New(color.FgGreen)
	failure := color.New(color.FgRed)

	tracker, err := rt.Ingest.Upload(cmd.Context(), filepath.Base(path), file, func(rec model.IngestionRecord) {
		switch rec.Status {
		case model.StatusCompleted:
			fmt.Println()
			success.Printf("Processing Complete: your document %q is ready.\n", rec.Title)
		case model.StatusFailed:
			fmt.Println()
		default:
			fmt.Printf("\rProcessing %s... %3d%%", rec.Title, rec.Progress)
		}
	})
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	success.Printf("Uploaded %q, document id %s\n", tracker.Record().Title, tracker.Record().DocumentID)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)

	select {
	case <-sigs:
		tracker.Stop()
		fmt.Println("\nStopped tracking; processing continues server-side.")
		return nil
	case <-tracker.Done():
	}

	if tracker.State() == app.TrackerFailed {
		if err := tracker.Err(); err != nil {
			failure.Printf("Error fetching status: %v\n", err)
		} else {
			failure.Println("Failed to process the document.")
		}
		return fmt.Errorf("ingestion failed for document %s", tracker.Record().DocumentID)
	}
	return nil
}
