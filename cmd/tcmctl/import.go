package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrewpaige1/tcm-study-api/store"
)

func newImportCmd() *cobra.Command {
	var collection, file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace a collection with the documents of a JSON file",
		Long: "Reads a JSON array of objects (or {\"data\": [...]}) and replaces every " +
			"document of the collection with it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !store.ValidCollection(collection) {
				return fmt.Errorf("unknown collection %q", collection)
			}
			docs, err := readDocuments(file)
			if err != nil {
				return err
			}
			db, err := openDB()
			if err != nil {
				return err
			}
			n, err := store.NewCollectionStore(db).ReplaceAll(context.Background(), collection, docs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d documents into %s\n", n, collection)
			return nil
		},
	}
	cmd.Flags().StringVar(&collection, "collection", "", "target collection")
	cmd.Flags().StringVar(&file, "file", "", "JSON file to import")
	cmd.MarkFlagRequired("collection")
	cmd.MarkFlagRequired("file")
	return cmd
}

func readDocuments(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var docs []json.RawMessage
	if err := json.Unmarshal(data, &docs); err == nil {
		return docs, nil
	}
	var wrapped struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil || wrapped.Data == nil {
		return nil, fmt.Errorf("%s: expected a JSON array or {\"data\": [...]}", path)
	}
	return wrapped.Data, nil
}
