/*
Copyright © 2025 Book Tutor Authors
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"booktutor/src/core/tutor"
	"booktutor/src/log"
)

var (
	askBookID   int64
	askQuestion string
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ask a question about an ingested book",
	Long:  `The ask command retrieves relevant excerpts from a book and generates a cited answer.`,
	Run:   RunAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().Int64VarP(&askBookID, "book", "b", 0, "ID of the book to ask about")
	askCmd.Flags().StringVarP(&askQuestion, "question", "q", "", "question to ask")
	askCmd.MarkFlagRequired("book")
	askCmd.MarkFlagRequired("question")
}

func RunAsk(cmd *cobra.Command, args []string) {
	db, err := openDatabase()
	if err != nil {
		log.Error(err, "Failed to connect to database")
		return
	}

	books, chunks, err := openStores(db)
	if err != nil {
		log.Error(err, "Failed to initialize stores")
		return
	}

	vectors, err := newVectorStore()
	if err != nil {
		log.Error(err, "Failed to initialize vector store")
		return
	}

	keywords, err := newKeywordIndex()
	if err != nil {
		log.Error(err, "Failed to initialize keyword index")
		return
	}

	search := tutor.NewSearchService(newEmbeddingProvider(), vectors, keywords, books, chunks, viper.GetInt("rag.candidates"))
	answer := tutor.NewAnswerService(search, newLLMProvider(), viper.GetInt("rag.top_k"))

	result, err := answer.Ask(context.Background(), askBookID, askQuestion)
	if err != nil {
		log.Error(err, "Failed to answer question", "bookId", askBookID)
		return
	}

	fmt.Println(result.Text)
	if len(result.Citations) > 0 {
		fmt.Println("\nSources:")
		for _, citation := range result.Citations {
			fmt.Printf("  [Chapter: %s | Section: %s | Page: %d]\n", citation.Chapter, citation.Section, citation.Page)
		}
	}
}
