/*
Copyright © 2025 Book Tutor Authors
*/
package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"booktutor/src/core/tutor"
	"booktutor/src/fsutil"
	"booktutor/src/log"
	"booktutor/src/pdfutil"
)

var (
	ingestFile  string
	ingestTitle string
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a PDF book from the local filesystem",
	Long:  `The ingest command parses, chunks, embeds and indexes a PDF so it can be searched and asked about.`,
	Run:   RunIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVarP(&ingestFile, "file", "f", "", "path to the PDF file to ingest")
	ingestCmd.Flags().StringVarP(&ingestTitle, "title", "t", "", "book title (defaults to the file name)")
	ingestCmd.MarkFlagRequired("file")
}

func RunIngest(cmd *cobra.Command, args []string) {
	fs := fsutil.NewLocalFileStore()
	data, err := fs.ReadFile(ingestFile)
	if err != nil {
		log.Error(err, "Failed to read file", "path", ingestFile)
		return
	}

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

	archiveOpts, err := newArchiveOptions()
	if err != nil {
		log.Error(err, "Failed to initialize archive storage")
		return
	}

	var bar *progressbar.ProgressBar
	opts := append(archiveOpts, tutor.WithProgress(func(done, total int) {
		if bar == nil {
			bar = progressbar.Default(int64(total), "embedding chunks")
		}
		bar.Set(done)
	}))

	library := tutor.NewLibraryService(
		pdfutil.NewExtractor(),
		newSplitter(),
		newEmbeddingProvider(),
		vectors,
		keywords,
		books,
		chunks,
		opts...,
	)

	book, err := library.Ingest(context.Background(), filepath.Base(ingestFile), data, ingestTitle)
	if err != nil {
		log.Error(err, "Failed to ingest book", "path", ingestFile)
		return
	}

	fmt.Printf("Ingested %q (id %d): %d pages, %d chunks\n", book.Title, book.ID, book.Pages, book.ChunkCount)
}
