/*
Copyright © 2025 Book Tutor Authors
*/
package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	httpHdlr "booktutor/handler/http"
	"booktutor/src/core/tutor"
	"booktutor/src/log"
	"booktutor/src/pdfutil"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the book tutor server",
	Long:  `The serve command starts an HTTP server that ingests books and answers questions about them.`,
	Run:   RunServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func RunServer(cmd *cobra.Command, args []string) {
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

	embedder := newEmbeddingProvider()
	llm := newLLMProvider()

	library := tutor.NewLibraryService(
		pdfutil.NewExtractor(),
		newSplitter(),
		embedder,
		vectors,
		keywords,
		books,
		chunks,
		archiveOpts...,
	)
	search := tutor.NewSearchService(embedder, vectors, keywords, books, chunks, viper.GetInt("rag.candidates"))
	answer := tutor.NewAnswerService(search, llm, viper.GetInt("rag.top_k"))
	system := tutor.NewSystemService(books, vectors, embedder, llm)

	handler := httpHdlr.NewHandler(library, search, answer, system)

	// Setup gin router
	r := gin.Default()

	// Register routes
	handler.RegisterRoutes(r)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + viper.GetString("server.port"),
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err, "Failed to start server")
			return
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Parse shutdown timeout
	timeout, err := time.ParseDuration(viper.GetString("server.shutdown_timeout"))
	if err != nil {
		log.Error(err, "Invalid shutdown timeout, using default 5s")
		timeout = 5 * time.Second
	}

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Get underlying *sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		log.Error(err, "Failed to get underlying *sql.DB")
	} else {
		// Close database connection
		if err := sqlDB.Close(); err != nil {
			log.Error(err, "Error closing database connection")
		}
	}

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "Server forced to shutdown")
	}

	log.Info("Server exited")
}
