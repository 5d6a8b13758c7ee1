package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"familiar/internal/bot"
	"familiar/internal/config"
	"familiar/pkg/log"

	"github.com/joho/godotenv"
)

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Warnf("No .env file loaded: %v", err)
	}

	validator := config.NewValidator()

	assistant, err := config.NewAssistant(
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithOllama(),
		config.WithGeminiClient(),
		config.WithAliasStore(),
		config.WithTranscriber(),
		config.WithUtils(),
	)
	if err != nil {
		logger.Fatal(err)
	}
	defer assistant.Close()

	whatsappBot, err := bot.New(assistant, logger)
	if err != nil {
		logger.Fatalf("Error creating bot: %v", err)
	}

	if err := whatsappBot.Connect(context.Background()); err != nil {
		logger.Fatalf("Error connecting bot: %v", err)
	}

	logger.Info("Bot started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down bot...")
	whatsappBot.Disconnect()
}
