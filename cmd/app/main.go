package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"familiar/internal/config"
	"familiar/pkg/log"

	"github.com/joho/godotenv"
)

func main() {
	debug := flag.Bool("debug", false, "echo recognized intents instead of executing them")
	flag.Parse()

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
		config.WithUtils(),
		config.WithDebug(*debug),
	)
	if err != nil {
		logger.Fatal(err)
	}
	defer assistant.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	fmt.Println("Familiar (console interface)")
	if *debug {
		fmt.Println("Debug mode: intents are echoed, nothing is executed.")
	}
	fmt.Println("Ready for commands. Type 'exit' to quit.")
	fmt.Println(strings.Repeat("-", 30))

	for {
		fmt.Print(">>> You: ")

		select {
		case <-sigChan:
			fmt.Println()
			logger.Info("Shutting down")
			return
		case line, ok := <-lines:
			if !ok {
				fmt.Println()
				logger.Info("Input closed, shutting down")
				return
			}

			command := strings.TrimSpace(line)
			if command == "" {
				continue
			}
			if lowered := strings.ToLower(command); lowered == "exit" || lowered == "quit" {
				logger.Info("Shutting down")
				return
			}

			reply := assistant.HandleUtterance(context.Background(), command)
			fmt.Printf("Familiar: %s\n", reply)
			fmt.Println(strings.Repeat("-", 30))
		}
	}
}
