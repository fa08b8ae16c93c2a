package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/lumeskin/clinic-platform/internal/assistant"
	appconfig "github.com/lumeskin/clinic-platform/internal/config"
	"github.com/lumeskin/clinic-platform/pkg/logging"
)

// aicheck exercises the configured assistant gateway from the command
// line: one chat exchange with history, so provider wiring can be checked
// without starting the API server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := appconfig.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	gateway, err := assistant.NewFromConfig(ctx, cfg, logging.New("warn"))
	if err != nil {
		log.Fatalf("failed to build gateway: %v", err)
	}

	divider := strings.Repeat("=", 60)
	fmt.Println(divider)
	fmt.Printf("Assistant Gateway Check (provider: %s)\n", gateway.Provider())
	fmt.Println(divider)

	history := []assistant.ChatMessage{
		{Role: assistant.RoleUser, Text: "Hi, I have been breaking out lately."},
		{Role: assistant.RoleAssistant, Text: "Sorry to hear that! Breakouts often respond well to a gentle routine. Can you tell me more about your skin?"},
	}
	message := "What product would you recommend for acne-prone skin?"

	fmt.Printf("\n> %s\n", message)
	start := time.Now()
	reply, err := gateway.ChatTurn(ctx, message, history)
	elapsed := time.Since(start)
	if err != nil {
		log.Fatalf("chat turn failed: %v", err)
	}

	fmt.Printf("\n< %s\n", reply)
	fmt.Printf("\n(%v)\n", elapsed.Round(time.Millisecond))

	fmt.Println("\n" + divider)
	if gateway.Provider() == "offline" {
		fmt.Println("No provider credential configured; replies come from the")
		fmt.Println("canned offline set. Set GEMINI_API_KEY or OPENAI_API_KEY to")
		fmt.Println("check a live provider.")
	} else {
		fmt.Println("Provider responded; the API server will use the same wiring.")
	}
}
