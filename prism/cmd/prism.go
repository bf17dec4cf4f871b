// Command-line chat client for a running Prism server.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"prism/prism/utils/color"
	"prism/prism/utils/types"

	"github.com/go-resty/resty/v2"
)

const imageCommandPrefix = "/image"

func main() {
	server := os.Getenv("PRISM_SERVER")
	if server == "" {
		server = "http://localhost:8000"
	}

	args := os.Args[1:]
	if len(args) < 1 || args[0] != "connect" {
		fmt.Println("Prism CLI usage:")
		fmt.Println("  prism connect   # Connect to a Prism server and start chatting")
		os.Exit(1)
	}

	client := resty.New().SetBaseURL(server)

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print(color.ColorPrompt("username> "))
	if !scanner.Scan() {
		os.Exit(1)
	}
	username := strings.TrimSpace(scanner.Text())

	token, err := login(client, username)
	if err != nil {
		fmt.Println(color.ColorError("login failed: " + err.Error()))
		os.Exit(1)
	}

	fmt.Println(color.ColorInfo("\nConnected to " + server))
	fmt.Println("Type a message, or:")
	fmt.Println("  /image <prompt>   generate an image")
	fmt.Println("  /history          show your chat history")
	fmt.Println("  /clear            delete your chat history")
	fmt.Println("  exit              quit")
	fmt.Println()

	for {
		fmt.Print(color.ColorPrompt("prism> "))
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "exit" || line == "quit":
			fmt.Println(color.ColorInfo("Goodbye!"))
			return
		case line == "/history":
			showHistory(client, token)
		case line == "/clear":
			clearHistory(client, token)
		case strings.HasPrefix(strings.ToLower(line), imageCommandPrefix):
			prompt := strings.TrimSpace(line[len(imageCommandPrefix):])
			if prompt == "" {
				// Rejected client-side, never sent to the server.
				fmt.Println(color.ColorWarning("usage: /image <prompt>"))
				continue
			}
			generateImage(client, token, prompt)
		default:
			sendMessage(client, token, line)
		}
	}
}

func login(client *resty.Client, username string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	resp, err := client.R().
		SetBody(types.LoginRequest{Username: username}).
		SetResult(&out).
		Post("/auth/login")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("server returned %d", resp.StatusCode())
	}
	return out.Token, nil
}

func sendMessage(client *resty.Client, token, message string) {
	var out types.SendMessageResponse
	resp, err := client.R().
		SetAuthToken(token).
		SetBody(types.SendMessageRequest{Message: message}).
		SetResult(&out).
		Post("/chat/message")
	if err != nil || resp.IsError() {
		fmt.Println(color.ColorError("send failed"))
		return
	}
	if !out.GeminiSuccess {
		fmt.Println(color.ColorWarning(out.AIResponse))
		return
	}
	fmt.Println(color.ColorAgentResponse(out.AIResponse))
}

func generateImage(client *resty.Client, token, prompt string) {
	var out types.GenerateImageResponse
	resp, err := client.R().
		SetAuthToken(token).
		SetBody(types.GenerateImageRequest{Prompt: prompt}).
		SetResult(&out).
		Post("/chat/image")
	if err != nil || resp.IsError() {
		fmt.Println(color.ColorError("image generation failed"))
		return
	}
	fmt.Println(color.ColorInfo("image: " + out.ImageURL))
}

func showHistory(client *resty.Client, token string) {
	var out types.HistoryResponse
	resp, err := client.R().
		SetAuthToken(token).
		SetResult(&out).
		Get("/chat/history")
	if err != nil || resp.IsError() {
		fmt.Println(color.ColorError("failed to load history"))
		return
	}
	for _, msg := range out.Messages {
		prefix := msg.Role + ": "
		if msg.Role == "model" {
			fmt.Println(color.ColorAgentResponse(prefix + msg.Content))
		} else {
			fmt.Println(prefix + msg.Content)
		}
	}
	fmt.Println(color.ColorInfo(fmt.Sprintf("%d messages", out.Count)))
}

func clearHistory(client *resty.Client, token string) {
	var out types.ClearHistoryResponse
	resp, err := client.R().
		SetAuthToken(token).
		SetResult(&out).
		Delete("/chat/history")
	if err != nil || resp.IsError() {
		fmt.Println(color.ColorError("failed to clear history"))
		return
	}
	fmt.Println(color.ColorInfo(out.Message))
}
