package config

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard walks the user through an interactive setup and returns the
// resulting configuration. Used by `govchat init`.
func RunWizard() (*Config, error) {
	cfg := DefaultConfig()

	urlPrompt := promptui.Prompt{
		Label:   "Governance backend URL",
		Default: cfg.BackendURL,
		Validate: func(s string) error {
			u, err := url.Parse(s)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("must be an absolute http(s) URL")
			}
			return nil
		},
	}
	backendURL, err := urlPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("backend URL prompt: %w", err)
	}
	cfg.BackendURL = backendURL

	backendSelect := promptui.Select{
		Label: "Conversation history backend",
		Items: []string{
			"sqlite — persistent, survives restarts",
			"memory — session only, nothing written to disk",
		},
	}
	idx, _, err := backendSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("history backend selection: %w", err)
	}
	if idx == 1 {
		cfg.History.Backend = HistoryMemory
	}

	boundPrompt := promptui.Prompt{
		Label:   "Max stored conversations (oldest evicted first)",
		Default: strconv.Itoa(cfg.History.MaxConversations),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				return fmt.Errorf("must be a positive integer")
			}
			return nil
		},
	}
	boundStr, err := boundPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("history bound prompt: %w", err)
	}
	cfg.History.MaxConversations, _ = strconv.Atoi(boundStr)

	portPrompt := promptui.Prompt{
		Label:   "HTTP server port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("must be a valid port number")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port prompt: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	return cfg, nil
}
