package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alkime/englishpro/internal/audio"
	"github.com/alkime/englishpro/internal/bootstrap"
	"github.com/alkime/englishpro/internal/keyring"
)

// DevicesCmd lists available audio devices.
type DevicesCmd struct{}

// Run executes the devices command.
func (dcmd *DevicesCmd) Run(g *Globals) error {
	ctx, cancel := signalContext()
	defer cancel()

	g.Logger.Debug("Enumerating audio devices...")

	adev := audio.NewDevice(nil)
	devices, err := adev.EnumerateDevices(ctx)
	if err != nil {
		return fmt.Errorf("failed to enumerate audio devices: %w", err)
	}

	for _, dev := range devices {
		marker := " "
		if dev.IsDefault {
			marker = "*"
		}
		fmt.Printf("%s %s (%d formats)\n", marker, dev.Name, dev.FormatCount)
		for _, f := range dev.Formats {
			fmt.Printf("    %s\n", f)
		}
	}

	return nil
}

// StatsCmd bumps the visit counter once and prints the header counters.
type StatsCmd struct{}

// Run executes the stats command.
func (c *StatsCmd) Run(g *Globals) error {
	ctx, cancel := signalContext()
	defer cancel()

	st, err := g.storage()
	if err != nil {
		return err
	}

	svc := bootstrap.Stats(g.Config, st, g.Logger)
	if err := svc.Init(ctx); err != nil {
		g.Logger.Warn("visit counter unavailable", "error", err)
	}

	snap := svc.Snapshot()
	fmt.Printf("Total visits: %d\nLive users:   %d\n", snap.TotalVisits, snap.LiveUsers)

	return nil
}

// ConfigCmd groups configuration-related subcommands.
type ConfigCmd struct {
	SetKey   SetKeyCmd   `cmd:"" help:"Store an API key in system keychain"`
	ListKeys ListKeysCmd `cmd:"" name:"list-keys" help:"Show which API keys are configured"`
}

// SetKeyCmd stores an API key in the system keychain.
type SetKeyCmd struct {
	Service string `arg:"" enum:"gemini,anthropic,openai" help:"Service name (gemini, anthropic or openai)"`
	Secret  string `arg:"" help:"API key value"`
}

// Run executes the set-key command.
func (c *SetKeyCmd) Run() error {
	if strings.TrimSpace(c.Secret) == "" {
		return errors.New("API key cannot be empty")
	}

	apiKey, err := keyring.APIKeyFromServiceName(c.Service)
	if err != nil {
		return fmt.Errorf("invalid service: %w", err)
	}

	if err := keyring.Set(apiKey, c.Secret); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}

	fmt.Printf("%s API key stored in keychain\n", c.Service)

	return nil
}

// ListKeysCmd shows which API keys are configured.
type ListKeysCmd struct{}

// Run executes the list-keys command.
//
//nolint:unparam // error return required by Kong interface
func (c *ListKeysCmd) Run(g *Globals) error {
	for _, apiKey := range keyring.AllAPIKeys() {
		status := "not set"
		if keyring.IsSet(apiKey) {
			status = "configured"
		}
		fmt.Printf("%s: %s\n", apiKey.DisplayName(), status)
	}

	if !keyring.IsSet(keyring.Gemini) && g.Config.GeminiAPIKey == "" {
		g.Logger.Warn("no Gemini key: analysis will fail until one is set")
		fmt.Println("\nRun 'coach config set-key gemini <key>' to configure.")
	}

	return nil
}
