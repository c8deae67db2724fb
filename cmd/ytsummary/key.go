package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/nguyentantai21042004/yt-summarizer/internal/credential"
	"github.com/spf13/cobra"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the stored Gemini API key",
}

var keySetCmd = &cobra.Command{
	Use:   "set [api-key]",
	Short: "Store the API key, asking for it when not given",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runKeySet,
}

var keyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored API key",
	Args:  cobra.NoArgs,
	RunE:  runKeyClear,
}

var keyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored API key, masked",
	Args:  cobra.NoArgs,
	RunE:  runKeyShow,
}

func init() {
	keyCmd.AddCommand(keySetCmd)
	keyCmd.AddCommand(keyClearCmd)
	keyCmd.AddCommand(keyShowCmd)
}

func withStore(fn func(ctx context.Context, store credential.Store) error) error {
	ctx := context.Background()

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	log := newLogger(cfg, os.Stderr)

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open credential store: %w", err)
	}
	defer closeStore()

	return fn(ctx, store)
}

func runKeySet(cmd *cobra.Command, args []string) error {
	return withStore(func(ctx context.Context, store credential.Store) error {
		var value string
		if len(args) == 1 {
			value = strings.TrimSpace(args[0])
		} else {
			var err error
			value, err = credential.NewTerminalPrompter(os.Stdin, os.Stderr).Prompt(ctx, credential.PromptMessage)
			if err != nil {
				return err
			}
		}
		if value == "" {
			return credential.ErrDeclined
		}

		if err := store.Set(ctx, credential.KeyName, value); err != nil {
			return err
		}
		fmt.Println("API key stored")
		return nil
	})
}

func runKeyClear(cmd *cobra.Command, args []string) error {
	return withStore(func(ctx context.Context, store credential.Store) error {
		if err := store.Delete(ctx, credential.KeyName); err != nil {
			return err
		}
		fmt.Println("API key removed")
		return nil
	})
}

func runKeyShow(cmd *cobra.Command, args []string) error {
	return withStore(func(ctx context.Context, store credential.Store) error {
		value, err := store.Get(ctx, credential.KeyName)
		if errors.Is(err, credential.ErrNotFound) {
			fmt.Println("No API key stored")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Println(maskKey(value))
		return nil
	})
}

// maskKey keeps the first and last four characters of keys long enough to
// stay unguessable.
func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
