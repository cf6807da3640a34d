package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"

	httpadapter "github.com/satriahrh/synapse-agent/adapters/http"
)

func main() {
	gotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		serverURL string
		apiKey    string
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "synapse-chat",
		Short: "Interactive client for the synapse agent",
		Long: `Reads prompts from stdin, one per line, sends each to the synapse agent
and prints the reply. Type 'exit' or press Ctrl-D to quit.`,
		Example: `  # Talk to a local server
  $ synapse-chat

  # Talk to a deployed server with an API key
  $ synapse-chat --url https://agent.example.com --api-key $SERVER_API_KEY`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			client := httpadapter.NewClient(serverURL, apiKey, timeout)
			return chat(ctx, client, bufio.NewScanner(cmd.InOrStdin()), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&serverURL, "url", envOr("SYNAPSE_URL", "http://localhost:8080"), "server base URL")
	cmd.Flags().StringVar(&apiKey, "api-key", os.Getenv("SERVER_API_KEY"), "value sent in the x-api-key header")
	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "per-prompt request timeout")
	cmd.CompletionOptions.DisableDefaultCmd = true
	return cmd
}

type sender interface {
	Send(ctx context.Context, prompt string) (string, bool, error)
}

func chat(ctx context.Context, client sender, in *bufio.Scanner, out io.Writer) error {
	fmt.Fprintln(out, "Enter prompts to send to the server (type 'exit' to quit):")
	for {
		fmt.Fprint(out, "> ")
		if !in.Scan() {
			return in.Err()
		}
		text := strings.TrimSpace(in.Text())
		if text == "exit" {
			return nil
		}
		if text == "" {
			continue
		}

		reply, ok, err := client.Send(ctx, text)
		switch {
		case ctx.Err() != nil:
			return nil
		case err != nil:
			fmt.Fprintf(out, "error: %v\n", err)
		case !ok:
			fmt.Fprintln(out, "(no reply)")
		default:
			fmt.Fprintln(out, reply)
		}
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
