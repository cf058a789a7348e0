// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bufio"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/poiesic/answerit"
	"github.com/poiesic/answerit/ai"
	"github.com/urfave/cli/v2"
)

func main() {
	// .env is optional; environment variables win
	godotenv.Load()

	app := &cli.App{
		Name:  "answerit",
		Usage: "Question answering over documents, web search, and encyclopedia lookups",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ask",
				Usage:     "Answer a single question",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags:     append(commonFlags(), queryFlags()...),
			},
			{
				Name:   "chat",
				Usage:  "Interactive question answering session",
				Action: chatCommand,
				Flags:  append(commonFlags(), queryFlags()...),
			},
			{
				Name:      "ingest",
				Usage:     "Add documents (.txt, .md, .pdf) to the corpus",
				ArgsUsage: "<file> [<file>...]",
				Action:    ingestCommand,
				Flags:     commonFlags(),
			},
			{
				Name:      "remove",
				Usage:     "Remove a document from the corpus by title",
				ArgsUsage: "<title>",
				Action:    removeCommand,
				Flags:     commonFlags(),
			},
			{
				Name:   "list",
				Usage:  "List stored document titles",
				Action: listCommand,
				Flags:  commonFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to BadgerDB database directory",
			Value:   "./answerit_db",
			EnvVars: []string{"ANSWERIT_DB"},
		},
		&cli.StringFlag{
			Name:    "host",
			Usage:   "OpenAI-compatible service host URL",
			EnvVars: []string{"ANSWERIT_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			EnvVars: []string{"ANSWERIT_EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "chat-model",
			Usage:   "Chat model name",
			EnvVars: []string{"ANSWERIT_CHAT_MODEL"},
		},
	}
}

func queryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "web",
			Usage:   "Allow web search",
			EnvVars: []string{"ANSWERIT_WEB"},
		},
		&cli.BoolFlag{
			Name:    "wikipedia",
			Usage:   "Fetch wikipedia snippets as extra evidence",
			EnvVars: []string{"ANSWERIT_WIKIPEDIA"},
		},
		&cli.StringFlag{
			Name:    "tavily-key",
			Usage:   "Tavily API key for web search",
			EnvVars: []string{"TAVILY_API_KEY"},
		},
		&cli.IntFlag{
			Name:  "top-k",
			Usage: "Number of document chunks to retrieve per query",
		},
	}
}

func openApp(c *cli.Context) (*answerit.App, error) {
	var configOpts []ai.ConfigOption
	if host := c.String("host"); host != "" {
		configOpts = append(configOpts, ai.WithHost(host))
	}
	if model := c.String("embedding-model"); model != "" {
		configOpts = append(configOpts, ai.WithEmbeddingModel(model))
	}
	if model := c.String("chat-model"); model != "" {
		configOpts = append(configOpts, ai.WithChatModel(model))
	}

	opts := []answerit.AppOption{
		answerit.WithAIConfig(ai.NewConfig(configOpts...)),
	}
	if key := c.String("tavily-key"); key != "" {
		opts = append(opts, answerit.WithTavilyKey(key))
	}
	if k := c.Int("top-k"); k > 0 {
		opts = append(opts, answerit.WithTopK(k))
	}

	return answerit.NewApp(c.Context, c.String("db"), opts...)
}

func newSession(c *cli.Context, app *answerit.App) *answerit.Session {
	session := app.NewSession()
	session.WebEnabled = c.Bool("web")
	session.IncludeWikipedia = c.Bool("wikipedia")
	return session
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("question is required")
	}

	app, err := openApp(c)
	if err != nil {
		return fmt.Errorf("failed to open application: %w", err)
	}
	defer app.Close()

	result, err := app.Answer(c.Context, newSession(c, app), question)
	if err != nil {
		return err
	}

	printAnswer(result.Answer, result.Sources)
	return nil
}

func chatCommand(c *cli.Context) error {
	app, err := openApp(c)
	if err != nil {
		return fmt.Errorf("failed to open application: %w", err)
	}
	defer app.Close()

	session := newSession(c, app)
	if titles := session.Titles(); len(titles) > 0 {
		fmt.Printf("Documents: %s\n", strings.Join(titles, ", "))
	}
	fmt.Println("Type a question, or 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			break
		}

		result, err := app.Answer(c.Context, session, question)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		printAnswer(result.Answer, result.Sources)
	}
	return scanner.Err()
}

func ingestCommand(c *cli.Context) error {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("at least one file is required")
	}

	app, err := openApp(c)
	if err != nil {
		return fmt.Errorf("failed to open application: %w", err)
	}
	defer app.Close()

	session := app.NewSession()
	if err := app.IngestFiles(c.Context, session, paths); err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("Ingested %d file(s). Stored documents:\n", len(paths))
	for _, title := range session.Titles() {
		fmt.Printf("  %s\n", title)
	}
	return nil
}

func removeCommand(c *cli.Context) error {
	title := c.Args().First()
	if title == "" {
		return fmt.Errorf("title is required")
	}

	app, err := openApp(c)
	if err != nil {
		return fmt.Errorf("failed to open application: %w", err)
	}
	defer app.Close()

	if err := app.RemoveDocument(c.Context, app.NewSession(), title); err != nil {
		return fmt.Errorf("removal failed: %w", err)
	}

	fmt.Printf("Removed %q\n", title)
	return nil
}

func listCommand(c *cli.Context) error {
	app, err := openApp(c)
	if err != nil {
		return fmt.Errorf("failed to open application: %w", err)
	}
	defer app.Close()

	titles := app.Titles()
	if len(titles) == 0 {
		fmt.Println("No documents stored.")
		return nil
	}
	for _, title := range titles {
		fmt.Println(title)
	}
	return nil
}

func printAnswer(answer string, sources []string) {
	fmt.Println(answer)
	if len(sources) > 0 {
		fmt.Println("\nSources:")
		for _, source := range sources {
			fmt.Printf("  %s\n", source)
		}
	}
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
