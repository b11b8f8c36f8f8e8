// Command voyager runs the travel assistant as an interactive terminal
// session: one thread, questions answered inline, checkpoints persisted
// so a restarted session continues where it left off.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/voyagerlab/voyager/config"
	"github.com/voyagerlab/voyager/graph"
	"github.com/voyagerlab/voyager/graph/checkpoint/inmemory"
	"github.com/voyagerlab/voyager/graph/checkpoint/sqlite"
	"github.com/voyagerlab/voyager/log"
	"github.com/voyagerlab/voyager/model/openai"
	"github.com/voyagerlab/voyager/runner"
	"github.com/voyagerlab/voyager/tool"
	"github.com/voyagerlab/voyager/tool/geo"
	"github.com/voyagerlab/voyager/tool/weather"
	"github.com/voyagerlab/voyager/tool/websearch"
	"github.com/voyagerlab/voyager/travel"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	threadID := flag.String("thread", "", "conversation thread id, fresh when empty")
	flag.Parse()

	if err := run(*configPath, *threadID); err != nil {
		log.Fatalf("voyager: %v", err)
	}
}

func run(configPath, threadID string) error {
	ctx := context.Background()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	saver, cleanup, err := newSaver(ctx, cfg.Engine.CheckpointPath)
	if err != nil {
		return err
	}
	defer cleanup()

	var modelOpts []openai.Option
	if cfg.Model.APIKey != "" {
		modelOpts = append(modelOpts, openai.WithAPIKey(cfg.Model.APIKey))
	}
	if cfg.Model.BaseURL != "" {
		modelOpts = append(modelOpts, openai.WithBaseURL(cfg.Model.BaseURL))
	}

	workflow, err := travel.NewWorkflow(travel.Deps{
		Generator: openai.New(cfg.Model.Name, modelOpts...),
		Geo:       geo.NewClient(cfg.Keys.Geoapify),
		Tools: map[string]tool.Tool{
			"web_search":  websearch.NewTool(websearch.WithAPIKey(cfg.Keys.Tavily)),
			"get_weather": weather.NewTool(weather.WithAPIKey(cfg.Keys.OpenWeatherMap)),
		},
	})
	if err != nil {
		return err
	}
	compiled, err := workflow.Graph()
	if err != nil {
		return err
	}

	execOpts := []graph.ExecutorOption{
		graph.WithCheckpointSaver(saver),
		graph.WithTools(workflow.Tools()),
	}
	if cfg.Engine.MaxSteps > 0 {
		execOpts = append(execOpts, graph.WithMaxSteps(cfg.Engine.MaxSteps))
	}
	if cfg.Engine.MaxToolIterations > 0 {
		execOpts = append(execOpts, graph.WithMaxToolIterations(cfg.Engine.MaxToolIterations))
	}
	executor, err := graph.NewExecutor(compiled, execOpts...)
	if err != nil {
		return err
	}

	if threadID == "" {
		threadID = uuid.NewString()
	}
	fmt.Printf("voyager travel assistant (thread %s)\n", threadID)
	fmt.Println("Type your travel question, or 'exit' to quit.")
	return loop(ctx, runner.New(executor), threadID)
}

func newSaver(ctx context.Context, path string) (graph.CheckpointSaver, func(), error) {
	if path == "" {
		return inmemory.NewSaver(), func() {}, nil
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, nil, fmt.Errorf("open checkpoint database: %w", err)
	}
	saver, err := sqlite.NewSaver(ctx, db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return saver, func() { db.Close() }, nil
}

func loop(ctx context.Context, r *runner.Runner, threadID string) error {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			return nil
		}

		outcome, err := r.Invoke(ctx, threadID, input)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		if outcome.Done {
			fmt.Println(outcome.Final)
			continue
		}
		printQuestion(outcome.Suspend)
	}
}

func printQuestion(suspend *graph.SuspendPayload) {
	fmt.Println(suspend.Question)
	if len(suspend.Options) > 0 {
		for i, option := range suspend.Options {
			fmt.Printf("  %d. %s\n", i+1, option)
		}
	}
	if suspend.Default != "" {
		fmt.Printf("  (default: %s)\n", suspend.Default)
	}
}
