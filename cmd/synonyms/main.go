package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/menuscan/internal/common"
	repo "github.com/joseph-ayodele/menuscan/internal/repository"
	"github.com/joseph-ayodele/menuscan/internal/synonyms"
)

const usage = `usage: synonyms <command> [args]

commands:
  search <query>                    ranked menu items for a free-text query
  lookup <token>                    exact synonym lookup
  map <synonym> <menu-item-id>      point a synonym at an existing item
  map -new <synonym> <item name>    point a synonym at an item, creating it if needed
  delete <synonym-id>               remove a synonym
  seed <file.json>                  load {"ITEM NAME": ["SYN", ...]} into the store
  items                             list canonical menu items
`

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	flag.Usage = func() { printError("%s", usage) }
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := repo.OpenStore(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open store", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	app := &cli{
		store:    store,
		resolver: synonyms.NewResolver(store, cfg.Search, logger),
		mapper:   synonyms.NewMapper(store, logger),
		out:      os.Stdout,
	}
	if err := app.run(ctx, args); err != nil {
		printError("Error: %v\n", err)
		if common.CodeOf(err) == common.CodeInvalidFormat || common.CodeOf(err) == common.CodeMissingFields {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

type cli struct {
	store    repo.SynonymStore
	resolver *synonyms.Resolver
	mapper   *synonyms.Mapper
	out      io.Writer
}

func (c *cli) run(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "search":
		if len(rest) != 1 {
			return common.MissingFields("search needs a query")
		}
		res, err := c.resolver.Search(ctx, rest[0])
		if err != nil {
			return err
		}
		return c.print(res)

	case "lookup":
		if len(rest) != 1 {
			return common.MissingFields("lookup needs a token")
		}
		row, err := c.resolver.Lookup(ctx, rest[0])
		if err != nil {
			return err
		}
		if row == nil {
			return common.NotFound(fmt.Sprintf("no synonym %q", rest[0]))
		}
		return c.print(row)

	case "map":
		req, err := mapRequest(rest)
		if err != nil {
			return err
		}
		res, err := c.mapper.Map(ctx, req)
		if err != nil {
			return err
		}
		return c.print(res)

	case "delete":
		if len(rest) != 1 {
			return common.MissingFields("delete needs a synonym id")
		}
		id, err := uuid.Parse(rest[0])
		if err != nil {
			return common.InvalidFormat("synonym id must be a UUID")
		}
		removed, err := c.mapper.Delete(ctx, id)
		if err != nil {
			return err
		}
		return c.print(removed)

	case "seed":
		if len(rest) != 1 {
			return common.MissingFields("seed needs a JSON file")
		}
		return c.seed(ctx, rest[0])

	case "items":
		items, err := c.store.ListMenuItems(ctx)
		if err != nil {
			return err
		}
		return c.print(items)
	}
	return common.InvalidFormat(fmt.Sprintf("unknown command %q", cmd))
}

func mapRequest(args []string) (synonyms.MapRequest, error) {
	if len(args) == 3 && args[0] == "-new" {
		return synonyms.MapRequest{Synonym: args[1], CreateNewItem: true, NewItemName: args[2]}, nil
	}
	if len(args) != 2 {
		return synonyms.MapRequest{}, common.MissingFields("map needs <synonym> <menu-item-id> or -new <synonym> <item name>")
	}
	id, err := uuid.Parse(args[1])
	if err != nil {
		return synonyms.MapRequest{}, common.InvalidFormat("menu item id must be a UUID")
	}
	return synonyms.MapRequest{Synonym: args[0], MenuItemID: &id}, nil
}

// seed maps every synonym in the file onto its item, creating items as needed. Items are
// processed in name order so reruns produce the same log.
func (c *cli) seed(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var corpus map[string][]string
	if err := json.Unmarshal(data, &corpus); err != nil {
		return common.NewAppError(common.CodeInvalidFormat, "seed file must map item names to synonym lists", err)
	}
	names := make([]string, 0, len(corpus))
	for name := range corpus {
		names = append(names, name)
	}
	sort.Strings(names)

	var results []synonyms.MapResult
	for _, name := range names {
		for _, syn := range corpus[name] {
			res, err := c.mapper.Map(ctx, synonyms.MapRequest{Synonym: syn, CreateNewItem: true, NewItemName: name})
			if err != nil {
				return fmt.Errorf("seed %s -> %s: %w", syn, name, err)
			}
			results = append(results, res)
		}
	}
	return c.print(results)
}

func (c *cli) print(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
