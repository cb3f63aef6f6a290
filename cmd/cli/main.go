package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/marcelsud/salessuite-connector/action"
	"github.com/marcelsud/salessuite-connector/config"
	"github.com/marcelsud/salessuite-connector/mapper"
	"github.com/marcelsud/salessuite-connector/options"
	"github.com/marcelsud/salessuite-connector/salessuite"
)

const usage = `usage:
  cli action <resource> <operation> [params-json]
  cli fields <contact|deal> [update]
  cli options <name> [key=value ...]
  cli subscriptions`

var errUsage = errors.New(usage)

// cli runs connector operations against SalesSuite from a terminal

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(2)
	}
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	ctx := context.Background()
	client := salessuite.NewClient(
		salessuite.Credentials{BaseURL: cfg.SalesSuiteBaseURL, APIKey: cfg.SalesSuiteAPIKey},
		salessuite.WithTimeout(cfg.HTTPTimeout()),
	)

	result, err := run(ctx, client, os.Args[1], os.Args[2:])
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func run(ctx context.Context, client *salessuite.Client, cmd string, args []string) (any, error) {
	switch cmd {
	case "action":
		if len(args) < 2 {
			return nil, errUsage
		}
		params := action.Params{}
		if len(args) > 2 {
			if err := json.Unmarshal([]byte(args[2]), &params); err != nil {
				return nil, fmt.Errorf("parsing params: %w", err)
			}
		}
		return action.NewRouter(client).Execute(ctx, args[0], args[1], params)
	case "fields":
		if len(args) < 1 {
			return nil, errUsage
		}
		b := mapper.NewBuilder(client)
		update := len(args) > 1 && args[1] == "update"
		switch {
		case args[0] == "contact" && update:
			return b.ContactFieldsForUpdate(ctx)
		case args[0] == "contact":
			return b.ContactFields(ctx)
		case args[0] == "deal" && update:
			return b.DealFieldsForUpdate(ctx)
		case args[0] == "deal":
			return b.DealFields(ctx)
		}
		return nil, fmt.Errorf("unknown entity: %s", args[0])
	case "options":
		if len(args) < 1 {
			return nil, errUsage
		}
		kv := make(map[string]string)
		for _, arg := range args[1:] {
			key, value, _ := strings.Cut(arg, "=")
			kv[key] = value
		}
		return options.NewLoader(client).Load(ctx, args[0], kv)
	case "subscriptions":
		return client.ListSubscriptions(ctx)
	default:
		return nil, fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}
