// Copyright (C) DataStax, Inc. 2024-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// astra-cli is a small command-line shell around the client library. It
// reads connection settings from a YAML config file and the environment,
// and exposes a handful of read and write commands for poking at a
// database from scripts or a terminal.
//
// Usage:
//
//	astra-cli [flags] list-collections
//	astra-cli [flags] count <collection> [filter-json]
//	astra-cli [flags] find <collection> [filter-json]
//	astra-cli [flags] insert <collection> <document-json>...
//	astra-cli [flags] delete <collection> <filter-json>
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/pretty"

	"github.com/datastax/astra-db-go/astra"
	"github.com/datastax/astra-db-go/astra/options"
)

type cliConfig struct {
	Endpoint string `koanf:"endpoint"`
	Token    string `koanf:"token"`
	Keyspace string `koanf:"keyspace"`
	Timeout  int    `koanf:"timeout_seconds"`
	Verbose  bool   `koanf:"verbose"`
}

func main() {
	if err := mainReal(); err != nil {
		fmt.Fprintln(os.Stderr, "astra-cli:", err)
		os.Exit(1)
	}
}

func mainReal() error {
	configPath := flag.String("config", "", "path to a YAML config file")
	endpoint := flag.String("endpoint", "", "database API endpoint (overrides config and env)")
	keyspace := flag.String("keyspace", "", "keyspace to operate in")
	limit := flag.Int("limit", 0, "maximum documents to return from find")
	verbose := flag.Bool("v", false, "log every command sent")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		return errors.New("no command given")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *endpoint != "" {
		cfg.Endpoint = *endpoint
	}
	if *keyspace != "" {
		cfg.Keyspace = *keyspace
	}
	if *verbose {
		cfg.Verbose = true
	}
	if cfg.Endpoint == "" {
		return errors.New("no endpoint: set -endpoint, endpoint: in the config file, or ASTRA_DB_API_ENDPOINT")
	}
	if cfg.Token == "" {
		return errors.New("no token: set token: in the config file or ASTRA_DB_APPLICATION_TOKEN")
	}

	clientOpts := options.Client()
	if cfg.Timeout > 0 {
		clientOpts.SetTimeout(time.Duration(cfg.Timeout) * time.Second)
	}
	if cfg.Verbose {
		log := logrus.New()
		log.SetLevel(logrus.TraceLevel)
		log.SetOutput(os.Stderr)
		clientOpts.SetLogger(log)
	}

	client, err := astra.NewClient(cfg.Endpoint, cfg.Token, clientOpts)
	if err != nil {
		return err
	}
	db := client.Database(cfg.Keyspace)

	ctx := context.Background()
	cmd, args := flag.Arg(0), flag.Args()[1:]
	switch cmd {
	case "list-collections":
		return runListCollections(ctx, db)
	case "count":
		return runCount(ctx, db, args)
	case "find":
		return runFind(ctx, db, args, *limit)
	case "insert":
		return runInsert(ctx, db, args)
	case "delete":
		return runDelete(ctx, db, args)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// loadConfig layers, lowest to highest precedence: config file values,
// then ASTRA_DB_* environment variables (with .env loaded first if one
// exists in the working directory).
func loadConfig(path string) (cliConfig, error) {
	cfg := cliConfig{Keyspace: astra.DefaultKeyspace}

	if path != "" {
		k := koanf.New(".")
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cfg, errors.Wrapf(err, "loading config file %s", path)
		}
		if err := k.Unmarshal("", &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parsing config file %s", path)
		}
	}

	// Missing .env is fine; a present but unreadable one is not.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return cfg, errors.Wrap(err, "loading .env")
	}
	if v := os.Getenv("ASTRA_DB_API_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("ASTRA_DB_APPLICATION_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("ASTRA_DB_KEYSPACE"); v != "" {
		cfg.Keyspace = v
	}
	return cfg, nil
}

func runListCollections(ctx context.Context, db *astra.Database) error {
	names, err := db.ListCollectionNames(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func runCount(ctx context.Context, db *astra.Database, args []string) error {
	if len(args) < 1 {
		return errors.New("count: usage: count <collection> [filter-json]")
	}
	filter, err := parseFilter(args[1:])
	if err != nil {
		return err
	}
	count, err := db.Collection(args[0]).CountDocuments(ctx, filter, 1000)
	if err != nil {
		if errors.Is(err, astra.ErrTooManyDocuments) {
			fmt.Println(">1000")
			return nil
		}
		return err
	}
	fmt.Println(count)
	return nil
}

func runFind(ctx context.Context, db *astra.Database, args []string, limit int) error {
	if len(args) < 1 {
		return errors.New("find: usage: find <collection> [filter-json]")
	}
	filter, err := parseFilter(args[1:])
	if err != nil {
		return err
	}

	cursor := db.Collection(args[0]).Find(filter)
	if limit > 0 {
		if err := cursor.SetLimit(limit); err != nil {
			return err
		}
	}
	defer cursor.Close()

	for {
		doc, err := cursor.Next(ctx)
		if errors.Is(err, astra.ErrNoMoreDocuments) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := printJSON(doc); err != nil {
			return err
		}
	}
}

func runInsert(ctx context.Context, db *astra.Database, args []string) error {
	if len(args) < 2 {
		return errors.New("insert: usage: insert <collection> <document-json>...")
	}
	docs := make([]astra.Document, 0, len(args)-1)
	for _, raw := range args[1:] {
		var doc astra.Document
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return errors.Wrapf(err, "parsing document %q", raw)
		}
		docs = append(docs, doc)
	}

	res, err := db.Collection(args[0]).InsertMany(ctx, docs)
	if res != nil {
		fmt.Printf("inserted %d document(s)\n", res.InsertedCount)
	}
	return err
}

func runDelete(ctx context.Context, db *astra.Database, args []string) error {
	if len(args) != 2 {
		return errors.New("delete: usage: delete <collection> <filter-json>")
	}
	var filter astra.Filter
	if err := json.Unmarshal([]byte(args[1]), &filter); err != nil {
		return errors.Wrap(err, "parsing filter")
	}
	if len(filter) == 0 {
		return errors.New("delete: refusing an empty filter; pass an explicit filter")
	}

	res, err := db.Collection(args[0]).DeleteMany(ctx, filter)
	if res != nil {
		fmt.Printf("deleted %d document(s)\n", res.DeletedCount)
	}
	return err
}

func parseFilter(args []string) (astra.Filter, error) {
	if len(args) == 0 {
		return astra.Filter{}, nil
	}
	var filter astra.Filter
	raw := strings.Join(args, " ")
	if err := json.Unmarshal([]byte(raw), &filter); err != nil {
		return nil, errors.Wrapf(err, "parsing filter %q", raw)
	}
	return filter, nil
}

func printJSON(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	os.Stdout.Write(pretty.Color(pretty.Pretty(raw), nil))
	return nil
}
