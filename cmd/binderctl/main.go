// Command binderctl inspects serialized blobs on disk or in the configured store.
//
//	binderctl [-config binder.yaml] inspect <file>
//	binderctl [-config binder.yaml] get <key>
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/oy3o/binder"
	"github.com/oy3o/binder/config"
	"github.com/oy3o/binder/logging"
	"github.com/oy3o/binder/storage"
)

// summary is the printed view of a blob header.
type summary struct {
	Source       string   `yaml:"source"`
	Types        []string `yaml:"types"`
	PayloadBytes int      `yaml:"payload_bytes"`
}

func main() {
	fs := flag.NewFlagSet("binderctl", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config file")
	timeout := fs.Duration("timeout", 10*time.Second, "storage request timeout")
	_ = fs.Parse(os.Args[1:])

	args := fs.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: binderctl [-config file] inspect <file> | get <key>")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatalf("load config: %v", err)
	}
	logger, err := logging.Setup(cfg.Log)
	if err != nil {
		fatalf("setup logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch args[0] {
	case "inspect":
		data, err := os.ReadFile(args[1])
		if err != nil {
			fatalf("read %s: %v", args[1], err)
		}
		err = printSummary(os.Stdout, args[1], data)
		if err != nil {
			fatalf("inspect: %v", err)
		}
	case "get":
		store, err := storage.New(ctx, cfg.Storage, logger)
		if err != nil {
			fatalf("open storage: %v", err)
		}
		opts := binderOptions(cfg.Binder, logger)
		cache := binder.NewCache(binder.NewSharedBinder(opts...), store, opts...)
		blob, ok, err := cache.Inspect(ctx, args[1])
		if err != nil {
			fatalf("get %q: %v", args[1], err)
		}
		if !ok {
			logger.Info("key not found", zap.String("key", args[1]))
			fmt.Printf("%s: not found\n", args[1])
			return
		}
		if err := printBlob(os.Stdout, args[1], blob); err != nil {
			fatalf("inspect: %v", err)
		}
	default:
		fatalf("unknown command %q", args[0])
	}
}

func binderOptions(c config.Binder, logger *zap.Logger) []binder.Option {
	opts := []binder.Option{binder.WithLogger(logger)}
	if c.Strict {
		opts = append(opts, binder.WithStrictReaders())
	}
	return opts
}

func printSummary(w io.Writer, source string, data []byte) error {
	blob, err := binder.DecodeBlob(data)
	if err != nil {
		return err
	}
	return printBlob(w, source, blob)
}

func printBlob(w io.Writer, source string, blob *binder.Blob) error {
	s := summary{Source: source, PayloadBytes: len(blob.Payload)}
	for _, tag := range blob.Types {
		s.Types = append(s.Types, string(tag))
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "binderctl: "+format+"\n", args...)
	os.Exit(1)
}
