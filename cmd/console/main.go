package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/krau/konacaption/caption"
	"github.com/krau/konacaption/config"
	"github.com/krau/konacaption/logger"
)

const help = `commands:
  samples          list the sample gallery
  sample <id>      select a sample (path or stem)
  open <path>      select an image file
  clear            drop the current selection
  predict          analyze the current selection
  mode             show the prediction mode
  quit`

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func mainImpl() error {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	// Keep the prompt clean: only warnings and above reach the terminal.
	log := logger.New(os.Stderr, "warn", cfg.LogFormat)
	d, err := caption.New(cfg, caption.WithLogger(log))
	if err != nil {
		return err
	}

	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer func() {
		_ = rl.Close()
	}()

	c := &console{d: d, session: caption.NewSession(d), out: rl.Stdout()}
	fmt.Fprintf(c.out, "konacaption (%s mode). Type \"help\" for commands.\n", d.Mode())
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		if !c.run(context.Background(), strings.TrimSpace(line)) {
			break
		}
	}
	return nil
}

type console struct {
	d       *caption.Dispatcher
	session *caption.Session
	out     io.Writer
}

// run executes one command line and reports whether the loop should continue.
func (c *console) run(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "":
	case "help":
		fmt.Fprintln(c.out, help)
	case "quit", "exit":
		return false
	case "mode":
		fmt.Fprintln(c.out, c.d.Mode())
	case "samples":
		for _, id := range c.d.Catalog().IDs() {
			fmt.Fprintf(c.out, "  %-16s %s\n", caption.Stem(id), id)
		}
	case "sample":
		if _, ok := c.d.Catalog().Resolve(arg); !ok {
			fmt.Fprintf(c.out, "unknown sample %q\n", arg)
			return true
		}
		c.session.Select(caption.SampleSelection(arg))
		fmt.Fprintf(c.out, "selected %s\n", arg)
	case "open":
		data, err := os.ReadFile(arg)
		if err != nil {
			fmt.Fprintln(c.out, err)
			return true
		}
		img := caption.Image{
			Name:        filepath.Base(arg),
			ContentType: mime.TypeByExtension(filepath.Ext(arg)),
			Data:        data,
		}
		if _, err := caption.ValidateImage(img); err != nil {
			fmt.Fprintln(c.out, caption.UserMessage(err))
			return true
		}
		c.session.Select(caption.ImageSelection(img))
		fmt.Fprintf(c.out, "selected %s\n", img.Name)
	case "clear":
		c.session.Clear()
	case "predict":
		fmt.Fprintln(c.out, "Analyzing...")
		out, err := c.session.Predict(ctx)
		if out.Stale {
			// the selection changed underneath; its outcome no longer matters
			return true
		}
		if err != nil {
			fmt.Fprintln(c.out, caption.UserMessage(err))
			return true
		}
		fmt.Fprintf(c.out, "caption: %s\naction:  %s\n", out.Result.Caption, out.Result.ActionOr("-"))
	default:
		fmt.Fprintf(c.out, "unknown command %q\n", cmd)
	}
	return true
}
