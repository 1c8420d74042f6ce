package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	log "log/slog"
	"os"
	"strings"

	"shopvox/internal/pipeline"
	"shopvox/internal/shop"
)

const prompt = "> "

// runREPL reads one command per line and prints the reply followed by
// the current list.
func runREPL(ctx context.Context, pipe *pipeline.Pipeline, in io.Reader, out io.Writer, say func(string)) error {
	fmt.Fprintln(out, `Type a command ("add 2 milk", "find toothpaste under 3"), or "quit".`)
	fmt.Fprint(out, prompt)

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(sc.Text())
		switch line {
		case "":
			fmt.Fprint(out, prompt)
			continue
		case "quit", "exit":
			return nil
		}

		reply, err := pipe.HandleText(ctx, line)
		if err != nil {
			log.Error("Command failed", "text", line, "err", err)
			fmt.Fprintln(out, "Error:", err)
		} else {
			printReply(out, reply, pipe.Session())
			say(reply.Title)
		}
		fmt.Fprint(out, prompt)
	}
	return sc.Err()
}

func runAudioFile(ctx context.Context, pipe *pipeline.Pipeline, path string, out io.Writer, say func(string)) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read audio: %w", err)
	}

	reply, err := pipe.HandleAudio(ctx, data)
	if err != nil {
		return err
	}
	printReply(out, reply, pipe.Session())
	say(reply.String())
	return nil
}

func printReply(out io.Writer, reply shop.Reply, s shop.Session) {
	fmt.Fprintln(out, reply.String())
	fmt.Fprintln(out)
	fmt.Fprintln(out, shop.Show(s).String())
}
