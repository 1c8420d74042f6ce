package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	cli "github.com/spf13/pflag"

	"shopvox/internal/ipc"
)

func main() {
	socket := cli.StringP("socket", "s", envOr("SHOPVOX_SOCKET", "/tmp/shopvox.sock"), "Control socket path")
	timeout := cli.DurationP("timeout", "t", 90*time.Second, "How long to wait for the reply")
	cli.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: shopvox-ctl [flags] listen | run <text...>")
		cli.PrintDefaults()
	}
	cli.Parse()

	var msg ipc.ControlMessage
	switch args := cli.Args(); {
	case len(args) == 1 && args[0] == ipc.CmdListen:
		msg.Cmd = ipc.CmdListen
	case len(args) >= 2 && args[0] == ipc.CmdRun:
		msg.Cmd = ipc.CmdRun
		msg.Text = strings.Join(args[1:], " ")
	default:
		cli.Usage()
		os.Exit(2)
	}

	resp, err := ipc.Send(*socket, msg, *timeout)
	if err != nil {
		fmt.Println("shopvox daemon:", err)
		os.Exit(1)
	}
	fmt.Println(resp.Text)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
