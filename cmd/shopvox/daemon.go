package main

import (
	"context"
	"errors"
	log "log/slog"
	"time"

	"shopvox/internal/audio"
	"shopvox/internal/bus"
	"shopvox/internal/config"
	"shopvox/internal/ipc"
	"shopvox/internal/notify"
	"shopvox/internal/pipeline"
	"shopvox/internal/shop"
)

const (
	listenTimeout = 60 * time.Second
	busReconnect  = 2 * time.Second
)

func runDaemon(ctx context.Context, cfg *config.Config, pipe *pipeline.Pipeline, say func(string)) error {
	rec := audio.NewRecorder(audio.DefaultOptions)
	if err := rec.Init(); err != nil {
		return err
	}
	defer rec.Close()

	log.Debug("Loaded recorder")

	beeper := notify.NewBeeper(cfg.BeepPath)

	srv, err := ipc.Listen(cfg.Socket)
	if err != nil {
		return err
	}

	log.Info("Listening for control commands", "socket", srv.Path())

	return srv.Serve(ctx, func(ctx context.Context, msg ipc.ControlMessage) ipc.Response {
		var (
			reply shop.Reply
			err   error
		)

		switch msg.Cmd {
		case ipc.CmdListen:
			reply, err = listen(ctx, rec, beeper, pipe)
		case ipc.CmdRun:
			reply, err = pipe.HandleText(ctx, msg.Text)
		default:
			log.Warn("Unknown command", "cmd", msg.Cmd)
			return ipc.Response{Error: "unknown command " + msg.Cmd}
		}
		if err != nil {
			log.Error("Command failed", "cmd", msg.Cmd, "err", err)
			return ipc.Response{Error: err.Error()}
		}

		say(reply.Title)
		return ipc.Response{Level: string(reply.Level), Text: reply.String()}
	})
}

func listen(ctx context.Context, rec *audio.Recorder, beeper *notify.Beeper, pipe *pipeline.Pipeline) (shop.Reply, error) {
	if err := beeper.Beep(); err != nil {
		log.Warn("Failed to beep", "err", err)
	}

	log.Info("Starting listening")

	ctx, cancel := context.WithTimeout(ctx, listenTimeout)
	defer cancel()

	wav, err := rec.RecordWAV(ctx)
	if errors.Is(err, audio.ErrNoSpeech) {
		return shop.Reply{Level: shop.LevelError, Title: pipeline.MsgNotRecognized}, nil
	}
	if err != nil {
		return shop.Reply{}, err
	}

	log.Info("Recorded", "bytes", len(wav))
	return pipe.HandleAudio(ctx, wav)
}

func runBus(ctx context.Context, cfg *config.Config, pipe *pipeline.Pipeline) error {
	b, err := bus.Dial(ctx, cfg.BusURL, busReconnect)
	if err != nil {
		return err
	}
	defer b.Close()

	return b.Serve(ctx, pipe)
}
