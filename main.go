package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"git.lost.host/meutraa/eotw/internal/config"
)

func main() {
	if err := run(); nil != err {
		log.Fatalln(err)
	}
}

func run() error {
	cfg, err := config.Parse(os.Args[1:])
	if errors.Is(err, config.ErrHelp) {
		return nil
	} else if nil != err {
		return err
	}

	p := &Program{}
	if err := p.Init(cfg); nil != err {
		return fmt.Errorf("unable to start: %w", err)
	}
	defer p.Deinit()

	switch cfg.Command {
	case config.CommandSimulate:
		return p.Simulate()
	case config.CommandReplay:
		return p.Replay()
	case config.CommandJudge:
		return p.Judge()
	case config.CommandHistory:
		return p.History()
	}
	return fmt.Errorf("unknown command %v", cfg.Command)
}
