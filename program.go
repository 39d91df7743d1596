package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"git.lost.host/meutraa/eotw/internal/config"
	"git.lost.host/meutraa/eotw/internal/game"
	"git.lost.host/meutraa/eotw/internal/history"
	"git.lost.host/meutraa/eotw/internal/mods"
	"git.lost.host/meutraa/eotw/internal/replay"
	"git.lost.host/meutraa/eotw/internal/score"
	"git.lost.host/meutraa/eotw/internal/theme"
	"github.com/cheggaaa/pb/v3"
	"github.com/eiannone/keyboard"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Program struct {
	Config  *config.Config
	Chart   *game.Chart
	Ruleset *game.DefaultRuleset
	Scorer  *score.DefaultScorer
	Theme   theme.Theme
	Store   history.Store

	printer *message.Printer
}

func (p *Program) Init(cfg *config.Config) error {
	p.Config = cfg
	p.printer = message.NewPrinter(language.English)
	p.Theme = &theme.DefaultTheme{Plain: !term.IsTerminal(int(os.Stdout.Fd()))}

	chart, err := game.LoadChart(cfg.Chart)
	if nil != err {
		return fmt.Errorf("unable to load chart: %w", err)
	}
	if cfg.DrainRate > 0 {
		chart.Difficulty.DrainRate = cfg.DrainRate
	}
	p.Chart = chart
	p.Ruleset = game.NewRuleset(chart.Difficulty)

	if cfg.Command == config.CommandHistory || cfg.Save {
		store, err := history.Open(cfg.Database)
		if nil != err {
			return err
		}
		p.Store = store
	}
	return nil
}

func (p *Program) Deinit() {
	if nil == p.Store {
		return
	}
	if err := p.Store.Close(); nil != err {
		log.Println("unable to close history", err)
	}
}

// newScorer creates the scorer for the chart with the given mods.
func (p *Program) newScorer(acronyms []string) error {
	list, err := mods.Parse(acronyms)
	if nil != err {
		return err
	}
	return p.bindScorer(list)
}

func (p *Program) bindScorer(list []score.Mod) error {
	s, err := score.NewScorer(p.Chart.HitObjects(), p.Ruleset)
	if nil != err {
		return fmt.Errorf("unable to simulate chart: %w", err)
	}
	mods.Bind(s, list)
	if err := s.SetMode(p.Config.Mode); errors.Is(err, score.ErrModeLocked) {
		log.Println("chart has no combo or base score, scoring with", s.Mode())
	}
	p.Scorer = s
	return nil
}

func (p *Program) Simulate() error {
	list, err := mods.Parse(p.Config.Mods)
	if nil != err {
		return err
	}
	if err := p.bindScorer(list); nil != err {
		return err
	}
	notes, holds, mines := p.Chart.Counts()
	maxima := p.Scorer.Maxima()
	p.printer.Printf("%v (%v)\n", p.Chart.Difficulty.Name, p.Chart.Difficulty.Type)
	p.printer.Printf("      Notes:  %6d\n", notes)
	p.printer.Printf("      Holds:  %6d\n", holds)
	p.printer.Printf("      Mines:  %6d\n", mines)
	p.printer.Printf("       Hits:  %6d\n", maxima.Hits)
	p.printer.Printf("  Max combo:  %6d\n", maxima.HighestCombo)
	p.printer.Printf(" Base score:  %6.0f\n", maxima.BaseScore)
	p.printer.Printf(" Multiplier:  %6.4f\n", mods.Multiplier(list))
	return nil
}

func (p *Program) Replay() error {
	r, err := replay.Load(p.Config.Replay)
	if nil != err {
		return fmt.Errorf("unable to load replay: %w", err)
	}
	if r.Chart != "" && r.Chart != p.Chart.Hash() {
		log.Println("replay was recorded on a different chart")
	}
	acronyms := p.Config.Mods
	if len(acronyms) == 0 {
		acronyms = r.Mods
	}
	if err := p.newScorer(acronyms); nil != err {
		return err
	}

	player, err := replay.NewPlayer(p.Scorer, p.Chart.HitObjects(), p.Ruleset, r)
	if nil != err {
		return fmt.Errorf("invalid replay: %w", err)
	}
	n := p.Config.Seek
	if n < 0 || n > player.Len() {
		n = player.Len()
	}

	bar := pb.StartNew(n)
	p.Scorer.OnNewJudgement(func(*game.JudgementResult) {
		bar.Increment()
	})
	err = player.Seek(n)
	bar.Finish()
	if nil != err {
		return err
	}
	return p.finish()
}

// judgeKeys maps keys to the result they give the next object.
var judgeKeys = map[rune]game.HitResult{
	'0': game.Miss,
	'1': game.Meh,
	'2': game.Ok,
	'3': game.Good,
	'4': game.Great,
	'5': game.Perfect,
	' ': game.Perfect,
}

func (p *Program) Judge() error {
	if err := p.newScorer(p.Config.Mods); nil != err {
		return err
	}
	player, err := replay.NewPlayer(p.Scorer, p.Chart.HitObjects(), p.Ruleset, nil)
	if nil != err {
		return err
	}

	keyChannel, err := keyboard.GetKeys(16)
	if nil != err {
		return fmt.Errorf("unable to open keyboard: %w", err)
	}
	defer func() {
		if err := keyboard.Close(); nil != err {
			log.Println("unable to close keyboard", err)
		}
	}()

	fmt.Println("0-5 judge, space for perfect, backspace to rewind, esc to stop")
	for {
		index, judgement := player.Next()
		if index < 0 {
			break
		}
		p.printStatus(index, player.Objects())

		key := <-keyChannel
		if nil != key.Err {
			return key.Err
		}
		switch key.Key {
		case keyboard.KeyEsc, keyboard.KeyCtrlC:
			return p.stopJudging(player)
		case keyboard.KeyBackspace, keyboard.KeyBackspace2:
			if !player.Rewind() {
				fmt.Println("nothing to rewind")
			}
			continue
		case keyboard.KeySpace:
			key.Rune = ' '
		}
		result, ok := judgeKeys[key.Rune]
		if !ok {
			continue
		}
		frame := replay.Frame{Object: index, Result: replay.Fit(judgement, p.Ruleset.HitWindows(), result)}
		if err := player.Push(frame); nil != err {
			return err
		}
		fmt.Println(p.Theme.RenderResult(frame.Result))
	}
	return p.stopJudging(player)
}

func (p *Program) stopJudging(player *replay.Player) error {
	if p.Config.Replay != "" {
		r := player.Replay()
		r.Chart = p.Chart.Hash()
		for _, m := range p.Scorer.Mods() {
			r.Mods = append(r.Mods, m.Acronym())
		}
		if err := r.Save(p.Config.Replay); nil != err {
			return fmt.Errorf("unable to save replay: %w", err)
		}
	}
	return p.finish()
}

func (p *Program) printStatus(index, total int) {
	s := p.Scorer
	p.printer.Printf("%3d/%-3d %9.0f  %4dx  %6.2f%%  %v  %v\n",
		index+1, total, s.TotalScore(), s.Combo(), s.Accuracy()*100,
		p.Theme.RenderHealth(s.Health(), 20), p.Theme.RenderRank(s.Rank()))
}

func (p *Program) finish() error {
	var result score.Result
	p.Scorer.PopulateResult(&result)
	p.printResult(&result)
	if p.Scorer.HasFailed() {
		fmt.Println("Failed")
	}

	if !p.Config.Save || nil == p.Store {
		return nil
	}
	id, err := p.Store.Save(context.Background(), p.Chart, &result)
	if nil != err {
		return err
	}
	log.Println("saved result", id)
	return nil
}

func (p *Program) printResult(r *score.Result) {
	p.printer.Printf("      Score:  %9d  (%v)\n", r.TotalScore, r.Mode)
	p.printer.Printf("   Accuracy:  %9.2f%%\n", r.Accuracy*100)
	p.printer.Printf("       Rank:  %9v\n", p.Theme.RenderRank(r.Rank))
	p.printer.Printf("  Max combo:  %9d\n", r.MaxCombo)
	if len(r.Mods) > 0 {
		p.printer.Printf("       Mods:  %9v\n", strings.Join(r.Mods, ","))
	}
	for _, hr := range game.AllHitResults() {
		if count, ok := r.Statistics[hr]; ok {
			p.printer.Printf("%v:  %6d\n", p.Theme.RenderResult(hr), count)
		}
	}
}

func (p *Program) History() error {
	ctx := context.Background()
	records, err := p.Store.Load(ctx, p.Chart)
	if nil != err {
		return err
	}
	best, err := p.Store.Best(ctx, p.Chart)
	if errors.Is(err, history.ErrNotFound) {
		fmt.Println("no results for", p.Chart.Difficulty.Name)
		return nil
	} else if nil != err {
		return err
	}

	for i, record := range records {
		if i >= p.Config.Limit {
			break
		}
		r := record.Result
		marker := " "
		if record.ID == best.ID {
			marker = "*"
		}
		p.printer.Printf("%v %v  %9d  %6.2f%%  %4dx  %v  %v\n",
			marker, r.Date.Local().Format("2006-01-02 15:04"), r.TotalScore, r.Accuracy*100,
			r.MaxCombo, p.Theme.RenderRank(r.Rank), strings.Join(r.Mods, ","))
	}
	return nil
}
