package config

import (
	"io"
	"os"
	"strconv"
	"strings"

	"git.lost.host/meutraa/eotw/internal/score"
	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	"gopkg.in/alecthomas/kingpin.v2"
)

const version = "0.3.0"

// ErrHelp is returned once help, usage or the version has been written, where
// kingpin would otherwise exit. Missing commands write usage.
var ErrHelp = errors.New("help requested")

// terminated is raised by the kingpin terminate hook to stop parsing.
type terminated struct{}

const (
	CommandSimulate = "simulate"
	CommandReplay   = "replay"
	CommandJudge    = "judge"
	CommandHistory  = "history"
)

type Config struct {
	Command  string
	Chart    string
	Replay   string // Replay file to read, or to write after judging
	Database string
	Mods     []string
	Mode     score.Mode

	// Overrides the chart's drain rate when positive
	DrainRate float64
	Seek      int // Frames to apply, negative for all
	Save      bool
	Limit     int
}

// defaults are read from the environment before the command line.
type defaults struct {
	Database  string   `env:"EOTW_DATABASE" envDefault:"./scores.db"`
	Mods      []string `env:"EOTW_MODS" envSeparator:","`
	Mode      string   `env:"EOTW_SCORING_MODE" envDefault:"standardised"`
	DrainRate float64  `env:"EOTW_DRAIN_RATE" envDefault:"0"`
}

// Parse reads the configuration from the process environment and args,
// without the program name. Help and usage go to stderr; Parse never exits.
func Parse(args []string) (*Config, error) {
	return parse(args, env.Options{}, os.Stderr)
}

func parse(args []string, opts env.Options, usage io.Writer) (result *Config, err error) {
	var d defaults
	if err := env.ParseWithOptions(&d, opts); nil != err {
		return nil, errors.Wrap(err, "unable to read environment")
	}

	app := kingpin.New("eotw", "Score rhythm game charts from replays or keyboard judgements")
	app.Version(version)
	app.Terminate(func(int) { panic(terminated{}) })
	defer func() {
		if r := recover(); nil != r {
			if _, ok := r.(terminated); !ok {
				panic(r)
			}
			result, err = nil, ErrHelp
		}
	}()
	app.UsageWriter(usage)
	app.ErrorWriter(usage)

	var cfg Config
	database := app.Flag("database", "History database").Default(d.Database).Short('D').String()
	mods := app.Flag("mods", "Comma separated mod acronyms").Default(strings.Join(d.Mods, ",")).Short('m').String()
	mode := app.Flag("mode", "Scoring mode, standardised or classic").Default(d.Mode).Enum("standardised", "standardized", "classic")
	drain := app.Flag("drain", "Health drain rate").Default(strconv.FormatFloat(d.DrainRate, 'g', -1, 64)).Float64()

	simulate := app.Command(CommandSimulate, "Show the maxima of a perfect play")
	simulate.Arg("chart", "Chart file").Required().ExistingFileVar(&cfg.Chart)

	replay := app.Command(CommandReplay, "Score a recorded replay")
	replay.Arg("chart", "Chart file").Required().ExistingFileVar(&cfg.Chart)
	replay.Arg("replay", "Replay file").Required().ExistingFileVar(&cfg.Replay)
	replay.Flag("seek", "Number of frames to apply").Default("-1").IntVar(&cfg.Seek)
	replay.Flag("save", "Store the result in the history").BoolVar(&cfg.Save)

	judge := app.Command(CommandJudge, "Judge a chart from the keyboard")
	judge.Arg("chart", "Chart file").Required().ExistingFileVar(&cfg.Chart)
	judge.Flag("out", "Write the judgements to a replay file").Short('o').StringVar(&cfg.Replay)
	judge.Flag("save", "Store the result in the history").BoolVar(&cfg.Save)

	history := app.Command(CommandHistory, "List stored results of a chart")
	history.Arg("chart", "Chart file").Required().ExistingFileVar(&cfg.Chart)
	history.Flag("limit", "Number of results to list").Default("10").IntVar(&cfg.Limit)

	command, err := app.Parse(args)
	if nil != err {
		return nil, err
	}
	cfg.Command = command
	cfg.Database = *database
	cfg.DrainRate = *drain
	if cfg.Mode, err = score.ParseMode(*mode); nil != err {
		return nil, err
	}
	for _, m := range strings.Split(*mods, ",") {
		if m = strings.TrimSpace(m); m != "" {
			cfg.Mods = append(cfg.Mods, m)
		}
	}
	if cfg.DrainRate < 0 {
		return nil, errors.Errorf("drain rate %v is negative", cfg.DrainRate)
	}
	return &cfg, nil
}
