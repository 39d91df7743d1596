package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"sort"
	"strings"
	"time"

	"git.lost.host/meutraa/eotw/internal/game"
	"git.lost.host/meutraa/eotw/internal/score"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

var _ Store = (*DefaultStore)(nil)

type DefaultStore struct {
	db *sql.DB
}

type StatisticCompact struct {
	Result game.HitResult `json:"result"`
	Count  int            `json:"count"`
}

// compactStatistics drops empty counts and orders the rest by hit result.
func compactStatistics(statistics map[game.HitResult]int) []StatisticCompact {
	stats := []StatisticCompact{}
	for r, c := range statistics {
		if c == 0 {
			continue
		}
		stats = append(stats, StatisticCompact{Result: r, Count: c})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Result < stats[j].Result })
	return stats
}

func uncompactStatistics(stats []StatisticCompact) map[game.HitResult]int {
	statistics := map[game.HitResult]int{}
	for _, s := range stats {
		statistics[s.Result] += s.Count
	}
	return statistics
}

const initStatement = `
create table if not exists results
  (
	  id text not null primary key,
	  sum text not null,
	  score integer,
	  combo integer,
	  max_combo integer,
	  accuracy real,
	  rank text,
	  mode text,
	  mods text,
	  date timestamp,
	  statistics blob
  );
create index if not exists results_sum on results(sum);
`

func Open(path string) (*DefaultStore, error) {
	db, err := sql.Open("sqlite3", path)
	if nil != err {
		return nil, errors.Wrapf(err, "unable to open %v", path)
	}
	if _, err := db.Exec(initStatement); nil != err {
		db.Close()
		return nil, errors.Wrap(err, "unable to create results table")
	}
	return &DefaultStore{db: db}, nil
}

func (s *DefaultStore) Close() error {
	if nil == s.db {
		return nil
	}
	return s.db.Close()
}

func (s *DefaultStore) Save(ctx context.Context, chart *game.Chart, result *score.Result) (string, error) {
	data, err := json.Marshal(compactStatistics(result.Statistics))
	if nil != err {
		return "", errors.Wrap(err, "unable to marshal statistics")
	}
	rank, err := result.Rank.MarshalText()
	if nil != err {
		return "", err
	}
	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		"insert into results(id, sum, score, combo, max_combo, accuracy, rank, mode, mods, date, statistics) values(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		id, chart.Hash(), result.TotalScore, result.Combo, result.MaxCombo, result.Accuracy,
		string(rank), result.Mode, strings.Join(result.Mods, ","), result.Date.UTC(), data,
	)
	if nil != err {
		return "", errors.Wrap(err, "unable to save result")
	}
	return id, nil
}

const selectColumns = "select id, sum, score, combo, max_combo, accuracy, rank, mode, mods, date, statistics from results"

// Load returns the records of the chart, newest first.
func (s *DefaultStore) Load(ctx context.Context, chart *game.Chart) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" where sum = ? order by date desc", chart.Hash())
	if nil != err {
		return nil, errors.Wrap(err, "unable to load results")
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		record, err := scan(rows)
		if nil != err {
			log.Println("unable to read result", err)
			continue
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

func (s *DefaultStore) Best(ctx context.Context, chart *game.Chart) (*Record, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" where sum = ? order by score desc, date asc limit 1", chart.Hash())
	record, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrNotFound, "chart %v", chart.Difficulty.Name)
	}
	return record, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scan(row scanner) (*Record, error) {
	var record Record
	var rank, mods string
	var date time.Time
	var data []byte
	r := &record.Result
	err := row.Scan(&record.ID, &record.Chart, &r.TotalScore, &r.Combo, &r.MaxCombo, &r.Accuracy, &rank, &r.Mode, &mods, &date, &data)
	if nil != err {
		return nil, err
	}
	if err := r.Rank.UnmarshalText([]byte(rank)); nil != err {
		return nil, err
	}
	var stats []StatisticCompact
	if err := json.Unmarshal(data, &stats); nil != err {
		return nil, errors.Wrap(err, "unable to unmarshal statistics")
	}
	r.Statistics = uncompactStatistics(stats)
	if mods != "" {
		r.Mods = strings.Split(mods, ",")
	}
	r.Date = date
	return &record, nil
}
