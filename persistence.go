package sort_experiment

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	log "github.com/sirupsen/logrus"
	gorm "gorm.io/gorm"
)

var ErrRunNotFound = errors.New("experiment run not found")

type PersistenceConfig struct {
	Enabled       bool     `toml:"enabled" yaml:"enabled"`
	Name          string   `toml:"name" yaml:"name"`
	Path          string   `toml:"path" yaml:"path"`
	SQLitePragmas []string `toml:"sqlite_pragmas" yaml:"sqlite_pragmas"`
	SQLiteOptions []string `toml:"sqlite_options" yaml:"sqlite_options"`
}

func DefaultPersistenceConfig() *PersistenceConfig {
	return &PersistenceConfig{
		Enabled:       true,
		Name:          "sortexp.db",
		Path:          ".",
		SQLitePragmas: []string{"journal_mode(WAL)", "busy_timeout(5000)"},
	}
}

// DSN joins the database file with its pragmas and driver options.
func (c *PersistenceConfig) DSN() string {
	params := make([]string, 0, len(c.SQLitePragmas)+len(c.SQLiteOptions))
	for _, prag := range c.SQLitePragmas {
		params = append(params, "_pragma="+prag)
	}
	params = append(params, c.SQLiteOptions...)

	dsn := filepath.Join(c.Path, c.Name)
	if len(params) > 0 {
		dsn += "?" + strings.Join(params, "&")
	}
	return dsn
}

type Persistence struct {
	Config *PersistenceConfig
	DB     *gorm.DB
}

func NewPersistence(config *PersistenceConfig) (*Persistence, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if len(config.Path) == 0 {
		return nil, fmt.Errorf("Path to database must be defined")
	}

	if len(config.Name) == 0 {
		return nil, fmt.Errorf("Name of database must be defined")
	}

	db, err := gorm.Open(sqlite.Open(config.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", config.DSN(), err)
	}

	db = db.Session(&gorm.Session{PrepareStmt: true, CreateBatchSize: 100})

	p := &Persistence{Config: config, DB: db}
	if err = p.initialize(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Persistence) initialize() error {
	if err := p.DB.AutoMigrate(
		&ExperimentRun{},
		&TrialRecord{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	return nil
}

func (p *Persistence) Shutdown() {
	if sqldb, err := p.DB.DB(); err != nil {
		log.Errorf("Failed to retrieve raw DB: %v", err)
	} else if err := sqldb.Close(); err != nil {
		log.Errorf("Failed to close DB: %v", err)
	}
}

// SaveRun stores the run and its results in one transaction.
func (p *Persistence) SaveRun(run *ExperimentRun) (uint, error) {
	if run == nil {
		return 0, fmt.Errorf("ExperimentRun cannot be nil")
	}

	if result := p.DB.Create(run); result.Error != nil {
		return 0, fmt.Errorf("failed to save experiment run: %w", result.Error)
	}

	log.WithFields(log.Fields{
		"run":     run.ID,
		"outcome": run.Outcome,
		"results": len(run.Results),
	}).Info("Experiment run saved")

	return run.ID, nil
}

// LoadRun loads a run with its results in ascending size order.
func (p *Persistence) LoadRun(id uint) (*ExperimentRun, error) {
	run := &ExperimentRun{}
	result := p.DB.
		Preload("Results", func(db *gorm.DB) *gorm.DB { return db.Order("size ASC") }).
		First(run, id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrRunNotFound, id)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load experiment run %d: %w", id, result.Error)
	}
	return run, nil
}

// ListRuns returns runs created at or after since, newest first. A zero since
// means no lower bound, limit <= 0 means no limit. Results are not loaded.
func (p *Persistence) ListRuns(since time.Time, limit int) ([]*ExperimentRun, error) {
	q := p.DB.Model(&ExperimentRun{}).Order("created_at DESC, id DESC")
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var runs []*ExperimentRun
	if err := q.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list experiment runs: %w", err)
	}
	return runs, nil
}

type PruneResult struct {
	TotalRuns      int64
	KeptRuns       int64
	DeletedRuns    int64
	DeletedResults int64
}

// PruneRuns deletes every run except the newest keep runs, together with their
// results. With dryRun set nothing is deleted and the counts are what would be.
func (p *Persistence) PruneRuns(keep int, dryRun bool) (*PruneResult, error) {
	if keep < 0 {
		return nil, fmt.Errorf("keep must not be negative, got %d", keep)
	}

	result := &PruneResult{}
	err := p.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&ExperimentRun{}).Count(&result.TotalRuns).Error; err != nil {
			return err
		}

		var keepIDs []uint
		if keep > 0 {
			if err := tx.Model(&ExperimentRun{}).
				Order("created_at DESC, id DESC").
				Limit(keep).
				Pluck("id", &keepIDs).Error; err != nil {
				return err
			}
		}
		result.KeptRuns = int64(len(keepIDs))

		runs := tx.Model(&ExperimentRun{})
		records := tx.Model(&TrialRecord{})
		if len(keepIDs) > 0 {
			runs = runs.Where("id NOT IN ?", keepIDs)
			records = records.Where("experiment_run_id NOT IN ?", keepIDs)
		} else {
			runs = runs.Where("1 = 1")
			records = records.Where("1 = 1")
		}

		if dryRun {
			result.DeletedRuns = result.TotalRuns - result.KeptRuns
			return records.Count(&result.DeletedResults).Error
		}

		del := records.Delete(&TrialRecord{})
		if del.Error != nil {
			return fmt.Errorf("failed to delete trial records: %w", del.Error)
		}
		result.DeletedResults = del.RowsAffected

		del = runs.Delete(&ExperimentRun{})
		if del.Error != nil {
			return fmt.Errorf("failed to delete experiment runs: %w", del.Error)
		}
		result.DeletedRuns = del.RowsAffected
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("prune failed: %w", err)
	}
	return result, nil
}

// RecordRun runs the experiment and, when p is not nil, stores the outcome
// whether or not the run succeeded.
func RecordRun(ctx context.Context, p *Persistence, runner *Runner) (*ExperimentRun, error) {
	results, runErr := runner.Run(ctx)
	run, err := NewExperimentRun(runner.Config, runner.Generator.Seed, results, runErr)
	if err != nil {
		if runErr != nil {
			return nil, fmt.Errorf("%w (and recording the run failed: %v)", runErr, err)
		}
		return nil, err
	}
	if p != nil {
		if _, err := p.SaveRun(run); err != nil {
			if runErr != nil {
				return run, fmt.Errorf("%w (and saving the run failed: %v)", runErr, err)
			}
			return run, err
		}
	}
	return run, runErr
}
