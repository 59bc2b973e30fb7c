package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/appclacks/sloreport/pkg/slo/aggregates"
	"github.com/jmoiron/sqlx"
	er "github.com/mcorbin/corbierror"
)

type sloRecordAggregated struct {
	Name      string
	StartedAt time.Time `db:"started_at"`
	Success   bool
	Value     int64
}

type sloRecordSummed struct {
	Name    string
	Success bool
	Value   int64
}

type dbSLO struct {
	ID          string
	Name        string
	Description *string
	Labels      *string
	Objective   *float64
	Filter      *string
	CreatedAt   time.Time `db:"created_at"`
}

const sloColumns = "slo.id, slo.name, slo.description, slo.labels, slo.objective, slo.filter, slo.created_at"

func toSLO(slo *dbSLO) (*aggregates.SLO, error) {
	labels, err := stringToLabels(slo.Labels)
	if err != nil {
		return nil, err
	}
	return &aggregates.SLO{
		ID:          slo.ID,
		Name:        slo.Name,
		Description: slo.Description,
		Labels:      labels,
		Objective:   slo.Objective,
		Filter:      slo.Filter,
		CreatedAt:   slo.CreatedAt.UTC(),
	}, nil
}

func (c *Database) rollback(tx *sqlx.Tx, shouldRollback *bool) {
	if *shouldRollback {
		err := tx.Rollback()
		if err != nil {
			c.Logger.Error(err.Error())
		}
	}
}

func (c *Database) CreateSLO(ctx context.Context, slo aggregates.SLO) error {
	sloExists := dbSLO{}
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("fail to start transaction: %w", err)
	}
	shouldRollback := true
	defer c.rollback(tx, &shouldRollback)
	lock := fmt.Sprintf("slo-%s", slo.Name)
	_, err = tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", lock)
	if err != nil {
		return err
	}
	err = tx.GetContext(ctx, &sloExists, "SELECT slo.id, slo.name FROM slo WHERE name=$1", slo.Name)
	if err != nil {
		if err != sql.ErrNoRows {
			return fmt.Errorf("fail to get SLO %s: %w", slo.Name, err)
		}
	} else {
		return er.Newf("a SLO named %s already exists", er.Conflict, true, slo.Name)
	}
	labels, err := labelsToString(slo.Labels)
	if err != nil {
		return err
	}
	data := dbSLO{
		ID:          slo.ID,
		Name:        slo.Name,
		Description: slo.Description,
		Labels:      labels,
		Objective:   slo.Objective,
		Filter:      slo.Filter,
		CreatedAt:   slo.CreatedAt,
	}
	result, err := tx.NamedExecContext(ctx, "INSERT INTO slo (id, name, description, labels, created_at, objective, filter) VALUES (:id, :name, :description, :labels, :created_at, :objective, :filter)", data)
	if err != nil {
		return fmt.Errorf("fail to create SLO %s: %w", data.Name, err)
	}
	err = checkResult(result, 1)
	if err != nil {
		return err
	}
	err = tx.Commit()
	if err != nil {
		return err
	}
	shouldRollback = false
	return nil
}

func (c *Database) GetSLO(ctx context.Context, id string) (*aggregates.SLO, error) {
	slo := dbSLO{}
	err := c.db.GetContext(ctx, &slo, fmt.Sprintf("SELECT %s FROM slo WHERE id=$1", sloColumns), id)
	if err != nil {
		if err != sql.ErrNoRows {
			return nil, fmt.Errorf("fail to get SLO %s: %w", id, err)
		}
		return nil, er.New("SLO not found", er.NotFound, true)
	}
	return toSLO(&slo)
}

func (c *Database) GetSLOByName(ctx context.Context, name string) (*aggregates.SLO, error) {
	slo := dbSLO{}
	err := c.db.GetContext(ctx, &slo, fmt.Sprintf("SELECT %s FROM slo WHERE name=$1", sloColumns), name)
	if err != nil {
		if err != sql.ErrNoRows {
			return nil, fmt.Errorf("fail to get SLO %s: %w", name, err)
		}
		return nil, er.New("SLO not found", er.NotFound, true)
	}
	return toSLO(&slo)
}

func (c *Database) ListSLOs(ctx context.Context) ([]*aggregates.SLO, error) {
	slos := []dbSLO{}
	err := c.db.SelectContext(ctx, &slos, fmt.Sprintf("SELECT %s FROM slo ORDER BY slo.name", sloColumns))
	if err != nil {
		return nil, fmt.Errorf("fail to list SLOs: %w", err)
	}
	result := []*aggregates.SLO{}
	for i := range slos {
		slo, err := toSLO(&slos[i])
		if err != nil {
			return nil, err
		}
		result = append(result, slo)
	}
	return result, nil
}

// DeleteSLO removes the definition and the records aggregated under its name.
func (c *Database) DeleteSLO(ctx context.Context, id string) error {
	slo, err := c.GetSLO(ctx, id)
	if err != nil {
		return err
	}
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("fail to start transaction: %w", err)
	}
	shouldRollback := true
	defer c.rollback(tx, &shouldRollback)
	result, err := tx.ExecContext(ctx, "DELETE FROM slo WHERE id=$1", id)
	if err != nil {
		return fmt.Errorf("fail to delete SLO: %w", err)
	}
	err = checkResult(result, 1)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM slo_records_aggregated WHERE name=$1", slo.Name)
	if err != nil {
		return fmt.Errorf("fail to delete records of SLO %s: %w", slo.Name, err)
	}
	err = tx.Commit()
	if err != nil {
		return err
	}
	shouldRollback = false
	return nil
}

// AddRecord adds the record value to the current hourly bucket of its
// (name, success) pair, opening a new bucket when the last one is older
// than an hour.
func (c *Database) AddRecord(ctx context.Context, record aggregates.Record) error {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("fail to start transaction: %w", err)
	}
	shouldRollback := true
	defer c.rollback(tx, &shouldRollback)
	lock := fmt.Sprintf("%s-%t", record.Name, record.Success)
	_, err = tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", lock)
	if err != nil {
		return err
	}

	currentAggregation := sloRecordAggregated{}
	err = tx.GetContext(ctx, &currentAggregation, "SELECT name, started_at, success, value FROM slo_records_aggregated WHERE name=$1 AND success=$2 ORDER BY started_at DESC limit 1", record.Name, record.Success)
	if err != nil {
		if err != sql.ErrNoRows {
			return err
		}
	}
	now := time.Now().UTC()
	if currentAggregation.Name == "" || currentAggregation.StartedAt.Before(now.Add(-1*time.Hour)) {
		newAggregation := sloRecordAggregated{
			Name:      record.Name,
			StartedAt: now,
			Value:     record.Value,
			Success:   record.Success,
		}
		c.Logger.Debug(fmt.Sprintf("creating SLO aggregation %s - success %t", record.Name, record.Success))
		result, err := tx.NamedExecContext(ctx, "INSERT INTO slo_records_aggregated(name, started_at, success, value) VALUES (:name, :started_at, :success, :value)", newAggregation)
		if err != nil {
			return err
		}
		err = checkResult(result, 1)
		if err != nil {
			return err
		}
	} else {
		updatedAggregation := sloRecordAggregated{
			Name:      currentAggregation.Name,
			StartedAt: currentAggregation.StartedAt,
			Success:   currentAggregation.Success,
			Value:     currentAggregation.Value + record.Value,
		}
		c.Logger.Debug(fmt.Sprintf("updating SLO aggregation %s - success %t", currentAggregation.Name, currentAggregation.Success))
		result, err := tx.NamedExecContext(ctx, "UPDATE slo_records_aggregated SET value=:value where name=:name AND started_at=:started_at AND success=:success", updatedAggregation)
		if err != nil {
			return err
		}
		err = checkResult(result, 1)
		if err != nil {
			return err
		}
	}
	err = tx.Commit()
	if err != nil {
		return err
	}
	shouldRollback = false
	return nil
}

func (c *Database) ListAggregatedRecords(ctx context.Context, threshold time.Time) ([]*aggregates.SLOSum, error) {
	recordsSummed := []sloRecordSummed{}
	err := c.db.SelectContext(ctx, &recordsSummed, "SELECT name, success, sum(value) as value FROM slo_records_aggregated WHERE started_at > $1 GROUP BY (name, success)", threshold)
	if err != nil {
		return nil, fmt.Errorf("fail to sum SLO records: %w", err)
	}
	sumMap := make(map[string]*aggregates.SLOSum)
	names := []string{}
	for i := range recordsSummed {
		dbSum := recordsSummed[i]
		_, ok := sumMap[dbSum.Name]
		if !ok {
			sumMap[dbSum.Name] = &aggregates.SLOSum{
				Name:      dbSum.Name,
				StartDate: threshold,
			}
			names = append(names, dbSum.Name)
		}
		if dbSum.Success {
			sumMap[dbSum.Name].Success = dbSum.Value
		} else {
			sumMap[dbSum.Name].Failure = dbSum.Value
		}
	}

	sumResult := []*aggregates.SLOSum{}
	for _, name := range names {
		sumResult = append(sumResult, sumMap[name])
	}
	return sumResult, nil
}
