package database

// Atomic write helpers.
//
// SurrealDB transactions over the driver are batch-only, so every pattern
// here accumulates statements and sends them in one BEGIN/COMMIT block.
// There is no isolation between Add calls.
//
// AtomicBatch covers the common case of a handful of statements that must
// land together:
//
//	batch := NewAtomicBatch()
//	batch.Add(query1, vars1)
//	batch.Add(query2, vars2)
//	batch.Execute(ctx, db)
//
// TxBuilder is the lower-level piece. It namespaces variables so queries
// from different call sites can both bind $email without clobbering each
// other. UnitOfWork layers compensating rollback handlers on top for
// service code, and MultiStepOperation runs sequential steps with reverse
// rollback when one fails.

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
)

// TxBuilder assembles a transaction from independent statements, rewriting
// each statement's variables to a unique name before merging the bindings.
type TxBuilder struct {
	statements []string
	vars       map[string]interface{}
	varCounter uint64
}

// NewTxBuilder returns an empty builder.
func NewTxBuilder() *TxBuilder {
	return &TxBuilder{
		statements: make([]string, 0),
		vars:       make(map[string]interface{}),
	}
}

// Add appends a statement, renaming its variables to builder-unique names.
// The returned map records what each variable was renamed to.
func (tb *TxBuilder) Add(query string, vars map[string]interface{}) map[string]string {
	varMapping := make(map[string]string)
	newQuery := query

	for varName, varValue := range vars {
		counter := atomic.AddUint64(&tb.varCounter, 1)
		newVarName := fmt.Sprintf("v%d_%s", counter, varName)

		newQuery = strings.ReplaceAll(newQuery, "$"+varName, "$"+newVarName)

		tb.vars[newVarName] = varValue
		varMapping[varName] = newVarName
	}

	tb.statements = append(tb.statements, newQuery)
	return varMapping
}

// AddRaw appends a statement verbatim, with no variable rewriting.
func (tb *TxBuilder) AddRaw(query string) {
	tb.statements = append(tb.statements, query)
}

// Build wraps the accumulated statements in a transaction block and returns
// the full query with its merged bindings.
func (tb *TxBuilder) Build() (string, map[string]interface{}) {
	if len(tb.statements) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("BEGIN TRANSACTION;\n")
	for _, stmt := range tb.statements {
		sb.WriteString(stmt)
		if !strings.HasSuffix(strings.TrimSpace(stmt), ";") {
			sb.WriteString(";")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("COMMIT TRANSACTION;")

	return sb.String(), tb.vars
}

// ExecuteTransaction sends a built transaction to the database.
func ExecuteTransaction(ctx context.Context, db Database, tb *TxBuilder) ([]interface{}, error) {
	query, vars := tb.Build()
	if query == "" {
		return nil, nil
	}

	return db.Query(ctx, query, vars)
}

// UnitOfWork groups writes that must land together and lets callers attach
// compensating handlers that run when the commit fails.
type UnitOfWork struct {
	db       Database
	builder  *TxBuilder
	rollback func(ctx context.Context) error
}

// NewUnitOfWork returns an empty unit of work bound to db.
func NewUnitOfWork(db Database) *UnitOfWork {
	return &UnitOfWork{
		db:      db,
		builder: NewTxBuilder(),
	}
}

// Add queues a statement.
func (uow *UnitOfWork) Add(query string, vars map[string]interface{}) {
	uow.builder.Add(query, vars)
}

// AddWithRollback queues a statement together with a handler to run if the
// commit fails. Handlers chain so every registered one gets a chance.
func (uow *UnitOfWork) AddWithRollback(query string, vars map[string]interface{}, rollback func(ctx context.Context) error) {
	uow.builder.Add(query, vars)
	if rollback != nil {
		prevRollback := uow.rollback
		uow.rollback = func(ctx context.Context) error {
			if prevRollback != nil {
				if err := prevRollback(ctx); err != nil {
					// A failed handler must not stop the rest of the chain
					fmt.Printf("Rollback error: %v\n", err)
				}
			}
			return rollback(ctx)
		}
	}
}

// Commit sends the queued statements as one transaction, running the
// rollback chain when it fails.
func (uow *UnitOfWork) Commit(ctx context.Context) error {
	_, err := ExecuteTransaction(ctx, uow.db, uow.builder)
	if err != nil {
		if uow.rollback != nil {
			_ = uow.rollback(ctx)
		}
		return err
	}
	return nil
}

// MultiStepOperation runs named steps in order. A failing step stops the
// run and triggers the rollback of every step that already completed, in
// reverse order.
type MultiStepOperation struct {
	db    Database
	steps []multiStep
}

type multiStep struct {
	name     string
	execute  func(ctx context.Context, db Database) error
	rollback func(ctx context.Context, db Database) error
}

// NewMultiStepOperation returns an operation with no steps.
func NewMultiStepOperation(db Database) *MultiStepOperation {
	return &MultiStepOperation{
		db:    db,
		steps: make([]multiStep, 0),
	}
}

// AddStep appends a step. The rollback may be nil for steps with nothing
// to undo.
func (mso *MultiStepOperation) AddStep(name string, execute func(ctx context.Context, db Database) error, rollback func(ctx context.Context, db Database) error) {
	mso.steps = append(mso.steps, multiStep{
		name:     name,
		execute:  execute,
		rollback: rollback,
	})
}

// Execute runs the steps in order, unwinding completed ones on failure.
func (mso *MultiStepOperation) Execute(ctx context.Context) error {
	completedSteps := make([]int, 0, len(mso.steps))

	for i, step := range mso.steps {
		if err := step.execute(ctx, mso.db); err != nil {
			for j := len(completedSteps) - 1; j >= 0; j-- {
				stepIdx := completedSteps[j]
				if mso.steps[stepIdx].rollback != nil {
					if rbErr := mso.steps[stepIdx].rollback(ctx, mso.db); rbErr != nil {
						// Keep unwinding even when one rollback fails
						fmt.Printf("Rollback failed for step %s: %v\n", mso.steps[stepIdx].name, rbErr)
					}
				}
			}
			return fmt.Errorf("step %s failed: %w", step.name, err)
		}
		completedSteps = append(completedSteps, i)
	}

	return nil
}

// AtomicBatch is the fluent front for the common all-or-nothing case.
type AtomicBatch struct {
	queries []batchQuery
}

type batchQuery struct {
	query string
	vars  map[string]interface{}
}

// NewAtomicBatch returns an empty batch.
func NewAtomicBatch() *AtomicBatch {
	return &AtomicBatch{
		queries: make([]batchQuery, 0),
	}
}

// Add queues a query and returns the batch for chaining.
func (ab *AtomicBatch) Add(query string, vars map[string]interface{}) *AtomicBatch {
	ab.queries = append(ab.queries, batchQuery{query: query, vars: vars})
	return ab
}

// Execute sends the queued queries as one transaction.
func (ab *AtomicBatch) Execute(ctx context.Context, db Database) error {
	if len(ab.queries) == 0 {
		return nil
	}

	tb := NewTxBuilder()
	for _, q := range ab.queries {
		tb.Add(q.query, q.vars)
	}

	_, err := ExecuteTransaction(ctx, db, tb)
	return err
}

// Len reports how many queries are queued.
func (ab *AtomicBatch) Len() int {
	return len(ab.queries)
}
