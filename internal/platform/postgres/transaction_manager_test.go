package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/casira/connect/internal/platform/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

// fakeTx implements only the parts of pgx.Tx that WithinTx touches
type fakeTx struct {
	pgx.Tx
	committed, rolledBack bool
	commitErr             error
}

func (f *fakeTx) Commit(context.Context) error {
	f.committed = true
	return f.commitErr
}

func (f *fakeTx) Rollback(context.Context) error {
	if !f.committed {
		f.rolledBack = true
	}
	return nil
}

type fakeManager struct {
	tx       *fakeTx
	beginErr error
	opts     pgx.TxOptions
}

func (m *fakeManager) BeginTx(_ context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	m.opts = opts
	if m.beginErr != nil {
		return nil, m.beginErr
	}
	return m.tx, nil
}

func TestWithinTx(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name         string
		manager      *fakeManager
		fnErr        error
		wantErr      error
		wantCommit   bool
		wantRollback bool
	}{
		{name: "commits on success", manager: &fakeManager{tx: &fakeTx{}}, wantCommit: true},
		{name: "rolls back on failure", manager: &fakeManager{tx: &fakeTx{}}, fnErr: boom, wantErr: boom, wantRollback: true},
		{name: "begin failure", manager: &fakeManager{beginErr: boom}, wantErr: boom},
		{name: "commit failure", manager: &fakeManager{tx: &fakeTx{commitErr: boom}}, wantErr: boom, wantCommit: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			err := postgres.WithinTx(context.Background(), tt.manager, func(pgx.Tx) error {
				called = true
				return tt.fnErr
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, pgx.ReadCommitted, tt.manager.opts.IsoLevel)
			if tt.manager.tx == nil {
				assert.False(t, called)
				return
			}
			assert.Equal(t, tt.wantCommit, tt.manager.tx.committed)
			assert.Equal(t, tt.wantRollback, tt.manager.tx.rolledBack)
		})
	}
}

func TestWithinTxOptions(t *testing.T) {
	manager := &fakeManager{tx: &fakeTx{}}
	opts := pgx.TxOptions{IsoLevel: pgx.Serializable, AccessMode: pgx.ReadOnly}

	err := postgres.WithinTxOptions(context.Background(), manager, opts, func(pgx.Tx) error { return nil })

	assert.NoError(t, err)
	assert.Equal(t, opts, manager.opts)
}
