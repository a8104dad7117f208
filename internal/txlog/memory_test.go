package txlog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhendriks/photoregister/internal/model"
)

func TestMemory_Record(t *testing.T) {
	m := NewMemory()

	rec := model.TransactionRecord{
		ID:        uuid.New(),
		Outcome:   model.OutcomeResponded,
		CreatedAt: time.Now(),
	}
	require.NoError(t, m.Record(context.Background(), rec))

	got := m.Records()
	require.Len(t, got, 1)
	assert.Equal(t, rec.ID, got[0].ID)
	assert.Equal(t, model.OutcomeResponded, got[0].Outcome)
}

func TestMemory_Concurrent(t *testing.T) {
	m := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Record(context.Background(), model.TransactionRecord{
				ID:        uuid.New(),
				Outcome:   model.OutcomeRejected,
				CreatedAt: time.Now(),
			})
		}()
	}
	wg.Wait()

	assert.Len(t, m.Records(), 50)
}
