package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to AdStatus
		want     bool
	}{
		{AdDraft, AdPublished, true},
		{AdDraft, AdDeleted, true},
		{AdDraft, AdInProgress, false},
		{AdPublished, AdInProgress, true},
		{AdPublished, AdDeleted, true},
		{AdPublished, AdCompleted, false},
		{AdInProgress, AdCompleted, true},
		{AdInProgress, AdPublished, true},
		{AdInProgress, AdDeleted, false},
		{AdCompleted, AdPublished, false},
		{AdDeleted, AdPublished, false},
		{AdPending, AdPublished, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s->%s", tt.from, tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestAdStatusPredicates(t *testing.T) {
	assert.True(t, AdCompleted.Terminal())
	assert.True(t, AdDeleted.Terminal())
	assert.False(t, AdInProgress.Terminal())

	assert.True(t, AdDraft.Editable())
	assert.True(t, AdPublished.Editable())
	assert.False(t, AdInProgress.Editable())

	assert.True(t, AdInProgress.Valid())
	assert.False(t, AdStatus("assigned").Valid())
}

func TestFieldErrorUnwraps(t *testing.T) {
	err := fmt.Errorf("create ad: %w", OnField("cost", ErrInsufficientFunds))

	assert.True(t, errors.Is(err, ErrInsufficientFunds))

	var fe *FieldError
	assert.True(t, errors.As(err, &fe))
	assert.Equal(t, "cost", fe.Field)
	assert.Nil(t, OnField("cost", nil))
}

func TestValidationErrorMessageIsStable(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"name": "is required", "cost": "must be positive"}}
	assert.Equal(t, "validation failed: cost: must be positive; name: is required", err.Error())
}

func TestLedgerEntryDirectionJSON(t *testing.T) {
	e := LedgerEntry{ID: "e1", Type: EntryReplenish, Direction: Credit, Amount: 10}
	b, err := json.Marshal(e)
	assert.NoError(t, err)
	assert.Contains(t, string(b), `"direction":"credit"`)

	var back LedgerEntry
	assert.NoError(t, json.Unmarshal([]byte(`{"direction":"debit"}`), &back))
	assert.Equal(t, Debit, back.Direction)
}
